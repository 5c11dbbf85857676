package render

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/pgpdump/pkg/dump"
)

// JSON accumulates one ordered object per emitted packet. Packets are
// attached to the root only once they are complete.
type JSON struct {
	root []*Object
}

// NewJSON returns an empty JSON backend.
func NewJSON() *JSON {
	return &JSON{root: []*Object{}}
}

// Emit converts n and appends it to the root array.
func (j *JSON) Emit(n *dump.Node) error {
	if obj, ok := Tree(n); ok {
		j.root = append(j.root, obj)
	}
	return nil
}

// Value returns the root array. The caller owns it; later emits do not
// change the returned slice.
func (j *JSON) Value() []*Object {
	return j.root[:len(j.root):len(j.root)]
}

// Len returns the number of objects in the root array.
func (j *JSON) Len() int { return len(j.root) }

// Encode writes the root array to w. A non-empty indent pretty-prints.
func (j *JSON) Encode(w io.Writer, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(j.root)
}

// Bytes returns the encoded root array.
func (j *JSON) Bytes(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(j.root)
	}
	return json.MarshalIndent(j.root, "", indent)
}
