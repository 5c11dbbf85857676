package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pgpdump/pkg/dump"
)

// YAMLIndent is the indent used for YAML output.
const YAMLIndent = 2

// YAML accumulates packets like [JSON] and writes them as a YAML sequence.
type YAML struct {
	root []*Object
}

// NewYAML returns an empty YAML backend.
func NewYAML() *YAML {
	return &YAML{root: []*Object{}}
}

// Emit converts n and appends it to the document.
func (y *YAML) Emit(n *dump.Node) error {
	if obj, ok := Tree(n); ok {
		y.root = append(y.root, obj)
	}
	return nil
}

// Value returns the accumulated objects.
func (y *YAML) Value() []*Object {
	return y.root[:len(y.root):len(y.root)]
}

// Encode writes the document to w.
func (y *YAML) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(y.root); err != nil {
		return err
	}
	return enc.Close()
}
