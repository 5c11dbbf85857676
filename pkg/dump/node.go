package dump

import (
	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

// Visibility selects which backends render an entry.
type Visibility uint8

const (
	// Both renders the entry in every backend.
	Both Visibility = iota
	// TextOnly entries carry text-only decoration (section headings,
	// preformatted lines).
	TextOnly
	// JSONOnly entries carry structured fields that the text form already
	// shows in a combined line.
	JSONOnly
	// Gap marks material that the structured backends do not render yet
	// (Ed25519, X25519, Ed448 and X448 values). It renders as text only.
	Gap
)

// InText reports whether the entry is rendered by the text backend.
func (v Visibility) InText() bool { return v != JSONOnly }

// InTree reports whether the entry is rendered by the structured (JSON,
// YAML) backends.
func (v Visibility) InTree() bool { return v == Both || v == JSONOnly }

// Node is one rendered unit: a packet, a subpacket, a nested section or a
// marker. Nodes are built completely before being handed to a backend.
type Node struct {
	// Title is a text-only heading line, e.g. "Signature packet".
	Title string
	// Indent indents the entries below the title in text output.
	Indent bool
	// Marker makes the node a stream marker such as "armored input".
	Marker string
	// TextOnly hides the whole node from structured backends.
	TextOnly bool
	Entries  []Entry
}

// Entry is one named field of a Node.
type Entry struct {
	Key   string // structured key; empty flattens a nested node into its parent
	Label string // text label; empty renders a nested node inline
	Vis   Visibility
	Value Value
}

// Value is the payload of an Entry. The concrete types below form a closed
// set understood by every backend.
type Value interface{ value() }

type (
	// Int is a signed number.
	Int int64
	// String is a text value.
	String string
	// Bool renders as 0/1 in text and as a boolean in structured output.
	Bool bool
	// Time is a Unix timestamp, rendered with its calendar date in text.
	Time uint32
	// Expiration is a duration in seconds; zero means never.
	Expiration uint32
	// Char is a single format character, quoted in text.
	Char byte
	// Line is a preformatted text line with no label.
	Line string
	// Blank is an empty text line.
	Blank struct{}
)

// Hex is binary data rendered as a hex string. WithLen appends the byte
// count in text.
type Hex struct {
	Data    []byte
	WithLen bool
}

// Count is a byte count, rendered "N bytes" in text.
type Count int64

// Alg is an algorithm or type id together with its name table.
type Alg struct {
	ID    int
	Table algo.Table
}

// AlgList is an ordered list of algorithm ids.
type AlgList struct {
	IDs   []int
	Table algo.Table
}

// Flags is a bitmask decoded into named bits. None is printed when no bit
// is set.
type Flags struct {
	Value uint8
	Names []algo.Flag
	None  string
}

// MPI is a multiprecision integer; Raw includes its value, not just its size.
type MPI struct {
	M   packet.MPI
	Raw bool
}

// Opaque is fixed-size native key or signature material. Raw includes the
// bytes themselves.
type Opaque struct {
	Data []byte
	Raw  bool
}

// Hexdump is a block of bytes rendered as an offset/hex/ascii dump in text.
// Heading, when set, is printed verbatim before the dump.
type Hexdump struct {
	Heading string
	Data    []byte
}

// Section wraps a nested node.
type Section struct{ Node *Node }

// List is an ordered list of nested nodes. Indent indents the items in
// text; Empty is printed when there are none.
type List struct {
	Items  []*Node
	Indent bool
	Empty  string
}

func (Int) value()        {}
func (String) value()     {}
func (Bool) value()       {}
func (Time) value()       {}
func (Expiration) value() {}
func (Char) value()       {}
func (Line) value()       {}
func (Blank) value()      {}
func (Hex) value()        {}
func (Count) value()      {}
func (Alg) value()        {}
func (AlgList) value()    {}
func (Flags) value()      {}
func (MPI) value()        {}
func (Opaque) value()     {}
func (Hexdump) value()    {}
func (Section) value()    {}
func (List) value()       {}

// =============================================================================
// Builders
// =============================================================================

// NewNode returns a node with a title whose entries are indented.
func NewNode(title string) *Node {
	return &Node{Title: title, Indent: title != ""}
}

// NewMarker returns a marker node.
func NewMarker(text string, textOnly bool) *Node {
	return &Node{Marker: text, TextOnly: textOnly}
}

// Add appends an entry rendered by all backends.
func (n *Node) Add(key, label string, v Value) *Node {
	return n.AddVis(key, label, Both, v)
}

// AddVis appends an entry with explicit visibility.
func (n *Node) AddVis(key, label string, vis Visibility, v Value) *Node {
	n.Entries = append(n.Entries, Entry{Key: key, Label: label, Vis: vis, Value: v})
	return n
}

// Text appends a text-only line.
func (n *Node) Text(line string) *Node {
	return n.AddVis("", "", TextOnly, Line(line))
}

// Field adds a JSON-only scalar.
func (n *Node) Field(key string, v Value) *Node {
	return n.AddVis(key, "", JSONOnly, v)
}

// Sub appends a nested section and returns it.
func (n *Node) Sub(key, label string, indent bool) *Node {
	sub := &Node{Indent: indent}
	n.Add(key, label, Section{Node: sub})
	return sub
}

// Walk calls fn for n and every nested node in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, e := range n.Entries {
		switch v := e.Value.(type) {
		case Section:
			v.Node.Walk(fn)
		case List:
			for _, item := range v.Items {
				item.Walk(fn)
			}
		}
	}
}
