package render

import (
	"io"
	"strings"

	"github.com/matzehuels/pgpdump/pkg/dump"
)

// IndentUnit is the text written once per indent level.
const IndentUnit = "    "

// IndentWriter writes to an underlying writer, prefixing every line with the
// current indent. The indent is written when the first byte of a line is
// written, so a line assembled from several writes is indented once.
type IndentWriter struct {
	w         io.Writer
	level     int
	lineStart bool
}

// NewIndentWriter returns an IndentWriter at level zero.
func NewIndentWriter(w io.Writer) *IndentWriter {
	return &IndentWriter{w: w, lineStart: true}
}

// Increase adds one indent level.
func (iw *IndentWriter) Increase() { iw.level++ }

// Decrease removes one indent level; it never goes below zero.
func (iw *IndentWriter) Decrease() {
	if iw.level > 0 {
		iw.level--
	}
}

// Set sets the indent level.
func (iw *IndentWriter) Set(level int) {
	if level < 0 {
		level = 0
	}
	iw.level = level
}

// Level returns the current indent level.
func (iw *IndentWriter) Level() int { return iw.level }

// Write implements io.Writer.
func (iw *IndentWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if iw.lineStart {
			if _, err := io.WriteString(iw.w, strings.Repeat(IndentUnit, iw.level)); err != nil {
				return written, err
			}
			iw.lineStart = false
		}
		end := len(p)
		for i, b := range p {
			if b == '\n' {
				end = i + 1
				iw.lineStart = true
				break
			}
		}
		n, err := iw.w.Write(p[:end])
		written += n
		if err != nil {
			return written, err
		}
		p = p[end:]
	}
	return written, nil
}

// Text renders nodes as the indented text dump. It streams: every emitted
// node is written immediately.
type Text struct {
	w   *IndentWriter
	err error
}

// NewText returns a text backend writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: NewIndentWriter(w)}
}

// Emit writes n and returns the first write error, if any.
func (t *Text) Emit(n *dump.Node) error {
	level := t.w.Level()
	t.node(n)
	t.w.Set(level)
	return t.err
}

func (t *Text) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s+"\n")
}

func (t *Text) node(n *dump.Node) {
	if n.Title != "" && n.Marker == "" {
		t.line(n.Title)
	}
	if n.Indent {
		t.w.Increase()
		defer t.w.Decrease()
	}
	if n.Marker != "" {
		t.line(":" + n.Marker)
		return
	}
	for _, e := range n.Entries {
		if e.Vis.InText() {
			t.entry(e)
		}
	}
}

func (t *Text) entry(e dump.Entry) {
	switch v := e.Value.(type) {
	case dump.Line:
		t.line(string(v))
	case dump.Blank:
		t.line("")
	case dump.Section:
		if e.Label != "" {
			t.line(e.Label + ":")
		}
		t.node(v.Node)
	case dump.List:
		if e.Label != "" {
			t.line(e.Label + ":")
		}
		if v.Indent {
			t.w.Increase()
			defer t.w.Decrease()
		}
		if len(v.Items) == 0 && v.Empty != "" {
			t.line(v.Empty)
		}
		for _, item := range v.Items {
			t.node(item)
		}
	case dump.Hexdump:
		if v.Heading != "" {
			t.line(v.Heading)
		}
		t.w.Increase()
		for _, l := range dump.HexdumpLines(v.Data) {
			t.line(l)
		}
		t.w.Decrease()
	case dump.Opaque:
		if v.Raw {
			t.line(e.Label + ", " + dump.HexString(v.Data))
		} else {
			t.line(e.Label)
		}
	default:
		s, ok := dump.FormatScalar(e.Value)
		if !ok {
			return
		}
		if e.Label == "" {
			t.line(s)
			return
		}
		t.line(e.Label + ": " + s)
	}
}
