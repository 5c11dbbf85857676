package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewIndentWriter(&buf)

	w.Write([]byte("a\n"))
	w.Increase()
	w.Write([]byte("b"))
	w.Write([]byte("c\nd\n"))
	w.Increase()
	w.Write([]byte("\n"))
	w.Decrease()
	w.Decrease()
	w.Decrease()
	w.Write([]byte("e\n"))

	want := "a\n    bc\n    d\n        \ne\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if w.Level() != 0 {
		t.Errorf("Level() = %d, want 0", w.Level())
	}

	w.Set(3)
	if w.Level() != 3 {
		t.Errorf("Level() after Set(3) = %d", w.Level())
	}
	w.Set(-1)
	if w.Level() != 0 {
		t.Errorf("Level() after Set(-1) = %d, want 0", w.Level())
	}
}

func sampleNode() *dump.Node {
	pkt := &dump.Node{}
	h := pkt.Sub("header", "", false)
	h.Text(":off 0: packet header 0xcd01 (tag 13, len 1)")
	h.Field("tag", dump.Alg{ID: 13, Table: algo.PacketTags})

	n := dump.NewNode("Sample packet")
	n.Add("version", "version", dump.Int(4))
	n.Add("algorithm", "public key algorithm", dump.Alg{ID: 1, Table: algo.PublicKeyAlgorithms})
	n.Add("prefs", "preferred hash algorithms", dump.AlgList{IDs: []int{8, 2}, Table: algo.HashAlgorithms})
	n.Add("flags", "key flags", dump.Flags{Value: 0x01, Names: algo.KeyFlags, None: "none"})
	n.AddVis("", "ed25519", dump.Gap, dump.Opaque{Data: []byte{1, 2}})
	m := n.Sub("material", "material", true)
	m.Add("n", "rsa n", dump.MPI{M: packet.MPI{Bytes: []byte{0x01, 0xff}}, Raw: true})
	n.AddVis("", "items", dump.TextOnly, dump.List{Indent: true, Empty: "none"})
	n.Add("contents", "", dump.List{Items: []*dump.Node{dump.NewMarker("inner marker", false)}})
	pkt.Add("", "", dump.Section{Node: n})
	return pkt
}

func TestTextBackend(t *testing.T) {
	var buf bytes.Buffer
	tb := NewText(&buf)
	if err := tb.Emit(sampleNode()); err != nil {
		t.Fatalf("Emit() error: %v", err)
	}

	want := strings.Join([]string{
		":off 0: packet header 0xcd01 (tag 13, len 1)",
		"Sample packet",
		"    version: 4",
		"    public key algorithm: 1 (RSA (Encrypt or Sign))",
		"    preferred hash algorithms: SHA256, SHA1 (8, 2)",
		"    key flags: 0x01 ( certify )",
		"    ed25519",
		"    material:",
		"        rsa n: 9 bits, 01ff",
		"    items:",
		"        none",
		"    :inner marker",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("text =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTextBackendHexdump(t *testing.T) {
	n := &dump.Node{}
	n.Add("raw", "", dump.Hexdump{Heading: ":contents:", Data: []byte("0123456789abcdefXY")})

	var buf bytes.Buffer
	if err := NewText(&buf).Emit(n); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != ":contents:" {
		t.Errorf("heading = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    00000 | 30 31 ") || !strings.HasSuffix(lines[1], " | 0123456789abcdef") {
		t.Errorf("first line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    00016 | 58 59 ") {
		t.Errorf("second line = %q", lines[2])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextBackendWriteError(t *testing.T) {
	if err := NewText(failingWriter{}).Emit(sampleNode()); err == nil {
		t.Error("Emit() error = nil, want write error")
	}
}

func TestTree(t *testing.T) {
	obj, ok := Tree(sampleNode())
	if !ok {
		t.Fatal("Tree() ok = false")
	}

	wantKeys := []string{"header", "version", "algorithm", "algorithm.str", "prefs", "prefs.str", "flags", "flags.str", "material", "contents"}
	if got := obj.Keys(); strings.Join(got, ",") != strings.Join(wantKeys, ",") {
		t.Errorf("Keys() = %v, want %v", got, wantKeys)
	}

	mat, _ := obj.Get("material")
	m := mat.(*Object)
	if bits, _ := m.Get("n.bits"); bits != 9 {
		t.Errorf("n.bits = %v, want 9", bits)
	}
	if raw, _ := m.Get("n.raw"); raw != "01ff" {
		t.Errorf("n.raw = %v, want 01ff", raw)
	}

	if _, ok := Tree(dump.NewMarker("armored input", true)); ok {
		t.Error("text-only marker has a structured form")
	}
}

func TestKeyedMarkerSection(t *testing.T) {
	m := dump.NewMarker("too deep", false)
	m.Indent = true
	n := dump.NewNode("Outer")
	n.Add("signature", "embedded signature", dump.Section{Node: m})

	var buf bytes.Buffer
	if err := NewText(&buf).Emit(n); err != nil {
		t.Fatal(err)
	}
	if want := "Outer\n    embedded signature:\n        :too deep\n"; buf.String() != want {
		t.Errorf("text = %q, want %q", buf.String(), want)
	}

	obj, _ := Tree(n)
	sig, ok := obj.Get("signature")
	if !ok {
		t.Fatal("signature missing from tree")
	}
	if v, _ := sig.(*Object).Get("marker"); v != "too deep" {
		t.Errorf("signature.marker = %v", v)
	}
}

func TestObjectSetReplaces(t *testing.T) {
	o := &Object{}
	o.Set("a", 1)
	o.Set("b", 2)
	o.Set("a", 3)
	if got := o.Keys(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Keys() = %v", got)
	}
	if v, _ := o.Get("a"); v != 3 {
		t.Errorf("a = %v, want 3", v)
	}
}

func TestJSONBackend(t *testing.T) {
	js := NewJSON()
	if err := js.Emit(sampleNode()); err != nil {
		t.Fatal(err)
	}
	if err := js.Emit(dump.NewMarker("armored input", true)); err != nil {
		t.Fatal(err)
	}
	if js.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", js.Len())
	}

	var buf bytes.Buffer
	if err := js.Encode(&buf, "  "); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	s := buf.String()
	if strings.Index(s, `"version"`) > strings.Index(s, `"algorithm"`) {
		t.Error("key order not preserved")
	}

	var out []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	pkt := out[0]
	if pkt["algorithm.str"] != "RSA (Encrypt or Sign)" {
		t.Errorf("algorithm.str = %v", pkt["algorithm.str"])
	}
	if _, ok := pkt["ed25519"]; ok {
		t.Error("gap material rendered in JSON")
	}
	contents := pkt["contents"].([]any)
	if contents[0].(map[string]any)["marker"] != "inner marker" {
		t.Errorf("contents = %v", contents)
	}
	hdr := pkt["header"].(map[string]any)
	if hdr["tag.str"] != "User ID" {
		t.Errorf("header.tag.str = %v", hdr["tag.str"])
	}
}

func TestJSONEmpty(t *testing.T) {
	b, err := NewJSON().Bytes("")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]" {
		t.Errorf("empty JSON = %s, want []", b)
	}
}

func TestYAMLBackend(t *testing.T) {
	y := NewYAML()
	if err := y.Emit(sampleNode()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := y.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	s := buf.String()
	for _, want := range []string{"- header:", "version: 4", "algorithm.str: RSA (Encrypt or Sign)", "marker: inner marker"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in\n%s", want, s)
		}
	}
	if strings.Index(s, "version:") > strings.Index(s, "algorithm:") {
		t.Error("key order not preserved")
	}
}

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	js := NewJSON()
	m := Multi{NewText(&buf), js}
	if err := m.Emit(sampleNode()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 || js.Len() != 1 {
		t.Errorf("text %d bytes, json %d packets", buf.Len(), js.Len())
	}

	m = Multi{NewText(failingWriter{}), js}
	if err := m.Emit(sampleNode()); err == nil {
		t.Error("Multi.Emit() error = nil, want write error")
	}
	if js.Len() != 1 {
		t.Error("backend after a failing one was still called")
	}
}
