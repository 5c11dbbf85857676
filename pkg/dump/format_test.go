package dump

import (
	"strings"
	"testing"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

func TestFormatTime(t *testing.T) {
	if got, want := FormatTime(1700000000), "1700000000 (Tue Nov 14 22:13:20 2023)"; got != want {
		t.Errorf("FormatTime() = %q, want %q", got, want)
	}
	if got, want := FormatTime(0), "0 (Thu Jan  1 00:00:00 1970)"; got != want {
		t.Errorf("FormatTime(0) = %q, want %q", got, want)
	}
}

func TestFormatExpiration(t *testing.T) {
	tests := []struct {
		in   uint32
		want string
	}{
		{0, "0 (never)"},
		{86400, "86400 seconds (1 days)"},
		{3600, "3600 seconds (0 days)"},
	}
	for _, tt := range tests {
		if got := FormatExpiration(tt.in); got != tt.want {
			t.Errorf("FormatExpiration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"int", Int(-3), "-3"},
		{"bool", Bool(true), "1"},
		{"char", Char('b'), "'b'"},
		{"hex", Hex{Data: []byte{0xde, 0xad}}, "0xdead"},
		{"hex with len", Hex{Data: []byte{0xde, 0xad}, WithLen: true}, "0xdead (2 bytes)"},
		{"count", Count(12), "12 bytes"},
		{"alg", Alg{ID: 8, Table: algo.HashAlgorithms}, "8 (SHA256)"},
		{"unknown alg", Alg{ID: 200, Table: algo.HashAlgorithms}, "200 (" + algo.Unknown + ")"},
		{"alg list", AlgList{IDs: []int{8, 2}, Table: algo.HashAlgorithms}, "SHA256, SHA1 (8, 2)"},
		{"flags", Flags{Value: 0x03, Names: algo.KeyFlags, None: "none"}, "0x03 ( certify sign )"},
		{"no flags", Flags{Value: 0x00, Names: algo.KeyFlags, None: "none"}, "0x00 ( none)"},
		{"mpi", MPI{M: packet.MPI{Bytes: []byte{0x01, 0x00}}}, "9 bits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatScalar(tt.in)
			if !ok {
				t.Fatal("FormatScalar() ok = false")
			}
			if got != tt.want {
				t.Errorf("FormatScalar() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, ok := FormatScalar(Line("x")); ok {
		t.Error("Line formatted as scalar")
	}
}

func TestHexdumpLines(t *testing.T) {
	lines := HexdumpLines([]byte("Hello\x00world, this!"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want0 := "00000 | 48 65 6c 6c 6f 00 77 6f 72 6c 64 2c 20 74 68 69  | Hello.world, thi"
	if lines[0] != want0 {
		t.Errorf("line 0 = %q, want %q", lines[0], want0)
	}
	want1 := "00016 | 73 21 " + strings.Repeat("   ", 14) + " | s!" + strings.Repeat(" ", 14)
	if lines[1] != want1 {
		t.Errorf("line 1 = %q, want %q", lines[1], want1)
	}
	if HexdumpLines(nil) != nil {
		t.Error("HexdumpLines(nil) is not empty")
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		v          Visibility
		text, tree bool
	}{
		{Both, true, true},
		{TextOnly, true, false},
		{JSONOnly, false, true},
		{Gap, true, false},
	}
	for _, tt := range tests {
		if tt.v.InText() != tt.text || tt.v.InTree() != tt.tree {
			t.Errorf("Visibility(%d) = text %v tree %v, want %v %v", tt.v, tt.v.InText(), tt.v.InTree(), tt.text, tt.tree)
		}
	}
}

func TestNodeWalk(t *testing.T) {
	root := NewNode("root")
	a := root.Sub("a", "a", true)
	a.Text("line")
	root.Add("items", "", List{Items: []*Node{NewNode("x"), NewMarker("m", false)}})

	var seen []string
	root.Walk(func(n *Node) {
		switch {
		case n.Marker != "":
			seen = append(seen, ":"+n.Marker)
		case n.Title != "":
			seen = append(seen, n.Title)
		default:
			seen = append(seen, "-")
		}
	})
	if got := strings.Join(seen, ","); got != "root,-,x,:m" {
		t.Errorf("Walk order = %s", got)
	}
	if !root.Indent || NewNode("").Indent {
		t.Error("NewNode indent does not follow title")
	}
}
