package dump_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/render"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// pkt frames body as a new-format packet.
func pkt(tag int, body []byte) []byte {
	h := []byte{0xc0 | byte(tag)}
	switch l := len(body); {
	case l < 192:
		h = append(h, byte(l))
	case l < 8384:
		l -= 192
		h = append(h, byte(l>>8)+192, byte(l))
	default:
		h = append(h, 0xff, 0, 0, 0, 0)
		binary.BigEndian.PutUint32(h[2:], uint32(l))
	}
	return append(h, body...)
}

// oldPkt frames body as an old-format packet with a one-octet length.
func oldPkt(tag int, body []byte) []byte {
	return append([]byte{0x80 | byte(tag)<<2, byte(len(body))}, body...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func u32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// mpi encodes an 8-bit MPI with the given value.
func mpi(v byte) []byte { return []byte{0x00, 0x08, v} }

func subpacket(typ byte, data ...byte) []byte {
	return append([]byte{byte(len(data) + 1), typ}, data...)
}

func area(sps ...[]byte) []byte {
	a := cat(sps...)
	return append([]byte{byte(len(a) >> 8), byte(len(a))}, a...)
}

const fixtureTime = 1700000000

var issuer = []byte{1, 2, 3, 4, 5, 6, 7, 8}

// sigV4 is an RSA/SHA256 binary signature with a hashed creation time and an
// unhashed issuer key id.
func sigV4() []byte {
	return cat(
		[]byte{4, 0x00, 1, 8},
		area(subpacket(2, u32(fixtureTime)...)),
		area(subpacket(16, issuer...)),
		[]byte{0xab, 0xcd},
		mpi(0xff),
	)
}

// embeddingSig is sigV4 with inner carried in an unhashed embedded
// signature subpacket.
func embeddingSig(inner []byte) []byte {
	return cat(
		[]byte{4, 0x18, 1, 8},
		area(subpacket(2, u32(fixtureTime)...)),
		area(subpacket(16, issuer...), subpacket(32, inner...)),
		[]byte{0xab, 0xcd},
		mpi(0xff),
	)
}

// ed25519Sig is a v4 signature with native Ed25519 material.
func ed25519Sig() []byte {
	return cat(
		[]byte{4, 0x00, 27, 10},
		area(subpacket(2, u32(fixtureTime)...)),
		area(),
		[]byte{0x12, 0x34},
		bytes.Repeat([]byte{0xed}, 64),
	)
}

// eddsaKeyV4 is a v4 EdDSA public key on Ed25519.
func eddsaKeyV4() []byte {
	point := []byte{0x40}
	for i := 1; i <= 32; i++ {
		point = append(point, byte(i))
	}
	return cat(
		[]byte{4, 0x65, 0x53, 0xf1, 0x00, 22, 9},
		[]byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0xDA, 0x47, 0x0F, 0x01},
		[]byte{0x01, 0x07},
		point,
	)
}

func publicKeyV4() []byte {
	return cat([]byte{4}, u32(fixtureTime), []byte{1}, mpi(0xc1), []byte{0x00, 0x02, 0x03})
}

func secretKeyV4() []byte {
	return cat(publicKeyV4(), []byte{0}, mpi(0x11), mpi(0x13), mpi(0x17), mpi(0x19), []byte{0x00, 0x5a})
}

func literal(name, data string) []byte {
	return cat([]byte{'b', byte(len(name))}, []byte(name), u32(fixtureTime), []byte(data))
}

func aeadBody() []byte {
	return cat([]byte{1, 9, 1, 6}, bytes.Repeat([]byte{0xee}, 16), []byte("ciphertext"))
}

// allPackets returns one well-formed packet per known tag.
func allPackets() map[int][]byte {
	return map[int][]byte{
		1:  cat([]byte{3}, issuer, []byte{1}, mpi(0x42)),
		2:  sigV4(),
		3:  cat([]byte{4, 9, 3, 8}, bytes.Repeat([]byte{0x55}, 8), []byte{0x60}),
		4:  cat([]byte{3, 0x00, 8, 1}, issuer, []byte{1}),
		5:  secretKeyV4(),
		6:  publicKeyV4(),
		7:  secretKeyV4(),
		8:  cat([]byte{0}, pkt(13, []byte("inner"))),
		9:  bytes.Repeat([]byte{0x99}, 24),
		10: []byte("PGP"),
		11: literal("a.txt", "hello"),
		12: []byte{0, 0},
		13: []byte("Alice <a@example.org>"),
		14: publicKeyV4(),
		17: bytes.Repeat([]byte{0x01}, 12),
		18: cat([]byte{1}, bytes.Repeat([]byte{0x77}, 30)),
		19: bytes.Repeat([]byte{0x13}, 20),
		20: aeadBody(),
	}
}

func dumpText(t *testing.T, data []byte, opts dump.Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), stream.FromBytes(data), opts, render.NewText(&buf)); err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	return buf.String()
}

func dumpJSON(t *testing.T, data []byte, opts dump.Options) []map[string]any {
	t.Helper()
	js := render.NewJSON()
	if err := dump.Dump(context.Background(), stream.FromBytes(data), opts, js); err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	raw, err := js.Bytes("")
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	return out
}

func runStats(t *testing.T, data []byte, opts dump.Options) (dump.Stats, string) {
	t.Helper()
	c, err := dump.NewContext(context.Background(), opts)
	if err != nil {
		t.Fatalf("NewContext() error: %v", err)
	}
	var buf bytes.Buffer
	if err := c.Run(stream.FromBytes(data), render.NewText(&buf)); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	return c.Stats(), buf.String()
}
