package packet

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// reader walks an in-memory packet body.
type reader struct {
	b   []byte
	off int
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) left() int { return len(r.b) - r.off }

func (r *reader) u8() (int, error) {
	if r.left() < 1 {
		return 0, ErrShortData
	}
	v := r.b[r.off]
	r.off++
	return int(v), nil
}

func (r *reader) u16() (int, error) {
	if r.left() < 2 {
		return 0, ErrShortData
	}
	v := binary.BigEndian.Uint16(r.b[r.off:])
	r.off += 2
	return int(v), nil
}

func (r *reader) u32() (uint32, error) {
	if r.left() < 4 {
		return 0, ErrShortData
	}
	v := binary.BigEndian.Uint32(r.b[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.left() < n {
		return nil, ErrShortData
	}
	v := r.b[r.off : r.off+n]
	r.off += n
	return v, nil
}

func (r *reader) rest() []byte {
	v := r.b[r.off:]
	r.off = len(r.b)
	return v
}

// MPI is a multiprecision integer as encoded on the wire.
type MPI struct {
	Bytes []byte // big-endian magnitude without leading zero bytes
}

// Bits returns the bit length of the value.
func (m MPI) Bits() int {
	if len(m.Bytes) == 0 {
		return 0
	}
	return (len(m.Bytes)-1)*8 + bits.Len8(m.Bytes[0])
}

func (r *reader) mpi() (MPI, error) {
	n, err := r.u16()
	if err != nil {
		return MPI{}, fmt.Errorf("%w: mpi length", ErrShortData)
	}
	b, err := r.bytes((n + 7) / 8)
	if err != nil {
		return MPI{}, fmt.Errorf("%w: mpi body", ErrShortData)
	}
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return MPI{Bytes: b}, nil
}

// field wraps a reader error with the name of the field being read.
func field(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}
