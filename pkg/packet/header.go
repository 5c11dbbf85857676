// Package packet parses the binary layout of OpenPGP packets.
//
// Parsers here only decode structure; they never verify signatures, decrypt
// data, or validate keys. Each parser takes the complete packet body (or, for
// streamed packets, a reader over it) and returns a plain struct that the dump
// engine renders. Malformed input yields an error wrapping one of
// [ErrShortData], [ErrBadFormat] or [ErrUnsupported].
package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/stream"
)

// MaxHeaderSize is the largest possible packet header (new format, five-octet
// length).
const MaxHeaderSize = 6

// Header is a decoded packet header.
type Header struct {
	Tag           int
	Length        int64 // body length; zero when Partial or Indeterminate
	Partial       bool  // new-format partial body length
	Indeterminate bool  // old-format length type 3, body runs to end of input
	NewFormat     bool
	Raw           []byte // header bytes as they appear on the wire
}

// Size returns the number of header bytes.
func (h Header) Size() int { return len(h.Raw) }

// PeekHeader decodes the packet header at the current position of src
// without consuming it.
func PeekHeader(src *stream.Source) (Header, error) {
	b, err := src.PeekUpTo(MaxHeaderSize)
	if err != nil {
		return Header{}, err
	}
	return ParseHeader(b)
}

// ParseHeader decodes a packet header from the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < 1 {
		return Header{}, fmt.Errorf("%w: empty header", ErrShortData)
	}
	ptag := b[0]
	if ptag&0x80 == 0 {
		return Header{}, fmt.Errorf("%w: bad packet header byte 0x%02x", ErrBadFormat, ptag)
	}

	if ptag&0x40 != 0 {
		return parseNewHeader(b)
	}
	return parseOldHeader(b)
}

func parseNewHeader(b []byte) (Header, error) {
	h := Header{Tag: int(b[0] & 0x3f), NewFormat: true}
	if len(b) < 2 {
		return Header{}, fmt.Errorf("%w: truncated header", ErrShortData)
	}
	l := b[1]
	switch {
	case l < 192:
		h.Length = int64(l)
		h.Raw = b[:2]
	case l < 224:
		if len(b) < 3 {
			return Header{}, fmt.Errorf("%w: truncated header", ErrShortData)
		}
		h.Length = (int64(l)-192)<<8 + int64(b[2]) + 192
		h.Raw = b[:3]
	case l == 255:
		if len(b) < 6 {
			return Header{}, fmt.Errorf("%w: truncated header", ErrShortData)
		}
		h.Length = int64(binary.BigEndian.Uint32(b[2:6]))
		h.Raw = b[:6]
	default:
		h.Partial = true
		h.Raw = b[:2]
	}
	h.Raw = clone(h.Raw)
	return h, nil
}

func parseOldHeader(b []byte) (Header, error) {
	h := Header{Tag: int(b[0]>>2) & 0x0f}
	var n int
	switch b[0] & 0x03 {
	case 0:
		n = 1
	case 1:
		n = 2
	case 2:
		n = 4
	case 3:
		h.Indeterminate = true
		h.Raw = clone(b[:1])
		return h, nil
	}
	if len(b) < 1+n {
		return Header{}, fmt.Errorf("%w: truncated header", ErrShortData)
	}
	for _, c := range b[1 : 1+n] {
		h.Length = h.Length<<8 | int64(c)
	}
	h.Raw = clone(b[:1+n])
	return h, nil
}

// partialChunkSize decodes a partial body length octet.
func partialChunkSize(l byte) int64 {
	return int64(1) << (l & 0x1f)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
