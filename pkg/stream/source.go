// Package stream provides the pull-based byte source consumed by the dump
// engine, along with the wrappers that sit in front of raw packet data:
// cleartext-signed messages, ASCII armor, and compressed sub-streams.
//
// A [Source] supports a bounded look-ahead ([Source.Peek]) so that packet
// headers and body previews can be inspected without consuming input. All
// reads are synchronous; there is no background buffering.
package stream

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// BufferSize is the read-ahead buffer of a [Source]. Peeks larger than this
// are clamped.
const BufferSize = 64 * 1024

// armorPeek is how far into the input the armor/cleartext checks look.
const armorPeek = 1024

var (
	cleartextBegin = []byte("-----BEGIN PGP SIGNED MESSAGE-----")
	armorBegin     = []byte("-----BEGIN PGP ")
	signatureBegin = []byte("\n-----BEGIN PGP SIGNATURE-----")
)

// ErrNoSignature is returned by [Source.SkipCleartext] when a cleartext-signed
// message has no signature block.
var ErrNoSignature = errors.New("stream: no signature block in cleartext signed data")

// Source is a byte source with bounded look-ahead and offset tracking.
type Source struct {
	r      *bufio.Reader
	off    int64
	closer io.Closer
}

// New wraps r in a Source. If r is an io.Closer it is closed by [Source.Close].
func New(r io.Reader) *Source {
	s := &Source{r: bufio.NewReaderSize(r, BufferSize)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// FromBytes returns a Source reading from b.
func FromBytes(b []byte) *Source {
	return New(bytes.NewReader(b))
}

// Offset returns the number of bytes consumed so far.
func (s *Source) Offset() int64 { return s.off }

// EOF reports whether no more bytes can be read.
func (s *Source) EOF() bool {
	_, err := s.r.Peek(1)
	return err != nil
}

// Peek returns up to n bytes without consuming them. A short result is
// returned together with io.EOF (or io.ErrUnexpectedEOF when some bytes were
// available) only when the underlying reader is exhausted; other read errors
// are returned as is.
func (s *Source) Peek(n int) ([]byte, error) {
	if n > BufferSize {
		n = BufferSize
	}
	b, err := s.r.Peek(n)
	if err == io.EOF && len(b) > 0 {
		err = io.ErrUnexpectedEOF
	}
	return b, err
}

// PeekUpTo returns up to n bytes without consuming them, treating end of input
// as a short result rather than an error.
func (s *Source) PeekUpTo(n int) ([]byte, error) {
	b, err := s.Peek(n)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return b, err
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.off += int64(n)
	return n, err
}

// Skip consumes up to n bytes and returns how many were skipped.
func (s *Source) Skip(n int64) (int64, error) {
	skipped, err := io.CopyN(io.Discard, s.r, n)
	s.off += skipped
	return skipped, err
}

// Close releases the underlying reader if it is closable.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// IsCleartext reports whether the input starts with a cleartext-signed
// message header.
func (s *Source) IsCleartext() bool {
	b, _ := s.PeekUpTo(armorPeek)
	return bytes.HasPrefix(bytes.TrimLeft(b, " \t\r\n"), cleartextBegin)
}

// IsArmored reports whether the input is an ASCII-armored block. Binary
// packet data always has the high bit set in its first byte, so only
// text-looking input is searched for the armor header line.
func (s *Source) IsArmored() bool {
	b, _ := s.PeekUpTo(armorPeek)
	if len(b) == 0 || b[0]&0x80 != 0 {
		return false
	}
	idx := bytes.Index(b, armorBegin)
	if idx < 0 {
		return false
	}
	return !bytes.HasPrefix(b[idx:], cleartextBegin)
}

// SkipCleartext advances past the signed text of a cleartext-signed message,
// leaving the source positioned at the "-----BEGIN PGP SIGNATURE-----" line.
// The text is scanned in bounded windows of scanWindow bytes.
func (s *Source) SkipCleartext() error {
	const scanWindow = 4095
	for !s.EOF() {
		b, err := s.PeekUpTo(scanWindow)
		if err != nil {
			return err
		}
		if len(b) <= len(signatureBegin) {
			return ErrNoSignature
		}
		if idx := bytes.Index(b, signatureBegin); idx >= 0 {
			// leading newline belongs to the signed text
			_, err := s.Skip(int64(idx + 1))
			return err
		}
		if _, err := s.Skip(int64(len(b) - len(signatureBegin) + 1)); err != nil {
			return err
		}
	}
	return ErrNoSignature
}
