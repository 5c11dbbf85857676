package packet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/matzehuels/pgpdump/pkg/stream"
)

// MaxPacketSize bounds packets that are parsed in memory (everything except
// compressed, literal and encrypted data, which are streamed).
const MaxPacketSize = 1 << 20

// Body reads the contents of one packet, following partial body chunks and
// stopping at the end of the packet.
type Body struct {
	src           *stream.Source
	left          int64 // bytes left in the current chunk
	last          bool  // current chunk is the final one
	indeterminate bool
	read          int64
	err           error
}

// OpenBody consumes the header described by hdr from src and returns a reader
// over the packet body.
func OpenBody(src *stream.Source, hdr Header) (*Body, error) {
	if _, err := src.Skip(int64(hdr.Size())); err != nil {
		return nil, fmt.Errorf("skip header: %w", err)
	}
	b := &Body{src: src}
	switch {
	case hdr.Indeterminate:
		b.indeterminate = true
	case hdr.Partial:
		b.left = partialChunkSize(hdr.Raw[1])
	default:
		b.left = hdr.Length
		b.last = true
	}
	return b, nil
}

// Read implements io.Reader.
func (b *Body) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if b.indeterminate {
		n, err := b.src.Read(p)
		b.read += int64(n)
		return n, err
	}
	for b.left == 0 {
		if b.last {
			return 0, io.EOF
		}
		if err := b.nextChunk(); err != nil {
			b.err = err
			return 0, err
		}
	}
	if int64(len(p)) > b.left {
		p = p[:b.left]
	}
	n, err := b.src.Read(p)
	b.left -= int64(n)
	b.read += int64(n)
	if err == io.EOF && b.left > 0 {
		err = io.ErrUnexpectedEOF
	}
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		b.err = err
	}
	return n, err
}

func (b *Body) nextChunk() error {
	var lb [4]byte
	if _, err := io.ReadFull(b.src, lb[:1]); err != nil {
		return fmt.Errorf("%w: partial length", ErrShortData)
	}
	l := lb[0]
	switch {
	case l < 192:
		b.left = int64(l)
		b.last = true
	case l < 224:
		if _, err := io.ReadFull(b.src, lb[:1]); err != nil {
			return fmt.Errorf("%w: partial length", ErrShortData)
		}
		b.left = (int64(l)-192)<<8 + int64(lb[0]) + 192
		b.last = true
	case l == 255:
		if _, err := io.ReadFull(b.src, lb[:4]); err != nil {
			return fmt.Errorf("%w: partial length", ErrShortData)
		}
		b.left = int64(binary.BigEndian.Uint32(lb[:]))
		b.last = true
	default:
		b.left = partialChunkSize(l)
	}
	return nil
}

// Consumed returns the number of body bytes read so far.
func (b *Body) Consumed() int64 { return b.read }

// Drain discards the rest of the body.
func (b *Body) Drain() error {
	_, err := io.Copy(io.Discard, b)
	return err
}

// ReadAll reads the whole body into memory, failing if it exceeds limit.
func (b *Body) ReadAll(limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(b, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: packet larger than %d bytes", ErrBadFormat, limit)
	}
	return data, nil
}
