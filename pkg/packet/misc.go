package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// MarkerContents is the only valid body of a marker packet.
const MarkerContents = "PGP"

// ParseMarker validates a marker packet body.
func ParseMarker(body []byte) error {
	if !bytes.Equal(body, []byte(MarkerContents)) {
		return fmt.Errorf("%w: invalid marker contents", ErrBadFormat)
	}
	return nil
}

// OnePassSignature is a one-pass signature packet (v3 or v6).
type OnePassSignature struct {
	Version     int
	Type        int
	HashAlg     int
	PubKeyAlg   int
	KeyID       []byte // v3
	Salt        []byte // v6
	Fingerprint []byte // v6
	Nested      bool
}

// ParseOnePassSignature decodes a one-pass signature packet body.
func ParseOnePassSignature(body []byte) (*OnePassSignature, error) {
	r := newReader(body)
	o := &OnePassSignature{}

	var err error
	if o.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}
	if o.Version != 3 && o.Version != 6 {
		return nil, fmt.Errorf("%w: one-pass signature version %d", ErrUnsupported, o.Version)
	}
	if o.Type, err = r.u8(); err != nil {
		return nil, field("type", err)
	}
	if o.HashAlg, err = r.u8(); err != nil {
		return nil, field("hash algorithm", err)
	}
	if o.PubKeyAlg, err = r.u8(); err != nil {
		return nil, field("public key algorithm", err)
	}
	if o.Version == 3 {
		if o.KeyID, err = r.bytes(KeyIDSize); err != nil {
			return nil, field("key id", err)
		}
	} else {
		n, err := r.u8()
		if err != nil {
			return nil, field("salt length", err)
		}
		if o.Salt, err = r.bytes(n); err != nil {
			return nil, field("salt", err)
		}
		if o.Fingerprint, err = r.bytes(32); err != nil {
			return nil, field("fingerprint", err)
		}
	}
	nested, err := r.u8()
	if err != nil {
		return nil, field("nested", err)
	}
	o.Nested = nested != 0
	if r.left() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadFormat, r.left())
	}
	return o, nil
}

// AEADHeaderPeek is how much of an AEAD encrypted data packet body is read to
// decode its header.
const AEADHeaderPeek = 64

// AEADHeader is the cleartext header of an AEAD encrypted data packet.
type AEADHeader struct {
	Version   int
	SymAlg    int
	AEADAlg   int
	ChunkSize int
	IV        []byte
}

// ParseAEADHeader decodes the header at the start of an AEAD encrypted data
// packet body. b only needs to hold the header prefix.
func ParseAEADHeader(b []byte) (*AEADHeader, error) {
	r := newReader(b)
	h := &AEADHeader{}

	var err error
	if h.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}
	if h.Version != 1 {
		return nil, fmt.Errorf("%w: aead version %d", ErrUnsupported, h.Version)
	}
	if h.SymAlg, err = r.u8(); err != nil {
		return nil, field("symmetric algorithm", err)
	}
	if h.AEADAlg, err = r.u8(); err != nil {
		return nil, field("aead algorithm", err)
	}
	if h.ChunkSize, err = r.u8(); err != nil {
		return nil, field("chunk size", err)
	}
	if h.ChunkSize > 56 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrBadFormat, h.ChunkSize)
	}
	n := algo.AEADNonceSize(h.AEADAlg)
	if n == 0 {
		return nil, fmt.Errorf("%w: aead algorithm %d", ErrUnsupported, h.AEADAlg)
	}
	if h.IV, err = r.bytes(n); err != nil {
		return nil, field("iv", err)
	}
	return h, nil
}

// LiteralHeader is the header of a literal data packet.
type LiteralHeader struct {
	Format    byte
	Filename  []byte
	Timestamp uint32
}

// ReadLiteralHeader reads the literal data header from r, leaving r at the
// start of the literal contents.
func ReadLiteralHeader(r io.Reader) (*LiteralHeader, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, field("literal header", ErrShortData)
	}
	h := &LiteralHeader{Format: b[0], Filename: make([]byte, b[1])}
	if _, err := io.ReadFull(r, h.Filename); err != nil {
		return nil, field("filename", ErrShortData)
	}
	var ts [4]byte
	if _, err := io.ReadFull(r, ts[:]); err != nil {
		return nil, field("timestamp", ErrShortData)
	}
	h.Timestamp = uint32(ts[0])<<24 | uint32(ts[1])<<16 | uint32(ts[2])<<8 | uint32(ts[3])
	return h, nil
}

// ReadCompressionAlgorithm reads the algorithm octet that starts a compressed
// data packet body.
func ReadCompressionAlgorithm(r io.Reader) (int, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, field("compression algorithm", ErrShortData)
	}
	return int(b[0]), nil
}
