package packet

import (
	"encoding/binary"
	"fmt"
)

// Subpacket is one signature subpacket. Data excludes the type octet.
type Subpacket struct {
	Type     int
	Critical bool
	Hashed   bool
	Data     []byte
}

// ParseSubpackets splits a subpacket area into its subpackets.
func ParseSubpackets(area []byte, hashed bool) ([]Subpacket, error) {
	var out []Subpacket
	r := newReader(area)
	for r.left() > 0 {
		n, err := r.subpacketLength()
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: zero-length subpacket", ErrBadFormat)
		}
		body, err := r.bytes(n)
		if err != nil {
			return nil, field("subpacket", err)
		}
		out = append(out, Subpacket{
			Type:     int(body[0] & 0x7f),
			Critical: body[0]&0x80 != 0,
			Hashed:   hashed,
			Data:     body[1:],
		})
	}
	return out, nil
}

func (r *reader) subpacketLength() (int, error) {
	l, err := r.u8()
	if err != nil {
		return 0, field("subpacket length", err)
	}
	switch {
	case l < 192:
		return l, nil
	case l < 255:
		l2, err := r.u8()
		if err != nil {
			return 0, field("subpacket length", err)
		}
		return (l-192)<<8 + l2 + 192, nil
	}
	n, err := r.u32()
	if err != nil {
		return 0, field("subpacket length", err)
	}
	if n > MaxPacketSize {
		return 0, fmt.Errorf("%w: subpacket length %d", ErrBadFormat, n)
	}
	return int(n), nil
}

func (sp Subpacket) expectLen(n int) error {
	if len(sp.Data) != n {
		return fmt.Errorf("%w: subpacket %d has length %d, want %d", ErrBadFormat, sp.Type, len(sp.Data), n)
	}
	return nil
}

func (sp Subpacket) expectMin(n int) error {
	if len(sp.Data) < n {
		return fmt.Errorf("%w: subpacket %d has length %d, want at least %d", ErrBadFormat, sp.Type, len(sp.Data), n)
	}
	return nil
}

// Time decodes a four-octet time or duration subpacket.
func (sp Subpacket) Time() (uint32, error) {
	if err := sp.expectLen(4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(sp.Data), nil
}

// Bool decodes a one-octet boolean subpacket.
func (sp Subpacket) Bool() (bool, error) {
	if err := sp.expectLen(1); err != nil {
		return false, err
	}
	return sp.Data[0] != 0, nil
}

// Octet returns the first octet of a flags subpacket.
func (sp Subpacket) Octet() (uint8, error) {
	if err := sp.expectMin(1); err != nil {
		return 0, err
	}
	return sp.Data[0], nil
}

// Text returns the contents of a string subpacket.
func (sp Subpacket) Text() string { return string(sp.Data) }

// Trust is a trust signature subpacket.
type Trust struct {
	Level  int
	Amount int
}

// Trust decodes a trust signature subpacket.
func (sp Subpacket) Trust() (Trust, error) {
	if err := sp.expectLen(2); err != nil {
		return Trust{}, err
	}
	return Trust{Level: int(sp.Data[0]), Amount: int(sp.Data[1])}, nil
}

// Algorithms returns the ids of a preferred algorithms subpacket.
func (sp Subpacket) Algorithms() []int {
	ids := make([]int, len(sp.Data))
	for i, b := range sp.Data {
		ids[i] = int(b)
	}
	return ids
}

// RevocationKey is a revocation key subpacket.
type RevocationKey struct {
	Class       int
	Alg         int
	Fingerprint []byte
}

// RevocationKey decodes a revocation key subpacket.
func (sp Subpacket) RevocationKey() (RevocationKey, error) {
	if err := sp.expectMin(3); err != nil {
		return RevocationKey{}, err
	}
	return RevocationKey{
		Class:       int(sp.Data[0]),
		Alg:         int(sp.Data[1]),
		Fingerprint: sp.Data[2:],
	}, nil
}

// KeyID decodes an issuer key id subpacket.
func (sp Subpacket) KeyID() ([]byte, error) {
	if err := sp.expectLen(8); err != nil {
		return nil, err
	}
	return sp.Data, nil
}

// Notation is a notation data subpacket.
type Notation struct {
	Human bool
	Name  string
	Value []byte
}

// Notation decodes a notation data subpacket.
func (sp Subpacket) Notation() (Notation, error) {
	if err := sp.expectMin(8); err != nil {
		return Notation{}, err
	}
	nlen := int(binary.BigEndian.Uint16(sp.Data[4:6]))
	vlen := int(binary.BigEndian.Uint16(sp.Data[6:8]))
	if 8+nlen+vlen != len(sp.Data) {
		return Notation{}, fmt.Errorf("%w: notation lengths %d+%d do not match %d", ErrBadFormat, nlen, vlen, len(sp.Data)-8)
	}
	return Notation{
		Human: sp.Data[0]&0x80 != 0,
		Name:  string(sp.Data[8 : 8+nlen]),
		Value: sp.Data[8+nlen:],
	}, nil
}

// RevocationReason is a reason for revocation subpacket.
type RevocationReason struct {
	Code    int
	Message string
}

// RevocationReason decodes a reason for revocation subpacket.
func (sp Subpacket) RevocationReason() (RevocationReason, error) {
	if err := sp.expectMin(1); err != nil {
		return RevocationReason{}, err
	}
	return RevocationReason{Code: int(sp.Data[0]), Message: string(sp.Data[1:])}, nil
}

// IssuerFingerprint decodes an issuer fingerprint subpacket, returning the
// key version and the fingerprint.
func (sp Subpacket) IssuerFingerprint() (int, []byte, error) {
	if err := sp.expectMin(2); err != nil {
		return 0, nil, err
	}
	version := int(sp.Data[0])
	fp := sp.Data[1:]
	switch {
	case version == 4 && len(fp) == 20, version >= 5 && len(fp) == 32:
		return version, fp, nil
	}
	return 0, nil, fmt.Errorf("%w: v%d issuer fingerprint of %d bytes", ErrBadFormat, version, len(fp))
}

// EmbeddedSignature decodes an embedded signature subpacket.
func (sp Subpacket) EmbeddedSignature() (*Signature, error) {
	return ParseSignature(sp.Data)
}
