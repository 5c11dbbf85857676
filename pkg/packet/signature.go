package packet

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// Signature is a parsed signature packet (versions 3 through 6).
type Signature struct {
	Version      int
	Type         int
	CreationTime uint32 // v3 only; v4+ carry it in a subpacket
	Signer       []byte // v3 signing key id
	PubKeyAlg    int
	HashAlg      int
	Subpackets   []Subpacket // hashed area first, then unhashed, in wire order
	LBits        []byte
	Salt         []byte // v6
	Material     SignatureMaterial
	MaterialErr  error // set when the algorithm-specific fields are malformed
}

// SignatureMaterial holds the algorithm-specific signature values.
type SignatureMaterial struct {
	R, S   MPI
	Opaque []byte // Ed25519 / Ed448 native signatures
}

// Hashed returns the subpackets from the hashed or unhashed area.
func (s *Signature) Hashed(hashed bool) []Subpacket {
	var out []Subpacket
	for _, sp := range s.Subpackets {
		if sp.Hashed == hashed {
			out = append(out, sp)
		}
	}
	return out
}

// ParseSignature decodes a signature packet body.
func ParseSignature(body []byte) (*Signature, error) {
	r := newReader(body)
	sig := &Signature{}

	var err error
	if sig.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}

	switch sig.Version {
	case 2, 3:
		err = r.signatureV3(sig)
	case 4, 5, 6:
		err = r.signatureV4(sig)
	default:
		return nil, fmt.Errorf("%w: signature version %d", ErrUnsupported, sig.Version)
	}
	if err != nil {
		return nil, err
	}

	sig.MaterialErr = r.signatureMaterial(sig)
	return sig, nil
}

func (r *reader) signatureV3(sig *Signature) error {
	hlen, err := r.u8()
	if err != nil {
		return field("hashed length", err)
	}
	if hlen != 5 {
		return fmt.Errorf("%w: v3 hashed length %d", ErrBadFormat, hlen)
	}
	if sig.Type, err = r.u8(); err != nil {
		return field("type", err)
	}
	if sig.CreationTime, err = r.u32(); err != nil {
		return field("creation time", err)
	}
	if sig.Signer, err = r.bytes(8); err != nil {
		return field("signer", err)
	}
	if sig.PubKeyAlg, err = r.u8(); err != nil {
		return field("public key algorithm", err)
	}
	if sig.HashAlg, err = r.u8(); err != nil {
		return field("hash algorithm", err)
	}
	if sig.LBits, err = r.bytes(2); err != nil {
		return field("lbits", err)
	}
	return nil
}

func (r *reader) signatureV4(sig *Signature) error {
	var err error
	if sig.Type, err = r.u8(); err != nil {
		return field("type", err)
	}
	if sig.PubKeyAlg, err = r.u8(); err != nil {
		return field("public key algorithm", err)
	}
	if sig.HashAlg, err = r.u8(); err != nil {
		return field("hash algorithm", err)
	}

	for _, hashed := range []bool{true, false} {
		var n int
		if sig.Version == 6 {
			var n32 uint32
			n32, err = r.u32()
			n = int(n32)
		} else {
			n, err = r.u16()
		}
		if err != nil {
			return field("subpacket area length", err)
		}
		area, err := r.bytes(n)
		if err != nil {
			return field("subpacket area", err)
		}
		sps, err := ParseSubpackets(area, hashed)
		if err != nil {
			return err
		}
		sig.Subpackets = append(sig.Subpackets, sps...)
	}

	if sig.LBits, err = r.bytes(2); err != nil {
		return field("lbits", err)
	}
	if sig.Version == 6 {
		n, err := r.u8()
		if err != nil {
			return field("salt length", err)
		}
		if sig.Salt, err = r.bytes(n); err != nil {
			return field("salt", err)
		}
	}
	return nil
}

func (r *reader) signatureMaterial(sig *Signature) error {
	m := &sig.Material
	var err error
	switch alg := sig.PubKeyAlg; {
	case algo.IsRSA(alg):
		m.S, err = r.mpi()
	case alg == algo.PubKeyDSA, alg == algo.PubKeyECDSA, alg == algo.PubKeyEdDSA,
		alg == algo.PubKeySM2, alg == algo.PubKeyECDH, algo.IsElgamal(alg):
		if m.R, err = r.mpi(); err == nil {
			m.S, err = r.mpi()
		}
	case alg == algo.PubKeyEd25519, alg == algo.PubKeyEd448:
		m.Opaque, err = r.bytes(algo.NativeSignatureSize(alg))
	default:
		m.Opaque = r.rest()
	}
	if err != nil {
		return field("signature material", err)
	}
	return nil
}
