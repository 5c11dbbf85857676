package packet

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// PKSessionKey is a public-key encrypted session key packet (v3 or v6).
type PKSessionKey struct {
	Version     int
	KeyID       []byte // v3
	KeyVersion  int    // v6
	Fingerprint []byte // v6
	Alg         int
	Material    EncryptedMaterial
}

// EncryptedMaterial holds the algorithm-specific encrypted session key.
type EncryptedMaterial struct {
	M, G      MPI // RSA m; Elgamal g, m; SM2 m
	P         MPI // ECDH ephemeral point
	Wrapped   []byte
	Ephemeral []byte // X25519 / X448
	SymAlg    int    // X25519 / X448, v3 only
	Unknown   bool
}

// ParsePKSessionKey decodes a public-key encrypted session key packet body.
func ParsePKSessionKey(body []byte) (*PKSessionKey, error) {
	r := newReader(body)
	p := &PKSessionKey{}

	var err error
	if p.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}
	switch p.Version {
	case 3:
		if p.KeyID, err = r.bytes(KeyIDSize); err != nil {
			return nil, field("key id", err)
		}
	case 6:
		n, err := r.u8()
		if err != nil {
			return nil, field("fingerprint length", err)
		}
		if n > 0 {
			if p.KeyVersion, err = r.u8(); err != nil {
				return nil, field("key version", err)
			}
			if p.Fingerprint, err = r.bytes(n - 1); err != nil {
				return nil, field("fingerprint", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: pkesk version %d", ErrUnsupported, p.Version)
	}
	if p.Alg, err = r.u8(); err != nil {
		return nil, field("algorithm", err)
	}
	if err := r.encryptedMaterial(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *reader) encryptedMaterial(p *PKSessionKey) error {
	m := &p.Material
	var err error
	switch alg := p.Alg; {
	case algo.IsRSA(alg), alg == algo.PubKeySM2:
		m.M, err = r.mpi()
	case algo.IsElgamal(alg):
		if m.G, err = r.mpi(); err == nil {
			m.M, err = r.mpi()
		}
	case alg == algo.PubKeyECDH:
		if m.P, err = r.mpi(); err != nil {
			break
		}
		var n int
		if n, err = r.u8(); err != nil {
			break
		}
		m.Wrapped, err = r.bytes(n)
	case alg == algo.PubKeyX25519, alg == algo.PubKeyX448:
		if m.Ephemeral, err = r.bytes(algo.NativeKeySize(alg)); err != nil {
			break
		}
		var n int
		if n, err = r.u8(); err != nil {
			break
		}
		if p.Version == 3 {
			if n < 1 {
				return fmt.Errorf("%w: empty wrapped key", ErrBadFormat)
			}
			if m.SymAlg, err = r.u8(); err != nil {
				break
			}
			n--
		}
		m.Wrapped, err = r.bytes(n)
	default:
		m.Unknown = true
		m.Wrapped = r.rest()
	}
	if err != nil {
		return field("encrypted material", err)
	}
	return nil
}

// SKSessionKey is a symmetric-key encrypted session key packet (v4, v5, v6).
type SKSessionKey struct {
	Version      int
	SymAlg       int
	AEADAlg      int
	S2K          S2K
	IV           []byte
	EncryptedKey []byte
}

// ParseSKSessionKey decodes a symmetric-key encrypted session key body.
func ParseSKSessionKey(body []byte) (*SKSessionKey, error) {
	r := newReader(body)
	s := &SKSessionKey{}

	var err error
	if s.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}
	switch s.Version {
	case 4, 5, 6:
	default:
		return nil, fmt.Errorf("%w: skesk version %d", ErrUnsupported, s.Version)
	}
	if s.Version == 6 {
		if _, err = r.u8(); err != nil {
			return nil, field("parameters length", err)
		}
	}
	if s.SymAlg, err = r.u8(); err != nil {
		return nil, field("symmetric algorithm", err)
	}
	if s.Version >= 5 {
		if s.AEADAlg, err = r.u8(); err != nil {
			return nil, field("aead algorithm", err)
		}
	}
	if s.Version == 6 {
		n, err := r.u8()
		if err != nil {
			return nil, field("s2k length", err)
		}
		spec, err := r.bytes(n)
		if err != nil {
			return nil, field("s2k", err)
		}
		if s.S2K, _, err = ParseS2K(spec); err != nil {
			return nil, err
		}
	} else if s.S2K, err = r.s2k(); err != nil {
		return nil, err
	}
	if s.Version >= 5 {
		n := algo.AEADNonceSize(s.AEADAlg)
		if n == 0 {
			return nil, fmt.Errorf("%w: aead algorithm %d", ErrUnsupported, s.AEADAlg)
		}
		if s.IV, err = r.bytes(n); err != nil {
			return nil, field("aead iv", err)
		}
	}
	s.EncryptedKey = r.rest()
	return s, nil
}
