package packet

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// S2K usage octets of secret keys.
const (
	S2KUsageNone     = 0
	S2KUsageAEAD     = 253
	S2KUsageChecksum = 254
	S2KUsageSHA1     = 255
)

// Key is a parsed public or secret key / subkey packet.
type Key struct {
	Tag          int
	Version      int
	CreationTime uint32
	V3Days       int
	Alg          int
	MaterialLen  uint32 // v5 / v6 public key material length
	Material     KeyMaterial
	Secret       *SecretMaterial // nil for public key packets

	// Public is the public part of the body, as hashed for the fingerprint.
	Public []byte
}

// KeyMaterial holds the algorithm-specific public key fields.
type KeyMaterial struct {
	N, E       MPI // RSA
	P, Q, G, Y MPI // DSA, Elgamal
	Point      MPI // EC public point
	Curve      []byte
	KDFHash    int // ECDH
	KDFWrap    int // ECDH
	Native     []byte
	Unknown    bool
}

// SecretMaterial describes the protection of secret key data. The secret
// values themselves are only counted.
type SecretMaterial struct {
	Usage      int
	ParamsLen  int // v5 / v6 count of protection parameter octets, -1 when absent
	SymAlg     int
	AEADAlg    int
	S2K        *S2K
	IV         []byte
	DataLen    int64 // v5 declared secret data length, -1 when absent
	SecretSize int   // actual number of secret data octets
}

// Encrypted reports whether the secret data is protected.
func (s *SecretMaterial) Encrypted() bool { return s.Usage != S2KUsageNone }

// ParseKey decodes a key packet body. tag selects between public and secret
// layouts.
func ParseKey(tag int, body []byte) (*Key, error) {
	r := newReader(body)
	k := &Key{Tag: tag}

	var err error
	if k.Version, err = r.u8(); err != nil {
		return nil, field("version", err)
	}
	if k.Version < 2 || k.Version > 6 {
		return nil, fmt.Errorf("%w: key version %d", ErrUnsupported, k.Version)
	}
	if k.CreationTime, err = r.u32(); err != nil {
		return nil, field("creation time", err)
	}
	if k.Version < 4 {
		if k.V3Days, err = r.u16(); err != nil {
			return nil, field("validity days", err)
		}
	}
	if k.Alg, err = r.u8(); err != nil {
		return nil, field("algorithm", err)
	}
	if k.Version >= 5 {
		if k.MaterialLen, err = r.u32(); err != nil {
			return nil, field("material length", err)
		}
	}

	start := r.off
	if err := r.keyMaterial(k); err != nil {
		return nil, err
	}
	if k.Version >= 5 && int(k.MaterialLen) != r.off-start {
		return nil, fmt.Errorf("%w: public key material length %d, parsed %d", ErrBadFormat, k.MaterialLen, r.off-start)
	}
	k.Public = body[:r.off]

	if algo.IsSecretKeyTag(tag) {
		if k.Secret, err = r.secretMaterial(k.Version); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func (r *reader) keyMaterial(k *Key) error {
	m := &k.Material
	var err error
	mpis := func(dst ...*MPI) error {
		for _, d := range dst {
			if *d, err = r.mpi(); err != nil {
				return field("public key material", err)
			}
		}
		return nil
	}

	switch alg := k.Alg; {
	case algo.IsRSA(alg):
		return mpis(&m.N, &m.E)
	case alg == algo.PubKeyDSA:
		return mpis(&m.P, &m.Q, &m.G, &m.Y)
	case algo.IsElgamal(alg):
		return mpis(&m.P, &m.G, &m.Y)
	case alg == algo.PubKeyECDSA, alg == algo.PubKeyEdDSA, alg == algo.PubKeySM2, alg == algo.PubKeyECDH:
		n, err := r.u8()
		if err != nil {
			return field("curve oid length", err)
		}
		if n == 0 || n == 0xff {
			return fmt.Errorf("%w: curve oid length %d", ErrBadFormat, n)
		}
		if m.Curve, err = r.bytes(n); err != nil {
			return field("curve oid", err)
		}
		if err := mpis(&m.Point); err != nil {
			return err
		}
		if alg != algo.PubKeyECDH {
			return nil
		}
		kdf, err := r.bytes(1)
		if err != nil {
			return field("kdf parameters", err)
		}
		params, err := r.bytes(int(kdf[0]))
		if err != nil || len(params) < 3 {
			return fmt.Errorf("%w: kdf parameters", ErrBadFormat)
		}
		m.KDFHash = int(params[1])
		m.KDFWrap = int(params[2])
		return nil
	case algo.NativeKeySize(alg) > 0:
		if m.Native, err = r.bytes(algo.NativeKeySize(alg)); err != nil {
			return field("public key material", err)
		}
		return nil
	}

	if k.Version >= 5 {
		// material length is known, so unknown algorithms can still be skipped
		m.Native, err = r.bytes(int(k.MaterialLen))
		m.Unknown = true
		if err != nil {
			return field("public key material", err)
		}
		return nil
	}
	return fmt.Errorf("%w: public key algorithm %d", ErrUnsupported, k.Alg)
}

func (r *reader) secretMaterial(version int) (*SecretMaterial, error) {
	s := &SecretMaterial{ParamsLen: -1, DataLen: -1}

	var err error
	if s.Usage, err = r.u8(); err != nil {
		return nil, field("s2k usage", err)
	}
	if version >= 5 && s.Usage != S2KUsageNone {
		if s.ParamsLen, err = r.u8(); err != nil {
			return nil, field("s2k length", err)
		}
	}

	switch s.Usage {
	case S2KUsageNone:
	case S2KUsageAEAD, S2KUsageChecksum, S2KUsageSHA1:
		if s.SymAlg, err = r.u8(); err != nil {
			return nil, field("symmetric algorithm", err)
		}
		if s.Usage == S2KUsageAEAD {
			if s.AEADAlg, err = r.u8(); err != nil {
				return nil, field("aead algorithm", err)
			}
		}
		if version == 6 {
			if _, err = r.u8(); err != nil {
				return nil, field("s2k specifier length", err)
			}
		}
		s2k, err := r.s2k()
		if err != nil {
			return nil, err
		}
		s.S2K = &s2k
		if s2k.IsGNUExtension() || s2k.Experimental != nil {
			break
		}
		ivLen := algo.BlockSize(s.SymAlg)
		if s.Usage == S2KUsageAEAD {
			ivLen = algo.AEADNonceSize(s.AEADAlg)
		}
		if ivLen == 0 {
			return nil, fmt.Errorf("%w: cipher %d", ErrUnsupported, s.SymAlg)
		}
		if s.IV, err = r.bytes(ivLen); err != nil {
			return nil, field("cipher iv", err)
		}
	default:
		// legacy: usage octet is the cipher, key derived with MD5
		s.SymAlg = s.Usage
		ivLen := algo.BlockSize(s.SymAlg)
		if ivLen == 0 {
			return nil, fmt.Errorf("%w: cipher %d", ErrUnsupported, s.SymAlg)
		}
		if s.IV, err = r.bytes(ivLen); err != nil {
			return nil, field("cipher iv", err)
		}
	}

	if version == 5 {
		n, err := r.u32()
		if err != nil {
			return nil, field("secret key data length", err)
		}
		s.DataLen = int64(n)
	}
	s.SecretSize = r.left()
	r.rest()
	return s, nil
}
