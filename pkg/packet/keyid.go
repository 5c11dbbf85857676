package packet

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// KeyIDSize is the length of a key id.
const KeyIDSize = 8

// Fingerprint computes the key fingerprint: MD5 over the RSA values for v2/v3
// keys, SHA-1 for v4, and SHA-256 for v5 and v6.
func (k *Key) Fingerprint() ([]byte, error) {
	var h hash.Hash
	switch k.Version {
	case 2, 3:
		if !algo.IsRSA(k.Alg) {
			return nil, fmt.Errorf("%w: v%d fingerprint of algorithm %d", ErrUnsupported, k.Version, k.Alg)
		}
		h = md5.New()
		h.Write(k.Material.N.Bytes)
		h.Write(k.Material.E.Bytes)
		return h.Sum(nil), nil
	case 4:
		h = sha1.New()
		h.Write([]byte{0x99, byte(len(k.Public) >> 8), byte(len(k.Public))})
	case 5, 6:
		h = sha256.New()
		var hdr [5]byte
		hdr[0] = 0x9a
		if k.Version == 6 {
			hdr[0] = 0x9b
		}
		binary.BigEndian.PutUint32(hdr[1:], uint32(len(k.Public)))
		h.Write(hdr[:])
	default:
		return nil, fmt.Errorf("%w: key version %d", ErrUnsupported, k.Version)
	}
	h.Write(k.Public)
	return h.Sum(nil), nil
}

// KeyID derives the key id: the low 64 bits of the RSA modulus for v2/v3
// keys, the last eight fingerprint octets for v4 and the first eight for
// v5 and v6.
func (k *Key) KeyID() ([]byte, error) {
	if k.Version < 4 {
		n := k.Material.N.Bytes
		if !algo.IsRSA(k.Alg) || len(n) < KeyIDSize {
			return nil, fmt.Errorf("%w: v%d key id of algorithm %d", ErrUnsupported, k.Version, k.Alg)
		}
		return n[len(n)-KeyIDSize:], nil
	}
	fp, err := k.Fingerprint()
	if err != nil {
		return nil, err
	}
	if k.Version == 4 {
		return fp[len(fp)-KeyIDSize:], nil
	}
	return fp[:KeyIDSize], nil
}
