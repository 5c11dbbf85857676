package packet

import (
	"bytes"
	"fmt"
)

// S2K specifiers.
const (
	S2KSimple       = 0
	S2KSalted       = 1
	S2KIterated     = 3
	S2KArgon2       = 4
	S2KExperimental = 101
)

// GnuPG experimental S2K extensions.
const (
	GPGExtDummy     = 1001
	GPGExtSmartcard = 1002
)

// SaltSize is the salt length of salted and iterated S2K specifiers.
const SaltSize = 8

// MaxCardSerial caps the smartcard serial kept from a divert-to-card S2K.
const MaxCardSerial = 16

// S2K is a parsed string-to-key specifier.
type S2K struct {
	Specifier    int
	HashAlg      int
	Salt         []byte
	EncodedCount uint8
	GPGExtension int    // GPGExtDummy, GPGExtSmartcard, or 0
	CardSerial   []byte // truncated to MaxCardSerial
	Experimental []byte // raw contents of an unrecognised experimental specifier

	// Argon2 parameters.
	Passes      int
	Parallelism int
	MemoryExp   int
}

// Iterations decodes the iteration count of an iterated and salted S2K.
func (s S2K) Iterations() uint64 {
	c := uint64(s.EncodedCount)
	return (16 + (c & 15)) << ((c >> 4) + 6)
}

// IsGNUExtension reports whether s is a GnuPG dummy or divert-to-card S2K,
// which carry no IV in secret key packets.
func (s S2K) IsGNUExtension() bool {
	return s.Specifier == S2KExperimental && s.GPGExtension != 0
}

var gnuMagic = []byte("GNU")

// ParseS2K decodes an S2K specifier from the start of b and returns the
// number of bytes consumed. An unrecognised experimental specifier consumes
// all of b.
func ParseS2K(b []byte) (S2K, int, error) {
	r := newReader(b)
	s, err := r.s2k()
	return s, r.off, err
}

func (r *reader) s2k() (S2K, error) {
	var s S2K
	spec, err := r.u8()
	if err != nil {
		return s, field("s2k specifier", err)
	}
	s.Specifier = spec

	switch spec {
	case S2KSimple, S2KSalted, S2KIterated:
		if s.HashAlg, err = r.u8(); err != nil {
			return s, field("s2k hash algorithm", err)
		}
		if spec == S2KSimple {
			return s, nil
		}
		salt, err := r.bytes(SaltSize)
		if err != nil {
			return s, field("s2k salt", err)
		}
		s.Salt = salt
		if spec == S2KIterated {
			c, err := r.u8()
			if err != nil {
				return s, field("s2k iterations", err)
			}
			s.EncodedCount = uint8(c)
		}
		return s, nil

	case S2KArgon2:
		salt, err := r.bytes(16)
		if err != nil {
			return s, field("argon2 salt", err)
		}
		s.Salt = salt
		if s.Passes, err = r.u8(); err != nil {
			return s, field("argon2 passes", err)
		}
		if s.Parallelism, err = r.u8(); err != nil {
			return s, field("argon2 parallelism", err)
		}
		if s.MemoryExp, err = r.u8(); err != nil {
			return s, field("argon2 memory", err)
		}
		return s, nil

	case S2KExperimental:
		return r.experimentalS2K(s)
	}
	return s, fmt.Errorf("%w: s2k specifier %d", ErrUnsupported, spec)
}

func (r *reader) experimentalS2K(s S2K) (S2K, error) {
	start := r.off
	unknown := func() (S2K, error) {
		r.off = start
		s.Experimental = r.rest()
		return s, nil
	}

	halg, err := r.u8()
	if err != nil {
		return unknown()
	}
	magic, err := r.bytes(len(gnuMagic))
	if err != nil || !bytes.Equal(magic, gnuMagic) {
		return unknown()
	}
	mode, err := r.u8()
	if err != nil {
		return unknown()
	}

	s.HashAlg = halg
	switch 1000 + mode {
	case GPGExtDummy:
		s.GPGExtension = GPGExtDummy
	case GPGExtSmartcard:
		s.GPGExtension = GPGExtSmartcard
		n, err := r.u8()
		if err != nil {
			return s, field("card serial length", err)
		}
		serial, err := r.bytes(n)
		if err != nil {
			// serial may be cut short; keep what is there
			serial = r.rest()
		}
		if len(serial) > MaxCardSerial {
			serial = serial[:MaxCardSerial]
		}
		s.CardSerial = serial
	default:
		return unknown()
	}
	return s, nil
}
