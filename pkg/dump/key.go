package dump

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

func (c *Context) key(n *Node, tag int, data []byte) error {
	k, err := packet.ParseKey(tag, data)
	if err != nil {
		return err
	}

	n.Add("version", "version", Int(k.Version))
	n.Add("creation time", "creation time", Time(k.CreationTime))
	if k.Version < 4 {
		n.Add("v3 days", "v3 validity days", Int(k.V3Days))
	}
	n.Add("algorithm", "public key algorithm", Alg{ID: k.Alg, Table: algo.PublicKeyAlgorithms})
	if k.Version >= 5 {
		n.Add(fmt.Sprintf("v%d public key material length", k.Version),
			fmt.Sprintf("v%d public key material length", k.Version), Int(k.MaterialLen))
	}

	mat := n.Sub("material", "", false)
	c.publicMaterial(mat, k)
	if k.Secret != nil {
		c.secretMaterial(mat, k.Version, k.Secret)
	}

	c.keyIDs(n, k)
	return nil
}

func (c *Context) publicMaterial(mat *Node, k *packet.Key) {
	p := mat.Sub("", "public key material", true)

	m := k.Material
	raw := c.opts.DumpMPI
	switch alg := k.Alg; {
	case m.Unknown:
		p.Text("unknown public key algorithm")
	case algo.IsRSA(alg):
		p.Add("n", "rsa n", MPI{M: m.N, Raw: raw})
		p.Add("e", "rsa e", MPI{M: m.E, Raw: raw})
	case alg == algo.PubKeyDSA:
		p.Add("p", "dsa p", MPI{M: m.P, Raw: raw})
		p.Add("q", "dsa q", MPI{M: m.Q, Raw: raw})
		p.Add("g", "dsa g", MPI{M: m.G, Raw: raw})
		p.Add("y", "dsa y", MPI{M: m.Y, Raw: raw})
	case algo.IsElgamal(alg):
		p.Add("p", "eg p", MPI{M: m.P, Raw: raw})
		p.Add("g", "eg g", MPI{M: m.G, Raw: raw})
		p.Add("y", "eg y", MPI{M: m.Y, Raw: raw})
	case alg == algo.PubKeyECDH:
		p.Add("p", "ecdh p", MPI{M: m.Point, Raw: raw})
		p.Add("curve", "ecdh curve", String(algo.CurveName(m.Curve)))
		p.Add("hash algorithm", "ecdh hash algorithm", Alg{ID: m.KDFHash, Table: algo.HashAlgorithms})
		p.Add("key wrap algorithm", "ecdh key wrap algorithm", Alg{ID: m.KDFWrap, Table: algo.SymmetricAlgorithms})
	case alg == algo.PubKeyECDSA, alg == algo.PubKeyEdDSA, alg == algo.PubKeySM2:
		p.Add("p", "ecc p", MPI{M: m.Point, Raw: raw})
		p.Add("curve", "ecc curve", String(algo.CurveName(m.Curve)))
	case len(m.Native) > 0:
		p.AddVis("", nativeName(alg), Gap, Opaque{Data: m.Native, Raw: raw})
	default:
		p.Text("unknown public key algorithm")
	}
}

func nativeName(alg int) string {
	switch alg {
	case algo.PubKeyEd25519:
		return "ed25519"
	case algo.PubKeyX25519:
		return "x25519"
	case algo.PubKeyEd448:
		return "ed448"
	case algo.PubKeyX448:
		return "x448"
	}
	return "key"
}

func (c *Context) secretMaterial(mat *Node, version int, s *packet.SecretMaterial) {
	sn := mat.Sub("", "secret key material", true)

	sn.Add("s2k usage", "s2k usage", Int(s.Usage))
	if version >= 5 {
		params := s.ParamsLen
		if params < 0 {
			params = 0
		}
		sn.Add(fmt.Sprintf("v%d s2k length", version), fmt.Sprintf("v%d s2k length", version), Int(params))
	}
	if s.Encrypted() {
		sn.Add("symmetric algorithm", "symmetric algorithm", Alg{ID: s.SymAlg, Table: algo.SymmetricAlgorithms})
		if s.Usage == packet.S2KUsageAEAD {
			sn.Add("aead algorithm", "aead algorithm", Alg{ID: s.AEADAlg, Table: algo.AEADAlgorithms})
		}
		if s.S2K != nil {
			c.s2k(sn, *s.S2K)
		}
		if s.S2K == nil || !(s.S2K.IsGNUExtension() || s.S2K.Experimental != nil) {
			sn.Add("cipher iv", "cipher iv", Hex{Data: s.IV, WithLen: true})
		}
	}
	if s.DataLen >= 0 {
		sn.Add("v5 secret key data length", "v5 secret key data length", Int(s.DataLen))
	}
	if s.Encrypted() {
		sn.Add("encrypted secret key data", "encrypted secret key data", Count(s.SecretSize))
	} else {
		sn.Add("cleartext secret key data", "cleartext secret key data", Count(s.SecretSize))
	}
}

// keyIDs adds the key id and, with DumpGrips, the fingerprint and grip.
// Each one fails on its own.
func (c *Context) keyIDs(n *Node, k *packet.Key) {
	derived := func(key, label string, calc func() ([]byte, error), withLen bool) {
		v, err := calc()
		if err != nil {
			c.opts.Logger.Debug("failed to calculate "+label, "err", err)
			n.Add(key, label, String("failed to calculate"))
			return
		}
		n.Add(key, label, Hex{Data: v, WithLen: withLen})
	}

	derived("keyid", "keyid", k.KeyID, false)
	if !c.opts.DumpGrips {
		return
	}
	if k.Version > 3 {
		derived("fingerprint", "fingerprint", k.Fingerprint, true)
	}
	derived("grip", "grip", k.Grip, true)
}
