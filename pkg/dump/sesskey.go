package dump

import (
	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

func (c *Context) pkSessionKey(n *Node, data []byte) error {
	p, err := packet.ParsePKSessionKey(data)
	if err != nil {
		return err
	}

	n.Add("version", "version", Int(p.Version))
	if p.Version == 3 {
		n.Add("keyid", "key id", Hex{Data: p.KeyID})
	} else {
		n.Add("key version", "key version", Int(p.KeyVersion))
		n.Add("fingerprint", "fingerprint", Hex{Data: p.Fingerprint, WithLen: true})
	}
	n.Add("algorithm", "public key algorithm", Alg{ID: p.Alg, Table: algo.PublicKeyAlgorithms})

	m := n.Sub("material", "encrypted material", true)
	mat := p.Material
	raw := c.opts.DumpMPI
	switch alg := p.Alg; {
	case mat.Unknown:
		m.Text("unknown public key algorithm")
	case algo.IsRSA(alg):
		m.Add("m", "rsa m", MPI{M: mat.M, Raw: raw})
	case algo.IsElgamal(alg):
		m.Add("g", "eg g", MPI{M: mat.G, Raw: raw})
		m.Add("m", "eg m", MPI{M: mat.M, Raw: raw})
	case alg == algo.PubKeySM2:
		m.Add("m", "sm2 m", MPI{M: mat.M, Raw: raw})
	case alg == algo.PubKeyECDH:
		m.Add("p", "ecdh p", MPI{M: mat.P, Raw: raw})
		if raw {
			m.Field("m.bytes", Int(len(mat.Wrapped)))
			m.Add("m", "ecdh m", Hex{Data: mat.Wrapped, WithLen: true})
		} else {
			m.Add("m.bytes", "ecdh m", Count(len(mat.Wrapped)))
		}
	case alg == algo.PubKeyX25519, alg == algo.PubKeyX448:
		m.AddVis("", "ephemeral public key", Gap, Opaque{Data: mat.Ephemeral, Raw: raw})
		if p.Version == 3 {
			m.AddVis("", "symmetric algorithm", Gap, Alg{ID: mat.SymAlg, Table: algo.SymmetricAlgorithms})
		}
		m.AddVis("", "encrypted session key", Gap, Opaque{Data: mat.Wrapped, Raw: raw})
	default:
		m.Text("unknown public key algorithm")
	}
	return nil
}

func (c *Context) skSessionKey(n *Node, data []byte) error {
	s, err := packet.ParseSKSessionKey(data)
	if err != nil {
		return err
	}

	n.Add("version", "version", Int(s.Version))
	n.Add("algorithm", "symmetric algorithm", Alg{ID: s.SymAlg, Table: algo.SymmetricAlgorithms})
	if s.Version >= 5 {
		n.Add("aead algorithm", "aead algorithm", Alg{ID: s.AEADAlg, Table: algo.AEADAlgorithms})
	}
	c.s2k(n, s.S2K)
	if s.Version >= 5 {
		n.Add("aead iv", "aead iv", Hex{Data: s.IV, WithLen: true})
	}
	n.Add("encrypted key", "encrypted key", Hex{Data: s.EncryptedKey, WithLen: true})
	return nil
}
