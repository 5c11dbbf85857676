package dump

import (
	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

func (c *Context) signature(n *Node, data []byte) error {
	sig, err := packet.ParseSignature(data)
	if err != nil {
		return err
	}
	c.signatureFields(n, sig)
	return nil
}

// signatureFields renders a parsed signature into n. It is shared by
// signature packets and embedded signature subpackets.
func (c *Context) signatureFields(n *Node, sig *packet.Signature) {
	n.Add("version", "version", Int(sig.Version))
	n.Add("type", "type", Alg{ID: sig.Type, Table: algo.SignatureTypes})
	if sig.Version < 4 {
		n.Add("creation time", "creation time", Time(sig.CreationTime))
		n.Add("signer", "signing key id", Hex{Data: sig.Signer})
	}
	n.Add("algorithm", "public key algorithm", Alg{ID: sig.PubKeyAlg, Table: algo.PublicKeyAlgorithms})
	n.Add("hash algorithm", "hash algorithm", Alg{ID: sig.HashAlg, Table: algo.HashAlgorithms})

	if sig.Version >= 4 {
		// text groups by area; the structured form keeps one list in wire
		// order with a hashed flag per subpacket
		hashed := c.subpackets(sig.Hashed(true))
		unhashed := c.subpackets(sig.Hashed(false))
		n.AddVis("", "hashed subpackets", TextOnly, List{Items: hashed, Indent: true, Empty: "none"})
		n.AddVis("", "unhashed subpackets", TextOnly, List{Items: unhashed, Indent: true, Empty: "none"})
		all := make([]*Node, 0, len(hashed)+len(unhashed))
		all = append(all, hashed...)
		all = append(all, unhashed...)
		n.Field("subpackets", List{Items: all})
	}

	n.Add("lbits", "lbits", Hex{Data: sig.LBits})
	if sig.Version == 6 {
		n.Add("salt", "salt", Hex{Data: sig.Salt, WithLen: true})
	}

	m := n.Sub("material", "signature material", true)
	if sig.MaterialErr != nil {
		failed(m, "failed to parse", sig.MaterialErr)
		return
	}
	mat := sig.Material
	raw := c.opts.DumpMPI
	switch alg := sig.PubKeyAlg; {
	case algo.IsRSA(alg):
		m.Add("s", "rsa s", MPI{M: mat.S, Raw: raw})
	case alg == algo.PubKeyDSA:
		m.Add("r", "dsa r", MPI{M: mat.R, Raw: raw})
		m.Add("s", "dsa s", MPI{M: mat.S, Raw: raw})
	case alg == algo.PubKeyEdDSA, alg == algo.PubKeyECDSA, alg == algo.PubKeySM2, alg == algo.PubKeyECDH:
		m.Add("r", "ecc r", MPI{M: mat.R, Raw: raw})
		m.Add("s", "ecc s", MPI{M: mat.S, Raw: raw})
	case algo.IsElgamal(alg):
		m.Add("r", "eg r", MPI{M: mat.R, Raw: raw})
		m.Add("s", "eg s", MPI{M: mat.S, Raw: raw})
	case alg == algo.PubKeyEd25519:
		m.AddVis("", "ed25519 sig", Gap, Opaque{Data: mat.Opaque, Raw: raw})
	case alg == algo.PubKeyEd448:
		m.AddVis("", "ed448 sig", Gap, Opaque{Data: mat.Opaque, Raw: raw})
	default:
		m.Text("unknown algorithm")
	}
}
