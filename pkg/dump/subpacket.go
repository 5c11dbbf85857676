package dump

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

// keyServerNoModify is the "no-modify" bit of the key server preferences.
const keyServerNoModify = 0x80

func (c *Context) subpackets(sps []packet.Subpacket) []*Node {
	nodes := make([]*Node, 0, len(sps))
	for _, sp := range sps {
		nodes = append(nodes, c.subpacket(sp))
	}
	return nodes
}

// subpacket renders one signature subpacket. Unknown and malformed
// subpackets fall back to a raw dump of their contents.
func (c *Context) subpacket(sp packet.Subpacket) *Node {
	n := &Node{}
	critical := ""
	if sp.Critical {
		critical = ", critical"
	}
	n.Text(fmt.Sprintf(":type %d, len %d%s", sp.Type, len(sp.Data), critical))
	n.Field("type", Alg{ID: sp.Type, Table: algo.SubpacketTypes})
	n.Field("length", Int(len(sp.Data)))
	n.Field("hashed", Bool(sp.Hashed))
	n.Field("critical", Bool(sp.Critical))
	if c.opts.DumpPackets {
		n.Add("raw", "", Hexdump{Heading: ":subpacket contents:", Data: sp.Data})
	}

	fields := &Node{}
	if err := c.subpacketFields(fields, sp); err != nil {
		c.opts.Logger.Debug("malformed subpacket", "type", sp.Type, "err", err)
		fields = &Node{}
		if !c.opts.DumpPackets {
			fields.Add("raw", "", Hexdump{Data: sp.Data})
		}
	}
	n.Entries = append(n.Entries, fields.Entries...)
	return n
}

var errUnknownSubpacket = fmt.Errorf("%w: subpacket type", packet.ErrUnsupported)

func (c *Context) subpacketFields(n *Node, sp packet.Subpacket) error {
	name := algo.SubpacketTypes.Name(sp.Type)

	switch sp.Type {
	case algo.SubpacketCreationTime:
		t, err := sp.Time()
		if err != nil {
			return err
		}
		n.Add("creation time", name, Time(t))

	case algo.SubpacketExpirationTime, algo.SubpacketKeyExpiration:
		t, err := sp.Time()
		if err != nil {
			return err
		}
		key := "expiration time"
		if sp.Type == algo.SubpacketKeyExpiration {
			key = "key expiration"
		}
		n.Add(key, name, Expiration(t))

	case algo.SubpacketExportable, algo.SubpacketRevocable, algo.SubpacketPrimaryUserID:
		v, err := sp.Bool()
		if err != nil {
			return err
		}
		key := map[int]string{
			algo.SubpacketExportable:    "exportable",
			algo.SubpacketRevocable:     "revocable",
			algo.SubpacketPrimaryUserID: "primary",
		}[sp.Type]
		n.Add(key, name, Bool(v))

	case algo.SubpacketTrust:
		tr, err := sp.Trust()
		if err != nil {
			return err
		}
		n.Text(fmt.Sprintf("%s: amount %d, level %d", name, tr.Amount, tr.Level))
		n.Field("amount", Int(tr.Amount))
		n.Field("level", Int(tr.Level))

	case algo.SubpacketRegexp:
		n.Add("regexp", name, String(sp.Text()))

	case algo.SubpacketPreferredKeyServer, algo.SubpacketPolicyURI:
		n.Add("uri", name, String(sp.Text()))

	case algo.SubpacketSignerUserID:
		n.Add("uid", name, String(sp.Text()))

	case algo.SubpacketPreferredSymmetric:
		n.Add("algorithms", "preferred symmetric algorithms", AlgList{IDs: sp.Algorithms(), Table: algo.SymmetricAlgorithms})
	case algo.SubpacketPreferredHash:
		n.Add("algorithms", "preferred hash algorithms", AlgList{IDs: sp.Algorithms(), Table: algo.HashAlgorithms})
	case algo.SubpacketPreferredCompress:
		n.Add("algorithms", "preferred compression algorithms", AlgList{IDs: sp.Algorithms(), Table: algo.CompressionAlgorithms})
	case algo.SubpacketPreferredAEAD:
		n.Add("algorithms", "preferred aead algorithms", AlgList{IDs: sp.Algorithms(), Table: algo.AEADAlgorithms})

	case algo.SubpacketRevocationKey:
		rk, err := sp.RevocationKey()
		if err != nil {
			return err
		}
		n.Text(name)
		n.Add("class", "class", Int(rk.Class))
		n.Add("algorithm", "public key algorithm", Alg{ID: rk.Alg, Table: algo.PublicKeyAlgorithms})
		n.Add("fingerprint", "fingerprint", Hex{Data: rk.Fingerprint, WithLen: true})

	case algo.SubpacketIssuerKeyID:
		id, err := sp.KeyID()
		if err != nil {
			return err
		}
		n.Add("issuer keyid", name, Hex{Data: id})

	case algo.SubpacketIssuerFingerprint:
		_, fp, err := sp.IssuerFingerprint()
		if err != nil {
			return err
		}
		n.Add("fingerprint", name, Hex{Data: fp, WithLen: true})

	case algo.SubpacketNotation:
		nt, err := sp.Notation()
		if err != nil {
			return err
		}
		n.Field("human", Bool(nt.Human))
		n.Field("name", String(nt.Name))
		if nt.Human {
			n.Text(fmt.Sprintf("%s: %s = %s", name, nt.Name, nt.Value))
			n.Field("value", String(nt.Value))
		} else {
			n.Text(fmt.Sprintf("%s: %s = %s", name, nt.Name, FormatHex(Hex{Data: nt.Value, WithLen: true})))
			n.Field("value", Hex{Data: nt.Value})
		}

	case algo.SubpacketKeyServerPrefs:
		v, err := sp.Octet()
		if err != nil {
			return err
		}
		n.Text(name)
		n.Add("no-modify", "no-modify", Bool(v&keyServerNoModify != 0))

	case algo.SubpacketKeyFlags:
		v, err := sp.Octet()
		if err != nil {
			return err
		}
		n.Add("flags", name, Flags{Value: v, Names: algo.KeyFlags, None: "none"})

	case algo.SubpacketFeatures:
		v, err := sp.Octet()
		if err != nil {
			return err
		}
		n.AddVis("features", name, TextOnly, Flags{Value: v, Names: algo.Features})
		for _, f := range algo.Features {
			n.Field(f.Name, Bool(v&f.Bit != 0))
		}

	case algo.SubpacketRevocationReason:
		rr, err := sp.RevocationReason()
		if err != nil {
			return err
		}
		n.Add("code", name, Alg{ID: rr.Code, Table: algo.RevocationReasons})
		n.Add("message", "message", String(rr.Message))

	case algo.SubpacketEmbeddedSignature:
		sig, err := sp.EmbeddedSignature()
		if err != nil {
			return err
		}
		if !c.enter() {
			m := NewMarker(MarkerLayers, false)
			m.Indent = true
			n.Add("signature", name, Section{Node: m})
			return nil
		}
		sub := NewNode("")
		sub.Indent = true
		c.signatureFields(sub, sig)
		c.leave()
		n.Add("signature", name, Section{Node: sub})

	default:
		return errUnknownSubpacket
	}
	return nil
}
