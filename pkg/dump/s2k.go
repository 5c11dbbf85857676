package dump

import (
	"fmt"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
)

// s2k adds the string-to-key specifier as an "s2k" section of n.
func (c *Context) s2k(n *Node, s packet.S2K) {
	sn := &Node{}
	n.Add("s2k", "", Section{Node: sn})

	sn.Add("specifier", "s2k specifier", Int(s.Specifier))

	if s.Specifier == packet.S2KExperimental {
		if s.IsGNUExtension() {
			sn.Add("gpg extension", "GPG extension num", Int(s.GPGExtension))
			if s.GPGExtension == packet.GPGExtSmartcard {
				sn.Add("card serial number", "card serial number", Hex{Data: s.CardSerial, WithLen: true})
			}
			return
		}
		sn.Add("unknown experimental", "Unknown experimental s2k", Hex{Data: s.Experimental, WithLen: true})
		return
	}

	if s.Specifier == packet.S2KArgon2 {
		sn.Add("salt", "s2k salt", Hex{Data: s.Salt})
		sn.Add("passes", "argon2 passes", Int(s.Passes))
		sn.Add("parallelism", "argon2 parallelism", Int(s.Parallelism))
		sn.Add("memory exponent", "argon2 memory exponent", Int(s.MemoryExp))
		return
	}

	sn.Add("hash algorithm", "s2k hash algorithm", Alg{ID: s.HashAlg, Table: algo.HashAlgorithms})
	if s.Specifier == packet.S2KSalted || s.Specifier == packet.S2KIterated {
		sn.Add("salt", "s2k salt", Hex{Data: s.Salt})
	}
	if s.Specifier == packet.S2KIterated {
		sn.Text(fmt.Sprintf("s2k iterations: %d (encoded as %d)", s.Iterations(), s.EncodedCount))
		sn.Field("iterations", Int(int64(s.Iterations())))
	}
}
