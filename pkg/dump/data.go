package dump

import (
	"fmt"
	"io"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/packet"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// literalChunk is the scratch buffer size used to count literal data.
const literalChunk = 16 * 1024

func (c *Context) userID(n *Node, data []byte) error {
	n.Add("userid", "id", String(data))
	return nil
}

func (c *Context) userAttribute(n *Node, data []byte) error {
	n.Text(fmt.Sprintf("id: (%d bytes of data)", len(data)))
	n.Field("userattr", Hex{Data: data})
	return nil
}

func (c *Context) onePass(n *Node, data []byte) error {
	o, err := packet.ParseOnePassSignature(data)
	if err != nil {
		return err
	}
	n.Add("version", "version", Int(o.Version))
	n.Add("type", "signature type", Alg{ID: o.Type, Table: algo.SignatureTypes})
	n.Add("hash algorithm", "hash algorithm", Alg{ID: o.HashAlg, Table: algo.HashAlgorithms})
	n.Add("public key algorithm", "public key algorithm", Alg{ID: o.PubKeyAlg, Table: algo.PublicKeyAlgorithms})
	if o.Version == 3 {
		n.Add("signer", "signing key id", Hex{Data: o.KeyID})
	} else {
		n.Add("salt", "salt", Hex{Data: o.Salt, WithLen: true})
		n.Add("fingerprint", "fingerprint", Hex{Data: o.Fingerprint, WithLen: true})
	}
	n.Add("nested", "nested", Bool(o.Nested))
	return nil
}

func (c *Context) marker(body *packet.Body) (*Node, error) {
	n := NewNode("Marker packet")
	data, err := body.ReadAll(packet.MaxPacketSize)
	if err == nil {
		err = packet.ParseMarker(data)
	}
	if err != nil {
		n.Add("contents", "contents", String("invalid"))
		return n, err
	}
	n.Add("contents", "contents", String(packet.MarkerContents))
	return n, nil
}

// aead decodes the cleartext header of an AEAD encrypted data packet. It
// reads at most packet.AEADHeaderPeek octets of the body, which may run past
// the header into the ciphertext. Whatever remains is left for the caller to
// drain.
func (c *Context) aead(body *packet.Body) (*Node, error) {
	n := NewNode("AEAD-encrypted data packet")
	buf := make([]byte, packet.AEADHeaderPeek)
	l, err := io.ReadFull(body, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	var hdr *packet.AEADHeader
	if err == nil {
		hdr, err = packet.ParseAEADHeader(buf[:l])
	}
	if err != nil {
		n.Indent = false
		failed(n, "ERROR: failed to read AEAD header", err)
		return n, err
	}

	n.Add("version", "version", Int(hdr.Version))
	n.Add("algorithm", "symmetric algorithm", Alg{ID: hdr.SymAlg, Table: algo.SymmetricAlgorithms})
	n.Add("aead algorithm", "aead algorithm", Alg{ID: hdr.AEADAlg, Table: algo.AEADAlgorithms})
	n.Add("chunk size", "chunk size", Int(hdr.ChunkSize))
	n.Add("aead iv", "initialization vector", Hex{Data: hdr.IV, WithLen: true})
	return n, nil
}

// compressed dumps a compressed data packet and, depth permitting, the
// packets inside it. The nested contents reach structured output only when
// the sub-stream was dumped without a hard failure; text keeps whatever
// was dumped before the failure.
func (c *Context) compressed(body *packet.Body) (*Node, error) {
	n := NewNode("Compressed data packet")
	alg, err := packet.ReadCompressionAlgorithm(body)
	if err != nil {
		failed(n, "failed to parse", err)
		return n, err
	}
	n.Add("algorithm", "compression algorithm", Alg{ID: alg, Table: algo.CompressionAlgorithms})

	if !c.enter() {
		n.Add("contents", "Decompressed contents", List{Items: []*Node{NewMarker(MarkerLayers, false)}})
		return n, nil
	}
	defer c.leave()

	r, err := c.opts.Decompressor(alg, body)
	if err != nil {
		failed(n, "failed to decompress", err)
		return n, err
	}
	defer r.Close()

	var items []*Node
	derr := c.dumpRaw(stream.New(r), func(p *Node) error {
		items = append(items, p)
		return nil
	})

	vis := Both
	if derr != nil && derr != errStop {
		vis = TextOnly
	}
	n.AddVis("contents", "Decompressed contents", vis, List{Items: items})
	if derr != nil && derr != errStop {
		failed(n, "failed to decompress", derr)
	}
	return n, derr
}

func (c *Context) literal(body *packet.Body) (*Node, error) {
	n := NewNode("Literal data packet")
	hdr, err := packet.ReadLiteralHeader(body)
	if err != nil {
		failed(n, "failed to parse", err)
		return n, err
	}

	n.Add("format", "data format", Char(hdr.Format))
	n.Text(fmt.Sprintf("filename: %s (len %d)", hdr.Filename, len(hdr.Filename)))
	n.Field("filename", String(hdr.Filename))
	n.Add("timestamp", "timestamp", Time(hdr.Timestamp))

	start := body.Consumed()
	buf := make([]byte, literalChunk)
	var rerr error
	for {
		_, err := body.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			rerr = err
			break
		}
	}
	n.Add("datalen", "data bytes", Int(body.Consumed()-start))
	if rerr != nil {
		failed(n, "failed to read", rerr)
	}
	return n, rerr
}
