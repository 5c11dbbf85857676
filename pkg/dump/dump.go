// Package dump walks a stream of OpenPGP packets and describes every packet
// as a tree of [Node] values, without verifying, decrypting or validating
// anything.
//
// # Overview
//
// A dump is a single pass over the input. For each packet the engine peeks
// the header, records it, optionally previews the body, and hands the body to
// a per-tag decoder. Compressed packets are decompressed and walked
// recursively; embedded signatures are decoded in place. Each finished
// top-level packet is passed to a [Backend], which renders it as text, JSON or
// YAML (see package render). Because all backends consume the same nodes, the
// outputs cannot drift apart.
//
// # Failures and Bounds
//
// Packets that fail to decode are reported in the dump and counted; they
// never abort the walk. Three bounds keep hostile input in check:
//
//   - nesting depth (compressed layers, embedded signatures)
//   - number of failed or unknown packets
//   - number of stream packets (compressed, literal, encrypted data)
//
// Exceeding a bound adds a marker node and ends that part of the walk. The
// dump still succeeds. Only unreadable headers, unusable armor and I/O
// errors are returned as errors.
//
// # Usage
//
//	src := stream.New(file)
//	out := render.NewText(os.Stdout)
//	if err := dump.Dump(ctx, src, dump.Options{DumpGrips: true}, out); err != nil {
//	    return err
//	}
package dump

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/packet"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

// Backend receives completed top-level nodes in stream order.
type Backend interface {
	Emit(n *Node) error
}

// BackendFunc adapts a function to the [Backend] interface.
type BackendFunc func(n *Node) error

// Emit calls f(n).
func (f BackendFunc) Emit(n *Node) error { return f(n) }

// Dump walks src and emits one node per top-level packet to backend.
func Dump(ctx context.Context, src *stream.Source, opts Options, backend Backend) error {
	c, err := NewContext(ctx, opts)
	if err != nil {
		return err
	}
	return c.Run(src, backend)
}

// Run performs the dump. It may only be called once per Context.
func (c *Context) Run(src *stream.Source, backend Backend) (err error) {
	start := time.Now()
	c.opts.Hooks.OnDumpStart(c.ctx)
	defer func() {
		c.opts.Hooks.OnDumpComplete(c.ctx, c.packets, c.failures, time.Since(start), err)
	}()

	emit := func(n *Node) error {
		if err := backend.Emit(n); err != nil {
			return renderError(err)
		}
		return nil
	}

	if src.IsCleartext() {
		if err := emit(NewMarker(MarkerCleartext, true)); err != nil {
			return err
		}
		if err := src.SkipCleartext(); err != nil {
			if stderrors.Is(err, stream.ErrNoSignature) {
				return errors.Wrap(errors.ErrCodeBadFormat, err, "malformed cleartext signed data")
			}
			return errors.Wrap(errors.ErrCodeRead, err, "failed to read cleartext signed data")
		}
	}

	if src.IsArmored() {
		armored, err := stream.Unarmor(src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeArmor, err, "failed to unwrap armored input")
		}
		c.opts.Logger.Debug("armored input", "type", armored.Type)
		if err := emit(NewMarker(MarkerArmored, true)); err != nil {
			return err
		}
		src = armored.Source
	}

	if src.EOF() {
		return emit(NewMarker(MarkerEmpty, true))
	}

	if err := c.dumpRaw(src, emit); err != nil && err != errStop {
		return err
	}
	return nil
}

// dumpRaw walks the packets of one scope (the top-level stream or a
// decompressed sub-stream) and passes each packet node to emit.
func (c *Context) dumpRaw(src *stream.Source, emit func(*Node) error) error {
	for !src.EOF() {
		if err := c.ctx.Err(); err != nil {
			return err
		}
		pkt, err := c.dumpPacket(src)
		if pkt != nil {
			if eerr := emit(pkt); eerr != nil {
				return eerr
			}
		}
		if err != nil {
			return err
		}
		if err := c.checkBounds(emit); err != nil {
			return err
		}
	}
	return nil
}

// dumpPacket dumps the packet at the current position of src. Decode
// failures are counted, not returned; the returned error is either errStop
// or a failure that makes the rest of the scope unreadable.
func (c *Context) dumpPacket(src *stream.Source) (*Node, error) {
	off := src.Offset()
	hdr, err := packet.PeekHeader(src)
	if err != nil {
		return nil, headerError(off, err)
	}
	c.packets++
	c.opts.Hooks.OnPacket(c.ctx, hdr.Tag, c.depth)
	c.opts.Logger.Debug("packet", "offset", off, "tag", hdr.Tag, "depth", c.depth)

	pkt := &Node{}
	headerNode(pkt, off, hdr)
	if c.opts.DumpPackets {
		c.preview(pkt, src, off, hdr)
	}

	body, err := packet.OpenBody(src, hdr)
	if err != nil {
		return pkt, errors.Wrap(errors.ErrCodeRead, err, "failed to read packet at offset %d", off)
	}
	derr := c.decode(pkt, hdr, body)
	if derr == errStop {
		return pkt, errStop
	}
	if err := body.Drain(); err != nil && derr == nil {
		derr = err
	}
	if derr != nil {
		c.fail(hdr.Tag, derr)
	}
	return pkt, nil
}

func headerError(off int64, err error) error {
	if stderrors.Is(err, packet.ErrBadFormat) || stderrors.Is(err, packet.ErrShortData) {
		return errors.Wrap(errors.ErrCodeBadFormat, err, "bad packet header at offset %d", off)
	}
	return errors.Wrap(errors.ErrCodeRead, err, "failed to read packet header at offset %d", off)
}

func headerNode(pkt *Node, off int64, hdr packet.Header) {
	h := pkt.Sub("header", "", false)

	length := fmt.Sprintf("len %d", hdr.Length)
	switch {
	case hdr.Partial:
		length = "partial len"
	case hdr.Indeterminate:
		length = "indeterminate len"
	}
	h.Text(fmt.Sprintf(":off %d: packet header 0x%s (tag %d, %s)", off, HexString(hdr.Raw), hdr.Tag, length))

	h.Field("offset", Int(off))
	h.Field("tag", Alg{ID: hdr.Tag, Table: algo.PacketTags})
	h.Field("raw", Hex{Data: hdr.Raw})
	if !hdr.Partial && !hdr.Indeterminate {
		h.Field("length", Int(hdr.Length))
	}
	h.Field("partial", Bool(hdr.Partial))
	h.Field("indeterminate", Bool(hdr.Indeterminate))
}

// preview adds a hexdump of the first PreviewBytes of the packet body.
func (c *Context) preview(pkt *Node, src *stream.Source, off int64, hdr packet.Header) {
	limit := c.opts.PreviewBytes
	exact := !hdr.Partial && !hdr.Indeterminate
	if exact && hdr.Length < int64(limit) {
		limit = int(hdr.Length)
	}
	bodyOff := off + int64(hdr.Size())

	b, err := src.PeekUpTo(hdr.Size() + limit)
	if err != nil || len(b) < hdr.Size() {
		pkt.Text(fmt.Sprintf(":off %d: packet contents - failed to read", bodyOff))
		pkt.AddVis("", "", TextOnly, Blank{})
		return
	}
	data := b[hdr.Size():]

	heading := fmt.Sprintf(":off %d: packet contents (%d bytes)", bodyOff, len(data))
	if !exact || int64(len(data)) < hdr.Length {
		heading = fmt.Sprintf(":off %d: packet contents (first %d bytes)", bodyOff, len(data))
	}
	pkt.Add("raw", "", Hexdump{Heading: heading, Data: append([]byte(nil), data...)})
	pkt.AddVis("", "", TextOnly, Blank{})
}

// decode dispatches the packet body to the decoder for its tag and attaches
// the resulting node to pkt.
func (c *Context) decode(pkt *Node, hdr packet.Header, body *packet.Body) error {
	var (
		n   *Node
		err error
	)
	switch tag := hdr.Tag; {
	case tag == algo.TagSignature:
		n, err = c.structured("Signature packet", body, c.signature)
	case algo.IsKeyTag(tag):
		n, err = c.structured(algo.KeyTypes.Name(tag)+" packet", body, func(n *Node, data []byte) error {
			return c.key(n, tag, data)
		})
	case tag == algo.TagUserID:
		n, err = c.structured("UserID packet", body, c.userID)
	case tag == algo.TagUserAttribute:
		n, err = c.structured("UserAttr packet", body, c.userAttribute)
	case tag == algo.TagPKSessionKey:
		n, err = c.structured("Public-key encrypted session key packet", body, c.pkSessionKey)
	case tag == algo.TagSKSessionKey:
		n, err = c.structured("Symmetric-key encrypted session key packet", body, c.skSessionKey)
	case tag == algo.TagOnePassSignature:
		n, err = c.structured("One-pass signature packet", body, c.onePass)
	case tag == algo.TagMarker:
		n, err = c.marker(body)
	case tag == algo.TagSymEncrypted:
		c.streamPkts++
		n = encrypted("Symmetrically-encrypted data packet")
	case tag == algo.TagSymEncryptedIP:
		c.streamPkts++
		n = encrypted("Symmetrically-encrypted integrity protected data packet")
	case tag == algo.TagAEADEncrypted:
		c.streamPkts++
		n, err = c.aead(body)
	case tag == algo.TagCompressed:
		c.streamPkts++
		n, err = c.compressed(body)
	case tag == algo.TagLiteral:
		c.streamPkts++
		n, err = c.literal(body)
	case tag == algo.TagTrust, tag == algo.TagMDC:
		n = skipped(fmt.Sprintf("Skipping unhandled pkt: %d", tag))
	default:
		n = skipped(fmt.Sprintf("Skipping Unknown pkt: %d", tag))
		err = fmt.Errorf("%w: packet tag %d", packet.ErrUnsupported, tag)
	}
	if n != nil {
		pkt.Add("", "", Section{Node: n})
	}
	return err
}

// structured reads a whole in-memory packet body and passes it to dec. On
// failure the title stays and a "failed to parse" line is added.
func (c *Context) structured(title string, body *packet.Body, dec func(n *Node, data []byte) error) (*Node, error) {
	n := NewNode(title)
	data, err := body.ReadAll(packet.MaxPacketSize)
	if err == nil {
		err = dec(n, data)
	}
	if err != nil {
		failed(n, "failed to parse", err)
	}
	return n, err
}

func failed(n *Node, line string, err error) {
	n.Text(line)
	n.Field("error", String(err.Error()))
}

func skipped(line string) *Node {
	n := &Node{}
	n.Text(line)
	n.AddVis("", "", TextOnly, Blank{})
	return n
}

func encrypted(title string) *Node {
	n := &Node{Title: title}
	n.AddVis("", "", TextOnly, Blank{})
	return n
}
