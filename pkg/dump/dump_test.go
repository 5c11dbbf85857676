package dump_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"golang.org/x/crypto/openpgp/armor" //nolint:staticcheck

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/dump"
	"github.com/matzehuels/pgpdump/pkg/errors"
	"github.com/matzehuels/pgpdump/pkg/packet"
	"github.com/matzehuels/pgpdump/pkg/render"
	"github.com/matzehuels/pgpdump/pkg/stream"
)

func sortedTags(m map[int][]byte) []int {
	tags := make([]int, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}

func TestDumpHeaderPerTag(t *testing.T) {
	fixtures := allPackets()
	for _, tag := range sortedTags(fixtures) {
		body := fixtures[tag]
		t.Run(algo.PacketTags.Name(tag), func(t *testing.T) {
			data := pkt(tag, body)
			hdr, err := packet.ParseHeader(data)
			if err != nil {
				t.Fatalf("ParseHeader() error: %v", err)
			}

			text := dumpText(t, data, dump.Options{})
			want := fmt.Sprintf(":off 0: packet header 0x%s (tag %d, len %d)\n", dump.HexString(hdr.Raw), tag, len(body))
			if !strings.HasPrefix(text, want) {
				t.Errorf("text starts with %q, want %q", firstLine(text), want)
			}

			out := dumpJSON(t, data, dump.Options{})
			if len(out) != 1 {
				t.Fatalf("JSON packets = %d, want 1", len(out))
			}
			h, ok := out[0]["header"].(map[string]any)
			if !ok {
				t.Fatalf("header = %T, want object", out[0]["header"])
			}
			if got := h["tag"]; got != float64(tag) {
				t.Errorf("header.tag = %v, want %d", got, tag)
			}
			if got := h["tag.str"]; got != algo.PacketTags.Name(tag) {
				t.Errorf("header.tag.str = %v, want %q", got, algo.PacketTags.Name(tag))
			}
			if got := h["length"]; got != float64(len(body)) {
				t.Errorf("header.length = %v, want %d", got, len(body))
			}
		})
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1]
	}
	return s
}

func TestDumpWellFormedPacketsDoNotFail(t *testing.T) {
	fixtures := allPackets()
	for _, tag := range sortedTags(fixtures) {
		stats, text := runStats(t, pkt(tag, fixtures[tag]), dump.Options{DumpGrips: true})
		if stats.Failures != 0 {
			t.Errorf("tag %d: Failures = %d, want 0\n%s", tag, stats.Failures, text)
		}
	}
}

func TestDumpIdempotent(t *testing.T) {
	fixtures := allPackets()
	var data []byte
	for _, tag := range sortedTags(fixtures) {
		data = append(data, pkt(tag, fixtures[tag])...)
	}
	opts := dump.Options{DumpPackets: true, DumpMPI: true, DumpGrips: true}

	text1 := dumpText(t, data, opts)
	text2 := dumpText(t, data, opts)
	if text1 != text2 {
		t.Error("text output differs between identical dumps")
	}

	j1, j2 := render.NewJSON(), render.NewJSON()
	for _, js := range []*render.JSON{j1, j2} {
		if err := dump.Dump(context.Background(), stream.FromBytes(data), opts, js); err != nil {
			t.Fatalf("Dump() error: %v", err)
		}
	}
	b1, _ := j1.Bytes("")
	b2, _ := j2.Bytes("")
	if !bytes.Equal(b1, b2) {
		t.Error("JSON output differs between identical dumps")
	}
}

func TestDumpUserID(t *testing.T) {
	data := oldPkt(13, []byte("Alice <a@example.org>"))

	want := ":off 0: packet header 0xb415 (tag 13, len 21)\n" +
		"UserID packet\n" +
		"    id: Alice <a@example.org>\n"
	if got := dumpText(t, data, dump.Options{}); got != want {
		t.Errorf("text =\n%s\nwant\n%s", got, want)
	}

	out := dumpJSON(t, data, dump.Options{})
	if got := out[0]["userid"]; got != "Alice <a@example.org>" {
		t.Errorf("userid = %v", got)
	}
}

func TestDumpMarker(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contents string
		failures int
	}{
		{"valid", "PGP", "PGP", 0},
		{"invalid", "XYZ", "invalid", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pkt(algo.TagMarker, []byte(tt.body))
			stats, text := runStats(t, data, dump.Options{})

			want := ":off 0: packet header 0xca03 (tag 10, len 3)\n" +
				"Marker packet\n" +
				"    contents: " + tt.contents + "\n"
			if text != want {
				t.Errorf("text =\n%s\nwant\n%s", text, want)
			}
			if stats.Failures != tt.failures {
				t.Errorf("Failures = %d, want %d", stats.Failures, tt.failures)
			}

			out := dumpJSON(t, data, dump.Options{})
			if got := out[0]["contents"]; got != tt.contents {
				t.Errorf("contents = %v, want %q", got, tt.contents)
			}
		})
	}
}

func TestDumpSignatureSubpacketGroups(t *testing.T) {
	body := cat(
		[]byte{4, 0x00, 1, 8},
		area(subpacket(2, u32(fixtureTime)...), subpacket(27, 0x03)),
		area(subpacket(16, issuer...)),
		[]byte{0xab, 0xcd},
		mpi(0xff),
	)
	data := pkt(algo.TagSignature, body)
	text := dumpText(t, data, dump.Options{})

	order := []string{
		"Signature packet\n",
		"    hashed subpackets:\n",
		"        :type 2, len 4\n",
		"        signature creation time: 1700000000 (Tue Nov 14 22:13:20 2023)\n",
		"        :type 27, len 1\n",
		"        key flags: 0x03 ( certify sign )\n",
		"    unhashed subpackets:\n",
		"        :type 16, len 8\n",
		"        issuer key ID: 0x0102030405060708\n",
		"    lbits: 0xabcd\n",
		"    signature material:\n",
		"        rsa s: 8 bits\n",
	}
	pos := 0
	for _, s := range order {
		i := strings.Index(text[pos:], s)
		if i < 0 {
			t.Fatalf("missing %q after offset %d in\n%s", s, pos, text)
		}
		pos += i + len(s)
	}

	out := dumpJSON(t, data, dump.Options{})
	sps, ok := out[0]["subpackets"].([]any)
	if !ok || len(sps) != 3 {
		t.Fatalf("subpackets = %v, want 3 entries", out[0]["subpackets"])
	}
	wantTypes := []float64{2, 27, 16}
	wantHashed := []bool{true, true, false}
	for i, sp := range sps {
		m := sp.(map[string]any)
		if m["type"] != wantTypes[i] {
			t.Errorf("subpackets[%d].type = %v, want %v", i, m["type"], wantTypes[i])
		}
		if m["hashed"] != wantHashed[i] {
			t.Errorf("subpackets[%d].hashed = %v, want %v", i, m["hashed"], wantHashed[i])
		}
	}
	if got := sps[2].(map[string]any)["issuer keyid"]; got != "0102030405060708" {
		t.Errorf("issuer keyid = %v", got)
	}
	if got := sps[1].(map[string]any)["flags.str"]; fmt.Sprint(got) != "[certify sign]" {
		t.Errorf("flags.str = %v", got)
	}
}

// subpacketOfType returns the structured subpacket of the given type.
func subpacketOfType(t *testing.T, sig map[string]any, typ int) map[string]any {
	t.Helper()
	sps, ok := sig["subpackets"].([]any)
	if !ok {
		t.Fatalf("subpackets = %T, want list", sig["subpackets"])
	}
	for _, sp := range sps {
		m := sp.(map[string]any)
		if m["type"] == float64(typ) {
			return m
		}
	}
	t.Fatalf("no subpacket of type %d in %v", typ, sps)
	return nil
}

func TestDumpEmbeddedSignature(t *testing.T) {
	data := pkt(algo.TagSignature, embeddingSig(sigV4()))
	text := dumpText(t, data, dump.Options{})

	order := []string{
		"    unhashed subpackets:\n",
		"        :type 32, len 29\n",
		"        embedded signature:\n",
		"            version: 4\n",
		"            type: 0 (Signature of a binary document)\n",
		"            hashed subpackets:\n",
		"                :type 2, len 4\n",
		"            signature material:\n",
		"                rsa s: 8 bits\n",
		"    lbits: 0xabcd\n",
	}
	pos := 0
	for _, s := range order {
		i := strings.Index(text[pos:], s)
		if i < 0 {
			t.Fatalf("missing %q after offset %d in\n%s", s, pos, text)
		}
		pos += i + len(s)
	}

	out := dumpJSON(t, data, dump.Options{})
	emb, ok := subpacketOfType(t, out[0], 32)["signature"].(map[string]any)
	if !ok {
		t.Fatalf("embedded signature is not an object")
	}
	if emb["version"] != float64(4) || emb["algorithm"] != float64(1) {
		t.Errorf("embedded signature = %v", emb)
	}
	if got := subpacketOfType(t, emb, 16)["issuer keyid"]; got != "0102030405060708" {
		t.Errorf("embedded issuer keyid = %v", got)
	}
}

func TestDumpEmbeddedSignatureDepthBound(t *testing.T) {
	data := pkt(algo.TagSignature, embeddingSig(embeddingSig(sigV4())))
	opts := dump.Options{MaxLayers: 1}

	stats, text := runStats(t, data, opts)
	want := "                embedded signature:\n" +
		"                    :" + dump.MarkerLayers + "\n"
	if !strings.Contains(text, want) {
		t.Errorf("missing layers marker under the nested subpacket in\n%s", text)
	}
	if strings.Count(text, "embedded signature:") != 2 {
		t.Errorf("embedded signatures dumped = %d, want 2", strings.Count(text, "embedded signature:"))
	}
	if stats.Failures != 0 || stats.Stopped != "" {
		t.Errorf("stats = %+v, want no failures and no stop", stats)
	}

	out := dumpJSON(t, data, opts)
	first := subpacketOfType(t, out[0], 32)["signature"].(map[string]any)
	second := subpacketOfType(t, first, 32)["signature"]
	m, ok := second.(map[string]any)
	if !ok || m["marker"] != dump.MarkerLayers || len(m) != 1 {
		t.Errorf("nested signature = %v, want the layers marker", second)
	}
}

func TestDumpEd25519SignatureMaterial(t *testing.T) {
	data := pkt(algo.TagSignature, ed25519Sig())
	material := dump.HexString(bytes.Repeat([]byte{0xed}, 64))

	text := dumpText(t, data, dump.Options{DumpMPI: true})
	if !strings.Contains(text, "    signature material:\n        ed25519 sig, "+material+"\n") {
		t.Errorf("missing ed25519 material in\n%s", text)
	}

	out := dumpJSON(t, data, dump.Options{DumpMPI: true})
	if out[0]["algorithm"] != float64(algo.PubKeyEd25519) {
		t.Errorf("algorithm = %v", out[0]["algorithm"])
	}
	mat, ok := out[0]["material"].(map[string]any)
	if !ok {
		t.Fatalf("material = %T, want object", out[0]["material"])
	}
	if len(mat) != 0 {
		t.Errorf("material = %v, want no structured ed25519 fields", mat)
	}
	if strings.Contains(fmt.Sprint(out), material) {
		t.Error("ed25519 material leaked into JSON")
	}
}

func TestDumpEdDSAKeyGrip(t *testing.T) {
	data := pkt(algo.TagPublicKey, eddsaKeyV4())
	text := dumpText(t, data, dump.Options{DumpGrips: true})
	if !strings.Contains(text, "    grip: 0xc8b1f641a1ce304a19487b1a50612c9a97326501") {
		t.Errorf("missing ed25519 grip in\n%s", text)
	}
	if strings.Contains(text, "failed to calculate") {
		t.Errorf("identifier failed in\n%s", text)
	}
}

// countingDecompressor counts how often the decompressor is invoked.
type countingDecompressor struct {
	calls int
}

func (d *countingDecompressor) decompress(alg int, r io.Reader) (io.ReadCloser, error) {
	d.calls++
	return stream.Decompress(alg, r)
}

// nestedCompressed wraps inner in depth layers of uncompressed compressed
// data packets.
func nestedCompressed(depth int, inner []byte) []byte {
	data := inner
	for i := 0; i < depth; i++ {
		data = pkt(algo.TagCompressed, cat([]byte{algo.CompressNone}, data))
	}
	return data
}

func TestDumpDepthBound(t *testing.T) {
	const maxLayers = 3
	d := &countingDecompressor{}
	data := nestedCompressed(maxLayers+1, pkt(algo.TagUserID, []byte("deep")))

	stats, text := runStats(t, data, dump.Options{MaxLayers: maxLayers, Decompressor: d.decompress})

	if d.calls != maxLayers {
		t.Errorf("decompressor calls = %d, want %d", d.calls, maxLayers)
	}
	if !strings.Contains(text, ":"+dump.MarkerLayers+"\n") {
		t.Errorf("missing layers marker in\n%s", text)
	}
	if strings.Contains(text, "deep") {
		t.Error("packet beyond the depth bound was dumped")
	}
	if stats.Failures != 0 {
		t.Errorf("Failures = %d, want 0", stats.Failures)
	}

	out := dumpJSON(t, data, dump.Options{MaxLayers: maxLayers})
	if len(out) != 1 {
		t.Fatalf("JSON packets = %d, want 1", len(out))
	}
}

func TestDumpNestedCompressedWithinBound(t *testing.T) {
	data := nestedCompressed(2, pkt(algo.TagUserID, []byte("inner")))
	text := dumpText(t, data, dump.Options{})

	if !strings.Contains(text, "        Decompressed contents:\n") {
		t.Errorf("missing nested contents heading in\n%s", text)
	}
	if !strings.Contains(text, "        UserID packet\n            id: inner\n") {
		t.Errorf("nested user id not indented as expected in\n%s", text)
	}

	out := dumpJSON(t, data, dump.Options{})
	contents := out[0]["contents"].([]any)
	inner := contents[0].(map[string]any)["contents"].([]any)
	if got := inner[0].(map[string]any)["userid"]; got != "inner" {
		t.Errorf("nested userid = %v, want inner", got)
	}
}

func TestDumpErrorBound(t *testing.T) {
	var data []byte
	for i := 0; i < 5; i++ {
		data = append(data, pkt(60, []byte{1, 2, 3})...)
	}

	stats, text := runStats(t, data, dump.Options{MaxErrors: 2})
	if got := strings.Count(text, "Skipping Unknown pkt: 60"); got != 3 {
		t.Errorf("unknown packets dumped = %d, want 3", got)
	}
	if !strings.HasSuffix(text, ":"+dump.MarkerErrors+"\n") {
		t.Errorf("text does not end with the errors marker:\n%s", text)
	}
	if stats.Stopped != dump.BoundErrors {
		t.Errorf("Stopped = %q, want %q", stats.Stopped, dump.BoundErrors)
	}

	out := dumpJSON(t, data, dump.Options{MaxErrors: 2})
	if got := out[len(out)-1]["marker"]; got != dump.MarkerErrors {
		t.Errorf("last JSON entry marker = %v, want %q", got, dump.MarkerErrors)
	}
}

func TestDumpStreamPacketBound(t *testing.T) {
	var data []byte
	for i := 0; i < 4; i++ {
		data = append(data, pkt(algo.TagLiteral, literal("f", "x"))...)
	}
	stats, text := runStats(t, data, dump.Options{MaxStreamPackets: 2})
	if got := strings.Count(text, "Literal data packet"); got != 3 {
		t.Errorf("literal packets dumped = %d, want 3", got)
	}
	if !strings.HasSuffix(text, ":"+dump.MarkerStreamPackets+"\n") {
		t.Errorf("text does not end with the stream packets marker:\n%s", text)
	}
	if stats.StreamPackets != 3 {
		t.Errorf("StreamPackets = %d, want 3", stats.StreamPackets)
	}
}

func armored(t *testing.T, blockType string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, blockType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDumpArmorAndBinary(t *testing.T) {
	binary := pkt(algo.TagUserID, []byte("Alice"))
	plain := dumpText(t, binary, dump.Options{})
	if strings.Contains(plain, dump.MarkerArmored) {
		t.Error("binary input reported as armored")
	}

	text := dumpText(t, armored(t, "PGP PUBLIC KEY BLOCK", binary), dump.Options{})
	if want := ":" + dump.MarkerArmored + "\n" + plain; text != want {
		t.Errorf("armored text =\n%s\nwant\n%s", text, want)
	}

	out := dumpJSON(t, armored(t, "PGP PUBLIC KEY BLOCK", binary), dump.Options{})
	if len(out) != 1 || out[0]["userid"] != "Alice" {
		t.Errorf("armored JSON = %v", out)
	}
}

func TestDumpCleartextSigned(t *testing.T) {
	sig := pkt(algo.TagSignature, sigV4())
	input := "-----BEGIN PGP SIGNED MESSAGE-----\nHash: SHA256\n\nhello\n- -----dash escaped\n" +
		string(armored(t, "PGP SIGNATURE", sig))

	text := dumpText(t, []byte(input), dump.Options{})
	for _, want := range []string{
		":" + dump.MarkerCleartext + "\n",
		":" + dump.MarkerArmored + "\n",
		"Signature packet\n",
		"issuer key ID: 0x0102030405060708\n",
		"rsa s: 8 bits\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
	if strings.Contains(text, "hello") {
		t.Error("signed text leaked into the dump")
	}
}

func TestDumpCleartextWithoutSignature(t *testing.T) {
	input := "-----BEGIN PGP SIGNED MESSAGE-----\nHash: SHA256\n\nhello\n"
	err := dump.Dump(context.Background(), stream.FromBytes([]byte(input)), dump.Options{}, render.NewText(io.Discard))
	if !errors.Is(err, errors.ErrCodeBadFormat) {
		t.Errorf("Dump() error = %v, want %s", err, errors.ErrCodeBadFormat)
	}
}

func TestDumpBadHeader(t *testing.T) {
	err := dump.Dump(context.Background(), stream.FromBytes([]byte{0x3f, 0x00}), dump.Options{}, render.NewText(io.Discard))
	if !errors.Is(err, errors.ErrCodeBadFormat) {
		t.Errorf("Dump() error = %v, want %s", err, errors.ErrCodeBadFormat)
	}
}

func TestDumpEmptyInput(t *testing.T) {
	if got := dumpText(t, nil, dump.Options{}); got != ":"+dump.MarkerEmpty+"\n" {
		t.Errorf("text = %q", got)
	}
	if out := dumpJSON(t, nil, dump.Options{}); len(out) != 0 {
		t.Errorf("JSON = %v, want empty array", out)
	}
}

func TestDumpTruncatedBodyIsCounted(t *testing.T) {
	// header announces 30 bytes, only 4 follow
	data := append([]byte{0xc2, 30}, 4, 0, 1, 8)
	stats, text := runStats(t, data, dump.Options{})
	if stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
	if !strings.Contains(text, "Signature packet\n    failed to parse\n") {
		t.Errorf("missing parse failure in\n%s", text)
	}
}

func TestDumpPacketsPreview(t *testing.T) {
	data := pkt(algo.TagUserID, []byte("Alice"))
	text := dumpText(t, data, dump.Options{DumpPackets: true})
	want := ":off 0: packet header 0xcd05 (tag 13, len 5)\n" +
		":off 2: packet contents (5 bytes)\n" +
		"    00000 | 41 6c 69 63 65 " + strings.Repeat("   ", 11) + " | Alice" + strings.Repeat(" ", 11) + "\n" +
		"\n" +
		"UserID packet\n" +
		"    id: Alice\n"
	if text != want {
		t.Errorf("text =\n%q\nwant\n%q", text, want)
	}

	out := dumpJSON(t, data, dump.Options{DumpPackets: true})
	if got := out[0]["raw"]; got != "416c696365" {
		t.Errorf("raw = %v", got)
	}
}

func TestDumpPreviewTruncated(t *testing.T) {
	data := pkt(algo.TagUserID, bytes.Repeat([]byte{'a'}, 40))
	text := dumpText(t, data, dump.Options{DumpPackets: true, PreviewBytes: 16})
	if !strings.Contains(text, ":off 2: packet contents (first 16 bytes)\n") {
		t.Errorf("missing truncated preview heading in\n%s", text)
	}
}

func TestDumpPreviewAtLimit(t *testing.T) {
	body := bytes.Repeat([]byte{0x99}, dump.LimitPreviewBytes)
	data := pkt(algo.TagSymEncrypted, body)
	hdr, err := packet.ParseHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Size() != packet.MaxHeaderSize {
		t.Fatalf("header size = %d, want %d", hdr.Size(), packet.MaxHeaderSize)
	}

	text := dumpText(t, data, dump.Options{DumpPackets: true, PreviewBytes: dump.LimitPreviewBytes})
	want := fmt.Sprintf(":off %d: packet contents (%d bytes)\n", packet.MaxHeaderSize, len(body))
	if !strings.Contains(text, want) {
		t.Errorf("missing %q in preview heading %q", want, firstLine(text[strings.Index(text, "\n")+1:]))
	}

	if _, err := dump.NewContext(context.Background(), dump.Options{PreviewBytes: dump.LimitPreviewBytes + 1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("PreviewBytes above the limit error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestDumpKey(t *testing.T) {
	data := pkt(algo.TagSecretKey, secretKeyV4())
	text := dumpText(t, data, dump.Options{DumpGrips: true})
	for _, want := range []string{
		"Secret key packet\n",
		"    version: 4\n",
		"    public key algorithm: 1 (RSA (Encrypt or Sign))\n",
		"    public key material:\n",
		"        rsa n: 8 bits\n",
		"        rsa e: 2 bits\n",
		"    secret key material:\n",
		"        s2k usage: 0\n",
		"        cleartext secret key data: 14 bytes\n",
		"    keyid: 0x",
		"    fingerprint: 0x",
		"    grip: 0x",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}

	out := dumpJSON(t, data, dump.Options{DumpMPI: true})
	mat, ok := out[0]["material"].(map[string]any)
	if !ok {
		t.Fatalf("material = %T", out[0]["material"])
	}
	if mat["n.bits"] != float64(8) || mat["n.raw"] != "c1" {
		t.Errorf("material n = %v / %v", mat["n.bits"], mat["n.raw"])
	}
	if _, ok := out[0]["fingerprint"]; ok {
		t.Error("fingerprint present without DumpGrips")
	}
}

func TestDumpEncryptedSecretKey(t *testing.T) {
	body := cat(publicKeyV4(),
		[]byte{254, 9, 3, 8}, bytes.Repeat([]byte{0x55}, 8), []byte{0x60},
		bytes.Repeat([]byte{0x0a}, 16),
		bytes.Repeat([]byte{0xee}, 20),
	)
	text := dumpText(t, pkt(algo.TagSecretSubkey, body), dump.Options{})
	for _, want := range []string{
		"        s2k usage: 254\n",
		"        symmetric algorithm: 9 (AES-256)\n",
		"        s2k specifier: 3\n",
		"        s2k hash algorithm: 8 (SHA256)\n",
		"        s2k salt: 0x5555555555555555\n",
		"        s2k iterations: 65536 (encoded as 96)\n",
		"        cipher iv: 0x0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a (16 bytes)\n",
		"        encrypted secret key data: 20 bytes\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
}

func TestDumpGNUDummyKey(t *testing.T) {
	body := cat(publicKeyV4(), []byte{255, 9, 101, 2, 'G', 'N', 'U', 1})
	text := dumpText(t, pkt(algo.TagSecretKey, body), dump.Options{})
	if !strings.Contains(text, "        GPG extension num: 1001\n") {
		t.Errorf("missing GPG extension in\n%s", text)
	}
	if strings.Contains(text, "cipher iv") {
		t.Errorf("GNU dummy key printed an IV:\n%s", text)
	}
}

func TestDumpLiteralAndAEAD(t *testing.T) {
	data := cat(pkt(algo.TagLiteral, literal("a.txt", "hello")), pkt(algo.TagAEADEncrypted, aeadBody()))
	text := dumpText(t, data, dump.Options{})
	for _, want := range []string{
		"Literal data packet\n",
		"    data format: 'b'\n",
		"    filename: a.txt (len 5)\n",
		"    data bytes: 5\n",
		"AEAD-encrypted data packet\n",
		"    symmetric algorithm: 9 (AES-256)\n",
		"    aead algorithm: 1 (EAX)\n",
		"    chunk size: 6\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}

	out := dumpJSON(t, data, dump.Options{})
	if out[0]["datalen"] != float64(5) || out[0]["format"] != "b" || out[0]["filename"] != "a.txt" {
		t.Errorf("literal JSON = %v", out[0])
	}
	if out[1]["chunk size"] != float64(6) || out[1]["aead algorithm.str"] != "EAX" {
		t.Errorf("aead JSON = %v", out[1])
	}
}

func TestDumpAEADLongBodyDrained(t *testing.T) {
	body := cat([]byte{1, 9, 2, 10}, bytes.Repeat([]byte{0x0c}, 15), bytes.Repeat([]byte{0xee}, 300))
	data := cat(pkt(algo.TagAEADEncrypted, body), pkt(algo.TagUserID, []byte("after")))

	stats, text := runStats(t, data, dump.Options{})
	for _, want := range []string{
		"    aead algorithm: 2 (OCB)\n",
		"    chunk size: 10\n",
		"UserID packet\n    id: after\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in\n%s", want, text)
		}
	}
	if stats.Failures != 0 {
		t.Errorf("Failures = %d, want 0", stats.Failures)
	}
}

func TestDumpAEADHeaderFailure(t *testing.T) {
	stats, text := runStats(t, pkt(algo.TagAEADEncrypted, []byte{7, 9}), dump.Options{})
	if !strings.Contains(text, "AEAD-encrypted data packet\nERROR: failed to read AEAD header\n") {
		t.Errorf("missing AEAD failure in\n%s", text)
	}
	if stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
}

func TestDumpSkippedPackets(t *testing.T) {
	data := cat(pkt(algo.TagTrust, []byte{0, 0}), pkt(algo.TagMDC, bytes.Repeat([]byte{0}, 20)))
	stats, text := runStats(t, data, dump.Options{})
	if !strings.Contains(text, "Skipping unhandled pkt: 12\n\n") || !strings.Contains(text, "Skipping unhandled pkt: 19\n\n") {
		t.Errorf("missing skip lines in\n%s", text)
	}
	if stats.Failures != 0 {
		t.Errorf("Failures = %d, want 0", stats.Failures)
	}
}

func TestDumpOptionsValidation(t *testing.T) {
	_, err := dump.NewContext(context.Background(), dump.Options{MaxLayers: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewContext() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestDumpCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := dump.Dump(ctx, stream.FromBytes(pkt(algo.TagMarker, []byte("PGP"))), dump.Options{}, render.NewText(io.Discard))
	if err == nil {
		t.Error("Dump() with canceled context returned nil")
	}
}
