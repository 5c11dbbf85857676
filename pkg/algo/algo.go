// Package algo holds the static OpenPGP identifier tables used when dumping
// packets: packet tags, signature and subpacket types, key types, public-key,
// symmetric, hash, compression and AEAD algorithms, revocation reasons and
// elliptic curve OIDs.
//
// Tables are read-only for the life of the process. Lookups of unknown ids
// never fail; [Table.Name] returns [Unknown] so callers can render the raw
// numeric id next to it.
package algo

import (
	"bytes"
	"sort"
)

// Unknown is the display name returned for ids missing from a table.
const Unknown = "Unknown"

// Table maps numeric identifiers of one category to display names.
type Table struct {
	category string
	names    map[int]string
}

func newTable(category string, names map[int]string) Table {
	return Table{category: category, names: names}
}

// Category returns the table's category, e.g. "hash algorithm".
func (t Table) Category() string { return t.category }

// Lookup returns the display name for id and whether it is known.
func (t Table) Lookup(id int) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Name returns the display name for id, or [Unknown].
func (t Table) Name(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return Unknown
}

// IDs returns all known ids in ascending order.
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t.names))
	for id := range t.names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// =============================================================================
// Packet Tags
// =============================================================================

// Packet tags.
const (
	TagReserved         = 0
	TagPKSessionKey     = 1
	TagSignature        = 2
	TagSKSessionKey     = 3
	TagOnePassSignature = 4
	TagSecretKey        = 5
	TagPublicKey        = 6
	TagSecretSubkey     = 7
	TagCompressed       = 8
	TagSymEncrypted     = 9
	TagMarker           = 10
	TagLiteral          = 11
	TagTrust            = 12
	TagUserID           = 13
	TagPublicSubkey     = 14
	TagReserved2        = 15
	TagReserved3        = 16
	TagUserAttribute    = 17
	TagSymEncryptedIP   = 18
	TagMDC              = 19
	TagAEADEncrypted    = 20
)

// PacketTags names packet tags.
var PacketTags = newTable("packet tag", map[int]string{
	TagReserved:         "Reserved",
	TagPKSessionKey:     "Public-Key Encrypted Session Key",
	TagSignature:        "Signature",
	TagSKSessionKey:     "Symmetric-Key Encrypted Session Key",
	TagOnePassSignature: "One-Pass Signature",
	TagSecretKey:        "Secret Key",
	TagPublicKey:        "Public Key",
	TagSecretSubkey:     "Secret Subkey",
	TagCompressed:       "Compressed Data",
	TagSymEncrypted:     "Symmetrically Encrypted Data",
	TagMarker:           "Marker",
	TagLiteral:          "Literal Data",
	TagTrust:            "Trust",
	TagUserID:           "User ID",
	TagPublicSubkey:     "Public Subkey",
	TagReserved2:        "reserved2",
	TagReserved3:        "reserved3",
	TagUserAttribute:    "User Attribute",
	TagSymEncryptedIP:   "Symmetric Encrypted and Integrity Protected Data",
	TagMDC:              "Modification Detection Code",
	TagAEADEncrypted:    "AEAD Encrypted Data Packet",
})

// KeyTypes names the four key packet tags.
var KeyTypes = newTable("key type", map[int]string{
	TagSecretKey:    "Secret key",
	TagPublicKey:    "Public key",
	TagSecretSubkey: "Secret subkey",
	TagPublicSubkey: "Public subkey",
})

// IsKeyTag reports whether tag is one of the key packet tags.
func IsKeyTag(tag int) bool {
	_, ok := KeyTypes.Lookup(tag)
	return ok
}

// IsSecretKeyTag reports whether tag carries secret key material.
func IsSecretKeyTag(tag int) bool {
	return tag == TagSecretKey || tag == TagSecretSubkey
}

// =============================================================================
// Signatures
// =============================================================================

// SignatureTypes names signature types.
var SignatureTypes = newTable("signature type", map[int]string{
	0x00: "Signature of a binary document",
	0x01: "Signature of a canonical text document",
	0x02: "Standalone signature",
	0x10: "Generic User ID certification",
	0x11: "Personal User ID certification",
	0x12: "Casual User ID certification",
	0x13: "Positive User ID certification",
	0x18: "Subkey Binding Signature",
	0x19: "Primary Key Binding Signature",
	0x1F: "Direct-key signature",
	0x20: "Key revocation signature",
	0x28: "Subkey revocation signature",
	0x30: "Certification revocation signature",
	0x40: "Timestamp signature",
	0x50: "Third-Party Confirmation signature",
})

// Signature subpacket types.
const (
	SubpacketCreationTime       = 2
	SubpacketExpirationTime     = 3
	SubpacketExportable         = 4
	SubpacketTrust              = 5
	SubpacketRegexp             = 6
	SubpacketRevocable          = 7
	SubpacketKeyExpiration      = 9
	SubpacketPreferredSymmetric = 11
	SubpacketRevocationKey      = 12
	SubpacketIssuerKeyID        = 16
	SubpacketNotation           = 20
	SubpacketPreferredHash      = 21
	SubpacketPreferredCompress  = 22
	SubpacketKeyServerPrefs     = 23
	SubpacketPreferredKeyServer = 24
	SubpacketPrimaryUserID      = 25
	SubpacketPolicyURI          = 26
	SubpacketKeyFlags           = 27
	SubpacketSignerUserID       = 28
	SubpacketRevocationReason   = 29
	SubpacketFeatures           = 30
	SubpacketSignatureTarget    = 31
	SubpacketEmbeddedSignature  = 32
	SubpacketIssuerFingerprint  = 33
	SubpacketPreferredAEAD      = 34
)

// SubpacketTypes names signature subpacket types.
var SubpacketTypes = newTable("subpacket type", map[int]string{
	SubpacketCreationTime:       "signature creation time",
	SubpacketExpirationTime:     "signature expiration time",
	SubpacketExportable:         "exportable certification",
	SubpacketTrust:              "trust signature",
	SubpacketRegexp:             "regular expression",
	SubpacketRevocable:          "revocable",
	SubpacketKeyExpiration:      "key expiration time",
	SubpacketPreferredSymmetric: "preferred symmetric algorithms",
	SubpacketRevocationKey:      "revocation key",
	SubpacketIssuerKeyID:        "issuer key ID",
	SubpacketNotation:           "notation data",
	SubpacketPreferredHash:      "preferred hash algorithms",
	SubpacketPreferredCompress:  "preferred compression algorithms",
	SubpacketKeyServerPrefs:     "key server preferences",
	SubpacketPreferredKeyServer: "preferred key server",
	SubpacketPrimaryUserID:      "primary user ID",
	SubpacketPolicyURI:          "policy URI",
	SubpacketKeyFlags:           "key flags",
	SubpacketSignerUserID:       "signer's user ID",
	SubpacketRevocationReason:   "reason for revocation",
	SubpacketFeatures:           "features",
	SubpacketSignatureTarget:    "signature target",
	SubpacketEmbeddedSignature:  "embedded signature",
	SubpacketIssuerFingerprint:  "issuer fingerprint",
	SubpacketPreferredAEAD:      "preferred AEAD algorithms",
})

// RevocationReasons names revocation reason codes.
var RevocationReasons = newTable("revocation reason", map[int]string{
	0:  "No reason",
	1:  "Superseded",
	2:  "Compromised",
	3:  "Retired",
	32: "No longer valid",
})

// Key flag bits.
const (
	KeyFlagCertify        = 0x01
	KeyFlagSign           = 0x02
	KeyFlagEncryptComms   = 0x04
	KeyFlagEncryptStorage = 0x08
	KeyFlagSplit          = 0x10
	KeyFlagAuth           = 0x20
	KeyFlagShared         = 0x80
)

// Feature bits.
const (
	FeatureMDC     = 0x01
	FeatureAEAD    = 0x02
	FeatureV5Keys  = 0x04
	FeatureSEIPDv2 = 0x08
)

// Flag names one bit of a bitmask.
type Flag struct {
	Bit  uint8
	Name string
}

// KeyFlags lists key flag bits in rendering order.
var KeyFlags = []Flag{
	{KeyFlagCertify, "certify"},
	{KeyFlagSign, "sign"},
	{KeyFlagEncryptComms, "encrypt_comm"},
	{KeyFlagEncryptStorage, "encrypt_storage"},
	{KeyFlagSplit, "split"},
	{KeyFlagAuth, "auth"},
	{KeyFlagShared, "shared"},
}

// Features lists feature bits in rendering order.
var Features = []Flag{
	{FeatureMDC, "mdc"},
	{FeatureAEAD, "aead"},
	{FeatureV5Keys, "v5 keys"},
	{FeatureSEIPDv2, "SEIPD v2"},
}

// FlagNames returns the names of the bits set in v, in table order.
func FlagNames(flags []Flag, v uint8) []string {
	var names []string
	for _, f := range flags {
		if v&f.Bit != 0 {
			names = append(names, f.Name)
		}
	}
	return names
}

// =============================================================================
// Public-Key Algorithms
// =============================================================================

// Public-key algorithms.
const (
	PubKeyRSA            = 1
	PubKeyRSAEncryptOnly = 2
	PubKeyRSASignOnly    = 3
	PubKeyElgamal        = 16
	PubKeyDSA            = 17
	PubKeyECDH           = 18
	PubKeyECDSA          = 19
	PubKeyElgamalSign    = 20
	PubKeyReservedDH     = 21
	PubKeyEdDSA          = 22
	PubKeyX25519         = 25
	PubKeyX448           = 26
	PubKeyEd25519        = 27
	PubKeyEd448          = 28
	PubKeySM2            = 99
)

// PublicKeyAlgorithms names public-key algorithms.
var PublicKeyAlgorithms = newTable("public key algorithm", map[int]string{
	PubKeyRSA:            "RSA (Encrypt or Sign)",
	PubKeyRSAEncryptOnly: "RSA (Encrypt-Only)",
	PubKeyRSASignOnly:    "RSA (Sign-Only)",
	PubKeyElgamal:        "Elgamal (Encrypt-Only)",
	PubKeyDSA:            "DSA",
	PubKeyECDH:           "ECDH",
	PubKeyECDSA:          "ECDSA",
	PubKeyElgamalSign:    "Elgamal",
	PubKeyReservedDH:     "Reserved for DH (X9.42)",
	PubKeyEdDSA:          "EdDSA",
	PubKeyX25519:         "X25519",
	PubKeyX448:           "X448",
	PubKeyEd25519:        "Ed25519",
	PubKeyEd448:          "Ed448",
	PubKeySM2:            "SM2",
})

// IsRSA reports whether alg is one of the RSA variants.
func IsRSA(alg int) bool {
	return alg == PubKeyRSA || alg == PubKeyRSAEncryptOnly || alg == PubKeyRSASignOnly
}

// IsElgamal reports whether alg is one of the Elgamal variants.
func IsElgamal(alg int) bool {
	return alg == PubKeyElgamal || alg == PubKeyElgamalSign
}

// NativeKeySize returns the fixed public key size of the native curve
// algorithms, or 0 for every other algorithm.
func NativeKeySize(alg int) int {
	switch alg {
	case PubKeyX25519, PubKeyEd25519:
		return 32
	case PubKeyX448:
		return 56
	case PubKeyEd448:
		return 57
	}
	return 0
}

// NativeSignatureSize returns the fixed signature size of Ed25519 / Ed448.
func NativeSignatureSize(alg int) int {
	switch alg {
	case PubKeyEd25519:
		return 64
	case PubKeyEd448:
		return 114
	}
	return 0
}

// =============================================================================
// Symmetric, Hash, Compression and AEAD Algorithms
// =============================================================================

// Symmetric algorithms.
const (
	SymPlaintext   = 0
	SymIDEA        = 1
	SymTripleDES   = 2
	SymCAST5       = 3
	SymBlowfish    = 4
	SymAES128      = 7
	SymAES192      = 8
	SymAES256      = 9
	SymTwofish     = 10
	SymCamellia128 = 11
	SymCamellia192 = 12
	SymCamellia256 = 13
	SymSM4         = 105
)

// SymmetricAlgorithms names symmetric algorithms.
var SymmetricAlgorithms = newTable("symmetric algorithm", map[int]string{
	SymPlaintext:   "Plaintext",
	SymIDEA:        "IDEA",
	SymTripleDES:   "TripleDES",
	SymCAST5:       "CAST5",
	SymBlowfish:    "Blowfish",
	SymAES128:      "AES-128",
	SymAES192:      "AES-192",
	SymAES256:      "AES-256",
	SymTwofish:     "Twofish",
	SymCamellia128: "Camellia-128",
	SymCamellia192: "Camellia-192",
	SymCamellia256: "Camellia-256",
	SymSM4:         "SM4",
})

// BlockSize returns the cipher block size in bytes, or 0 if unknown.
func BlockSize(alg int) int {
	switch alg {
	case SymIDEA, SymTripleDES, SymCAST5, SymBlowfish:
		return 8
	case SymAES128, SymAES192, SymAES256, SymTwofish,
		SymCamellia128, SymCamellia192, SymCamellia256, SymSM4:
		return 16
	}
	return 0
}

// HashAlgorithms names hash algorithms.
var HashAlgorithms = newTable("hash algorithm", map[int]string{
	1:   "MD5",
	2:   "SHA1",
	3:   "RIPEMD160",
	8:   "SHA256",
	9:   "SHA384",
	10:  "SHA512",
	11:  "SHA224",
	12:  "SHA3-256",
	14:  "SHA3-512",
	105: "SM3",
})

// Compression algorithms.
const (
	CompressNone  = 0
	CompressZIP   = 1
	CompressZLIB  = 2
	CompressBZip2 = 3
)

// CompressionAlgorithms names compression algorithms.
var CompressionAlgorithms = newTable("compression algorithm", map[int]string{
	CompressNone:  "Uncompressed",
	CompressZIP:   "ZIP",
	CompressZLIB:  "ZLib",
	CompressBZip2: "BZip2",
})

// AEAD algorithms.
const (
	AEADNone = 0
	AEADEAX  = 1
	AEADOCB  = 2
	AEADGCM  = 3
)

// AEADAlgorithms names AEAD algorithms.
var AEADAlgorithms = newTable("aead algorithm", map[int]string{
	AEADNone: "None",
	AEADEAX:  "EAX",
	AEADOCB:  "OCB",
	AEADGCM:  "GCM",
})

// AEADNonceSize returns the nonce (IV) length for alg, or 0 if unknown.
func AEADNonceSize(alg int) int {
	switch alg {
	case AEADEAX:
		return 16
	case AEADOCB:
		return 15
	case AEADGCM:
		return 12
	}
	return 0
}

// =============================================================================
// Elliptic Curves
// =============================================================================

// Curve describes an elliptic curve known by its OpenPGP OID.
type Curve struct {
	Name string
	OID  []byte
}

// Curves lists the curves recognised in key material.
var Curves = []Curve{
	{"NIST P-256", []byte{0x2A, 0x86, 0x48, 0xCE, 0x3D, 0x03, 0x01, 0x07}},
	{"NIST P-384", []byte{0x2B, 0x81, 0x04, 0x00, 0x22}},
	{"NIST P-521", []byte{0x2B, 0x81, 0x04, 0x00, 0x23}},
	{"Ed25519", []byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0xDA, 0x47, 0x0F, 0x01}},
	{"Curve25519", []byte{0x2B, 0x06, 0x01, 0x04, 0x01, 0x97, 0x55, 0x01, 0x05, 0x01}},
	{"brainpoolP256r1", []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x07}},
	{"brainpoolP384r1", []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x0B}},
	{"brainpoolP512r1", []byte{0x2B, 0x24, 0x03, 0x03, 0x02, 0x08, 0x01, 0x01, 0x0D}},
	{"secp256k1", []byte{0x2B, 0x81, 0x04, 0x00, 0x0A}},
	{"SM2 P-256", []byte{0x2A, 0x81, 0x1C, 0xCF, 0x55, 0x01, 0x82, 0x2D}},
}

// CurveByOID returns the curve with the given OID.
func CurveByOID(oid []byte) (Curve, bool) {
	for _, c := range Curves {
		if bytes.Equal(c.OID, oid) {
			return c, true
		}
	}
	return Curve{}, false
}

// CurveName returns the curve name for oid, or "unknown".
func CurveName(oid []byte) string {
	if c, ok := CurveByOID(oid); ok {
		return c.Name
	}
	return "unknown"
}
