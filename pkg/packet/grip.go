package packet

import (
	"crypto/elliptic"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// Grip computes the libgcrypt-compatible keygrip. RSA hashes the bare
// modulus, DSA and Elgamal hash their public parameters, and elliptic curve
// keys hash the curve parameters p, a, b, g, n followed by the point q.
func (k *Key) Grip() ([]byte, error) {
	m := &k.Material
	h := sha1.New()
	switch alg := k.Alg; {
	case algo.IsRSA(alg):
		if len(m.N.Bytes) > 0 && m.N.Bytes[0]&0x80 != 0 {
			h.Write([]byte{0})
		}
		h.Write(m.N.Bytes)
	case alg == algo.PubKeyDSA:
		gripMPI(h, "p", m.P.Bytes, true)
		gripMPI(h, "q", m.Q.Bytes, true)
		gripMPI(h, "g", m.G.Bytes, true)
		gripMPI(h, "y", m.Y.Bytes, true)
	case algo.IsElgamal(alg):
		gripMPI(h, "p", m.P.Bytes, true)
		gripMPI(h, "g", m.G.Bytes, true)
		gripMPI(h, "y", m.Y.Bytes, true)
	case alg == algo.PubKeyECDSA, alg == algo.PubKeyEdDSA, alg == algo.PubKeyECDH, alg == algo.PubKeySM2:
		c, ok := algo.CurveByOID(m.Curve)
		if !ok {
			return nil, fmt.Errorf("%w: grip of curve %x", ErrUnsupported, m.Curve)
		}
		params, ok := gripCurves[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: grip of curve %s", ErrUnsupported, c.Name)
		}
		q := m.Point.Bytes
		if params.native {
			if len(q) < 1 {
				return nil, fmt.Errorf("%w: %s point", ErrBadFormat, c.Name)
			}
			q = q[1:]
		}
		gripMPI(h, "p", params.p, false)
		gripMPI(h, "a", params.a, false)
		gripMPI(h, "b", params.b, false)
		gripMPI(h, "g", params.g, false)
		gripMPI(h, "n", params.n, false)
		gripMPI(h, "q", q, false)
	default:
		return nil, fmt.Errorf("%w: grip of algorithm %d", ErrUnsupported, k.Alg)
	}
	return h.Sum(nil), nil
}

// gripMPI hashes one parameter as an s-expression "(1:<name><len>:<value>)".
// Leading zero octets are skipped. With lead, a zero octet is prepended when
// the top bit is set, as libgcrypt does for integers but not for curve
// parameters.
func gripMPI(h hash.Hash, name string, v []byte, lead bool) {
	for len(v) > 0 && v[0] == 0 {
		v = v[1:]
	}
	pad := lead && len(v) > 0 && v[0]&0x80 != 0
	n := len(v)
	if pad {
		n++
	}
	fmt.Fprintf(h, "(1:%s%d:", name, n)
	if pad {
		h.Write([]byte{0})
	}
	h.Write(v)
	h.Write([]byte(")"))
}

// curveParams are the domain parameters hashed into an EC grip. g is the
// uncompressed base point.
type curveParams struct {
	p, a, b, g, n []byte
	native        bool // point carries a 0x40 prefix octet
}

// gripCurves maps algo curve names to their domain parameters.
var gripCurves = map[string]curveParams{
	"NIST P-256": nistParams(elliptic.P256()),
	"NIST P-384": nistParams(elliptic.P384()),
	"NIST P-521": nistParams(elliptic.P521()),
	"Ed25519": {
		p:      mustHex("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed"),
		a:      mustHex("01"),
		b:      mustHex("2dfc9311d490018c7338bf8688861767ff8ff5b2bebe27548a14b235eca6874a"),
		g:      mustPoint("216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a", "6666666666666666666666666666666666666666666666666666666666666658"),
		n:      mustHex("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed"),
		native: true,
	},
	"Curve25519": {
		p:      mustHex("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed"),
		a:      mustHex("01db41"),
		b:      mustHex("01"),
		g:      mustPoint("0000000000000000000000000000000000000000000000000000000000000009", "20ae19a1b8a086b4e01edd2c7748d14c923d4d7e6d7c61b229e9c5a27eced3d9"),
		n:      mustHex("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed"),
		native: true,
	},
	"brainpoolP256r1": {
		p: mustHex("a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377"),
		a: mustHex("7d5a0975fc2c3057eef67530417affe7fb8055c126dc5c6ce94a4b44f330b5d9"),
		b: mustHex("26dc5c6ce94a4b44f330b5d9bbd77cbf958416295cf7e1ce6bccdc18ff8c07b6"),
		g: mustPoint("8bd2aeb9cb7e57cb2c4b482ffc81b7afb9de27e1e3bd23c23a4453bd9ace3262", "547ef835c3dac4fd97f8461a14611dc9c27745132ded8e545c1d54c72f046997"),
		n: mustHex("a9fb57dba1eea9bc3e660a909d838d718c397aa3b561a6f7901e0e82974856a7"),
	},
	"brainpoolP384r1": {
		p: mustHex("8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b412b1da197fb71123acd3a729901d1a71874700133107ec53"),
		a: mustHex("7bc382c63d8c150c3c72080ace05afa0c2bea28e4fb22787139165efba91f90f8aa5814a503ad4eb04a8c7dd22ce2826"),
		b: mustHex("04a8c7dd22ce28268b39b55416f0447c2fb77de107dcd2a62e880ea53eeb62d57cb4390295dbc9943ab78696fa504c11"),
		g: mustPoint("1d1c64f068cf45ffa2a63a81b7c13f6b8847a3e77ef14fe3db7fcafe0cbd10e8e826e03436d646aaef87b2e247d4af1e", "8abe1d7520f9c2a45cb1eb8e95cfd55262b70b29feec5864e19c054ff99129280e4646217791811142820341263c5315"),
		n: mustHex("8cb91e82a3386d280f5d6f7e50e641df152f7109ed5456b31f166e6cac0425a7cf3ab6af6b7fc3103b883202e9046565"),
	},
	"brainpoolP512r1": {
		p: mustHex("aadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca703308717d4d9b009bc66842aecda12ae6a380e62881ff2f2d82c68528aa6056583a48f3"),
		a: mustHex("7830a3318b603b89e2327145ac234cc594cbdd8d3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94ca"),
		b: mustHex("3df91610a83441caea9863bc2ded5d5aa8253aa10a2ef1c98b9ac8b57f1117a72bf2c7b9e7c1ac4d77fc94cadc083e67984050b75ebae5dd2809bd638016f723"),
		g: mustPoint("81aee4bdd82ed9645a21322e9c4c6a9385ed9f70b5d916c1b43b62eef4d0098eff3b1f78e2d0d48d50d1687b93b97d5f7c6d5047406a5e688b352209bcb9f822", "7dde385d566332ecc0eabfa9cf7822fdf209f70024a57b1aa000c55b881f8111b2dcde494a5f485e5bca4bd88a2763aed1ca2b2fa8f0540678cd1e0f3ad80892"),
		n: mustHex("aadd9db8dbe9c48b3fd4e6ae33c9fc07cb308db3b3c9d20ed6639cca70330870553e5c414ca92619418661197fac10471db1d381085ddaddb58796829ca90069"),
	},
	"secp256k1": {
		p: mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
		a: mustHex("00"),
		b: mustHex("07"),
		g: mustPoint("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
		n: mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
	},
	"SM2 P-256": {
		p: mustHex("fffffffeffffffffffffffffffffffffffffffff00000000ffffffffffffffff"),
		a: mustHex("fffffffeffffffffffffffffffffffffffffffff00000000fffffffffffffffc"),
		b: mustHex("28e9fa9e9d9f5e344d5a9e4bcf6509a7f39789f515ab8f92ddbcbd414d940e93"),
		g: mustPoint("32c4ae2c1f1981195f9904466a39c9948fe30bbff2660be1715a4589334c74c7", "bc3736a2f4f6779c59bdcee36b692153d0a9877cc62a474002df32e52139f0a0"),
		n: mustHex("fffffffeffffffffffffffffffffffff7203df6b21c6052b53bbf40939d54123"),
	},
}

// nistParams reads the domain parameters of a short Weierstrass curve with
// a = -3.
func nistParams(c elliptic.Curve) curveParams {
	cp := c.Params()
	size := (cp.BitSize + 7) / 8
	a := new(big.Int).Sub(cp.P, big.NewInt(3))
	g := make([]byte, 1+2*size)
	g[0] = 0x04
	cp.Gx.FillBytes(g[1 : 1+size])
	cp.Gy.FillBytes(g[1+size:])
	return curveParams{p: cp.P.Bytes(), a: a.Bytes(), b: cp.B.Bytes(), g: g, n: cp.N.Bytes()}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func mustPoint(x, y string) []byte {
	return append(append([]byte{0x04}, mustHex(x)...), mustHex(y)...)
}
