package decaf377

import (
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// EncodingBytes is the length of a compressed element.
const EncodingBytes = 32

// Encoding is the canonical 32-byte compressed form of an Element.
type Encoding [EncodingBytes]byte

// Element is a decaf377 group element in extended coordinates
// (X:Y:Z:T) with x = X/Z, y = Y/Z and x·y = T/Z.
type Element struct {
	x, y, z, t Fq
}

var (
	identity  = Element{y: fqOne, z: fqOne}
	generator = mustDecompress(Encoding{8})
)

func mustDecompress(enc Encoding) Element {
	e, err := enc.Decompress()
	if err != nil {
		panic("decaf377: constant point does not decode")
	}
	return e
}

// Identity returns the neutral element.
func Identity() Element {
	return identity
}

// Generator returns the conventional basepoint, the element encoded as 8.
func Generator() Element {
	return generator
}

// Add returns e + o using the complete add-2008-hwcd-3 formulas for a = -1.
func (e Element) Add(o Element) Element {
	var a, b, c, d, tmp Fq

	a.Sub(&e.y, &e.x)
	tmp.Sub(&o.y, &o.x)
	a.Mul(&a, &tmp)

	b.Add(&e.y, &e.x)
	tmp.Add(&o.y, &o.x)
	b.Mul(&b, &tmp)

	c.Mul(&e.t, &o.t)
	c.Mul(&c, &twoD)

	d.Mul(&e.z, &o.z)
	d.Double(&d)

	var ee, f, g, h Fq
	ee.Sub(&b, &a)
	f.Sub(&d, &c)
	g.Add(&d, &c)
	h.Add(&b, &a)

	var out Element
	out.x.Mul(&ee, &f)
	out.y.Mul(&g, &h)
	out.z.Mul(&f, &g)
	out.t.Mul(&ee, &h)
	return out
}

// Double returns 2·e.
func (e Element) Double() Element {
	return e.Add(e)
}

// Neg returns -e.
func (e Element) Neg() Element {
	out := e
	out.x.Neg(&e.x)
	out.t.Neg(&e.t)
	return out
}

// Sub returns e - o.
func (e Element) Sub(o Element) Element {
	return e.Add(o.Neg())
}

// Equal compares elements in the decaf quotient: X1·Y2 == Y1·X2.
func (e Element) Equal(o Element) bool {
	var l, r Fq
	l.Mul(&e.x, &o.y)
	r.Mul(&e.y, &o.x)
	return l.Equal(&r)
}

// IsIdentity reports whether e is the neutral element.
func (e Element) IsIdentity() bool {
	return e.Equal(identity)
}

// ScalarMul returns s·e.
//
// The ladder walks all 256 bits of the scalar encoding and always performs
// both the double and the add, selecting the result with a mask, so the
// sequence of field operations does not depend on the secret bits.
func (e Element) ScalarMul(s Fr) Element {
	bits := s.Bytes()
	acc := identity
	for i := FrBytes*8 - 1; i >= 0; i-- {
		acc = acc.Double()
		sum := acc.Add(e)
		bit := uint64(bits[i/8]>>(uint(i)%8)) & 1
		acc = conditionalSelect(acc, sum, bit)
	}
	return acc
}

// BasepointMul returns s·G.
func BasepointMul(s Fr) Element {
	return generator.ScalarMul(s)
}

// conditionalSelect returns b when choice is 1 and a when it is 0.
func conditionalSelect(a, b Element, choice uint64) Element {
	mask := -choice
	var out Element
	selectFq(&out.x, &a.x, &b.x, mask)
	selectFq(&out.y, &a.y, &b.y, mask)
	selectFq(&out.z, &a.z, &b.z, mask)
	selectFq(&out.t, &a.t, &b.t, mask)
	return out
}

func selectFq(out, a, b *Fq, mask uint64) {
	for i := range out {
		out[i] = a[i] ^ (mask & (a[i] ^ b[i]))
	}
}

// Compress returns the canonical decaf377 encoding of e.
func (e Element) Compress() Encoding {
	s := e.CompressToField()
	return Encoding(FqToBytes(&s))
}

// CompressToField returns the field element s whose encoding is the
// compressed point.
func (e Element) CompressToField() Fq {
	var u1, tmp Fq
	u1.Add(&e.x, &e.t)
	tmp.Sub(&e.x, &e.t)
	u1.Mul(&u1, &tmp)

	var den Fq
	den.Mul(&u1, &aMinusD)
	tmp.Square(&e.x)
	den.Mul(&den, &tmp)
	_, v := sqrtRatioZeta(&fqOne, &den)

	var u2 Fq
	u2.Mul(&v, &u1)
	u2 = fqAbs(&u2)

	var u3 Fq
	u3.Mul(&u2, &e.z)
	u3.Sub(&u3, &e.t)

	var s Fq
	s.Mul(&aMinusD, &v)
	s.Mul(&s, &u3)
	s.Mul(&s, &e.x)
	return fqAbs(&s)
}

// Decompress decodes a canonical encoding, rejecting anything that is not
// the image of a group element.
func (enc Encoding) Decompress() (Element, error) {
	s, err := FqFromBytesChecked(enc[:])
	if err != nil {
		return Element{}, errcode.InvalidPubkeyEncoding
	}
	if isNegative(&s) {
		return Element{}, errcode.InvalidPubkeyEncoding
	}

	var ss, u1, u2, tmp Fq
	ss.Square(&s)
	u1.Sub(&fqOne, &ss)
	u2.Square(&u1)
	tmp.Mul(&fourD, &ss)
	u2.Sub(&u2, &tmp)

	var den Fq
	den.Square(&u1)
	den.Mul(&den, &u2)
	ok, v := sqrtRatioZeta(&fqOne, &den)
	if !ok {
		return Element{}, errcode.InvalidPubkeyEncoding
	}

	var check Fq
	check.Double(&s)
	check.Mul(&check, &u1)
	check.Mul(&check, &v)
	if isNegative(&check) {
		v.Neg(&v)
	}

	var out Element
	out.x.Square(&v)
	out.x.Mul(&out.x, &s)
	out.x.Double(&out.x)
	out.x.Mul(&out.x, &u1)
	out.x.Mul(&out.x, &u2)

	out.y.Add(&fqOne, &ss)
	out.y.Mul(&out.y, &v)
	out.y.Mul(&out.y, &u1)

	out.z.SetOne()
	out.t.Mul(&out.x, &out.y)
	return out, nil
}

// DecompressBytes decodes a 32-byte slice.
func DecompressBytes(b []byte) (Element, error) {
	if len(b) != EncodingBytes {
		return Element{}, errcode.InvalidLength
	}
	var enc Encoding
	copy(enc[:], b)
	return enc.Decompress()
}
