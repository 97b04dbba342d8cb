// Package decaf377 implements the decaf377 prime-order group over the
// BLS12-377 scalar field, with its base field Fq and scalar field Fr.
//
// Points use extended twisted Edwards coordinates on the curve
// a·x² + y² = 1 + d·x²·y² with a = -1 and d = 3021. Only the decaf
// quotient is exposed: equality and encoding ignore the 2-torsion.
package decaf377

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Fq is an element of the decaf377 base field.
//
// The field is the scalar field of BLS12-377, so gnark-crypto's
// Montgomery-form implementation serves it directly.
type Fq = fr.Element

// FqBytes is the length of a canonical Fq encoding.
const FqBytes = 32

// zetaDecimal is a fixed non-square in Fq (a primitive 2^47-th root of unity).
const zetaDecimal = "2841681278031794617739547238867782961338435681360110683443920362658525667816"

var (
	fqModulus = fr.Modulus()

	fqOne    = FqFromUint64(1)
	curveA   = fqNeg(fqOne) // -1
	curveD   = FqFromUint64(3021)
	zeta     = fqFromDecimal(zetaDecimal)
	aMinusD  = fqSub(curveA, curveD)
	dMinusA  = fqSub(curveD, curveA)
	twoD     = fqAdd(curveD, curveD)
	aMinus2D = fqSub(curveA, twoD)
	fourD    = fqAdd(twoD, twoD)
)

func fqFromDecimal(s string) Fq {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("decaf377: bad field constant " + s)
	}
	var out Fq
	out.SetBigInt(v)
	return out
}

func fqAdd(a, b Fq) Fq {
	var out Fq
	out.Add(&a, &b)
	return out
}

func fqSub(a, b Fq) Fq {
	var out Fq
	out.Sub(&a, &b)
	return out
}

func fqNeg(a Fq) Fq {
	var out Fq
	out.Neg(&a)
	return out
}

// FqModulus returns a copy of q.
func FqModulus() *big.Int {
	return new(big.Int).Set(fqModulus)
}

// FqFromLEBytesModOrder interprets b as a little-endian integer of any length
// and reduces it modulo q.
func FqFromLEBytesModOrder(b []byte) Fq {
	var out Fq
	out.SetBigInt(leToBig(b))
	return out
}

// FqFromBytesChecked decodes a canonical 32-byte little-endian encoding.
func FqFromBytesChecked(b []byte) (Fq, error) {
	var out Fq
	if len(b) != FqBytes {
		return out, errcode.InvalidLength
	}
	v := leToBig(b)
	if v.Cmp(fqModulus) >= 0 {
		return out, errcode.InvalidFq
	}
	out.SetBigInt(v)
	return out, nil
}

// FqToBytes returns the canonical little-endian encoding of x.
func FqToBytes(x *Fq) [FqBytes]byte {
	var v big.Int
	x.ToBigIntRegular(&v)
	return bigToLE32(&v)
}

// FqFromUint64 lifts a u64 into the field.
func FqFromUint64(v uint64) Fq {
	var out Fq
	out.SetUint64(v)
	return out
}

// FqFromUint128 lifts a u128 given as (lo, hi) words into the field.
func FqFromUint128(lo, hi uint64) Fq {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	var out Fq
	out.SetBigInt(v)
	return out
}

// isNegative reports whether the canonical encoding of x is odd.
func isNegative(x *Fq) bool {
	b := FqToBytes(x)
	return b[0]&1 == 1
}

// fqAbs returns the non-negative representative of ±x.
func fqAbs(x *Fq) Fq {
	var out Fq
	if isNegative(x) {
		out.Neg(x)
	} else {
		out.Set(x)
	}
	return out
}

// sqrtRatioZeta computes sqrt(n/d) when it exists and sqrt(zeta·n/d)
// otherwise. The boolean reports whether n/d was square. A zero numerator
// is square with root zero; a zero denominator is never square.
func sqrtRatioZeta(n, d *Fq) (bool, Fq) {
	var zero Fq
	if n.IsZero() {
		return true, zero
	}
	if d.IsZero() {
		return false, zero
	}

	var ratio Fq
	ratio.Inverse(d)
	ratio.Mul(&ratio, n)

	var root Fq
	if root.Sqrt(&ratio) != nil {
		return true, root
	}

	ratio.Mul(&ratio, &zeta)
	if root.Sqrt(&ratio) == nil {
		// zeta is a non-square, so zeta·n/d must be square.
		panic("decaf377: zeta·n/d has no square root")
	}
	return false, root
}

func leToBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

func bigToLE32(v *big.Int) [32]byte {
	var be, le [32]byte
	v.FillBytes(be[:])
	for i := range be {
		le[31-i] = be[i]
	}
	return le
}
