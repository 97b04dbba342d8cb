package decaf377

import (
	"encoding/binary"
	"math/bits"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// FrBytes is the length of a canonical Fr encoding.
const FrBytes = 32

// Fr is a scalar modulo the group order
// r = 2111115437357092606062206234695386632838870926408408195193685246394721360383,
// held as four little-endian 64-bit words in Montgomery form (x·2²⁵⁶ mod r).
//
// Every operation runs in time independent of the scalar's value: the
// arithmetic is straight-line word code with masked selects in place of
// branches, so secret keys and nonces can flow through it.
type Fr [4]uint64

// Montgomery constants for r.
const (
	frQ0 uint64 = 0xb95aee9ac33fd9ff
	frQ1 uint64 = 0x5293a3afc43c8afe
	frQ2 uint64 = 0x982d1347970dec00
	frQ3 uint64 = 0x04aad957a68b2955

	// frQInvNeg is -r⁻¹ mod 2⁶⁴.
	frQInvNeg uint64 = 0x860efbdd70e3da01
)

var (
	frModulusWords = [4]uint64{frQ0, frQ1, frQ2, frQ3}

	// frR2 is 2⁵¹² mod r, used to enter Montgomery form.
	frR2 = Fr{0x375699cd6a55d45e, 0xf639c3f57a73da73, 0xca06049ccd027a21, 0x047ada1eef02d841}

	// frOne is 2²⁵⁶ mod r, the Montgomery form of 1.
	frOne = Fr{0xe6d1ab5ad0880436, 0x94db78ec9b3aae44, 0xe67deee6231037ee, 0x03f62782dea547f1}

	// frInvExp is r - 2.
	frInvExp = [4]uint64{frQ0 - 2, frQ1, frQ2, frQ3}
)

// FrFromLEBytesModOrder interprets b as a little-endian integer of any length
// and reduces it modulo r.
func FrFromLEBytesModOrder(b []byte) Fr {
	var acc Fr
	top := len(b) % FrBytes
	if top == 0 && len(b) > 0 {
		top = FrBytes
	}
	for end := len(b); end > 0; {
		start := end - top
		var chunk [FrBytes]byte
		copy(chunk[:], b[start:end])

		// acc·2²⁵⁶ + chunk
		frMul(&acc, &acc, &frR2)
		w := wordsFromLE(&chunk)
		var c Fr
		frMul(&c, (*Fr)(&w), &frR2)
		frAdd(&acc, &acc, &c)

		end = start
		top = FrBytes
	}
	return acc
}

// FrFromBytesChecked decodes a canonical 32-byte little-endian encoding.
func FrFromBytesChecked(b []byte) (Fr, error) {
	if len(b) != FrBytes {
		return Fr{}, errcode.InvalidLength
	}
	var enc [FrBytes]byte
	copy(enc[:], b)
	w := wordsFromLE(&enc)

	var borrow uint64
	_, borrow = bits.Sub64(w[0], frQ0, 0)
	_, borrow = bits.Sub64(w[1], frQ1, borrow)
	_, borrow = bits.Sub64(w[2], frQ2, borrow)
	_, borrow = bits.Sub64(w[3], frQ3, borrow)
	if borrow == 0 {
		return Fr{}, errcode.InvalidFq
	}

	var out Fr
	frMul(&out, (*Fr)(&w), &frR2)
	return out, nil
}

// FrFromUint64 lifts a u64 into the scalar field.
func FrFromUint64(v uint64) Fr {
	var out Fr
	frMul(&out, &Fr{v}, &frR2)
	return out
}

// Bytes returns the canonical little-endian encoding.
func (s Fr) Bytes() [FrBytes]byte {
	var regular Fr
	frMul(&regular, &s, &Fr{1})
	var out [FrBytes]byte
	for i, w := range regular {
		binary.LittleEndian.PutUint64(out[8*i:], w)
	}
	return out
}

// IsZero reports whether s is the zero scalar.
func (s Fr) IsZero() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

// Equal reports whether two scalars are equal.
func (s Fr) Equal(o Fr) bool {
	return (s[0]^o[0])|(s[1]^o[1])|(s[2]^o[2])|(s[3]^o[3]) == 0
}

// Add returns s + o.
func (s Fr) Add(o Fr) Fr {
	var out Fr
	frAdd(&out, &s, &o)
	return out
}

// Sub returns s - o.
func (s Fr) Sub(o Fr) Fr {
	var out Fr
	frSub(&out, &s, &o)
	return out
}

// Mul returns s · o.
func (s Fr) Mul(o Fr) Fr {
	var out Fr
	frMul(&out, &s, &o)
	return out
}

// Neg returns -s.
func (s Fr) Neg() Fr {
	var out Fr
	frSub(&out, &Fr{}, &s)
	return out
}

// Inverse returns s⁻¹, or an error for zero.
//
// The inverse is s^(r-2). The exponent is public, so walking its bits is
// safe; every step does the same work whatever s is.
func (s Fr) Inverse() (Fr, error) {
	if s.IsZero() {
		return Fr{}, errcode.UnexpectedValue
	}
	acc := frOne
	for i := len(frInvExp) - 1; i >= 0; i-- {
		for j := 63; j >= 0; j-- {
			frMul(&acc, &acc, &acc)
			if (frInvExp[i]>>uint(j))&1 == 1 {
				frMul(&acc, &acc, &s)
			}
		}
	}
	return acc, nil
}

func wordsFromLE(b *[FrBytes]byte) [4]uint64 {
	return [4]uint64{
		binary.LittleEndian.Uint64(b[0:]),
		binary.LittleEndian.Uint64(b[8:]),
		binary.LittleEndian.Uint64(b[16:]),
		binary.LittleEndian.Uint64(b[24:]),
	}
}

// frReduce subtracts r from z when z ≥ r. carry is a fifth word that
// forces the subtraction when set.
func frReduce(z *Fr, carry uint64) {
	var t Fr
	var b uint64
	t[0], b = bits.Sub64(z[0], frQ0, 0)
	t[1], b = bits.Sub64(z[1], frQ1, b)
	t[2], b = bits.Sub64(z[2], frQ2, b)
	t[3], b = bits.Sub64(z[3], frQ3, b)

	mask := -((b ^ 1) | carry)
	for i := range z {
		z[i] ^= mask & (z[i] ^ t[i])
	}
}

// frAdd sets z = x + y. r < 2²⁵² so the sum never leaves four words.
func frAdd(z, x, y *Fr) {
	var c uint64
	z[0], c = bits.Add64(x[0], y[0], 0)
	z[1], c = bits.Add64(x[1], y[1], c)
	z[2], c = bits.Add64(x[2], y[2], c)
	z[3], _ = bits.Add64(x[3], y[3], c)
	frReduce(z, 0)
}

// frSub sets z = x - y, adding r back on borrow.
func frSub(z, x, y *Fr) {
	var b uint64
	z[0], b = bits.Sub64(x[0], y[0], 0)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[3], b = bits.Sub64(x[3], y[3], b)

	mask := -b
	var c uint64
	z[0], c = bits.Add64(z[0], frQ0&mask, 0)
	z[1], c = bits.Add64(z[1], frQ1&mask, c)
	z[2], c = bits.Add64(z[2], frQ2&mask, c)
	z[3], _ = bits.Add64(z[3], frQ3&mask, c)
}

// frMul sets z = x·y·2⁻²⁵⁶ mod r using word-by-word Montgomery
// multiplication (CIOS). x may be any four-word value; y must be below r.
func frMul(z, x, y *Fr) {
	var t [5]uint64
	for j := 0; j < 4; j++ {
		var c, d uint64
		for i := 0; i < 4; i++ {
			c, t[i] = madd2(x[i], y[j], t[i], c)
		}
		t[4], d = bits.Add64(t[4], c, 0)

		m := t[0] * frQInvNeg
		c = madd0(m, frModulusWords[0], t[0])
		for i := 1; i < 4; i++ {
			c, t[i-1] = madd2(m, frModulusWords[i], t[i], c)
		}
		t[3], c = bits.Add64(t[4], c, 0)
		t[4] = d + c
	}
	*z = Fr{t[0], t[1], t[2], t[3]}
	frReduce(z, t[4])
}

// madd0 returns the high word of a·b + c.
func madd0(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, carry := bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi
}

// madd2 returns a·b + c + d as (hi, lo).
func madd2(a, b, c, d uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	c, carry := bits.Add64(c, d, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	lo, carry = bits.Add64(lo, c, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi, lo
}
