package asset

import (
	"encoding/binary"
	"math/bits"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// U128x128Len is the encoded length of a U128x128.
const U128x128Len = 32

// U128x128 is an unsigned fixed-point number with 128 integral and 128
// fractional bits. Limbs are little-endian 64-bit words: w[3], w[2] hold the
// integral part and w[1], w[0] the fraction.
type U128x128 struct {
	w [4]uint64
}

// U128x128FromAmount returns a as an integral fixed-point number.
func U128x128FromAmount(a Amount) U128x128 {
	return U128x128{w: [4]uint64{0, 0, a.Lo, a.Hi}}
}

// U128x128FromBytes decodes the order-preserving big-endian encoding
// integral ‖ fraction.
func U128x128FromBytes(b []byte) (U128x128, error) {
	if len(b) != U128x128Len {
		return U128x128{}, errcode.InvalidLength
	}
	var x U128x128
	for i := 0; i < 4; i++ {
		x.w[3-i] = binary.BigEndian.Uint64(b[8*i : 8*i+8])
	}
	return x, nil
}

// Bytes returns the big-endian encoding, which sorts like the numbers do.
func (x U128x128) Bytes() [U128x128Len]byte {
	var out [U128x128Len]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(out[8*i:8*i+8], x.w[3-i])
	}
	return out
}

// IsIntegral reports whether the fractional part is zero.
func (x U128x128) IsIntegral() bool {
	return x.w[0] == 0 && x.w[1] == 0
}

// RoundDown drops the fractional part.
func (x U128x128) RoundDown() U128x128 {
	return U128x128{w: [4]uint64{0, 0, x.w[2], x.w[3]}}
}

// Amount returns the integral part, or NonIntegral if there is a fraction.
func (x U128x128) Amount() (Amount, error) {
	if !x.IsIntegral() {
		return Amount{}, errcode.NonIntegral
	}
	return Amount{Lo: x.w[2], Hi: x.w[3]}, nil
}

// CheckedMul returns x·y rounded toward zero, or Overflow.
//
// With x = x1·2^128 + x0 and y = y1·2^128 + y0 the product shifted back by
// 128 bits is x1y1·2^128 + x0y1 + x1y0 + ⌊x0y0 / 2^128⌋.
func (x U128x128) CheckedMul(y U128x128) (U128x128, error) {
	x0 := [2]uint64{x.w[0], x.w[1]}
	x1 := [2]uint64{x.w[2], x.w[3]}
	y0 := [2]uint64{y.w[0], y.w[1]}
	y1 := [2]uint64{y.w[2], y.w[3]}

	x1y1 := mul128(x1, y1)
	if x1y1[2] != 0 || x1y1[3] != 0 {
		return U128x128{}, errcode.Overflow
	}

	acc := [4]uint64{0, 0, x1y1[0], x1y1[1]}
	x0y0 := mul128(x0, y0)
	for _, term := range [][4]uint64{
		mul128(x0, y1),
		mul128(x1, y0),
		{x0y0[2], x0y0[3], 0, 0},
	} {
		var ok bool
		if acc, ok = add256(acc, term); !ok {
			return U128x128{}, errcode.Overflow
		}
	}
	return U128x128{w: acc}, nil
}

// ApplyToAmount returns ⌊a·x⌋.
func (x U128x128) ApplyToAmount(a Amount) (Amount, error) {
	prod, err := U128x128FromAmount(a).CheckedMul(x)
	if err != nil {
		return Amount{}, err
	}
	return prod.RoundDown().Amount()
}

// mul128 is the full 256-bit product of two 128-bit words.
func mul128(a, b [2]uint64) [4]uint64 {
	h00, l00 := bits.Mul64(a[0], b[0])
	h01, l01 := bits.Mul64(a[0], b[1])
	h10, l10 := bits.Mul64(a[1], b[0])
	h11, l11 := bits.Mul64(a[1], b[1])

	var out [4]uint64
	out[0] = l00

	r1, c1 := bits.Add64(h00, l01, 0)
	r1, c2 := bits.Add64(r1, l10, 0)
	out[1] = r1

	r2, c3 := bits.Add64(h01, h10, c1)
	r2, c4 := bits.Add64(r2, l11, c2)
	out[2] = r2

	out[3] = h11 + c3 + c4
	return out
}

func add256(a, b [4]uint64) ([4]uint64, bool) {
	var out [4]uint64
	var carry uint64
	for i := range out {
		out[i], carry = bits.Add64(a[i], b[i], carry)
	}
	return out, carry == 0
}
