package asset

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"strconv"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// AmountLen is the little-endian encoding length of an Amount.
const AmountLen = 16

// Amount is an unsigned 128-bit quantity split into 64-bit words, in the
// same shape as the wire message { uint64 lo = 1; uint64 hi = 2; }.
type Amount struct {
	Lo uint64 `json:"lo"`
	Hi uint64 `json:"hi"`
}

// NewAmount returns v as an Amount.
func NewAmount(v uint64) Amount {
	return Amount{Lo: v}
}

// AmountFromBytes decodes 16 little-endian bytes.
func AmountFromBytes(b []byte) (Amount, error) {
	if len(b) != AmountLen {
		return Amount{}, errcode.InvalidLength
	}
	return Amount{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

// Bytes returns the 16-byte little-endian encoding.
func (a Amount) Bytes() [AmountLen]byte {
	var out [AmountLen]byte
	binary.LittleEndian.PutUint64(out[:8], a.Lo)
	binary.LittleEndian.PutUint64(out[8:], a.Hi)
	return out
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a.Lo == 0 && a.Hi == 0
}

// Cmp returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	}
	return 0
}

// CheckedAdd returns a + b, or false on overflow.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, carry := bits.Add64(a.Hi, b.Hi, carry)
	return Amount{Lo: lo, Hi: hi}, carry == 0
}

// SaturatingAdd returns a + b, clamped to the maximum amount.
func (a Amount) SaturatingAdd(b Amount) Amount {
	sum, ok := a.CheckedAdd(b)
	if !ok {
		return Amount{Lo: ^uint64(0), Hi: ^uint64(0)}
	}
	return sum
}

// Field returns a as a base field element.
func (a Amount) Field() decaf377.Fq {
	return decaf377.FqFromUint128(a.Lo, a.Hi)
}

// Scalar returns a as a scalar.
func (a Amount) Scalar() decaf377.Fr {
	b := a.Bytes()
	return decaf377.FrFromLEBytesModOrder(b[:])
}

// String formats the amount in decimal.
func (a Amount) String() string {
	if a.Hi == 0 {
		return strconv.FormatUint(a.Lo, 10)
	}
	v := new(big.Int).SetUint64(a.Hi)
	v.Lsh(v, 64).Or(v, new(big.Int).SetUint64(a.Lo))
	return v.String()
}

// MarshalProto encodes num.v1.Amount. Zero words are omitted.
func (a Amount) MarshalProto() []byte {
	return proto.NewEncoder(22).
		OptionalVarint(proto.AmountLo, a.Lo).
		OptionalVarint(proto.AmountHi, a.Hi).
		Bytes()
}
