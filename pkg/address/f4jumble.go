package address

import (
	"encoding/binary"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// F4Jumble length bounds (ZIP 316).
const (
	f4MinLen = 48
	f4MaxLen = 4194368
)

const (
	f4HPersonalization = "UA_F4Jumble_H"
	f4GPersonalization = "UA_F4Jumble_G"
)

// F4Jumble applies the keyless four-round Feistel permutation to m and
// returns the permuted bytes. Every output bit depends on every input bit.
func F4Jumble(m []byte) ([]byte, error) {
	if len(m) < f4MinLen || len(m) > f4MaxLen {
		return nil, errcode.InvalidLength
	}
	ll := leftLen(len(m))
	out := make([]byte, len(m))
	copy(out, m)
	a, b := out[:ll], out[ll:]

	xorInto(b, f4G(0, a, len(b))) // x = b ⊕ G0(a)
	xorInto(a, f4H(0, b, ll))     // y = a ⊕ H0(x)
	xorInto(b, f4G(1, a, len(b))) // d = x ⊕ G1(y)
	xorInto(a, f4H(1, b, ll))     // c = y ⊕ H1(d)
	return out, nil
}

// F4JumbleInv inverts F4Jumble.
func F4JumbleInv(m []byte) ([]byte, error) {
	if len(m) < f4MinLen || len(m) > f4MaxLen {
		return nil, errcode.InvalidLength
	}
	ll := leftLen(len(m))
	out := make([]byte, len(m))
	copy(out, m)
	c, d := out[:ll], out[ll:]

	xorInto(c, f4H(1, d, ll))     // y = c ⊕ H1(d)
	xorInto(d, f4G(1, c, len(d))) // x = d ⊕ G1(y)
	xorInto(c, f4H(0, d, ll))     // a = y ⊕ H0(x)
	xorInto(d, f4G(0, c, len(d))) // b = x ⊕ G0(a)
	return out, nil
}

func leftLen(n int) int {
	if n/2 < 64 {
		return n / 2
	}
	return 64
}

func f4H(i byte, u []byte, size int) []byte {
	return crypto.Hash(size, f4HPersonalization+string([]byte{i, 0, 0}), u)
}

func f4G(i byte, u []byte, size int) []byte {
	out := make([]byte, 0, size+63)
	var person [16]byte
	copy(person[:], f4GPersonalization)
	person[13] = i
	for j := uint16(0); len(out) < size; j++ {
		binary.LittleEndian.PutUint16(person[14:], j)
		out = append(out, crypto.Hash(64, string(person[:]), u)...)
	}
	return out[:size]
}

func xorInto(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
