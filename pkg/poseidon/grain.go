package poseidon

import (
	"math/big"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
)

// fieldBits is the bit length of the decaf377 base field modulus.
const fieldBits = 253

// grain is the 80-bit Grain LFSR used by the Poseidon reference scripts to
// derive round constants.
type grain struct {
	state [80]byte
}

// newGrain seeds the LFSR with the parameter description
// (field type, s-box type, field size, width, full rounds, partial rounds)
// padded with ones, then discards the first 160 outputs.
func newGrain(width, fullRounds, partialRounds int) *grain {
	g := &grain{}
	pos := 0
	put := func(v uint64, n int) {
		for i := n - 1; i >= 0; i-- {
			g.state[pos] = byte(v>>uint(i)) & 1
			pos++
		}
	}
	put(1, 2) // prime field
	put(0, 4) // x^alpha s-box
	put(fieldBits, 12)
	put(uint64(width), 12)
	put(uint64(fullRounds), 10)
	put(uint64(partialRounds), 10)
	for pos < len(g.state) {
		g.state[pos] = 1
		pos++
	}
	for i := 0; i < 160; i++ {
		g.step()
	}
	return g
}

func (g *grain) step() byte {
	s := &g.state
	bit := s[62] ^ s[51] ^ s[38] ^ s[23] ^ s[13] ^ s[0]
	copy(s[:], s[1:])
	s[79] = bit
	return bit
}

// nextBit applies the self-shrinking rule: emit the second bit of each pair
// whose first bit is set.
func (g *grain) nextBit() byte {
	for {
		first := g.step()
		second := g.step()
		if first == 1 {
			return second
		}
	}
}

// nextFieldElement draws big-endian 253-bit candidates until one is below q.
func (g *grain) nextFieldElement() decaf377.Fq {
	modulus := decaf377.FqModulus()
	v := new(big.Int)
	for {
		v.SetUint64(0)
		for i := 0; i < fieldBits; i++ {
			v.Lsh(v, 1)
			if g.nextBit() == 1 {
				v.SetBit(v, 0, 1)
			}
		}
		if v.Cmp(modulus) < 0 {
			var out decaf377.Fq
			out.SetBigInt(v)
			return out
		}
	}
}
