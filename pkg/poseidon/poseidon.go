// Package poseidon implements the Poseidon sponge-free hash over the decaf377
// base field, in the fixed-arity form used by the shielded pool:
// hash_n(domain, (x1, ..., xn)) permutes [domain, x1, ..., xn] and returns
// the second state element.
//
// Parameters are generated with the Grain LFSR from the Poseidon paper
// (alpha = 17, 8 full rounds, 31 partial rounds, Cauchy MDS). A different
// parameter set can be installed per width with SetParams.
package poseidon

import (
	"fmt"
	"sync"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
)

type Fq = decaf377.Fq

const (
	// Alpha is the s-box exponent.
	Alpha = 17

	// DefaultFullRounds and DefaultPartialRounds size the generated parameters.
	DefaultFullRounds    = 8
	DefaultPartialRounds = 31

	minWidth = 2
	maxWidth = 8
)

// Params is one Poseidon instance for a fixed state width.
type Params struct {
	Width         int
	FullRounds    int
	PartialRounds int
	// ARK holds one row of Width round constants per round.
	ARK [][]Fq
	// MDS is the Width x Width mixing matrix.
	MDS [][]Fq
}

// GenerateParams derives round constants with the Grain LFSR and uses the
// Cauchy matrix M[i][j] = 1/(i + Width + j) for mixing.
func GenerateParams(width, fullRounds, partialRounds int) *Params {
	g := newGrain(width, fullRounds, partialRounds)

	rounds := fullRounds + partialRounds
	ark := make([][]Fq, rounds)
	for r := range ark {
		ark[r] = make([]Fq, width)
		for i := range ark[r] {
			ark[r][i] = g.nextFieldElement()
		}
	}

	mds := make([][]Fq, width)
	for i := range mds {
		mds[i] = make([]Fq, width)
		for j := range mds[i] {
			v := decaf377.FqFromUint64(uint64(i + width + j))
			mds[i][j].Inverse(&v)
		}
	}

	return &Params{
		Width:         width,
		FullRounds:    fullRounds,
		PartialRounds: partialRounds,
		ARK:           ark,
		MDS:           mds,
	}
}

// Validate checks the table shapes against the declared width and rounds.
func (p *Params) Validate() error {
	if p.Width < minWidth || p.Width > maxWidth {
		return fmt.Errorf("poseidon: unsupported width %d", p.Width)
	}
	if p.FullRounds%2 != 0 {
		return fmt.Errorf("poseidon: full rounds must be even, got %d", p.FullRounds)
	}
	if len(p.ARK) != p.FullRounds+p.PartialRounds {
		return fmt.Errorf("poseidon: have %d constant rows, want %d",
			len(p.ARK), p.FullRounds+p.PartialRounds)
	}
	for _, row := range p.ARK {
		if len(row) != p.Width {
			return fmt.Errorf("poseidon: constant row of width %d, want %d", len(row), p.Width)
		}
	}
	if len(p.MDS) != p.Width {
		return fmt.Errorf("poseidon: MDS has %d rows, want %d", len(p.MDS), p.Width)
	}
	for _, row := range p.MDS {
		if len(row) != p.Width {
			return fmt.Errorf("poseidon: MDS row of width %d, want %d", len(row), p.Width)
		}
	}
	return nil
}

// Permute applies the Hades permutation to state in place.
func (p *Params) Permute(state []Fq) {
	if len(state) != p.Width {
		panic(fmt.Sprintf("poseidon: state width %d, want %d", len(state), p.Width))
	}

	round := 0
	half := p.FullRounds / 2
	for i := 0; i < half; i++ {
		p.addRoundConstants(state, round)
		for j := range state {
			sbox(&state[j])
		}
		p.mix(state)
		round++
	}
	for i := 0; i < p.PartialRounds; i++ {
		p.addRoundConstants(state, round)
		sbox(&state[0])
		p.mix(state)
		round++
	}
	for i := 0; i < half; i++ {
		p.addRoundConstants(state, round)
		for j := range state {
			sbox(&state[j])
		}
		p.mix(state)
		round++
	}
}

func (p *Params) addRoundConstants(state []Fq, round int) {
	for i := range state {
		state[i].Add(&state[i], &p.ARK[round][i])
	}
}

func (p *Params) mix(state []Fq) {
	var scratch [maxWidth]Fq
	for i := 0; i < p.Width; i++ {
		var acc, term Fq
		for j := 0; j < p.Width; j++ {
			term.Mul(&p.MDS[i][j], &state[j])
			acc.Add(&acc, &term)
		}
		scratch[i] = acc
	}
	copy(state, scratch[:p.Width])
}

// sbox raises x to the 17th power.
func sbox(x *Fq) {
	var y Fq
	y.Square(x)  // x^2
	y.Square(&y) // x^4
	y.Square(&y) // x^8
	y.Square(&y) // x^16
	x.Mul(x, &y)
}

var (
	mu        sync.Mutex
	instances [maxWidth + 1]*Params
	onces     [maxWidth + 1]sync.Once
)

// SetParams installs p for its width, replacing the generated instance.
func SetParams(p *Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	onces[p.Width].Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	instances[p.Width] = p
	return nil
}

// ParamsFor returns the instance used for the given state width, generating
// it on first use.
func ParamsFor(width int) *Params {
	if width < minWidth || width > maxWidth {
		panic(fmt.Sprintf("poseidon: unsupported width %d", width))
	}
	onces[width].Do(func() {
		p := GenerateParams(width, DefaultFullRounds, DefaultPartialRounds)
		mu.Lock()
		instances[width] = p
		mu.Unlock()
	})
	mu.Lock()
	defer mu.Unlock()
	return instances[width]
}

func hash(domain Fq, inputs ...Fq) Fq {
	var state [maxWidth]Fq
	state[0] = domain
	copy(state[1:], inputs)
	width := len(inputs) + 1
	ParamsFor(width).Permute(state[:width])
	return state[1]
}

// Hash1 hashes one element under a domain separator.
func Hash1(domain, a Fq) Fq {
	return hash(domain, a)
}

// Hash2 hashes two elements under a domain separator.
func Hash2(domain, a, b Fq) Fq {
	return hash(domain, a, b)
}

// Hash3 hashes three elements under a domain separator.
func Hash3(domain, a, b, c Fq) Fq {
	return hash(domain, a, b, c)
}

// Hash4 hashes four elements under a domain separator.
func Hash4(domain, a, b, c, d Fq) Fq {
	return hash(domain, a, b, c, d)
}

// Hash5 hashes five elements under a domain separator.
func Hash5(domain, a, b, c, d, e Fq) Fq {
	return hash(domain, a, b, c, d, e)
}

// Hash6 hashes six elements under a domain separator.
func Hash6(domain, a, b, c, d, e, f Fq) Fq {
	return hash(domain, a, b, c, d, e, f)
}

// Hash7 hashes seven elements under a domain separator.
func Hash7(domain, a, b, c, d, e, f, g Fq) Fq {
	return hash(domain, a, b, c, d, e, f, g)
}
