// Package balance accumulates signed per-asset flows and commits to them.
//
// A Balance holds at most Capacity imbalances in a fixed array; adding an
// asset/sign pair that is not present takes the next free slot, and a full
// balance rejects the insert instead of growing.
package balance

import (
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Capacity is the number of imbalance slots in a Balance.
const Capacity = 10

// Sign says which side of an action a value is on.
type Sign uint8

const (
	// Required values are consumed by the action and subtracted.
	Required Sign = iota
	// Provided values are produced by the action and added.
	Provided
)

func (s Sign) String() string {
	if s == Provided {
		return "provided"
	}
	return "required"
}

// Imbalance is one signed value.
type Imbalance struct {
	Value asset.Value
	Sign  Sign
}

// Balance is a fixed-capacity set of imbalances.
type Balance struct {
	slots [Capacity]Imbalance
	n     int
}

// New returns an empty balance.
func New() *Balance {
	return &Balance{}
}

// Len returns the number of occupied slots.
func (b *Balance) Len() int {
	return b.n
}

// Imbalances returns the occupied slots in insertion order.
func (b *Balance) Imbalances() []Imbalance {
	out := make([]Imbalance, b.n)
	copy(out, b.slots[:b.n])
	return out
}

// Insert stores imb in the first free slot.
func (b *Balance) Insert(imb Imbalance) error {
	if b.n == Capacity {
		return errcode.InvalidLength
	}
	b.slots[b.n] = imb
	b.n++
	return nil
}

// Add merges v into the slot with the same asset and sign, or inserts it.
// Merged amounts saturate at the maximum amount.
func (b *Balance) Add(v asset.Value, sign Sign) error {
	for i := 0; i < b.n; i++ {
		slot := &b.slots[i]
		if slot.Sign == sign && slot.Value.AssetID.Equal(v.AssetID) {
			slot.Value.Amount = slot.Value.Amount.SaturatingAdd(v.Amount)
			return nil
		}
	}
	return b.Insert(Imbalance{Value: v, Sign: sign})
}

// Commit returns Σ ±amount·G_asset + blinding·G_blind.
//
// Provided values are added and required values subtracted. Zero amounts
// contribute nothing. An empty balance cannot be committed.
func (b *Balance) Commit(blinding decaf377.Fr) (Commitment, error) {
	if b.n == 0 {
		return Commitment{}, errcode.InvalidLength
	}
	acc := decaf377.Identity()
	for _, imb := range b.slots[:b.n] {
		if imb.Value.Amount.IsZero() {
			continue
		}
		term := imb.Value.AssetID.ValueGenerator().ScalarMul(imb.Value.Amount.Scalar())
		if imb.Sign == Required {
			acc = acc.Sub(term)
		} else {
			acc = acc.Add(term)
		}
	}
	acc = acc.Add(ValueBlindingGenerator().ScalarMul(blinding))
	return CommitmentFromElement(acc), nil
}
