package balance

import (
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
)

// Fee is an amount paid to the chain. A fee without an asset is paid in the
// staking token.
type Fee struct {
	Amount  asset.Amount `json:"amount"`
	AssetID *asset.Id    `json:"asset_id,omitempty"`
}

// Value resolves the fee asset.
func (f Fee) Value() asset.Value {
	id := asset.StakingToken()
	if f.AssetID != nil {
		id = *f.AssetID
	}
	return asset.Value{Amount: f.Amount, AssetID: id}
}

// Bytes returns amount ‖ asset id of the resolved value.
func (f Fee) Bytes() [asset.ValueLen]byte {
	return f.Value().Bytes()
}

// Commit commits to the fee as a provided value.
func (f Fee) Commit(blinding decaf377.Fr) (Commitment, error) {
	b := New()
	if err := b.Insert(Imbalance{Value: f.Value(), Sign: Provided}); err != nil {
		return Commitment{}, err
	}
	return b.Commit(blinding)
}
