// Package dex holds the shielded swap payload and the reserve commitments of
// liquidity positions and auctions.
package dex

import (
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// TradingPairLen is asset_1 ‖ asset_2.
const TradingPairLen = 2 * asset.IDLen

// TradingPair names the two assets of a swap or position.
type TradingPair struct {
	Asset1 asset.Id `json:"asset_1"`
	Asset2 asset.Id `json:"asset_2"`
}

// Bytes returns asset_1 ‖ asset_2.
func (p TradingPair) Bytes() [TradingPairLen]byte {
	var out [TradingPairLen]byte
	a1 := p.Asset1.Bytes()
	a2 := p.Asset2.Bytes()
	copy(out[:asset.IDLen], a1[:])
	copy(out[asset.IDLen:], a2[:])
	return out
}

// TradingPairFromBytes parses asset_1 ‖ asset_2.
func TradingPairFromBytes(b []byte) (TradingPair, error) {
	if len(b) != TradingPairLen {
		return TradingPair{}, errcode.InvalidLength
	}
	a1, err := asset.IdFromBytes(b[:asset.IDLen])
	if err != nil {
		return TradingPair{}, err
	}
	a2, err := asset.IdFromBytes(b[asset.IDLen:])
	if err != nil {
		return TradingPair{}, err
	}
	return TradingPair{Asset1: a1, Asset2: a2}, nil
}

// MarshalProto encodes dex.v1.TradingPair.
func (p TradingPair) MarshalProto() []byte {
	return proto.NewEncoder(2*(asset.IDLen+4)).
		Message(proto.TradingPairAsset1, p.Asset1).
		Message(proto.TradingPairAsset2, p.Asset2).
		Bytes()
}

// Reserves are the amounts of each side of a trading pair held by a
// position.
type Reserves struct {
	R1 asset.Amount `json:"r1"`
	R2 asset.Amount `json:"r2"`
}

// Balance returns the reserves as provided values. When both sides are the
// same asset the amounts are summed into one entry.
func (r Reserves) Balance(pair TradingPair) (*balance.Balance, error) {
	b := balance.New()
	if pair.Asset1.Equal(pair.Asset2) {
		total, ok := r.R1.CheckedAdd(r.R2)
		if !ok {
			return nil, errcode.Overflow
		}
		err := b.Insert(balance.Imbalance{
			Value: asset.Value{Amount: total, AssetID: pair.Asset1},
			Sign:  balance.Provided,
		})
		return b, err
	}
	if err := b.Insert(balance.Imbalance{
		Value: asset.Value{Amount: r.R1, AssetID: pair.Asset1},
		Sign:  balance.Provided,
	}); err != nil {
		return nil, err
	}
	err := b.Insert(balance.Imbalance{
		Value: asset.Value{Amount: r.R2, AssetID: pair.Asset2},
		Sign:  balance.Provided,
	})
	return b, err
}
