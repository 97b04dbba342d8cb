package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/dex"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// MaxRewards bounds the reward values a position withdrawal may carry.
const MaxRewards = 5

// PositionWithdrawPlan withdraws the reserves of a closed liquidity
// position, together with any rewards it earned.
type PositionWithdrawPlan struct {
	Reserves   dex.Reserves    `json:"reserves"`
	PositionID Bytes32         `json:"position_id"`
	Pair       dex.TradingPair `json:"pair"`
	Sequence   uint64          `json:"sequence"`
	Rewards    []asset.Value   `json:"rewards,omitempty"`
}

// PositionWithdrawBody is the public part of a position withdrawal.
type PositionWithdrawBody struct {
	PositionID         Bytes32
	ReservesCommitment balance.Commitment
	Sequence           uint64
}

// MarshalProto encodes dex.v1.PositionWithdraw.
func (b PositionWithdrawBody) MarshalProto() []byte {
	return proto.NewEncoder(84).
		Message(proto.PositionWithdrawPositionID, b.PositionID).
		Message(proto.PositionWithdrawReservesCommitment, b.ReservesCommitment).
		OptionalVarint(proto.PositionWithdrawSequence, b.Sequence).
		Bytes()
}

// Balance is the reserves plus rewards, all provided to the transaction.
func (p *PositionWithdrawPlan) Balance() (*balance.Balance, error) {
	if len(p.Rewards) > MaxRewards {
		return nil, errcode.New(errcode.ValueOutOfRange, "too many rewards")
	}
	b, err := p.Reserves.Balance(p.Pair)
	if err != nil {
		return nil, err
	}
	for _, v := range p.Rewards {
		if err := b.Add(v, balance.Provided); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Body reconstructs the withdrawal. Reserves are public, so the commitment
// is unblinded.
func (p *PositionWithdrawPlan) Body() (PositionWithdrawBody, error) {
	b, err := p.Balance()
	if err != nil {
		return PositionWithdrawBody{}, err
	}
	cv, err := b.Commit(decaf377.FrFromUint64(0))
	if err != nil {
		return PositionWithdrawBody{}, err
	}
	return PositionWithdrawBody{PositionID: p.PositionID, ReservesCommitment: cv, Sequence: p.Sequence}, nil
}

// EffectHash hashes the withdrawal.
func (p *PositionWithdrawPlan) EffectHash(Context) (effecthash.Hash, error) {
	body, err := p.Body()
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.PositionWithdrawPlanError, "position withdraw")
	}
	return effecthash.FromProto(effecthash.PositionWithdrawURL, body), nil
}

func (p *PositionWithdrawPlan) Kind() ActionKind { return KindPositionWithdraw }

// DutchAuctionWithdrawPlan withdraws what is left of an ended Dutch auction.
type DutchAuctionWithdrawPlan struct {
	AuctionID      Bytes32     `json:"auction_id"`
	Seq            uint64      `json:"seq"`
	ReservesInput  asset.Value `json:"reserves_input"`
	ReservesOutput asset.Value `json:"reserves_output"`
}

// DutchAuctionWithdrawBody is the public part of an auction withdrawal.
type DutchAuctionWithdrawBody struct {
	AuctionID          Bytes32
	Seq                uint64
	ReservesCommitment balance.Commitment
}

// MarshalProto encodes auction.v1.ActionDutchAuctionWithdraw.
func (b DutchAuctionWithdrawBody) MarshalProto() []byte {
	return proto.NewEncoder(84).
		Message(proto.AuctionWithdrawAuctionID, b.AuctionID).
		OptionalVarint(proto.AuctionWithdrawSeq, b.Seq).
		Message(proto.AuctionWithdrawReservesCommitment, b.ReservesCommitment).
		Bytes()
}

// Balance is both reserves, provided to the transaction.
func (p *DutchAuctionWithdrawPlan) Balance() (*balance.Balance, error) {
	b := balance.New()
	for _, v := range []asset.Value{p.ReservesInput, p.ReservesOutput} {
		if err := b.Add(v, balance.Provided); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Body reconstructs the withdrawal with an unblinded reserves commitment.
func (p *DutchAuctionWithdrawPlan) Body() (DutchAuctionWithdrawBody, error) {
	b, err := p.Balance()
	if err != nil {
		return DutchAuctionWithdrawBody{}, err
	}
	cv, err := b.Commit(decaf377.FrFromUint64(0))
	if err != nil {
		return DutchAuctionWithdrawBody{}, err
	}
	return DutchAuctionWithdrawBody{AuctionID: p.AuctionID, Seq: p.Seq, ReservesCommitment: cv}, nil
}

// EffectHash hashes the withdrawal.
func (p *DutchAuctionWithdrawPlan) EffectHash(Context) (effecthash.Hash, error) {
	body, err := p.Body()
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.DutchAuctionWithdrawPlanError, "dutch auction withdraw")
	}
	return effecthash.FromProto(effecthash.DutchAuctionWithdrawURL, body), nil
}

func (p *DutchAuctionWithdrawPlan) Kind() ActionKind { return KindDutchAuctionWithdraw }
