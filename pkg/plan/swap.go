package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/dex"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// SwapPlan submits a swap on a trading pair. The plaintext is encrypted to
// the sender's ovk so it can build the claim later.
type SwapPlan struct {
	SwapPlaintext  dex.SwapPlaintext `json:"swap_plaintext"`
	FeeBlinding    Bytes32           `json:"fee_blinding"`
	ProofBlindingR Bytes32           `json:"proof_blinding_r"`
	ProofBlindingS Bytes32           `json:"proof_blinding_s"`
}

// SwapBody is the public part of a swap.
type SwapBody struct {
	TradingPair   dex.TradingPair
	Delta1        asset.Amount
	Delta2        asset.Amount
	FeeCommitment balance.Commitment
	Payload       dex.SwapPayload
}

// MarshalProto encodes dex.v1.SwapBody.
func (b SwapBody) MarshalProto() []byte {
	return proto.NewEncoder(480).
		Message(proto.SwapTradingPair, b.TradingPair).
		Message(proto.SwapDelta1, b.Delta1).
		Message(proto.SwapDelta2, b.Delta2).
		Message(proto.SwapFeeCommitment, b.FeeCommitment).
		Message(proto.SwapPayload, b.Payload).
		Bytes()
}

// Body reconstructs the swap body.
func (p *SwapPlan) Body(fvk *keys.FullViewingKey) (SwapBody, error) {
	fee, err := p.SwapPlaintext.ClaimFee.Commit(p.FeeBlinding.Scalar())
	if err != nil {
		return SwapBody{}, err
	}
	payload, err := p.SwapPlaintext.Encrypt(fvk.OutgoingViewingKey())
	if err != nil {
		return SwapBody{}, err
	}
	return SwapBody{
		TradingPair:   p.SwapPlaintext.TradingPair,
		Delta1:        p.SwapPlaintext.Delta1,
		Delta2:        p.SwapPlaintext.Delta2,
		FeeCommitment: fee,
		Payload:       payload,
	}, nil
}

// EffectHash hashes the swap body.
func (p *SwapPlan) EffectHash(ctx Context) (effecthash.Hash, error) {
	fvk, err := ctx.viewingKey()
	if err != nil {
		return effecthash.Hash{}, err
	}
	body, err := p.Body(fvk)
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.SwapPlanError, "swap body")
	}
	return effecthash.FromProto(effecthash.SwapBodyURL, body), nil
}

func (p *SwapPlan) Kind() ActionKind { return KindSwap }
