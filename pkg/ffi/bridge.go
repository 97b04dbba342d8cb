// Package ffi exposes the signing core through status-code entry points
// shaped like the device boundary: inputs are byte slices, outputs are
// written into caller-provided buffers, and every call returns an
// errcode.Code.
//
// Plans cross the boundary in their JSON plan-file form (see pkg/plan).
// No entry point ever logs input bytes, only its own name.
package ffi

import (
	"encoding/json"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/plan"
	"github.com/suffix-labs/penumbra-signer/pkg/signer"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

// Bridge binds the entry points to one spend key and platform.
type Bridge struct {
	sk       keys.SpendKeyBytes
	fvk      *keys.FullViewingKey
	platform hw.Platform
	logger   *zap.Logger
}

// NewBridge derives the viewing key once so that entry points do not.
func NewBridge(sk keys.SpendKeyBytes, platform hw.Platform, logger *zap.Logger) (*Bridge, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return nil, err
	}
	return &Bridge{sk: sk, fvk: fvk, platform: platform, logger: logger}, nil
}

func (b *Bridge) enter(op string) {
	b.logger.Debug(op)
	b.platform.Log(op)
}

func codeOf(err error) errcode.Code {
	return errcode.FromError(err)
}

// write copies src into out after checking capacity.
func write(out, src []byte) errcode.Code {
	if len(out) < len(src) {
		return errcode.InvalidLength
	}
	copy(out, src)
	return errcode.Ok
}

// GetFVK writes ak ‖ nk (64 bytes).
func (b *Bridge) GetFVK(out []byte) errcode.Code {
	b.enter("get_fvk")
	fvk := b.fvk.Bytes()
	return write(out, fvk[:])
}

// GetAddress writes the 80-byte encoded payment address of account. A nil
// randomizer selects the account's main address; otherwise it must be 12
// bytes.
func (b *Bridge) GetAddress(account uint32, randomizer []byte, out []byte) errcode.Code {
	b.enter("get_address")
	idx := address.NewIndex(account)
	if randomizer != nil {
		if len(randomizer) != address.RandomizerLen {
			return errcode.InvalidLength
		}
		copy(idx.Randomizer[:], randomizer)
	}
	addr, _, err := b.fvk.PaymentAddress(idx)
	if err != nil {
		return codeOf(err)
	}
	enc := addr.Bytes()
	return write(out, enc[:])
}

// IsAddressVisible reports whether addr belongs to the bridge's viewing key
// and, if so, its account.
func (b *Bridge) IsAddressVisible(addr []byte) (bool, uint32, errcode.Code) {
	b.enter("is_address_visible")
	a, err := address.FromBytes(addr)
	if err != nil {
		return false, 0, errcode.InvalidAddress
	}
	idx, ok := b.fvk.AddressIndex(a)
	if !ok {
		return false, 0, errcode.Ok
	}
	return true, idx.Account, errcode.Ok
}

// ComputeEffectHash parses a transaction plan and writes its 64-byte effect
// hash.
func (b *Bridge) ComputeEffectHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("compute_effect_hash")
	if len(out) < effecthash.Len {
		return errcode.InvalidLength
	}
	tp, err := plan.Parse(planJSON)
	if err != nil {
		return codeOf(err)
	}
	h, err := tp.EffectHash(b.fvk, b.platform)
	if err != nil {
		return codeOf(err)
	}
	return write(out, h[:])
}

// ParameterHash hashes encoded TransactionParameters.
func (b *Bridge) ParameterHash(params []byte, out []byte) errcode.Code {
	b.enter("parameter_hash")
	h := effecthash.Parameters(params)
	return write(out, h[:])
}

// actionHash decodes one action plan of type T and hashes it.
func actionHash[T any, P interface {
	*T
	plan.ActionPlan
}](b *Bridge, planJSON []byte, ctx plan.Context, decodeErr errcode.Code, out []byte) errcode.Code {
	if len(out) < effecthash.Len {
		return errcode.InvalidLength
	}
	p := P(new(T))
	if err := json.Unmarshal(planJSON, p); err != nil {
		return decodeErr
	}
	b.platform.CheckCanary()
	h, err := p.EffectHash(ctx)
	if err != nil {
		return codeOf(err)
	}
	return write(out, h[:])
}

func (b *Bridge) context() plan.Context {
	return plan.Context{FVK: b.fvk}
}

// SpendActionHash hashes a spend plan.
func (b *Bridge) SpendActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("spend_action_hash")
	return actionHash[plan.SpendPlan](b, planJSON, b.context(), errcode.SpendPlanError, out)
}

// OutputActionHash hashes an output plan. memoKey is the transaction's memo
// key; nil means the transaction has no memo.
func (b *Bridge) OutputActionHash(planJSON []byte, memoKey []byte, out []byte) errcode.Code {
	b.enter("output_action_hash")
	ctx := b.context()
	if memoKey != nil {
		k, err := symmetric.PayloadKeyFromBytes(memoKey)
		if err != nil {
			return errcode.InvalidKeyLen
		}
		ctx.MemoKey = k
	}
	return actionHash[plan.OutputPlan](b, planJSON, ctx, errcode.OutputPlanError, out)
}

// SwapActionHash hashes a swap plan.
func (b *Bridge) SwapActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("swap_action_hash")
	return actionHash[plan.SwapPlan](b, planJSON, b.context(), errcode.SwapPlanError, out)
}

// UndelegateClaimActionHash hashes an undelegate claim plan.
func (b *Bridge) UndelegateClaimActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("undelegate_claim_action_hash")
	return actionHash[plan.UndelegateClaimPlan](b, planJSON, b.context(), errcode.UndelegateClaimPlanError, out)
}

// DelegatorVoteActionHash hashes a delegator vote plan.
func (b *Bridge) DelegatorVoteActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("delegator_vote_action_hash")
	return actionHash[plan.DelegatorVotePlan](b, planJSON, b.context(), errcode.DelegatorVotePlanError, out)
}

// PositionWithdrawActionHash hashes a position withdrawal plan.
func (b *Bridge) PositionWithdrawActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("position_withdraw_action_hash")
	return actionHash[plan.PositionWithdrawPlan](b, planJSON, b.context(), errcode.PositionWithdrawPlanError, out)
}

// DutchAuctionWithdrawActionHash hashes a Dutch auction withdrawal plan.
func (b *Bridge) DutchAuctionWithdrawActionHash(planJSON []byte, out []byte) errcode.Code {
	b.enter("dutch_auction_withdraw_action_hash")
	return actionHash[plan.DutchAuctionWithdrawPlan](b, planJSON, b.context(), errcode.DutchAuctionWithdrawPlanError, out)
}

// GenericActionHash hashes pre-encoded effecting data of a Delegate,
// Undelegate or Ics20Withdrawal action. Other kinds are UnexpectedData.
func (b *Bridge) GenericActionHash(data []byte, kind uint8, out []byte) errcode.Code {
	b.enter("generic_action_hash")
	if len(out) < effecthash.Len {
		return errcode.InvalidLength
	}
	h, err := plan.GenericEffectHash(plan.ActionKind(kind), data)
	if err != nil {
		return codeOf(err)
	}
	return write(out, h[:])
}

// Sign writes the spend authorization signature of effectHash under the
// key randomized by randomizer.
func (b *Bridge) Sign(effectHash, randomizer []byte, out []byte) errcode.Code {
	b.enter("sign_spend")
	if len(out) < crypto.SignatureLen {
		return errcode.InvalidLength
	}
	if len(effectHash) != effecthash.Len || len(randomizer) != 32 {
		return errcode.InvalidLength
	}
	sig, err := signer.SignSpend(effecthash.Hash(effectHash), plan.Bytes32(randomizer), b.sk)
	if err != nil {
		return codeOf(err)
	}
	return write(out, sig[:])
}

// Bech32Encode writes the bech32m encoding of data under hrp and returns
// the number of bytes written.
func Bech32Encode(hrp string, data []byte, out []byte) (int, errcode.Code) {
	s, err := address.EncodeBech32m(hrp, data)
	if err != nil {
		return 0, errcode.InvalidAddress
	}
	if code := write(out, []byte(s)); code != errcode.Ok {
		return 0, code
	}
	return len(s), errcode.Ok
}

// AssetIDFromDenom writes the 32-byte asset id of a base denomination. out
// must be exactly 32 bytes.
func AssetIDFromDenom(denom []byte, out []byte) errcode.Code {
	if len(out) != asset.IDLen {
		return errcode.InvalidLength
	}
	if !utf8.Valid(denom) {
		return errcode.InvalidAssetId
	}
	id, err := asset.FromDenom(string(denom))
	if err != nil {
		return errcode.InvalidAssetId
	}
	enc := id.Bytes()
	copy(out, enc[:])
	return errcode.Ok
}
