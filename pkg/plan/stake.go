package plan

import (
	"strings"

	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
	"github.com/suffix-labs/penumbra-signer/pkg/stake"
)

// UndelegateClaimPlan claims unbonded stake once the unbonding period is
// over, releasing the penalized amount of staking token.
type UndelegateClaimPlan struct {
	ValidatorIdentity    stake.IdentityKey `json:"validator_identity"`
	Penalty              stake.Penalty     `json:"penalty"`
	UnbondingAmount      asset.Amount      `json:"unbonding_amount"`
	BalanceBlinding      Bytes32           `json:"balance_blinding"`
	UnbondingStartHeight uint64            `json:"unbonding_start_height"`
	ProofBlindingR       Bytes32           `json:"proof_blinding_r"`
	ProofBlindingS       Bytes32           `json:"proof_blinding_s"`
}

// UndelegateClaimBody is the public part of an undelegation claim.
type UndelegateClaimBody struct {
	ValidatorIdentity    stake.IdentityKey
	Penalty              stake.Penalty
	BalanceCommitment    balance.Commitment
	UnbondingStartHeight uint64
}

// MarshalProto encodes stake.v1.UndelegateClaimBody.
func (b UndelegateClaimBody) MarshalProto() []byte {
	return proto.NewEncoder(120).
		Message(proto.UndelegateClaimValidatorIdentity, b.ValidatorIdentity).
		Message(proto.UndelegateClaimPenalty, b.Penalty).
		Message(proto.UndelegateClaimBalanceCommitment, b.BalanceCommitment).
		OptionalVarint(proto.UndelegateClaimUnbondingStartHeight, b.UnbondingStartHeight).
		Bytes()
}

// Balance consumes the unbonding tokens and releases staking token.
func (p *UndelegateClaimPlan) Balance() (*balance.Balance, error) {
	id, err := stake.UnbondingToken(p.ValidatorIdentity, p.UnbondingStartHeight)
	if err != nil {
		return nil, err
	}
	return p.Penalty.BalanceForClaim(id, p.UnbondingAmount)
}

// Body reconstructs the claim body.
func (p *UndelegateClaimPlan) Body() (UndelegateClaimBody, error) {
	b, err := p.Balance()
	if err != nil {
		return UndelegateClaimBody{}, err
	}
	cv, err := b.Commit(p.BalanceBlinding.Scalar())
	if err != nil {
		return UndelegateClaimBody{}, err
	}
	return UndelegateClaimBody{
		ValidatorIdentity:    p.ValidatorIdentity,
		Penalty:              p.Penalty,
		BalanceCommitment:    cv,
		UnbondingStartHeight: p.UnbondingStartHeight,
	}, nil
}

// EffectHash hashes the claim body. It needs no viewing key.
func (p *UndelegateClaimPlan) EffectHash(Context) (effecthash.Hash, error) {
	body, err := p.Body()
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.UndelegateClaimPlanError, "undelegate claim body")
	}
	return effecthash.FromProto(effecthash.UndelegateClaimBodyURL, body), nil
}

func (p *UndelegateClaimPlan) Kind() ActionKind { return KindUndelegateClaim }

// Vote is a governance vote.
type Vote uint8

const (
	VoteUnspecified Vote = iota
	VoteAbstain
	VoteYes
	VoteNo
)

var voteNames = [...]string{"unspecified", "abstain", "yes", "no"}

func (v Vote) String() string {
	if int(v) < len(voteNames) {
		return voteNames[v]
	}
	return "unknown"
}

func (v Vote) MarshalText() ([]byte, error) {
	if int(v) >= len(voteNames) {
		return nil, errcode.ValueOutOfRange
	}
	return []byte(voteNames[v]), nil
}

func (v *Vote) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for i, name := range voteNames {
		if s == name {
			*v = Vote(i)
			return nil
		}
	}
	return errcode.ValueOutOfRange
}

// MarshalProto encodes governance.v1.Vote.
func (v Vote) MarshalProto() []byte {
	return proto.NewEncoder(2).OptionalVarint(proto.VoteVote, uint64(v)).Bytes()
}

// DelegatorVotePlan votes on a proposal with a note that was staked when
// the proposal started.
type DelegatorVotePlan struct {
	Proposal           uint64        `json:"proposal"`
	StartPosition      note.Position `json:"start_position"`
	Vote               Vote          `json:"vote"`
	StakedNote         NotePlan      `json:"staked_note"`
	StakedNotePosition note.Position `json:"staked_note_position"`
	UnbondedAmount     asset.Amount  `json:"unbonded_amount"`
	Randomizer         Bytes32       `json:"randomizer"`
	ProofBlindingR     Bytes32       `json:"proof_blinding_r"`
	ProofBlindingS     Bytes32       `json:"proof_blinding_s"`
}

// DelegatorVoteBody is the public part of a delegator vote.
type DelegatorVoteBody struct {
	Proposal       uint64
	StartPosition  note.Position
	Vote           Vote
	Value          asset.Value
	UnbondedAmount asset.Amount
	Nullifier      note.Nullifier
	Rk             crypto.VerificationKey
}

// MarshalProto encodes governance.v1.DelegatorVoteBody.
func (b DelegatorVoteBody) MarshalProto() []byte {
	rk := b.Rk.Bytes()
	return proto.NewEncoder(200).
		OptionalVarint(proto.DelegatorVoteProposal, b.Proposal).
		OptionalVarint(proto.DelegatorVoteStartPosition, uint64(b.StartPosition)).
		Message(proto.DelegatorVoteVote, b.Vote).
		Message(proto.DelegatorVoteValue, b.Value).
		Message(proto.DelegatorVoteUnbondedAmount, b.UnbondedAmount).
		Message(proto.DelegatorVoteNullifier, b.Nullifier).
		BytesField(proto.DelegatorVoteRk, proto.Inner(rk[:])).
		Bytes()
}

// Rk is the randomized spend verification key the vote is authorized under.
func (p *DelegatorVotePlan) Rk(fvk *keys.FullViewingKey) crypto.VerificationKey {
	return fvk.SpendVerificationKey().Randomize(p.Randomizer.Scalar())
}

// Body reconstructs the vote body. The nullifier proves ownership of the
// staked note without spending it.
func (p *DelegatorVotePlan) Body(fvk *keys.FullViewingKey) (DelegatorVoteBody, error) {
	cm, err := p.StakedNote.Note().Commit()
	if err != nil {
		return DelegatorVoteBody{}, err
	}
	return DelegatorVoteBody{
		Proposal:       p.Proposal,
		StartPosition:  p.StartPosition,
		Vote:           p.Vote,
		Value:          p.StakedNote.Value,
		UnbondedAmount: p.UnbondedAmount,
		Nullifier:      note.DeriveNullifier(fvk.NullifierKey(), p.StakedNotePosition, cm),
		Rk:             p.Rk(fvk),
	}, nil
}

// EffectHash hashes the vote body.
func (p *DelegatorVotePlan) EffectHash(ctx Context) (effecthash.Hash, error) {
	fvk, err := ctx.viewingKey()
	if err != nil {
		return effecthash.Hash{}, err
	}
	body, err := p.Body(fvk)
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.DelegatorVotePlanError, "delegator vote body")
	}
	return effecthash.FromProto(effecthash.DelegatorVoteBodyURL, body), nil
}

func (p *DelegatorVotePlan) Kind() ActionKind { return KindDelegatorVote }
