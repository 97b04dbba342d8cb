package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// NotePlan is a note as it appears in plan files.
type NotePlan struct {
	Value   asset.Value     `json:"value"`
	Rseed   note.Rseed      `json:"rseed"`
	Address address.Address `json:"address"`
}

// Note builds the note.
func (n NotePlan) Note() note.Note {
	return note.New(n.Address, n.Value, n.Rseed)
}

// SpendPlan spends a note the viewing key owns.
type SpendPlan struct {
	Note           NotePlan      `json:"note"`
	Position       note.Position `json:"position"`
	Randomizer     Bytes32       `json:"randomizer"`
	ValueBlinding  Bytes32       `json:"value_blinding"`
	ProofBlindingR Bytes32       `json:"proof_blinding_r"`
	ProofBlindingS Bytes32       `json:"proof_blinding_s"`
}

// SpendBody is the public part of a spend.
type SpendBody struct {
	BalanceCommitment balance.Commitment
	Nullifier         note.Nullifier
	Rk                crypto.VerificationKey
}

// MarshalProto encodes shielded_pool.v1.SpendBody.
func (b SpendBody) MarshalProto() []byte {
	rk := b.Rk.Bytes()
	return proto.NewEncoder(108).
		Message(proto.SpendBalanceCommitment, b.BalanceCommitment).
		BytesField(proto.SpendRk, proto.Inner(rk[:])).
		Message(proto.SpendNullifier, b.Nullifier).
		Bytes()
}

// Balance is the note value, provided to the transaction.
func (p *SpendPlan) Balance() (*balance.Balance, error) {
	b := balance.New()
	if err := b.Add(p.Note.Value, balance.Provided); err != nil {
		return nil, err
	}
	return b, nil
}

// Nullifier derives the spent note's nullifier.
func (p *SpendPlan) Nullifier(fvk *keys.FullViewingKey) (note.Nullifier, error) {
	cm, err := p.Note.Note().Commit()
	if err != nil {
		return note.Nullifier{}, err
	}
	return note.DeriveNullifier(fvk.NullifierKey(), p.Position, cm), nil
}

// Rk is the randomized spend verification key the signature verifies under.
func (p *SpendPlan) Rk(fvk *keys.FullViewingKey) crypto.VerificationKey {
	return fvk.SpendVerificationKey().Randomize(p.Randomizer.Scalar())
}

// Body reconstructs the spend body.
func (p *SpendPlan) Body(fvk *keys.FullViewingKey) (SpendBody, error) {
	b, err := p.Balance()
	if err != nil {
		return SpendBody{}, err
	}
	cv, err := b.Commit(p.ValueBlinding.Scalar())
	if err != nil {
		return SpendBody{}, err
	}
	nf, err := p.Nullifier(fvk)
	if err != nil {
		return SpendBody{}, err
	}
	return SpendBody{BalanceCommitment: cv, Nullifier: nf, Rk: p.Rk(fvk)}, nil
}

// EffectHash hashes the spend body.
func (p *SpendPlan) EffectHash(ctx Context) (effecthash.Hash, error) {
	fvk, err := ctx.viewingKey()
	if err != nil {
		return effecthash.Hash{}, err
	}
	body, err := p.Body(fvk)
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.SpendPlanError, "spend body")
	}
	return effecthash.FromProto(effecthash.SpendBodyURL, body), nil
}

func (p *SpendPlan) Kind() ActionKind { return KindSpend }
