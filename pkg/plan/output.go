package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

// OutputPlan creates a new note for DestAddress.
type OutputPlan struct {
	Value         asset.Value     `json:"value"`
	DestAddress   address.Address `json:"dest_address"`
	Rseed         note.Rseed      `json:"rseed"`
	ValueBlinding Bytes32         `json:"value_blinding"`
}

// OutputBody is the public part of an output.
type OutputBody struct {
	NotePayload       note.Payload
	BalanceCommitment balance.Commitment
	OvkWrappedKey     symmetric.OvkWrappedKey
	WrappedMemoKey    symmetric.WrappedMemoKey
}

// MarshalProto encodes shielded_pool.v1.OutputBody.
func (b OutputBody) MarshalProto() []byte {
	return proto.NewEncoder(400).
		Message(proto.OutputNotePayload, b.NotePayload).
		Message(proto.OutputBalanceCommitment, b.BalanceCommitment).
		BytesField(proto.OutputWrappedMemoKey, b.WrappedMemoKey[:]).
		BytesField(proto.OutputOvkWrappedKey, b.OvkWrappedKey[:]).
		Bytes()
}

// Note is the note the output creates.
func (p *OutputPlan) Note() note.Note {
	return note.New(p.DestAddress, p.Value, p.Rseed)
}

// Balance is the output value, required from the transaction.
func (p *OutputPlan) Balance() (*balance.Balance, error) {
	b := balance.New()
	if err := b.Insert(balance.Imbalance{Value: p.Value, Sign: balance.Required}); err != nil {
		return nil, err
	}
	return b, nil
}

// Body reconstructs the output body. The memo key is wrapped to the
// recipient with the note's ephemeral key; the note's shared secret is
// wrapped to the sender's ovk.
func (p *OutputPlan) Body(fvk *keys.FullViewingKey, memoKey symmetric.PayloadKey) (OutputBody, error) {
	n := p.Note()
	b, err := p.Balance()
	if err != nil {
		return OutputBody{}, err
	}
	cv, err := b.Commit(p.ValueBlinding.Scalar())
	if err != nil {
		return OutputBody{}, err
	}
	esk, err := n.EphemeralSecretKey()
	if err != nil {
		return OutputBody{}, err
	}
	ovkWrapped, err := n.EncryptKey(fvk.OutgoingViewingKey(), cv)
	if err != nil {
		return OutputBody{}, err
	}
	memoWrapped, err := symmetric.WrapMemoKey(memoKey, esk, n.TransmissionKey(), n.DiversifiedGenerator())
	if err != nil {
		return OutputBody{}, err
	}
	payload, err := n.Payload()
	if err != nil {
		return OutputBody{}, err
	}
	return OutputBody{
		NotePayload:       payload,
		BalanceCommitment: cv,
		OvkWrappedKey:     ovkWrapped,
		WrappedMemoKey:    memoWrapped,
	}, nil
}

// EffectHash hashes the output body. Without a memo the zero key is wrapped.
func (p *OutputPlan) EffectHash(ctx Context) (effecthash.Hash, error) {
	fvk, err := ctx.viewingKey()
	if err != nil {
		return effecthash.Hash{}, err
	}
	body, err := p.Body(fvk, ctx.MemoKey)
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, errcode.OutputPlanError, "output body")
	}
	return effecthash.FromProto(effecthash.OutputBodyURL, body), nil
}

func (p *OutputPlan) Kind() ActionKind { return KindOutput }
