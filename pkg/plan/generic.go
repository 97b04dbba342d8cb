package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// GenericPlan carries an action whose effecting data needs no secret to
// rebuild: the wallet supplies the encoded message and only its hash is
// computed here.
type GenericPlan struct {
	kind ActionKind
	Data HexBytes `json:"data"`
}

// NewGenericPlan wraps pre-encoded effecting data for a Delegate,
// Undelegate or Ics20Withdrawal action.
func NewGenericPlan(kind ActionKind, data []byte) (*GenericPlan, error) {
	if _, err := genericURL(kind); err != nil {
		return nil, err
	}
	return &GenericPlan{kind: kind, Data: data}, nil
}

func genericURL(kind ActionKind) (string, error) {
	switch kind {
	case KindDelegate:
		return effecthash.DelegateURL, nil
	case KindUndelegate:
		return effecthash.UndelegateURL, nil
	case KindIcs20Withdrawal:
		return effecthash.Ics20WithdrawalURL, nil
	default:
		return "", errcode.UnexpectedData
	}
}

// GenericEffectHash hashes pre-encoded effecting data under the type URL of
// kind. Only Delegate, Undelegate and Ics20Withdrawal are accepted.
func GenericEffectHash(kind ActionKind, data []byte) (effecthash.Hash, error) {
	url, err := genericURL(kind)
	if err != nil {
		return effecthash.Hash{}, err
	}
	return effecthash.FromEffectingData(url, data), nil
}

// EffectHash hashes the supplied data.
func (p *GenericPlan) EffectHash(Context) (effecthash.Hash, error) {
	h, err := GenericEffectHash(p.kind, p.Data)
	if err != nil {
		return effecthash.Hash{}, errcode.Wrap(err, p.kind.PlanError(), "generic action")
	}
	return h, nil
}

func (p *GenericPlan) Kind() ActionKind { return p.kind }
