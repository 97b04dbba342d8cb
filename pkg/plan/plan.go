// Package plan describes transactions the way a wallet hands them to the
// signer: every secret needed to rebuild each action's public body
// (randomizers, blindings, note seeds) alongside the values being moved.
//
// From a plan and a full viewing key the signer recomputes each action's
// effect hash and the transaction effect hash, which is what it signs.
package plan

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/memo"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

// ActionKind numbers action types. The values are shared with the device
// boundary.
type ActionKind uint8

const (
	KindSpend                ActionKind = 1
	KindOutput               ActionKind = 2
	KindSwap                 ActionKind = 3
	KindSwapClaim            ActionKind = 4
	KindDelegatorVote        ActionKind = 21
	KindPositionOpen         ActionKind = 30
	KindPositionClose        ActionKind = 31
	KindPositionWithdraw     ActionKind = 32
	KindDelegate             ActionKind = 40
	KindUndelegate           ActionKind = 41
	KindUndelegateClaim      ActionKind = 42
	KindDutchAuctionSchedule ActionKind = 53
	KindDutchAuctionEnd      ActionKind = 54
	KindDutchAuctionWithdraw ActionKind = 55
	KindIcs20Withdrawal      ActionKind = 200
)

func (k ActionKind) String() string {
	switch k {
	case KindSpend:
		return "spend"
	case KindOutput:
		return "output"
	case KindSwap:
		return "swap"
	case KindSwapClaim:
		return "swap_claim"
	case KindDelegatorVote:
		return "delegator_vote"
	case KindPositionOpen:
		return "position_open"
	case KindPositionClose:
		return "position_close"
	case KindPositionWithdraw:
		return "position_withdraw"
	case KindDelegate:
		return "delegate"
	case KindUndelegate:
		return "undelegate"
	case KindUndelegateClaim:
		return "undelegate_claim"
	case KindDutchAuctionSchedule:
		return "action_dutch_auction_schedule"
	case KindDutchAuctionEnd:
		return "action_dutch_auction_end"
	case KindDutchAuctionWithdraw:
		return "action_dutch_auction_withdraw"
	case KindIcs20Withdrawal:
		return "ics20_withdrawal"
	default:
		return "unknown"
	}
}

// PlanError is the status reported when rebuilding an action of this kind
// fails.
func (k ActionKind) PlanError() errcode.Code {
	switch k {
	case KindSpend:
		return errcode.SpendPlanError
	case KindOutput:
		return errcode.OutputPlanError
	case KindSwap:
		return errcode.SwapPlanError
	case KindDelegatorVote:
		return errcode.DelegatorVotePlanError
	case KindPositionOpen:
		return errcode.PositionOpenPlanError
	case KindPositionClose:
		return errcode.PositionClosePlanError
	case KindPositionWithdraw:
		return errcode.PositionWithdrawPlanError
	case KindDelegate:
		return errcode.DelegatePlanError
	case KindUndelegate:
		return errcode.UndelegatePlanError
	case KindUndelegateClaim:
		return errcode.UndelegateClaimPlanError
	case KindDutchAuctionSchedule:
		return errcode.DutchAuctionSchedulePlanError
	case KindDutchAuctionEnd:
		return errcode.DutchAuctionEndPlanError
	case KindDutchAuctionWithdraw:
		return errcode.DutchAuctionWithdrawPlanError
	case KindIcs20Withdrawal:
		return errcode.Ics20WithdrawalPlanError
	default:
		return errcode.InvalidActionType
	}
}

// Context carries what action bodies are rebuilt from.
type Context struct {
	FVK *keys.FullViewingKey
	// MemoKey is wrapped into every output. It is zero when the
	// transaction has no memo.
	MemoKey symmetric.PayloadKey
}

func (c Context) viewingKey() (*keys.FullViewingKey, error) {
	if c.FVK == nil {
		return nil, errcode.InvalidFvk
	}
	return c.FVK, nil
}

// ActionPlan is one planned action.
type ActionPlan interface {
	Kind() ActionKind
	EffectHash(ctx Context) (effecthash.Hash, error)
}

var (
	_ ActionPlan = (*SpendPlan)(nil)
	_ ActionPlan = (*OutputPlan)(nil)
	_ ActionPlan = (*SwapPlan)(nil)
	_ ActionPlan = (*UndelegateClaimPlan)(nil)
	_ ActionPlan = (*DelegatorVotePlan)(nil)
	_ ActionPlan = (*PositionWithdrawPlan)(nil)
	_ ActionPlan = (*DutchAuctionWithdrawPlan)(nil)
	_ ActionPlan = (*GenericPlan)(nil)
)

// Action is the plan file form of an ActionPlan: exactly one field is set.
type Action struct {
	Spend                *SpendPlan                `json:"spend,omitempty"`
	Output               *OutputPlan               `json:"output,omitempty"`
	Swap                 *SwapPlan                 `json:"swap,omitempty"`
	UndelegateClaim      *UndelegateClaimPlan      `json:"undelegate_claim,omitempty"`
	DelegatorVote        *DelegatorVotePlan        `json:"delegator_vote,omitempty"`
	PositionWithdraw     *PositionWithdrawPlan     `json:"position_withdraw,omitempty"`
	DutchAuctionWithdraw *DutchAuctionWithdrawPlan `json:"action_dutch_auction_withdraw,omitempty"`
	Delegate             *GenericPlan              `json:"delegate,omitempty"`
	Undelegate           *GenericPlan              `json:"undelegate,omitempty"`
	Ics20Withdrawal      *GenericPlan              `json:"ics20_withdrawal,omitempty"`
}

// NewAction wraps p for a plan file.
func NewAction(p ActionPlan) Action {
	var a Action
	switch v := p.(type) {
	case *SpendPlan:
		a.Spend = v
	case *OutputPlan:
		a.Output = v
	case *SwapPlan:
		a.Swap = v
	case *UndelegateClaimPlan:
		a.UndelegateClaim = v
	case *DelegatorVotePlan:
		a.DelegatorVote = v
	case *PositionWithdrawPlan:
		a.PositionWithdraw = v
	case *DutchAuctionWithdrawPlan:
		a.DutchAuctionWithdraw = v
	case *GenericPlan:
		switch v.kind {
		case KindDelegate:
			a.Delegate = v
		case KindUndelegate:
			a.Undelegate = v
		case KindIcs20Withdrawal:
			a.Ics20Withdrawal = v
		}
	}
	return a
}

// Plan returns the single action set in a.
func (a Action) Plan() (ActionPlan, error) {
	var found []ActionPlan
	add := func(ok bool, p ActionPlan) {
		if ok {
			found = append(found, p)
		}
	}
	add(a.Spend != nil, a.Spend)
	add(a.Output != nil, a.Output)
	add(a.Swap != nil, a.Swap)
	add(a.UndelegateClaim != nil, a.UndelegateClaim)
	add(a.DelegatorVote != nil, a.DelegatorVote)
	add(a.PositionWithdraw != nil, a.PositionWithdraw)
	add(a.DutchAuctionWithdraw != nil, a.DutchAuctionWithdraw)
	if a.Delegate != nil {
		a.Delegate.kind = KindDelegate
		found = append(found, a.Delegate)
	}
	if a.Undelegate != nil {
		a.Undelegate.kind = KindUndelegate
		found = append(found, a.Undelegate)
	}
	if a.Ics20Withdrawal != nil {
		a.Ics20Withdrawal.kind = KindIcs20Withdrawal
		found = append(found, a.Ics20Withdrawal)
	}
	if len(found) != 1 {
		return nil, errcode.New(errcode.InvalidActionType, "action must set exactly one kind")
	}
	return found[0], nil
}

// MemoPlan is a memo to encrypt under a fresh key.
type MemoPlan struct {
	ReturnAddress address.Address `json:"return_address"`
	Text          string          `json:"text"`
	Key           Bytes32         `json:"key"`
}

// Plan validates the memo and pairs it with its key.
func (m *MemoPlan) Plan() (*memo.Plan, error) {
	pt, err := memo.NewPlaintext(m.ReturnAddress, m.Text)
	if err != nil {
		return nil, err
	}
	return &memo.Plan{Plaintext: pt, Key: symmetric.PayloadKey(m.Key)}, nil
}

// TransactionPlan is everything needed to compute a transaction's effect
// hash.
type TransactionPlan struct {
	Version uint32 `json:"version"`
	// Parameters is the encoded TransactionParameters message (expiry,
	// chain id, fee). It is hashed as given.
	Parameters    HexBytes              `json:"parameters"`
	Actions       []Action              `json:"actions"`
	DetectionData []effecthash.CluePlan `json:"detection_data,omitempty"`
	Memo          *MemoPlan             `json:"memo,omitempty"`
}

// Validate checks version and capacity limits and that every action sets
// exactly one kind.
func (t *TransactionPlan) Validate() error {
	if t.Version != Version {
		return errcode.UnexpectedVersion
	}
	if len(t.Actions) > effecthash.MaxActions {
		return errcode.ActionsOverflow
	}
	if len(t.DetectionData) > effecthash.MaxCluePlans {
		return errcode.DetectionDataOverflow
	}
	for _, a := range t.Actions {
		if _, err := a.Plan(); err != nil {
			return err
		}
	}
	return nil
}

// ActionPlans returns the actions in order.
func (t *TransactionPlan) ActionPlans() ([]ActionPlan, error) {
	out := make([]ActionPlan, 0, len(t.Actions))
	for _, a := range t.Actions {
		p, err := a.Plan()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SpendPlans returns the spends in action order.
func (t *TransactionPlan) SpendPlans() []*SpendPlan {
	var out []*SpendPlan
	for _, a := range t.Actions {
		if a.Spend != nil {
			out = append(out, a.Spend)
		}
	}
	return out
}

// DelegatorVotePlans returns the delegator votes in action order.
func (t *TransactionPlan) DelegatorVotePlans() []*DelegatorVotePlan {
	var out []*DelegatorVotePlan
	for _, a := range t.Actions {
		if a.DelegatorVote != nil {
			out = append(out, a.DelegatorVote)
		}
	}
	return out
}

// MemoKey returns the memo key, zero without a memo.
func (t *TransactionPlan) MemoKey() symmetric.PayloadKey {
	if t.Memo == nil {
		return symmetric.PayloadKey{}
	}
	return symmetric.PayloadKey(t.Memo.Key)
}

// ActionHashes computes every action's effect hash in order.
func (t *TransactionPlan) ActionHashes(fvk *keys.FullViewingKey, p hw.Platform) ([]effecthash.Hash, error) {
	plans, err := t.ActionPlans()
	if err != nil {
		return nil, err
	}
	if len(plans) > effecthash.MaxActions {
		return nil, errcode.ActionsOverflow
	}
	ctx := Context{FVK: fvk, MemoKey: t.MemoKey()}
	hashes := make([]effecthash.Hash, 0, len(plans))
	for _, ap := range plans {
		p.CheckCanary()
		h, err := ap.EffectHash(ctx)
		if err != nil {
			return nil, err
		}
		p.Heartbeat()
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// EffectHash computes the transaction effect hash.
func (t *TransactionPlan) EffectHash(fvk *keys.FullViewingKey, p hw.Platform) (effecthash.Hash, error) {
	if err := t.Validate(); err != nil {
		return effecthash.Hash{}, err
	}

	var memoHash effecthash.Hash
	if t.Memo != nil {
		mp, err := t.Memo.Plan()
		if err != nil {
			return effecthash.Hash{}, err
		}
		if memoHash, err = effecthash.MemoPlan(mp); err != nil {
			return effecthash.Hash{}, err
		}
	}

	detection, err := effecthash.DetectionData(t.DetectionData, p)
	if err != nil {
		return effecthash.Hash{}, err
	}

	actions, err := t.ActionHashes(fvk, p)
	if err != nil {
		return effecthash.Hash{}, err
	}

	return effecthash.Transaction(effecthash.Parameters(t.Parameters), memoHash, detection, actions)
}
