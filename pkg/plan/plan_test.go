package plan

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/dex"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
)

const testSpendKey = "ff726c71bcec76abc6a88cba71df655b28de6580edbd33c7415fdfded2e422e7"

func testKeys(t *testing.T) (keys.SpendKeyBytes, *keys.FullViewingKey) {
	t.Helper()
	raw, err := hex.DecodeString(testSpendKey)
	require.NoError(t, err)
	sk, err := keys.SpendKeyFromBytes(raw)
	require.NoError(t, err)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)
	return sk, fvk
}

func testAddress(t *testing.T, fvk *keys.FullViewingKey, account uint32) address.Address {
	t.Helper()
	addr, _, err := fvk.PaymentAddress(address.NewIndex(account))
	require.NoError(t, err)
	return addr
}

func fill(b byte) Bytes32 {
	var out Bytes32
	for i := range out {
		out[i] = b + byte(i)
	}
	return out
}

func testSpend(t *testing.T, fvk *keys.FullViewingKey) *SpendPlan {
	return &SpendPlan{
		Note: NotePlan{
			Value:   asset.Value{Amount: asset.NewAmount(1_000_000), AssetID: asset.StakingToken()},
			Rseed:   note.Rseed(fill(0x10)),
			Address: testAddress(t, fvk, 0),
		},
		Position:       note.Position(42),
		Randomizer:     fill(0x20),
		ValueBlinding:  fill(0x30),
		ProofBlindingR: fill(0x40),
		ProofBlindingS: fill(0x50),
	}
}

func testOutput(t *testing.T, fvk *keys.FullViewingKey) *OutputPlan {
	return &OutputPlan{
		Value:         asset.Value{Amount: asset.NewAmount(900_000), AssetID: asset.StakingToken()},
		DestAddress:   testAddress(t, fvk, 1),
		Rseed:         note.Rseed(fill(0x60)),
		ValueBlinding: fill(0x70),
	}
}

func TestSpendEffectHashDependsOnRandomizer(t *testing.T) {
	_, fvk := testKeys(t)
	ctx := Context{FVK: fvk}

	p := testSpend(t, fvk)
	h1, err := p.EffectHash(ctx)
	require.NoError(t, err)
	h2, err := p.EffectHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.False(t, h1.IsZero())

	p.Randomizer = fill(0x21)
	h3, err := p.EffectHash(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestSpendBodyLayout(t *testing.T) {
	_, fvk := testKeys(t)
	body, err := testSpend(t, fvk).Body(fvk)
	require.NoError(t, err)

	enc := body.MarshalProto()
	require.Len(t, enc, 3*36)
	assert.Equal(t, []byte{0x0a, 0x22, 0x0a, 0x20}, enc[0:4])
	assert.Equal(t, []byte{0x22, 0x22, 0x0a, 0x20}, enc[36:40])
	assert.Equal(t, []byte{0x32, 0x22, 0x0a, 0x20}, enc[72:76])

	nf := body.Nullifier.Bytes()
	assert.Equal(t, nf[:], enc[76:])
}

func TestRandomizedKeyMatchesSigningKey(t *testing.T) {
	sk, fvk := testKeys(t)
	ask, err := sk.SigningKey()
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		var r Bytes32
		copy(r[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(rt, "randomizer"))

		p := &SpendPlan{Randomizer: r}
		want := ask.Randomize(r.Scalar()).VerificationKey().Bytes()
		got := p.Rk(fvk).Bytes()
		if want != got {
			rt.Fatalf("rk mismatch for randomizer %x", r)
		}
	})
}

func TestMissingViewingKey(t *testing.T) {
	_, fvk := testKeys(t)

	_, err := testSpend(t, fvk).EffectHash(Context{})
	assert.ErrorIs(t, err, errcode.InvalidFvk)

	_, err = testOutput(t, fvk).EffectHash(Context{})
	assert.ErrorIs(t, err, errcode.InvalidFvk)

	claim := &UndelegateClaimPlan{UnbondingAmount: asset.NewAmount(5), UnbondingStartHeight: 100}
	h, err := claim.EffectHash(Context{})
	require.NoError(t, err)
	assert.False(t, h.IsZero())
}

func TestOutputDependsOnMemoKey(t *testing.T) {
	_, fvk := testKeys(t)
	p := testOutput(t, fvk)

	h1, err := p.EffectHash(Context{FVK: fvk})
	require.NoError(t, err)
	h2, err := p.EffectHash(Context{FVK: fvk, MemoKey: [32]byte{1}})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestGenericPlan(t *testing.T) {
	data := []byte{0x0a, 0x03, 0x01, 0x02, 0x03}

	for _, kind := range []ActionKind{KindDelegate, KindUndelegate, KindIcs20Withdrawal} {
		p, err := NewGenericPlan(kind, data)
		require.NoError(t, err, kind.String())
		h, err := p.EffectHash(Context{})
		require.NoError(t, err)
		url, _ := genericURL(kind)
		assert.Equal(t, effecthash.FromEffectingData(url, data), h, kind.String())
	}

	_, err := NewGenericPlan(KindSpend, data)
	assert.ErrorIs(t, err, errcode.UnexpectedData)
	_, err = GenericEffectHash(ActionKind(99), data)
	assert.ErrorIs(t, err, errcode.UnexpectedData)
}

func TestPositionWithdrawRewardLimit(t *testing.T) {
	id, err := asset.FromDenom("ugm")
	require.NoError(t, err)

	p := &PositionWithdrawPlan{
		Reserves: dex.Reserves{R1: asset.NewAmount(10), R2: asset.NewAmount(20)},
		Pair:     dex.TradingPair{Asset1: asset.StakingToken(), Asset2: id},
		Sequence: 1,
	}
	for i := 0; i < MaxRewards; i++ {
		p.Rewards = append(p.Rewards, asset.Value{Amount: asset.NewAmount(uint64(i + 1)), AssetID: id})
	}
	_, err = p.EffectHash(Context{})
	require.NoError(t, err)

	p.Rewards = append(p.Rewards, asset.Value{Amount: asset.NewAmount(1), AssetID: id})
	_, err = p.EffectHash(Context{})
	assert.Equal(t, errcode.PositionWithdrawPlanError, errcode.FromError(err))
}

func TestVoteText(t *testing.T) {
	var v Vote
	require.NoError(t, v.UnmarshalText([]byte("Yes")))
	assert.Equal(t, VoteYes, v)
	assert.Equal(t, []byte{0x08, 0x02}, v.MarshalProto())
	assert.Empty(t, VoteUnspecified.MarshalProto())

	assert.ErrorIs(t, v.UnmarshalText([]byte("maybe")), errcode.ValueOutOfRange)
	_, err := Vote(9).MarshalText()
	assert.ErrorIs(t, err, errcode.ValueOutOfRange)
}

func TestActionRequiresOneKind(t *testing.T) {
	_, err := Action{}.Plan()
	assert.Equal(t, errcode.InvalidActionType, errcode.FromError(err))

	_, fvk := testKeys(t)
	both := Action{Spend: testSpend(t, fvk), Output: testOutput(t, fvk)}
	_, err = both.Plan()
	assert.Equal(t, errcode.InvalidActionType, errcode.FromError(err))
}

func testPlan(t *testing.T, fvk *keys.FullViewingKey) *TransactionPlan {
	delegate, err := NewGenericPlan(KindDelegate, []byte{0x0a, 0x01, 0x07})
	require.NoError(t, err)

	tp := New([]byte{0x12, 0x08, 'p', 'e', 'n', 'u', 'm', 'b', 'r', 'a'},
		testSpend(t, fvk), testOutput(t, fvk), delegate)
	tp.Memo = &MemoPlan{ReturnAddress: testAddress(t, fvk, 0), Text: "hello", Key: fill(0x80)}
	tp.DetectionData = []effecthash.CluePlan{
		{Address: testAddress(t, fvk, 1), Rseed: note.Rseed(fill(0x90)), PrecisionBits: 2},
	}
	return tp
}

func TestTransactionEffectHashComposition(t *testing.T) {
	_, fvk := testKeys(t)
	tp := testPlan(t, fvk)

	platform := hw.NewDeterministic([32]byte{})
	got, err := tp.EffectHash(fvk, platform)
	require.NoError(t, err)

	actions, err := tp.ActionHashes(fvk, hw.NewDeterministic([32]byte{}))
	require.NoError(t, err)
	require.Len(t, actions, 3)

	mp, err := tp.Memo.Plan()
	require.NoError(t, err)
	memoHash, err := effecthash.MemoPlan(mp)
	require.NoError(t, err)
	detection, err := effecthash.DetectionData(tp.DetectionData, hw.NewDeterministic([32]byte{}))
	require.NoError(t, err)

	want, err := effecthash.Transaction(effecthash.Parameters(tp.Parameters), memoHash, detection, actions)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Two heartbeats per clue, one per action.
	assert.Equal(t, 2+3, platform.Heartbeats())
	assert.Equal(t, 3, platform.Canaries())
}

func TestTransactionEffectHashNeedsViewingKey(t *testing.T) {
	_, fvk := testKeys(t)
	_, err := testPlan(t, fvk).EffectHash(nil, hw.NewDeterministic([32]byte{}))
	assert.ErrorIs(t, err, errcode.InvalidFvk)
}

func TestSerializeRoundTrip(t *testing.T) {
	_, fvk := testKeys(t)
	tp := testPlan(t, fvk)

	data, err := Serialize(tp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"delegate"`)
	assert.Contains(t, string(data), `"penumbra1`)

	parsed, err := Parse(data)
	require.NoError(t, err)

	want, err := tp.EffectHash(fvk, hw.NewDeterministic([32]byte{}))
	require.NoError(t, err)
	got, err := parsed.EffectHash(fvk, hw.NewDeterministic([32]byte{}))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	plans, err := parsed.ActionPlans()
	require.NoError(t, err)
	assert.Equal(t, KindDelegate, plans[2].Kind())
	assert.Len(t, parsed.SpendPlans(), 1)
	assert.Empty(t, parsed.DelegatorVotePlans())
}

func TestParseRejects(t *testing.T) {
	_, fvk := testKeys(t)

	_, err := Parse([]byte("  "))
	assert.ErrorIs(t, err, errcode.NoData)

	_, err = Parse([]byte(`{"version": 2, "parameters": "", "actions": []}`))
	assert.ErrorIs(t, err, errcode.UnexpectedVersion)

	_, err = Parse([]byte(`{"version": 1, "parameters": "", "actions": [], "fee": 1}`))
	assert.Equal(t, errcode.UnexpectedData, errcode.FromError(err))

	_, err = Parse([]byte(`{"version": 1, "parameters": "zz", "actions": []}`))
	assert.Equal(t, errcode.UnexpectedCharacters, errcode.FromError(err))

	_, err = Parse([]byte(`{"version": 1, "parameters": "", "actions": [{}]}`))
	assert.Equal(t, errcode.InvalidActionType, errcode.FromError(err))

	tp := New(nil)
	for i := 0; i <= effecthash.MaxActions; i++ {
		tp.Actions = append(tp.Actions, NewAction(testSpend(t, fvk)))
	}
	_, err = Serialize(tp)
	assert.ErrorIs(t, err, errcode.ActionsOverflow)
}

func TestMemoPlanValidation(t *testing.T) {
	_, fvk := testKeys(t)
	m := &MemoPlan{ReturnAddress: testAddress(t, fvk, 0), Text: strings.Repeat("a", 1000)}
	_, err := m.Plan()
	assert.Error(t, err)

	var tp TransactionPlan
	assert.Equal(t, [32]byte{}, [32]byte(tp.MemoKey()))
}
