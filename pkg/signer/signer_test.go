package signer

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/plan"
)

func testSpendKey(t *testing.T) keys.SpendKeyBytes {
	t.Helper()
	raw, err := hex.DecodeString("a1ffba0c37931f0a626137520da650632d35853bf591b36bb428630a4d87c4dc")
	require.NoError(t, err)
	sk, err := keys.SpendKeyFromBytes(raw)
	require.NoError(t, err)
	return sk
}

func bytes32(b byte) plan.Bytes32 {
	var out plan.Bytes32
	for i := range out {
		out[i] = b ^ byte(i*7)
	}
	return out
}

func testPlan(t *testing.T, fvk *keys.FullViewingKey) *plan.TransactionPlan {
	t.Helper()
	addr, _, err := fvk.PaymentAddress(address.NewIndex(0))
	require.NoError(t, err)

	staked := plan.NotePlan{
		Value:   asset.Value{Amount: asset.NewAmount(500), AssetID: asset.StakingToken()},
		Rseed:   note.Rseed(bytes32(0x33)),
		Address: addr,
	}
	spend := func(r byte, pos note.Position) *plan.SpendPlan {
		return &plan.SpendPlan{
			Note:          staked,
			Position:      pos,
			Randomizer:    bytes32(r),
			ValueBlinding: bytes32(r + 1),
		}
	}
	vote := &plan.DelegatorVotePlan{
		Proposal:           7,
		StartPosition:      1 << 20,
		Vote:               plan.VoteYes,
		StakedNote:         staked,
		StakedNotePosition: 99,
		UnbondedAmount:     asset.NewAmount(500),
		Randomizer:         bytes32(0xc0),
	}
	return plan.New([]byte{0x12, 0x01, 'x'}, spend(0x10, 1), spend(0x20, 2), vote)
}

func TestSignAuthorizesEveryAction(t *testing.T) {
	sk := testSpendKey(t)
	core, logs := observer.New(zap.DebugLevel)
	platform := hw.NewDeterministic([32]byte{})
	s := New(sk, platform, zap.New(core))

	fvk, err := s.FullViewingKey()
	require.NoError(t, err)
	p := testPlan(t, fvk)

	auth, err := s.Sign(p)
	require.NoError(t, err)
	require.Len(t, auth.SpendAuths, 2)
	require.Len(t, auth.DelegatorVoteAuths, 1)

	want, err := p.EffectHash(fvk, hw.NewDeterministic([32]byte{}))
	require.NoError(t, err)
	assert.Equal(t, want, auth.EffectHash)

	for i, sp := range p.SpendPlans() {
		assert.NoError(t, sp.Rk(fvk).Verify(auth.EffectHash[:], auth.SpendAuths[i]), "spend %d", i)
		// The unrandomized key must not verify.
		assert.ErrorIs(t, fvk.SpendVerificationKey().Verify(auth.EffectHash[:], auth.SpendAuths[i]), errcode.InvalidSignature)
	}
	v := p.DelegatorVotePlans()[0]
	assert.NoError(t, v.Rk(fvk).Verify(auth.EffectHash[:], auth.DelegatorVoteAuths[0]))

	require.Equal(t, 1, logs.FilterMessage("signed plan").Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["spend_auths"])
}

func TestSignIsDeterministic(t *testing.T) {
	sk := testSpendKey(t)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)
	p := testPlan(t, fvk)

	a1, err := New(sk, hw.NewDeterministic([32]byte{1}), nil).Sign(p)
	require.NoError(t, err)
	a2, err := New(sk, hw.NewDeterministic([32]byte{2}), nil).Sign(p)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	// Distinct randomizers give distinct signatures over the same hash.
	assert.NotEqual(t, a1.SpendAuths[0], a1.SpendAuths[1])
}

func TestSignSpend(t *testing.T) {
	sk := testSpendKey(t)
	fvk, err := sk.FullViewingKey()
	require.NoError(t, err)

	var hash [64]byte
	hash[0] = 0xee
	r := bytes32(0x42)

	sig, err := SignSpend(hash, r, sk)
	require.NoError(t, err)
	rk := fvk.SpendVerificationKey().Randomize(r.Scalar())
	assert.NoError(t, rk.Verify(hash[:], sig))

	hash[1] = 1
	assert.ErrorIs(t, rk.Verify(hash[:], sig), errcode.InvalidSignature)
}

func TestSignRejectsInvalidPlan(t *testing.T) {
	sk := testSpendKey(t)
	p := &plan.TransactionPlan{Version: 9}
	_, err := New(sk, hw.NewDeterministic([32]byte{}), nil).Sign(p)
	assert.ErrorIs(t, err, errcode.UnexpectedVersion)
}

func TestAuthorizationDataJSON(t *testing.T) {
	auth := AuthorizationData{SpendAuths: []crypto.Signature{{0xab}}}
	out, err := json.Marshal(auth)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"spend_auths":["ab00`)

	var back AuthorizationData
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, auth.SpendAuths, back.SpendAuths)
}
