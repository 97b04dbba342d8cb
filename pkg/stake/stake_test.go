package stake

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

const penaltyHex = "00000000000000000000000000000000fecbfb15b573eab367a0f9096bb98c7f"

func testIdentity() IdentityKey {
	var ik IdentityKey
	for i := range ik {
		ik[i] = byte(3 * i)
	}
	return ik
}

func TestIdentityKeyText(t *testing.T) {
	ik := testIdentity()
	s := ik.String()
	assert.True(t, strings.HasPrefix(s, "penumbravalid1"))
	assert.Len(t, s, 72)

	text, err := ik.MarshalText()
	require.NoError(t, err)
	var back IdentityKey
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, ik, back)

	var fromHex IdentityKey
	require.NoError(t, fromHex.UnmarshalText([]byte(hex.EncodeToString(ik[:]))))
	assert.Equal(t, ik, fromHex)

	var bad IdentityKey
	assert.Error(t, bad.UnmarshalText([]byte("penumbra1qqqq")))
}

func TestIdentityKeyProto(t *testing.T) {
	ik := testIdentity()
	enc := ik.MarshalProto()
	assert.Equal(t, []byte{0x0a, 0x20}, enc[:2])
	assert.Equal(t, ik[:], enc[2:])
}

func TestUnbondingToken(t *testing.T) {
	ik := testIdentity()
	a, err := UnbondingToken(ik, 100)
	require.NoError(t, err)
	b, err := UnbondingToken(ik, 100)
	require.NoError(t, err)
	c, err := UnbondingToken(ik, 101)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	want, err := asset.FromDenom("uunbonding_start_at_100_" + ik.String())
	require.NoError(t, err)
	assert.True(t, a.Equal(want))
}

func TestPenaltyApply(t *testing.T) {
	half := make([]byte, 32)
	half[16] = 0x80
	p, err := PenaltyFromBytes(half)
	require.NoError(t, err)

	got, err := p.ApplyToAmount(asset.NewAmount(1001))
	require.NoError(t, err)
	assert.Equal(t, asset.NewAmount(500), got)

	_, err = PenaltyFromBytes(half[:31])
	assert.ErrorIs(t, err, errcode.InvalidLength)
}

func TestPenaltyProtoAndText(t *testing.T) {
	raw, err := hex.DecodeString(penaltyHex)
	require.NoError(t, err)
	p, err := PenaltyFromBytes(raw)
	require.NoError(t, err)

	enc := p.MarshalProto()
	assert.Equal(t, append([]byte{0x0a, 0x20}, raw...), enc)

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, penaltyHex, string(text))

	var back Penalty
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, p.Bytes(), back.Bytes())
}

func TestBalanceForClaim(t *testing.T) {
	raw, err := hex.DecodeString(penaltyHex)
	require.NoError(t, err)
	p, err := PenaltyFromBytes(raw)
	require.NoError(t, err)

	id, err := UnbondingToken(testIdentity(), 7)
	require.NoError(t, err)
	amount := asset.NewAmount(1000000)

	b, err := p.BalanceForClaim(id, amount)
	require.NoError(t, err)
	imbs := b.Imbalances()
	require.Len(t, imbs, 2)

	assert.Equal(t, balance.Required, imbs[0].Sign)
	assert.True(t, imbs[0].Value.AssetID.Equal(id))
	assert.Equal(t, amount, imbs[0].Value.Amount)

	released, err := p.ApplyToAmount(amount)
	require.NoError(t, err)
	assert.Equal(t, balance.Provided, imbs[1].Sign)
	assert.True(t, imbs[1].Value.AssetID.Equal(asset.StakingToken()))
	assert.Equal(t, released, imbs[1].Value.Amount)
	assert.True(t, released.Cmp(amount) < 0)
}
