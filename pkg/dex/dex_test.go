package dex

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
)

const claimAddressHex = "e0783360338067fc2ba548f460b3f06f33d3e756ebefa8a8c08c5e12a1e667df228df0720fb9bd963894183bc447e1c7ef591fa9625d4a66b7703eec2ec1ef543454673bb61a4f2a3d861114d6891d69"

func testPair(t *testing.T) TradingPair {
	t.Helper()
	gm, err := asset.FromDenom("ugm")
	require.NoError(t, err)
	return TradingPair{Asset1: asset.StakingToken(), Asset2: gm}
}

func testSwap(t *testing.T) SwapPlaintext {
	t.Helper()
	raw, err := hex.DecodeString(claimAddressHex)
	require.NoError(t, err)
	addr, err := address.FromBytes(raw)
	require.NoError(t, err)

	var s SwapPlaintext
	s.TradingPair = testPair(t)
	s.Delta1 = asset.NewAmount(100000)
	s.ClaimFee = balance.Fee{Amount: asset.NewAmount(7)}
	s.ClaimAddress = addr
	for i := range s.Rseed {
		s.Rseed[i] = byte(i)
	}
	return s
}

func TestTradingPairProto(t *testing.T) {
	pair := testPair(t)
	a1 := pair.Asset1.Bytes()
	a2 := pair.Asset2.Bytes()

	want := append([]byte{0x0a, 0x22, 0x0a, 0x20}, a1[:]...)
	want = append(want, 0x12, 0x22, 0x0a, 0x20)
	want = append(want, a2[:]...)
	assert.Equal(t, want, pair.MarshalProto())

	b := pair.Bytes()
	back, err := TradingPairFromBytes(b[:])
	require.NoError(t, err)
	assert.True(t, back.Asset1.Equal(pair.Asset1))
	assert.True(t, back.Asset2.Equal(pair.Asset2))

	_, err = TradingPairFromBytes(b[:10])
	assert.ErrorIs(t, err, errcode.InvalidLength)
}

func TestReservesBalance(t *testing.T) {
	pair := testPair(t)
	r := Reserves{R1: asset.NewAmount(3), R2: asset.NewAmount(4)}

	b, err := r.Balance(pair)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	same := TradingPair{Asset1: pair.Asset1, Asset2: pair.Asset1}
	b, err = r.Balance(same)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, asset.NewAmount(7), b.Imbalances()[0].Value.Amount)

	top := asset.Amount{Lo: ^uint64(0), Hi: ^uint64(0)}
	_, err = Reserves{R1: top, R2: asset.NewAmount(1)}.Balance(same)
	assert.ErrorIs(t, err, errcode.Overflow)
}

func TestReservesCommitmentMatchesValues(t *testing.T) {
	pair := testPair(t)
	r := Reserves{R1: asset.NewAmount(3), R2: asset.NewAmount(4)}

	b, err := r.Balance(pair)
	require.NoError(t, err)
	c, err := b.Commit(decaf377.FrFromUint64(0))
	require.NoError(t, err)

	want := pair.Asset1.ValueGenerator().ScalarMul(decaf377.FrFromUint64(3)).
		Add(pair.Asset2.ValueGenerator().ScalarMul(decaf377.FrFromUint64(4)))
	got, err := c.Element()
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestSwapPlaintextRoundTrip(t *testing.T) {
	s := testSwap(t)
	b := s.Bytes()
	require.Len(t, b, 256)

	back, err := SwapPlaintextFromBytes(b[:])
	require.NoError(t, err)
	assert.Equal(t, b, back.Bytes())
	assert.True(t, s.Commit().Equal(back.Commit()))
}

func TestSwapEncryptDecrypt(t *testing.T) {
	s := testSwap(t)
	var ovk keys.OutgoingViewingKey
	ovk[0] = 9

	payload, err := s.Encrypt(ovk)
	require.NoError(t, err)
	require.Len(t, payload.EncryptedSwap, SwapCiphertextLen)
	assert.True(t, payload.Commitment.Equal(s.Commit()))

	again, err := s.Encrypt(ovk)
	require.NoError(t, err)
	assert.Equal(t, payload, again)

	back, err := payload.EncryptedSwap.Decrypt(ovk, payload.Commitment)
	require.NoError(t, err)
	assert.Equal(t, s.Bytes(), back.Bytes())

	ovk[0] = 10
	_, err = payload.EncryptedSwap.Decrypt(ovk, payload.Commitment)
	assert.Equal(t, errcode.EncryptionError, errcode.FromError(err))
}

func TestSwapCommitmentBindsDeltas(t *testing.T) {
	s := testSwap(t)
	other := s
	other.Delta2 = asset.NewAmount(1)
	assert.False(t, s.Commit().Equal(other.Commit()))
}

func TestSwapPayloadProto(t *testing.T) {
	s := testSwap(t)
	payload, err := s.Encrypt(keys.OutgoingViewingKey{})
	require.NoError(t, err)

	enc := payload.MarshalProto()
	cm := payload.Commitment.Bytes()
	assert.Equal(t, []byte{0x0a, 0x22, 0x0a, 0x20}, enc[:4])
	assert.Equal(t, cm[:], enc[4:36])
	// 272 = 0x90 0x02 as a varint.
	assert.Equal(t, []byte{0x12, 0x90, 0x02}, enc[36:39])
	assert.Equal(t, payload.EncryptedSwap[:], enc[39:])
}
