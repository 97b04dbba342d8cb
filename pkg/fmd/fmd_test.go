package fmd

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

func mustClueKey(t *testing.T, s string) ClueKey {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	ck, err := ClueKeyFromBytes(b)
	require.NoError(t, err)
	return ck
}

func mustSeed(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	var seed [32]byte
	copy(seed[:], b)
	return seed
}

func TestExpandInfallibleSkipsToValidPoint(t *testing.T) {
	ck := mustClueKey(t, "08fa66c1abda596ff70094c8289f60234f606ca664806806c14604a52820d603")
	eck, err := ck.ExpandInfallible()
	require.NoError(t, err)
	assert.Equal(t,
		"10fa66c1abda596ff70094c8289f60234f606ca664806806c14604a52820d603",
		hex.EncodeToString(eck.rootEnc[:]))
}

func TestCreateClueVectors(t *testing.T) {
	ck := mustClueKey(t, "08fa66c1abda596ff70094c8289f60234f606ca664806806c14604a52820d603")
	eck, err := ck.ExpandInfallible()
	require.NoError(t, err)

	cases := []struct {
		rseed     string
		precision uint8
		want      string
	}{
		{
			"361218d216cfe90f77f54f045ff21b464795517c05057c595fd59e4958e39417", 3,
			"bc83dc71ddb4c88003502b168ee168412b61a0ef3376b1ba9fc17753f723da03" +
				"9c41c32c3e45a02dbc943537241b192fc19f275d5a448b4d4c28d10f44979f03" +
				"03070000",
		},
		{
			"13296da8c9dfdf969be7c7bd74e67e80977cd91635eb32038619f62c732dc46a", 2,
			"24faea8ecd2d3832c30c62fa98bd03a653f0547218e4e495bc5e1be06065aa01" +
				"fe3ba71dd92742cd08da4e1f45c5d86c02113a63eb6b687c8a9a1737ee14a704" +
				"02020000",
		},
	}
	for _, tc := range cases {
		clue, err := eck.CreateClueDeterministic(tc.precision, mustSeed(t, tc.rseed))
		require.NoError(t, err)
		assert.Equal(t, tc.want, hex.EncodeToString(clue[:]))
		assert.Equal(t, tc.precision, clue.Precision())
	}
	assert.Equal(t, 3, eck.Len(), "cache keeps its high-water mark")
}

func TestCreateClueFullPrecisionVector(t *testing.T) {
	dk := NewDetectionKey(decaf377.FrFromUint64(12345))
	ck := dk.ClueKey()
	assert.Equal(t,
		"22447ad2bd062b2c81ba17f92106f0742df7b80526c45b011962f7d130b6980e",
		hex.EncodeToString(ck[:]))

	eck, err := ck.Expand()
	require.NoError(t, err)
	clue, err := eck.CreateClueDeterministic(MaxPrecision, [32]byte{})
	require.NoError(t, err)
	assert.Equal(t,
		"3e500c131d9a25a20ff0930d0750d75c3a2f6affca6b9ea130bb7290f8d9db0d"+
			"6e51c267fa00d1e60222a78424d859fddc36477aa35ab50e0b175a0514c3f002"+
			"1801a1d5",
		hex.EncodeToString(clue[:]))

	match, err := dk.ExamineClue(clue)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestPrecisionTooLarge(t *testing.T) {
	eck, err := NewDetectionKey(decaf377.FrFromUint64(3)).ClueKey().Expand()
	require.NoError(t, err)

	_, err = eck.CreateClueDeterministic(MaxPrecision+1, [32]byte{})
	assert.ErrorIs(t, err, errcode.PrecisionTooLarge)
	assert.ErrorIs(t, eck.EnsureAtLeast(MaxPrecision+1), errcode.PrecisionTooLarge)

	var clue Clue
	clue[64] = MaxPrecision + 1
	_, err = NewDetectionKey(decaf377.FrFromUint64(3)).ExamineClue(clue)
	assert.ErrorIs(t, err, errcode.PrecisionTooLarge)
}

func TestExpandRejectsInvalidPoint(t *testing.T) {
	_, err := ClueKey{1}.Expand()
	assert.ErrorIs(t, err, errcode.InvalidAddress)

	_, err = ClueKeyFromBytes(make([]byte, 31))
	assert.ErrorIs(t, err, errcode.InvalidClueKey)
}

func TestEnsureAtLeastIsMonotonic(t *testing.T) {
	eck, err := NewDetectionKey(decaf377.FrFromUint64(77)).ClueKey().Expand()
	require.NoError(t, err)

	require.NoError(t, eck.EnsureAtLeast(5))
	first := eck.subkeys[4]
	require.NoError(t, eck.EnsureAtLeast(2))
	assert.Equal(t, 5, eck.Len())
	require.NoError(t, eck.EnsureAtLeast(9))
	assert.Equal(t, 9, eck.Len())
	assert.True(t, first.Equal(eck.subkeys[4]))
}

func TestNoFalseNegatives(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dk := NewDetectionKey(decaf377.FrFromLEBytesModOrder(
			rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "dtk")))
		precision := rapid.IntRange(0, MaxPrecision).Draw(t, "precision")
		seed := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "seed")

		eck, err := dk.ClueKey().Expand()
		if err != nil {
			t.Fatalf("expand: %v", err)
		}
		clue, err := eck.CreateClue(uint8(precision), bytes.NewReader(seed))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		match, err := dk.ExamineClue(clue)
		if err != nil {
			t.Fatalf("examine: %v", err)
		}
		if !match {
			t.Fatalf("own clue of precision %d not detected", precision)
		}
	})
}

func TestOtherKeyRejectsHighPrecisionClue(t *testing.T) {
	owner := NewDetectionKey(decaf377.FrFromUint64(1001))
	other := NewDetectionKey(decaf377.FrFromUint64(2002))

	eck, err := owner.ClueKey().Expand()
	require.NoError(t, err)

	// With 24 bits a false positive has probability 2^-24; over these
	// fixed seeds none occurs.
	for i := byte(0); i < 4; i++ {
		clue, err := eck.CreateClueDeterministic(MaxPrecision, [32]byte{i})
		require.NoError(t, err)
		match, err := other.ExamineClue(clue)
		require.NoError(t, err)
		assert.False(t, match, "seed %d", i)
	}
}

func TestDetectionKeyBytes(t *testing.T) {
	dk := NewDetectionKey(decaf377.FrFromUint64(5))
	enc := dk.Bytes()
	back, err := DetectionKeyFromBytes(enc[:])
	require.NoError(t, err)
	assert.Equal(t, dk.ClueKey(), back.ClueKey())

	_, err = DetectionKeyFromBytes(make([]byte, 3))
	assert.ErrorIs(t, err, errcode.InvalidDetectionKey)
}
