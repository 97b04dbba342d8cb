package poseidon

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
)

func fq(v uint64) Fq {
	return decaf377.FqFromUint64(v)
}

func hexOf(x Fq) string {
	b := decaf377.FqToBytes(&x)
	return hex.EncodeToString(b[:])
}

func TestGrainFirstRoundConstant(t *testing.T) {
	p := GenerateParams(3, DefaultFullRounds, DefaultPartialRounds)
	require.NoError(t, p.Validate())
	assert.Equal(t,
		"c3c71633a202dbfe10493b2fe96b9fd7268a79fea492f409726ce2be80d40703",
		hexOf(p.ARK[0][0]))
}

func TestHashVectors(t *testing.T) {
	assert.Equal(t,
		"3615eda0961207da0ebdd5fcb6cf8c9dc2deb44faca279a2b8a052c04f4b6706",
		hexOf(Hash1(fq(0), fq(0))))
	assert.Equal(t,
		"62724be4db684a6f055cdac5706d5484185c0bb289a6a40395ca593d6eb8c111",
		hexOf(Hash2(fq(5), fq(1), fq(2))))
	assert.Equal(t,
		"dfc99c5deea4aa1b48a032f7da73192fdf68e2f13962a83aeb949a5544fcab08",
		hexOf(Hash7(fq(9), fq(1), fq(2), fq(3), fq(4), fq(5), fq(6), fq(7))))
}

func TestDomainSeparation(t *testing.T) {
	a := Hash3(fq(1), fq(10), fq(20), fq(30))
	b := Hash3(fq(2), fq(10), fq(20), fq(30))
	assert.False(t, a.Equal(&b))

	again := Hash3(fq(1), fq(10), fq(20), fq(30))
	assert.True(t, a.Equal(&again))
}

func TestValidateRejectsBadShapes(t *testing.T) {
	p := GenerateParams(4, DefaultFullRounds, DefaultPartialRounds)
	require.NoError(t, p.Validate())

	short := *p
	short.ARK = p.ARK[1:]
	assert.Error(t, short.Validate())

	odd := *p
	odd.FullRounds = 7
	assert.Error(t, odd.Validate())

	wide := *p
	wide.Width = 9
	assert.Error(t, wide.Validate())
}

func TestSetParamsReplacesInstance(t *testing.T) {
	// Width 6 (hash_5) is not used elsewhere in this package's tests.
	custom := GenerateParams(6, 8, 10)
	require.NoError(t, SetParams(custom))
	assert.Same(t, custom, ParamsFor(6))

	t.Cleanup(func() {
		require.NoError(t, SetParams(GenerateParams(6, DefaultFullRounds, DefaultPartialRounds)))
	})
}
