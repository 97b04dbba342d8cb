package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

const (
	testJumbled = "e0783360338067fc2ba548f460b3f06f33d3e756ebefa8a8c08c5e12a1e667df" +
		"228df0720fb9bd963894183bc447e1c7ef591fa9625d4a66b7703eec2ec1ef54" +
		"3454673bb61a4f2a3d861114d6891d69"
	testRaw = "cb4813f92fc4af565e7e47f6518f071528ca09d64913074dc326dbdbbf99cc25" +
		"9765c7d85c6aa54c24b533da7c213e0108fa66c1abda596ff70094c8289f6023" +
		"4f606ca664806806c14604a52820d603"
	testText = "penumbra1upurxcpnspnlc2a9fr6xpvlsduea8e6ka0h632xq330p9g0xvl0j9r0swg8mn0vk8z2ps" +
		"w7yglsu0m6er75kyh22v6mhq0hv9mq774p523nnhds6fu4rmps3zntgj8tf8grdnq"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestF4JumbleVectors(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{80, "c63839ccecab4a497ad98c6fe459b7ce5f923ff2f61b415dc279d9fbffb9c7dd" +
			"65a5944413981893d1e0e46abdb1bcb5302879191f4b0e97ba58fe2f757a28be" +
			"22a1fba8b5362fdaea424e5e6b705c04"},
		{48, "ad89bfac63c78b1cc325661c40cc56b291cf50be748dba7bc0b74851fc87ac79" +
			"7da311647be438dcd8df735a3361a8d1"},
		{200, "b23b9554c2ac6e0222c9546061472c0d67a83a782d4cbe7c7564cd5068adf740" +
			"56036dabf15136f739a0703313c9888c34b51550424912a93fac0b0c87dbba19" +
			"cbe304296511b8b26e4db1033c24e207e78de0834e17f41bd303cbfe6c70a306" +
			"ed5a8e5fa88450779776cd0a5c651abfffcb49cf25db47a80ac1c6b80ecf963f" +
			"2a33038fd0add7240185a86c6ddb422493fe3e3d1a3f7a5e0e10886d638ff606" +
			"a477aaaa01ea0ab6fa1baac3787d525a596f820c4f46b99e71ae3d7d117e5849" +
			"aedd9ffcc16bbc55"},
	}
	for _, tc := range cases {
		got, err := F4Jumble(seq(tc.n))
		require.NoError(t, err)
		assert.Equal(t, tc.want, hex.EncodeToString(got), "length %d", tc.n)
	}
}

func TestF4JumbleLengthBounds(t *testing.T) {
	_, err := F4Jumble(make([]byte, 47))
	assert.ErrorIs(t, err, errcode.InvalidLength)
	_, err = F4JumbleInv(make([]byte, 47))
	assert.ErrorIs(t, err, errcode.InvalidLength)
}

func TestF4JumbleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.SliceOfN(rapid.Byte(), f4MinLen, 300).Draw(t, "m")
		j, err := F4Jumble(m)
		if err != nil {
			t.Fatalf("jumble: %v", err)
		}
		back, err := F4JumbleInv(j)
		if err != nil {
			t.Fatalf("unjumble: %v", err)
		}
		if hex.EncodeToString(back) != hex.EncodeToString(m) {
			t.Fatalf("round trip changed the message")
		}
	})
}

func TestAddressFromBytes(t *testing.T) {
	addr, err := FromBytes(mustHex(t, testJumbled))
	require.NoError(t, err)

	raw := addr.RawBytes()
	assert.Equal(t, testRaw, hex.EncodeToString(raw[:]))
	jumbled := addr.Bytes()
	assert.Equal(t, testJumbled, hex.EncodeToString(jumbled[:]))

	d := addr.Diversifier()
	assert.Equal(t, testRaw[:32], hex.EncodeToString(d[:]))
	assert.True(t, addr.DiversifiedGenerator().Equal(d.DiversifiedGenerator()))
}

func TestAddressText(t *testing.T) {
	addr, err := FromBytes(mustHex(t, testJumbled))
	require.NoError(t, err)
	assert.Equal(t, testText, addr.String())

	back, err := Decode(testText, HRP)
	require.NoError(t, err)
	assert.True(t, addr.Equal(back))

	_, err = Decode(testText, ValidatorHRP)
	assert.ErrorIs(t, err, errcode.InvalidAddress)

	corrupted := []byte(testText)
	corrupted[20] = 'q'
	if corrupted[20] == testText[20] {
		corrupted[20] = 'p'
	}
	_, err = Decode(string(corrupted), HRP)
	assert.ErrorIs(t, err, errcode.InvalidAddress)
}

func TestBech32mGeneric(t *testing.T) {
	s, err := EncodeBech32m(ValidatorHRP, seq(32))
	require.NoError(t, err)
	assert.Equal(t, "penumbravalid1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qarc0s6mjyuz", s)

	hrp, data, err := DecodeBech32m(s)
	require.NoError(t, err)
	assert.Equal(t, ValidatorHRP, hrp)
	assert.Equal(t, seq(32), data)

	_, _, err = DecodeBech32m("penumbra1")
	assert.ErrorIs(t, err, errcode.InvalidCodec)
}

func TestNonCanonicalTransmissionKeyRejected(t *testing.T) {
	raw := mustHex(t, testRaw)
	for i := 16; i < 48; i++ {
		raw[i] = 0xff
	}
	_, err := FromRawBytes(raw)
	assert.ErrorIs(t, err, errcode.InvalidAddress)

	jumbled, err := F4Jumble(raw)
	require.NoError(t, err)
	_, err = FromBytes(jumbled)
	assert.ErrorIs(t, err, errcode.InvalidAddress)

	_, err = FromBytes(jumbled[:79])
	assert.ErrorIs(t, err, errcode.InvalidLength)
}

func TestIndexRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var idx Index
		idx.Account = rapid.Uint32().Draw(t, "account")
		copy(idx.Randomizer[:], rapid.SliceOfN(rapid.Byte(), RandomizerLen, RandomizerLen).Draw(t, "randomizer"))

		b := idx.Bytes()
		back, err := IndexFromBytes(b[:])
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if back != idx {
			t.Fatalf("index did not round-trip")
		}
	})

	assert.False(t, NewIndex(3).IsEphemeral())
	assert.True(t, Index{Account: 3, Randomizer: [RandomizerLen]byte{1}}.IsEphemeral())
	b := NewIndex(1).Bytes()
	assert.Equal(t, "01000000000000000000000000000000", hex.EncodeToString(b[:]))
}
