package memo

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

const (
	returnAddressHex = "8d5b14d34c66c974180c1c3537b4c6167759244fc34a3fcd582f6e937a48aa27939fdb08733c64a49a59461977b6a45e5201fd087fef594b117f3e6628e1889ecc382d5d5dfc8a383fa51ff84119bc85"
	memoKeyHex       = "d6b269dbe8d6e04bdbba2025285d956864c723c3932ba608db6fd433a194731b"
)

func fixture(t *testing.T) (address.Address, symmetric.PayloadKey) {
	t.Helper()
	raw, err := hex.DecodeString(returnAddressHex)
	require.NoError(t, err)
	addr, err := address.FromBytes(raw)
	require.NoError(t, err)

	kb, err := hex.DecodeString(memoKeyHex)
	require.NoError(t, err)
	key, err := symmetric.PayloadKeyFromBytes(kb)
	require.NoError(t, err)
	return addr, key
}

func TestPlaintextLayout(t *testing.T) {
	addr, _ := fixture(t)
	p, err := NewPlaintext(addr, "hello")
	require.NoError(t, err)

	b, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, returnAddressHex, hex.EncodeToString(b[:address.Len]))
	assert.Equal(t, "hello", string(b[address.Len:address.Len+5]))
	for _, c := range b[address.Len+5:] {
		require.Zero(t, c)
	}
}

func TestPlaintextLimits(t *testing.T) {
	addr, _ := fixture(t)

	_, err := NewPlaintext(addr, strings.Repeat("a", MaxTextLen))
	assert.NoError(t, err)

	_, err = NewPlaintext(addr, strings.Repeat("a", MaxTextLen+1))
	assert.ErrorIs(t, err, errcode.InvalidLength)

	_, err = NewPlaintext(addr, "\xff\xfe")
	assert.ErrorIs(t, err, errcode.InvalidUtf8)
}

func TestEncryptDecrypt(t *testing.T) {
	addr, key := fixture(t)
	p, err := NewPlaintext(addr, "z 88B Osm3Jo0")
	require.NoError(t, err)

	ct, err := Plan{Plaintext: p, Key: key}.Ciphertext()
	require.NoError(t, err)
	assert.Len(t, ct, CiphertextLen)

	back, err := ct.Decrypt(key)
	require.NoError(t, err)
	assert.True(t, back.ReturnAddress.Equal(addr))
	assert.Equal(t, p.Text, back.Text)

	ct[10] ^= 1
	_, err = ct.Decrypt(key)
	assert.Equal(t, errcode.EncryptionError, errcode.FromError(err))
}

func TestCiphertextProto(t *testing.T) {
	addr, key := fixture(t)
	ct, err := Encrypt(key, Plaintext{ReturnAddress: addr})
	require.NoError(t, err)

	enc := ct.MarshalProto()
	// 528 = 0x90 0x04 as a varint.
	assert.Equal(t, []byte{0x0a, 0x90, 0x04}, enc[:3])
	assert.Equal(t, ct[:], enc[3:])
}
