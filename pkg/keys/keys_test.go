package keys

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
)

// keyVector is one row of keys.json.
type keyVector struct {
	SpendKey             string
	FVK                  string
	OVK                  string
	DK                   string
	Account              uint32
	Diversifier          string
	EphemeralDiversifier string
}

// getTestDataPath returns the path to test data files
func getTestDataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "vectors")
}

// loadKeyVectors reads rows after the comment and header rows.
func loadKeyVectors(t *testing.T) []keyVector {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(getTestDataPath(), "keys.json"))
	require.NoError(t, err, "Failed to read key vectors")

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var vectors []keyVector
	for i := 2; i < len(raw); i++ {
		var row []interface{}
		require.NoError(t, json.Unmarshal(raw[i], &row), "row %d", i)
		require.Len(t, row, 7, "row %d", i)
		vectors = append(vectors, keyVector{
			SpendKey:             row[0].(string),
			FVK:                  row[1].(string),
			OVK:                  row[2].(string),
			DK:                   row[3].(string),
			Account:              uint32(row[4].(float64)),
			Diversifier:          row[5].(string),
			EphemeralDiversifier: row[6].(string),
		})
	}
	require.NotEmpty(t, vectors)
	return vectors
}

func spendKey(t *testing.T, s string) SpendKeyBytes {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	sk, err := SpendKeyFromBytes(b)
	require.NoError(t, err)
	return sk
}

func ephemeralIndex(account uint32) address.Index {
	idx := address.NewIndex(account)
	for i := range idx.Randomizer {
		idx.Randomizer[i] = byte(i + 1)
	}
	return idx
}

func TestKeyHierarchyVectors(t *testing.T) {
	for i, v := range loadKeyVectors(t) {
		fvk, err := spendKey(t, v.SpendKey).FullViewingKey()
		require.NoError(t, err)

		b := fvk.Bytes()
		assert.Equal(t, v.FVK, hex.EncodeToString(b[:]), "vector %d fvk", i)

		ovk := fvk.OutgoingViewingKey()
		assert.Equal(t, v.OVK, hex.EncodeToString(ovk[:]), "vector %d ovk", i)

		dk := fvk.IncomingViewingKey().DiversifierKey()
		assert.Equal(t, v.DK, hex.EncodeToString(dk[:]), "vector %d dk", i)

		d := dk.DiversifierForIndex(address.NewIndex(v.Account))
		assert.Equal(t, v.Diversifier, hex.EncodeToString(d[:]), "vector %d diversifier", i)

		ed := dk.DiversifierForIndex(ephemeralIndex(7))
		assert.Equal(t, v.EphemeralDiversifier, hex.EncodeToString(ed[:]), "vector %d ephemeral", i)

		t.Logf("✓ vector %d", i)
	}
}

func TestFullViewingKeyFromBytes(t *testing.T) {
	v := loadKeyVectors(t)[0]
	raw, err := hex.DecodeString(v.FVK)
	require.NoError(t, err)

	fvk, err := FullViewingKeyFromBytes(raw)
	require.NoError(t, err)

	fromSpend, err := spendKey(t, v.SpendKey).FullViewingKey()
	require.NoError(t, err)
	assert.Equal(t, fromSpend.Bytes(), fvk.Bytes())
	assert.Equal(t, fromSpend.WalletID(), fvk.WalletID())
	assert.Equal(t, fromSpend.IncomingViewingKey().Secret().Bytes(), fvk.IncomingViewingKey().Secret().Bytes())

	_, err = FullViewingKeyFromBytes(raw[:63])
	assert.ErrorIs(t, err, errcode.InvalidLength)

	bad := append([]byte{}, raw...)
	bad[0] = 1 // odd encodings are rejected
	_, err = FullViewingKeyFromBytes(bad)
	assert.ErrorIs(t, err, errcode.InvalidFvk)
}

func TestPaymentAddressIsViewed(t *testing.T) {
	vectors := loadKeyVectors(t)
	fvk, err := spendKey(t, vectors[0].SpendKey).FullViewingKey()
	require.NoError(t, err)
	other, err := spendKey(t, vectors[1].SpendKey).FullViewingKey()
	require.NoError(t, err)

	for _, idx := range []address.Index{address.NewIndex(0), address.NewIndex(1), ephemeralIndex(7)} {
		addr, dtk, err := fvk.PaymentAddress(idx)
		require.NoError(t, err)

		assert.Equal(t, dtk.ClueKey(), addr.ClueKey())
		assert.True(t, fvk.ViewsAddress(addr))
		assert.False(t, other.ViewsAddress(addr))

		got, ok := fvk.AddressIndex(addr)
		require.True(t, ok)
		assert.Equal(t, idx, got)

		view := fvk.ViewAddress(addr)
		assert.True(t, view.Visible)
		assert.Equal(t, idx, view.Index)
		assert.Equal(t, fvk.WalletID(), view.WalletID)

		assert.False(t, other.ViewAddress(addr).Visible)

		text := addr.String()
		back, err := address.Decode(text, address.HRP)
		require.NoError(t, err)
		assert.True(t, addr.Equal(back))
	}
}

func TestAddressClueDetectedByItsKey(t *testing.T) {
	fvk, err := spendKey(t, loadKeyVectors(t)[0].SpendKey).FullViewingKey()
	require.NoError(t, err)

	addr, dtk, err := fvk.PaymentAddress(address.NewIndex(2))
	require.NoError(t, err)

	eck, err := addr.ClueKey().Expand()
	require.NoError(t, err)
	clue, err := eck.CreateClueDeterministic(16, [32]byte{9})
	require.NoError(t, err)

	match, err := dtk.ExamineClue(clue)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestEphemeralAddress(t *testing.T) {
	fvk, err := spendKey(t, loadKeyVectors(t)[0].SpendKey).FullViewingKey()
	require.NoError(t, err)

	rng := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	addr, _, err := fvk.EphemeralAddress(rng, 7)
	require.NoError(t, err)

	want, _, err := fvk.PaymentAddress(ephemeralIndex(7))
	require.NoError(t, err)
	assert.True(t, want.Equal(addr))

	idx, ok := fvk.AddressIndex(addr)
	require.True(t, ok)
	assert.True(t, idx.IsEphemeral())

	_, _, err = fvk.EphemeralAddress(bytes.NewReader(nil), 7)
	assert.Error(t, err)
}

func TestDiversifierInversion(t *testing.T) {
	var dk DiversifierKey
	copy(dk[:], "0123456789abcdef")
	for _, idx := range []address.Index{address.NewIndex(0), address.NewIndex(0xffffffff), ephemeralIndex(3)} {
		assert.Equal(t, idx, dk.IndexForDiversifier(dk.DiversifierForIndex(idx)))
	}
}

// addressVector is one row of addresses.json.
type addressVector struct {
	IVK             string
	DK              string
	Account         uint32
	Diversifier     string
	TransmissionKey string
	DetectionKey    string
	ClueKey         string
	Address         string
}

func loadAddressVectors(t *testing.T) []addressVector {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(getTestDataPath(), "addresses.json"))
	require.NoError(t, err, "Failed to read address vectors")

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var vectors []addressVector
	for i := 2; i < len(raw); i++ {
		var row []interface{}
		require.NoError(t, json.Unmarshal(raw[i], &row), "row %d", i)
		require.Len(t, row, 8, "row %d", i)
		vectors = append(vectors, addressVector{
			IVK:             row[0].(string),
			DK:              row[1].(string),
			Account:         uint32(row[2].(float64)),
			Diversifier:     row[3].(string),
			TransmissionKey: row[4].(string),
			DetectionKey:    row[5].(string),
			ClueKey:         row[6].(string),
			Address:         row[7].(string),
		})
	}
	require.NotEmpty(t, vectors)
	return vectors
}

func TestAddressFromIncomingViewingKey(t *testing.T) {
	for _, v := range loadAddressVectors(t) {
		ivkBytes, err := hex.DecodeString(v.IVK)
		require.NoError(t, err)
		s, err := decaf377.FrFromBytesChecked(ivkBytes)
		require.NoError(t, err)

		ivk := IncomingViewingKey{ivk: ka.NewSecret(s)}
		dk, err := hex.DecodeString(v.DK)
		require.NoError(t, err)
		copy(ivk.dk[:], dk)

		addr, dtk, err := ivk.PaymentAddress(address.NewIndex(v.Account))
		require.NoError(t, err)

		d := addr.Diversifier()
		pkd := addr.TransmissionKey()
		dtkBytes := dtk.Bytes()
		ck := addr.ClueKey()
		wire := addr.Bytes()
		assert.Equal(t, v.Diversifier, hex.EncodeToString(d[:]))
		assert.Equal(t, v.TransmissionKey, hex.EncodeToString(pkd[:]))
		assert.Equal(t, v.DetectionKey, hex.EncodeToString(dtkBytes[:]))
		assert.Equal(t, v.ClueKey, hex.EncodeToString(ck[:]))
		assert.Equal(t, v.Address, hex.EncodeToString(wire[:]))

		assert.True(t, ivk.ViewsAddress(addr))
	}
}
