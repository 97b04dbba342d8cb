package keys

import (
	"io"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/fmd"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
	"github.com/suffix-labs/penumbra-signer/pkg/poseidon"
)

// FVKLen is the encoded length of a full viewing key: ak ‖ nk.
const FVKLen = 2 * KeyLen

// WalletID identifies the account a full viewing key belongs to.
type WalletID [32]byte

// FullViewingKey is the root viewing capability of a spend authority.
type FullViewingKey struct {
	ak  crypto.VerificationKey
	nk  NullifierKey
	ovk OutgoingViewingKey
	ivk IncomingViewingKey
}

// FromComponents derives ovk, dk and ivk from (ak, nk).
func FromComponents(ak crypto.VerificationKey, nk NullifierKey) (*FullViewingKey, error) {
	akBytes := ak.Bytes()
	nkBytes := nk.Bytes()

	ovkHash, err := crypto.Expand(crypto.OVKPersonalization, nkBytes[:], akBytes[:])
	if err != nil {
		return nil, err
	}
	dkHash, err := crypto.Expand(crypto.DKPersonalization, nkBytes[:], akBytes[:])
	if err != nil {
		return nil, err
	}

	akField, err := decaf377.FqFromBytesChecked(akBytes[:])
	if err != nil {
		return nil, errcode.InvalidFq
	}
	ivkField := poseidon.Hash2(crypto.RawDomainSeparator(crypto.IVKDomain), nk.Field(), akField)
	ivkBytes := decaf377.FqToBytes(&ivkField)

	fvk := &FullViewingKey{ak: ak, nk: nk}
	copy(fvk.ovk[:], ovkHash[:OVKLen])
	copy(fvk.ivk.dk[:], dkHash[:DKLen])
	fvk.ivk.ivk = ka.NewSecret(decaf377.FrFromLEBytesModOrder(ivkBytes[:]))
	return fvk, nil
}

// FullViewingKeyFromBytes decodes ak ‖ nk.
func FullViewingKeyFromBytes(b []byte) (*FullViewingKey, error) {
	if len(b) != FVKLen {
		return nil, errcode.InvalidLength
	}
	ak, err := crypto.VerificationKeyFromBytes(b[:KeyLen])
	if err != nil {
		return nil, errcode.InvalidFvk
	}
	nk, err := NullifierKeyFromBytes(b[KeyLen:])
	if err != nil {
		return nil, errcode.InvalidFvk
	}
	return FromComponents(ak, nk)
}

// Bytes returns ak ‖ nk.
func (f *FullViewingKey) Bytes() [FVKLen]byte {
	var out [FVKLen]byte
	ak := f.ak.Bytes()
	nk := f.nk.Bytes()
	copy(out[:KeyLen], ak[:])
	copy(out[KeyLen:], nk[:])
	return out
}

// SpendVerificationKey returns ak.
func (f *FullViewingKey) SpendVerificationKey() crypto.VerificationKey {
	return f.ak
}

// NullifierKey returns nk.
func (f *FullViewingKey) NullifierKey() NullifierKey {
	return f.nk
}

// OutgoingViewingKey returns ovk.
func (f *FullViewingKey) OutgoingViewingKey() OutgoingViewingKey {
	return f.ovk
}

// IncomingViewingKey returns ivk.
func (f *FullViewingKey) IncomingViewingKey() IncomingViewingKey {
	return f.ivk
}

// WalletID hashes nk and ak into the account identifier.
func (f *FullViewingKey) WalletID() WalletID {
	ak := f.ak.Bytes()
	h := poseidon.Hash2(
		crypto.RawDomainSeparator(crypto.WalletIDDomain),
		f.nk.Field(),
		decaf377.FqFromLEBytesModOrder(ak[:]),
	)
	return WalletID(decaf377.FqToBytes(&h))
}

// PaymentAddress derives the address at idx.
func (f *FullViewingKey) PaymentAddress(idx address.Index) (address.Address, fmd.DetectionKey, error) {
	return f.ivk.PaymentAddress(idx)
}

// EphemeralAddress derives an address of account with a fresh random
// randomizer.
func (f *FullViewingKey) EphemeralAddress(rng io.Reader, account uint32) (address.Address, fmd.DetectionKey, error) {
	idx := address.NewIndex(account)
	if _, err := io.ReadFull(rng, idx.Randomizer[:]); err != nil {
		return address.Address{}, fmd.DetectionKey{}, errcode.Wrap(err, errcode.UnexpectedError, "address randomizer")
	}
	return f.ivk.PaymentAddress(idx)
}

// ViewsAddress reports whether addr belongs to this key.
func (f *FullViewingKey) ViewsAddress(addr address.Address) bool {
	return f.ivk.ViewsAddress(addr)
}

// AddressIndex returns the index of addr if this key views it.
func (f *FullViewingKey) AddressIndex(addr address.Address) (address.Index, bool) {
	return f.ivk.AddressIndex(addr)
}

// AddressView is an address annotated with what this key knows about it.
// Index and WalletID are set only when Visible is true.
type AddressView struct {
	Address  address.Address
	Visible  bool
	Index    address.Index
	WalletID WalletID
}

// ViewAddress annotates addr.
func (f *FullViewingKey) ViewAddress(addr address.Address) AddressView {
	idx, ok := f.ivk.AddressIndex(addr)
	if !ok {
		return AddressView{Address: addr}
	}
	return AddressView{
		Address:  addr,
		Visible:  true,
		Index:    idx,
		WalletID: f.WalletID(),
	}
}
