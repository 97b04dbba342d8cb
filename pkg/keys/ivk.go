package keys

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/fmd"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
)

// IncomingViewingKey derives addresses and decrypts incoming notes.
type IncomingViewingKey struct {
	ivk ka.Secret
	dk  DiversifierKey
}

// Secret returns the key agreement scalar.
func (k IncomingViewingKey) Secret() ka.Secret {
	return k.ivk
}

// DiversifierKey returns dk.
func (k IncomingViewingKey) DiversifierKey() DiversifierKey {
	return k.dk
}

// DiversifiedPublic returns ivk·gd.
func (k IncomingViewingKey) DiversifiedPublic(gd decaf377.Element) ka.Public {
	return k.ivk.DiversifiedPublic(gd)
}

// KeyAgreementWith returns ivk·epk.
func (k IncomingViewingKey) KeyAgreementWith(epk ka.Public) (ka.SharedSecret, error) {
	return k.ivk.KeyAgreementWith(epk)
}

// DetectionKeyFor derives the per-diversifier detection key
// dtk_d = Fr(expand(ivk, d)).
func (k IncomingViewingKey) DetectionKeyFor(d address.Diversifier) (fmd.DetectionKey, error) {
	ivkBytes := k.ivk.Bytes()
	dtk, err := crypto.ExpandFr(crypto.FMDExpandPersonalization, ivkBytes[:], d[:])
	if err != nil {
		return fmd.DetectionKey{}, err
	}
	return fmd.NewDetectionKey(dtk), nil
}

// PaymentAddress derives the address at idx together with its detection key.
func (k IncomingViewingKey) PaymentAddress(idx address.Index) (address.Address, fmd.DetectionKey, error) {
	d := k.dk.DiversifierForIndex(idx)
	gd := d.DiversifiedGenerator()
	pkd := k.ivk.DiversifiedPublic(gd)

	dtk, err := k.DetectionKeyFor(d)
	if err != nil {
		return address.Address{}, fmd.DetectionKey{}, err
	}
	addr, err := address.FromComponents(d, pkd, dtk.ClueKey())
	if err != nil {
		return address.Address{}, fmd.DetectionKey{}, err
	}
	return addr, dtk, nil
}

// ViewsAddress reports whether addr's transmission key is ivk·g_d.
func (k IncomingViewingKey) ViewsAddress(addr address.Address) bool {
	return k.ivk.DiversifiedPublic(addr.DiversifiedGenerator()) == addr.TransmissionKey()
}

// IndexForDiversifier inverts the diversifier under dk.
func (k IncomingViewingKey) IndexForDiversifier(d address.Diversifier) address.Index {
	return k.dk.IndexForDiversifier(d)
}

// AddressIndex returns the index of addr if this key views it.
func (k IncomingViewingKey) AddressIndex(addr address.Address) (address.Index, bool) {
	if !k.ViewsAddress(addr) {
		return address.Index{}, false
	}
	return k.IndexForDiversifier(addr.Diversifier()), true
}
