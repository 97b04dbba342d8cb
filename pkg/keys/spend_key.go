// Package keys derives the account key hierarchy from a 32-byte spend key:
// the spend authorization key, the nullifier key, and the viewing keys built
// on them.
//
//	spend key ─┬─ ask ── ak ─┐
//	           └─ nk ────────┴─ FullViewingKey ─┬─ ovk
//	                                            ├─ dk
//	                                            └─ ivk ── addresses
package keys

import (
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// KeyLen is the length of a spend key and of each FVK component.
const KeyLen = 32

// SpendKeyBytes is the root secret of an account.
type SpendKeyBytes [KeyLen]byte

// SpendKeyFromBytes copies a 32-byte spend key.
func SpendKeyFromBytes(b []byte) (SpendKeyBytes, error) {
	var sk SpendKeyBytes
	if len(b) != KeyLen {
		return sk, errcode.InvalidLength
	}
	copy(sk[:], b)
	return sk, nil
}

// SigningKey derives ask = Fr(expand(sk, [0])).
func (sk SpendKeyBytes) SigningKey() (crypto.SigningKey, error) {
	ask, err := crypto.ExpandFr(crypto.ExpandSeedPersonalization, sk[:], []byte{0})
	if err != nil {
		return crypto.SigningKey{}, err
	}
	return crypto.NewSigningKey(ask), nil
}

// NullifierKey derives nk = Fq(expand(sk, [1])).
func (sk SpendKeyBytes) NullifierKey() (NullifierKey, error) {
	nk, err := crypto.ExpandFq(crypto.ExpandSeedPersonalization, sk[:], []byte{1})
	if err != nil {
		return NullifierKey{}, err
	}
	return NullifierKey{nk: nk}, nil
}

// FullViewingKey derives the full viewing key.
func (sk SpendKeyBytes) FullViewingKey() (*FullViewingKey, error) {
	ask, err := sk.SigningKey()
	if err != nil {
		return nil, err
	}
	nk, err := sk.NullifierKey()
	if err != nil {
		return nil, err
	}
	return FromComponents(ask.VerificationKey(), nk)
}

// NullifierKey is the secret that binds nullifiers to their notes.
type NullifierKey struct {
	nk decaf377.Fq
}

// NullifierKeyFromBytes decodes a canonical field element.
func NullifierKeyFromBytes(b []byte) (NullifierKey, error) {
	nk, err := decaf377.FqFromBytesChecked(b)
	if err != nil {
		return NullifierKey{}, err
	}
	return NullifierKey{nk: nk}, nil
}

// Field returns nk as a base field element.
func (k NullifierKey) Field() decaf377.Fq {
	return k.nk
}

// Bytes returns the canonical encoding.
func (k NullifierKey) Bytes() [KeyLen]byte {
	return decaf377.FqToBytes(&k.nk)
}
