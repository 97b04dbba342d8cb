// Package ka implements Diffie-Hellman key agreement on decaf377, used to
// derive note and memo encryption keys and transmission keys.
package ka

import (
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Public is an encoded group element: a transmission key or an ephemeral
// public key.
type Public [32]byte

// SharedSecret is the encoding of secret·public.
type SharedSecret [32]byte

// Secret is a key agreement scalar.
type Secret struct {
	s decaf377.Fr
}

// NewSecret wraps a scalar.
func NewSecret(s decaf377.Fr) Secret {
	return Secret{s: s}
}

// SecretFromBytes decodes a canonical scalar.
func SecretFromBytes(b []byte) (Secret, error) {
	if len(b) != 32 {
		return Secret{}, errcode.InvalidLength
	}
	s, err := decaf377.FrFromBytesChecked(b)
	if err != nil {
		return Secret{}, errcode.InvalidLength
	}
	return Secret{s: s}, nil
}

// PublicFromBytes copies a 32-byte encoding without validating it.
func PublicFromBytes(b []byte) (Public, error) {
	var p Public
	if len(b) != len(p) {
		return p, errcode.InvalidLength
	}
	copy(p[:], b)
	return p, nil
}

// Scalar returns the underlying scalar.
func (s Secret) Scalar() decaf377.Fr {
	return s.s
}

// Bytes returns the scalar encoding.
func (s Secret) Bytes() [32]byte {
	return s.s.Bytes()
}

// Public returns secret·G.
func (s Secret) Public() Public {
	return Public(decaf377.BasepointMul(s.s).Compress())
}

// DiversifiedPublic returns secret·gd.
func (s Secret) DiversifiedPublic(gd decaf377.Element) Public {
	return Public(gd.ScalarMul(s.s).Compress())
}

// KeyAgreementWith returns secret·other.
func (s Secret) KeyAgreementWith(other Public) (SharedSecret, error) {
	p, err := decaf377.Encoding(other).Decompress()
	if err != nil {
		return SharedSecret{}, errcode.InvalidPubkeyEncoding
	}
	return SharedSecret(p.ScalarMul(s.s).Compress()), nil
}

// Element decodes p.
func (p Public) Element() (decaf377.Element, error) {
	e, err := decaf377.Encoding(p).Decompress()
	if err != nil {
		return decaf377.Element{}, errcode.InvalidPubkeyEncoding
	}
	return e, nil
}

// TransmissionKeyField reads a transmission key encoding as a base field
// element, as the note commitment consumes it.
func (p Public) TransmissionKeyField() (decaf377.Fq, error) {
	f, err := decaf377.FqFromBytesChecked(p[:])
	if err != nil {
		return f, errcode.InvalidTxKey
	}
	return f, nil
}
