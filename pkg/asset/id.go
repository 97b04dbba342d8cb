// Package asset defines asset identifiers, 128-bit amounts, values and the
// U128x128 fixed-point numbers used for exchange rates.
package asset

import (
	"encoding/hex"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/poseidon"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

const (
	// IDLen is the encoded length of an asset Id.
	IDLen = 32

	// StakingTokenDenom is the base denomination fees default to.
	StakingTokenDenom = "upenumbra"
)

// Id identifies an asset by a base field element.
type Id struct {
	inner decaf377.Fq
}

// FromDenom hashes a base denomination into its asset Id.
func FromDenom(denom string) (Id, error) {
	fq, err := crypto.ExpandFq(crypto.AssetIDPersonalization, nil, []byte(denom))
	if err != nil {
		return Id{}, err
	}
	return Id{inner: fq}, nil
}

// StakingToken returns the Id of the staking token.
func StakingToken() Id {
	id, err := FromDenom(StakingTokenDenom)
	if err != nil {
		panic(err)
	}
	return id
}

// IdFromField wraps a field element.
func IdFromField(f decaf377.Fq) Id {
	return Id{inner: f}
}

// IdFromBytes decodes 32 bytes, reducing them into the field.
func IdFromBytes(b []byte) (Id, error) {
	if len(b) != IDLen {
		return Id{}, errcode.InvalidAssetId
	}
	return Id{inner: decaf377.FqFromLEBytesModOrder(b)}, nil
}

// Field returns the Id as a field element.
func (id Id) Field() decaf377.Fq {
	return id.inner
}

// Bytes returns the canonical encoding.
func (id Id) Bytes() [IDLen]byte {
	return decaf377.FqToBytes(&id.inner)
}

// Equal reports whether two Ids are the same asset.
func (id Id) Equal(o Id) bool {
	return id.inner.Equal(&o.inner)
}

// ValueGenerator is the per-asset commitment base:
// encode_to_curve(hash_1(value.generator domain, id)).
func (id Id) ValueGenerator() decaf377.Element {
	h := poseidon.Hash1(crypto.DomainSeparator(crypto.ValueGenDomain), id.inner)
	return decaf377.EncodeToCurve(&h)
}

func (id Id) String() string {
	b := id.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalText encodes the Id as hex.
func (id Id) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex Id.
func (id *Id) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.InvalidAssetId, "asset id hex")
	}
	parsed, err := IdFromBytes(b)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalProto encodes asset.v1.AssetId.
func (id Id) MarshalProto() []byte {
	b := id.Bytes()
	return proto.Inner(b[:])
}
