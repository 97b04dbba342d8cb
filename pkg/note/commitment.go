package note

import (
	"encoding/hex"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/poseidon"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// StateCommitment is a commitment inserted into the state commitment tree:
// a note or swap commitment.
type StateCommitment struct {
	inner decaf377.Fq
}

// NewStateCommitment wraps a field element.
func NewStateCommitment(f decaf377.Fq) StateCommitment {
	return StateCommitment{inner: f}
}

// StateCommitmentFromBytes decodes a canonical field element.
func StateCommitmentFromBytes(b []byte) (StateCommitment, error) {
	f, err := decaf377.FqFromBytesChecked(b)
	if err != nil {
		return StateCommitment{}, err
	}
	return StateCommitment{inner: f}, nil
}

// Field returns the commitment as a field element.
func (c StateCommitment) Field() decaf377.Fq {
	return c.inner
}

// Bytes returns the canonical encoding.
func (c StateCommitment) Bytes() [32]byte {
	return decaf377.FqToBytes(&c.inner)
}

// Equal compares two commitments.
func (c StateCommitment) Equal(o StateCommitment) bool {
	return c.inner.Equal(&o.inner)
}

func (c StateCommitment) String() string {
	b := c.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalProto encodes tct.v1.StateCommitment.
func (c StateCommitment) MarshalProto() []byte {
	b := c.Bytes()
	return proto.Inner(b[:])
}

// Position is a leaf position in the state commitment tree.
type Position uint64

// Nullifier marks a note as spent without revealing which note it was.
type Nullifier struct {
	inner decaf377.Fq
}

// DeriveNullifier computes hash_3(nullifier domain, nk, cm, pos).
func DeriveNullifier(nk keys.NullifierKey, pos Position, cm StateCommitment) Nullifier {
	h := poseidon.Hash3(
		crypto.DomainSeparator(crypto.NullifierDomain),
		nk.Field(),
		cm.inner,
		decaf377.FqFromUint64(uint64(pos)),
	)
	return Nullifier{inner: h}
}

// NullifierFromBytes decodes a canonical field element.
func NullifierFromBytes(b []byte) (Nullifier, error) {
	if len(b) != 32 {
		return Nullifier{}, errcode.InvalidLength
	}
	f, err := decaf377.FqFromBytesChecked(b)
	if err != nil {
		return Nullifier{}, err
	}
	return Nullifier{inner: f}, nil
}

// Bytes returns the canonical encoding.
func (n Nullifier) Bytes() [32]byte {
	return decaf377.FqToBytes(&n.inner)
}

func (n Nullifier) String() string {
	b := n.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalProto encodes sct.v1.Nullifier.
func (n Nullifier) MarshalProto() []byte {
	b := n.Bytes()
	return proto.Inner(b[:])
}
