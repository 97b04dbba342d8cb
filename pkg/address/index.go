package address

import (
	"encoding/binary"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

const (
	// DiversifierLen is the length of a diversifier and of an encoded index.
	DiversifierLen = 16

	// RandomizerLen is the length of the ephemeral part of an index.
	RandomizerLen = 12
)

// Index selects one address of an account: the account number plus an
// optional randomizer for ephemeral addresses.
type Index struct {
	Account    uint32
	Randomizer [RandomizerLen]byte
}

// NewIndex returns the non-ephemeral index of an account.
func NewIndex(account uint32) Index {
	return Index{Account: account}
}

// IndexFromBytes decodes account (u32 LE) ‖ randomizer.
func IndexFromBytes(b []byte) (Index, error) {
	var idx Index
	if len(b) != DiversifierLen {
		return idx, errcode.InvalidLength
	}
	idx.Account = binary.LittleEndian.Uint32(b[0:4])
	copy(idx.Randomizer[:], b[4:])
	return idx, nil
}

// Bytes encodes the index as account (u32 LE) ‖ randomizer.
func (idx Index) Bytes() [DiversifierLen]byte {
	var out [DiversifierLen]byte
	binary.LittleEndian.PutUint32(out[0:4], idx.Account)
	copy(out[4:], idx.Randomizer[:])
	return out
}

// IsEphemeral reports whether the randomizer is non-zero.
func (idx Index) IsEphemeral() bool {
	return idx.Randomizer != [RandomizerLen]byte{}
}

// Diversifier selects a diversified generator.
type Diversifier [DiversifierLen]byte

// DiversifierFromBytes copies a 16-byte diversifier.
func DiversifierFromBytes(b []byte) (Diversifier, error) {
	var d Diversifier
	if len(b) != DiversifierLen {
		return d, errcode.InvalidLength
	}
	copy(d[:], b)
	return d, nil
}

// DiversifiedGenerator hashes the diversifier onto the curve.
func (d Diversifier) DiversifiedGenerator() decaf377.Element {
	r, err := crypto.ExpandFq(crypto.DiversifyPersonalization, nil, d[:])
	if err != nil {
		// Unkeyed expansion cannot fail.
		panic(err)
	}
	return decaf377.EncodeToCurve(&r)
}
