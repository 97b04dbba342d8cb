package plan

import (
	"encoding/hex"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// Bytes32 is a fixed 32-byte plan field (randomizers, blindings, ids)
// written as hex in plan files.
type Bytes32 [32]byte

// Scalar reduces the little-endian bytes modulo the group order, the way
// every randomizer and blinding factor in a plan is interpreted.
func (b Bytes32) Scalar() decaf377.Fr {
	return decaf377.FrFromLEBytesModOrder(b[:])
}

func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b[:])), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.UnexpectedCharacters, "hex field")
	}
	if len(raw) != len(b) {
		return errcode.InvalidLength
	}
	copy(b[:], raw)
	return nil
}

// MarshalProto encodes the { bytes inner = 1; } wrapper used for position
// and auction ids.
func (b Bytes32) MarshalProto() []byte {
	return proto.Inner(b[:])
}

// HexBytes is a variable-length plan field written as hex.
type HexBytes []byte

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.UnexpectedCharacters, "hex field")
	}
	*b = raw
	return nil
}
