package asset

import (
	"fmt"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// ValueLen is the encoded length of a Value: amount ‖ asset id.
const ValueLen = AmountLen + IDLen

// Value is an amount of one asset.
type Value struct {
	Amount  Amount `json:"amount"`
	AssetID Id     `json:"asset_id"`
}

// ValueFromBytes decodes amount ‖ asset id.
func ValueFromBytes(b []byte) (Value, error) {
	if len(b) != ValueLen {
		return Value{}, errcode.InvalidLength
	}
	amount, err := AmountFromBytes(b[:AmountLen])
	if err != nil {
		return Value{}, err
	}
	id, err := IdFromBytes(b[AmountLen:])
	if err != nil {
		return Value{}, err
	}
	return Value{Amount: amount, AssetID: id}, nil
}

// Bytes returns amount ‖ asset id.
func (v Value) Bytes() [ValueLen]byte {
	var out [ValueLen]byte
	a := v.Amount.Bytes()
	id := v.AssetID.Bytes()
	copy(out[:AmountLen], a[:])
	copy(out[AmountLen:], id[:])
	return out
}

// Equal compares amount and asset.
func (v Value) Equal(o Value) bool {
	return v.Amount == o.Amount && v.AssetID.Equal(o.AssetID)
}

func (v Value) String() string {
	return fmt.Sprintf("%s %s", v.Amount, v.AssetID)
}

// MarshalProto encodes asset.v1.Value. The amount field is always present.
func (v Value) MarshalProto() []byte {
	return proto.NewEncoder(64).
		Message(proto.ValueAmount, v.Amount).
		Message(proto.ValueAssetID, v.AssetID).
		Bytes()
}
