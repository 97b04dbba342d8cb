// Package stake covers the staking values an undelegation claim commits to:
// validator identity keys, unbonding tokens and slashing penalties.
package stake

import (
	"encoding/hex"
	"strconv"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// IdentityKeyLen is the length of a validator's identity verification key.
const IdentityKeyLen = 32

// IdentityKey identifies a validator.
type IdentityKey [IdentityKeyLen]byte

// IdentityKeyFromBytes copies a 32-byte key.
func IdentityKeyFromBytes(b []byte) (IdentityKey, error) {
	var ik IdentityKey
	if len(b) != IdentityKeyLen {
		return ik, errcode.InvalidLength
	}
	copy(ik[:], b)
	return ik, nil
}

// String returns the bech32m form under the validator prefix.
func (ik IdentityKey) String() string {
	s, err := address.EncodeBech32m(address.ValidatorHRP, ik[:])
	if err != nil {
		return hex.EncodeToString(ik[:])
	}
	return s
}

// MarshalText encodes the key as bech32m.
func (ik IdentityKey) MarshalText() ([]byte, error) {
	s, err := address.EncodeBech32m(address.ValidatorHRP, ik[:])
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText accepts the bech32m form or hex.
func (ik *IdentityKey) UnmarshalText(text []byte) error {
	if b, err := hex.DecodeString(string(text)); err == nil {
		parsed, err := IdentityKeyFromBytes(b)
		if err != nil {
			return err
		}
		*ik = parsed
		return nil
	}
	hrp, b, err := address.DecodeBech32m(string(text))
	if err != nil {
		return err
	}
	if hrp != address.ValidatorHRP {
		return errcode.InvalidAddress
	}
	parsed, err := IdentityKeyFromBytes(b)
	if err != nil {
		return err
	}
	*ik = parsed
	return nil
}

// MarshalProto encodes keys.v1.IdentityKey.
func (ik IdentityKey) MarshalProto() []byte {
	return proto.Inner(ik[:])
}

// UnbondingToken returns the asset id of delegation tokens unbonding from
// the validator since startHeight.
func UnbondingToken(ik IdentityKey, startHeight uint64) (asset.Id, error) {
	return asset.FromDenom("uunbonding_start_at_" + strconv.FormatUint(startHeight, 10) + "_" + ik.String())
}

// Penalty is the fraction of an unbonding amount kept after slashing, as a
// 128.128 fixed-point number.
type Penalty struct {
	inner asset.U128x128
}

// PenaltyFromBytes decodes the 32-byte big-endian fixed-point value.
func PenaltyFromBytes(b []byte) (Penalty, error) {
	x, err := asset.U128x128FromBytes(b)
	if err != nil {
		return Penalty{}, errcode.InvalidLength
	}
	return Penalty{inner: x}, nil
}

// Bytes returns the big-endian encoding.
func (p Penalty) Bytes() [asset.U128x128Len]byte {
	return p.inner.Bytes()
}

// ApplyToAmount scales amount by the penalty, rounding down.
func (p Penalty) ApplyToAmount(amount asset.Amount) (asset.Amount, error) {
	return p.inner.ApplyToAmount(amount)
}

// BalanceForClaim is what claiming unbonded tokens moves: the unbonding
// tokens are consumed and the penalized amount of staking token is released.
func (p Penalty) BalanceForClaim(unbondingID asset.Id, amount asset.Amount) (*balance.Balance, error) {
	released, err := p.ApplyToAmount(amount)
	if err != nil {
		return nil, err
	}
	b := balance.New()
	if err := b.Insert(balance.Imbalance{
		Value: asset.Value{Amount: amount, AssetID: unbondingID},
		Sign:  balance.Required,
	}); err != nil {
		return nil, err
	}
	if err := b.Insert(balance.Imbalance{
		Value: asset.Value{Amount: released, AssetID: asset.StakingToken()},
		Sign:  balance.Provided,
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalProto encodes stake.v1.Penalty.
func (p Penalty) MarshalProto() []byte {
	b := p.Bytes()
	return proto.Inner(b[:])
}

// MarshalText encodes the penalty as hex.
func (p Penalty) MarshalText() ([]byte, error) {
	b := p.Bytes()
	return []byte(hex.EncodeToString(b[:])), nil
}

// UnmarshalText decodes a hex penalty.
func (p *Penalty) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.UnexpectedCharacters, "penalty hex")
	}
	parsed, err := PenaltyFromBytes(b)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
