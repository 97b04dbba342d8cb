package address

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Human-readable prefixes.
const (
	HRP          = "penumbra"
	ValidatorHRP = "penumbravalid"
)

// bech32Charset maps 5-bit groups to characters.
const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// EncodeBech32m encodes data under hrp with the bech32m checksum. The
// 90-character limit of BIP 173 does not apply.
func EncodeBech32m(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", errcode.Wrap(err, errcode.InvalidCodec, "bech32 regroup")
	}
	s, err := bech32.EncodeM(hrp, conv)
	if err != nil {
		return "", errcode.Wrap(err, errcode.InvalidCodec, "bech32m encode")
	}
	return s, nil
}

// DecodeBech32m splits s into its prefix and 8-bit payload.
//
// The checksum is verified by re-encoding the payload with bech32.EncodeM,
// which keeps long strings (such as 143-character addresses) decodable.
func DecodeBech32m(s string) (string, []byte, error) {
	lower := strings.ToLower(s)
	if lower != s && strings.ToUpper(s) != s {
		return "", nil, errcode.InvalidCodec
	}

	sep := strings.LastIndexByte(lower, '1')
	if sep < 1 || sep+7 > len(lower) {
		return "", nil, errcode.InvalidCodec
	}
	hrp, dataPart := lower[:sep], lower[sep+1:len(lower)-6]

	data5 := make([]byte, len(dataPart))
	for i := 0; i < len(dataPart); i++ {
		v := strings.IndexByte(bech32Charset, dataPart[i])
		if v < 0 {
			return "", nil, errcode.InvalidCodec
		}
		data5[i] = byte(v)
	}

	expected, err := bech32.EncodeM(hrp, data5)
	if err != nil || expected != lower {
		return "", nil, errcode.InvalidCodec
	}

	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, errcode.InvalidCodec
	}
	return hrp, data, nil
}

// Encode returns the bech32m text form of the jumbled address.
func (a Address) Encode(hrp string) (string, error) {
	b := a.Bytes()
	return EncodeBech32m(hrp, b[:])
}

// String is Encode under the default prefix.
func (a Address) String() string {
	s, err := a.Encode(HRP)
	if err != nil {
		return ""
	}
	return s
}

// Decode parses the text form, requiring the given prefix.
func Decode(s, hrp string) (Address, error) {
	gotHRP, data, err := DecodeBech32m(s)
	if err != nil {
		return Address{}, errcode.InvalidAddress
	}
	if gotHRP != hrp {
		return Address{}, errcode.InvalidAddress
	}
	if len(data) != Len {
		return Address{}, errcode.InvalidAddressLength
	}
	return FromBytes(data)
}

// MarshalText encodes the address as bech32m.
func (a Address) MarshalText() ([]byte, error) {
	s, err := a.Encode(HRP)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText accepts either the bech32m form or the hex of the jumbled
// bytes, as plan files carry both.
func (a *Address) UnmarshalText(text []byte) error {
	s := string(text)
	if raw, err := hex.DecodeString(s); err == nil && len(raw) == Len {
		parsed, err := FromBytes(raw)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	parsed, err := Decode(s, HRP)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
