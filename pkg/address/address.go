// Package address implements shielded payment addresses: the 80-byte raw
// form, its F4Jumble wire form, and the bech32m text form.
//
// Raw layout: diversifier (16) ‖ transmission key (32) ‖ clue key (32).
package address

import (
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/fmd"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
)

// Len is the length of both the raw and the jumbled address.
const Len = 80

// Address is a diversified payment address.
type Address struct {
	d   Diversifier
	gd  decaf377.Element
	pkd ka.Public
	tsk decaf377.Fq
	ck  fmd.ClueKey
}

// FromComponents builds an address. The transmission key bytes must be a
// canonical field encoding.
func FromComponents(d Diversifier, pkd ka.Public, ck fmd.ClueKey) (Address, error) {
	tsk, err := decaf377.FqFromBytesChecked(pkd[:])
	if err != nil {
		return Address{}, errcode.InvalidAddress
	}
	return Address{
		d:   d,
		gd:  d.DiversifiedGenerator(),
		pkd: pkd,
		tsk: tsk,
		ck:  ck,
	}, nil
}

// FromRawBytes parses the unjumbled 80-byte form.
func FromRawBytes(raw []byte) (Address, error) {
	if len(raw) != Len {
		return Address{}, errcode.InvalidLength
	}
	var (
		d   Diversifier
		pkd ka.Public
		ck  fmd.ClueKey
	)
	copy(d[:], raw[0:16])
	copy(pkd[:], raw[16:48])
	copy(ck[:], raw[48:80])
	return FromComponents(d, pkd, ck)
}

// FromBytes parses the jumbled 80-byte wire form.
func FromBytes(jumbled []byte) (Address, error) {
	if len(jumbled) != Len {
		return Address{}, errcode.InvalidLength
	}
	raw, err := F4JumbleInv(jumbled)
	if err != nil {
		return Address{}, errcode.InvalidAddress
	}
	return FromRawBytes(raw)
}

// Diversifier returns d.
func (a Address) Diversifier() Diversifier {
	return a.d
}

// DiversifiedGenerator returns the cached g_d.
func (a Address) DiversifiedGenerator() decaf377.Element {
	return a.gd
}

// TransmissionKey returns pk_d.
func (a Address) TransmissionKey() ka.Public {
	return a.pkd
}

// TransmissionKeyField returns pk_d read as a base field element.
func (a Address) TransmissionKeyField() decaf377.Fq {
	return a.tsk
}

// ClueKey returns ck_d.
func (a Address) ClueKey() fmd.ClueKey {
	return a.ck
}

// RawBytes returns d ‖ pk_d ‖ ck_d.
func (a Address) RawBytes() [Len]byte {
	var out [Len]byte
	copy(out[0:16], a.d[:])
	copy(out[16:48], a.pkd[:])
	copy(out[48:80], a.ck[:])
	return out
}

// Bytes returns the jumbled wire form.
func (a Address) Bytes() [Len]byte {
	raw := a.RawBytes()
	jumbled, err := F4Jumble(raw[:])
	if err != nil {
		// Len is within the permutation's bounds.
		panic(err)
	}
	var out [Len]byte
	copy(out[:], jumbled)
	return out
}

// Equal compares the raw forms.
func (a Address) Equal(o Address) bool {
	return a.RawBytes() == o.RawBytes()
}
