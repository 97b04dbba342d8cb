// Package memo builds the encrypted transaction memo: a return address and
// free text, padded to a fixed size and sealed under a per-transaction key.
package memo

import (
	"unicode/utf8"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

const (
	// PlaintextLen is the padded plaintext size.
	PlaintextLen = 512

	// CiphertextLen is the plaintext plus its tag.
	CiphertextLen = PlaintextLen + symmetric.TagLen

	// MaxTextLen is what remains after the return address.
	MaxTextLen = PlaintextLen - address.Len
)

// Plaintext is a memo before encryption.
type Plaintext struct {
	ReturnAddress address.Address `json:"return_address"`
	Text          string          `json:"text"`
}

// NewPlaintext validates the text length and encoding.
func NewPlaintext(ret address.Address, text string) (Plaintext, error) {
	p := Plaintext{ReturnAddress: ret, Text: text}
	if err := p.Validate(); err != nil {
		return Plaintext{}, err
	}
	return p, nil
}

// Validate checks the text fits and is UTF-8.
func (p Plaintext) Validate() error {
	if len(p.Text) > MaxTextLen {
		return errcode.InvalidLength
	}
	if !utf8.ValidString(p.Text) {
		return errcode.InvalidUtf8
	}
	return nil
}

// Bytes returns return address ‖ text, zero padded.
func (p Plaintext) Bytes() ([PlaintextLen]byte, error) {
	var out [PlaintextLen]byte
	if err := p.Validate(); err != nil {
		return out, err
	}
	addr := p.ReturnAddress.Bytes()
	copy(out[:address.Len], addr[:])
	copy(out[address.Len:], p.Text)
	return out, nil
}

// PlaintextFromBytes parses a padded plaintext; trailing zeros are not text.
func PlaintextFromBytes(b []byte) (Plaintext, error) {
	if len(b) != PlaintextLen {
		return Plaintext{}, errcode.InvalidLength
	}
	ret, err := address.FromBytes(b[:address.Len])
	if err != nil {
		return Plaintext{}, err
	}
	text := b[address.Len:]
	end := len(text)
	for end > 0 && text[end-1] == 0 {
		end--
	}
	return NewPlaintext(ret, string(text[:end]))
}

// Ciphertext is an encrypted memo.
type Ciphertext [CiphertextLen]byte

// Encrypt seals the plaintext under the memo key.
func Encrypt(key symmetric.PayloadKey, p Plaintext) (Ciphertext, error) {
	pt, err := p.Bytes()
	if err != nil {
		return Ciphertext{}, err
	}
	ct, err := key.Encrypt(pt[:], symmetric.KindMemo)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext(ct), nil
}

// Decrypt opens a memo with its key.
func (c Ciphertext) Decrypt(key symmetric.PayloadKey) (Plaintext, error) {
	pt, err := key.Decrypt(c[:], symmetric.KindMemo)
	if err != nil {
		return Plaintext{}, err
	}
	return PlaintextFromBytes(pt)
}

// MarshalProto encodes transaction.v1.MemoCiphertext.
func (c Ciphertext) MarshalProto() []byte {
	return proto.Inner(c[:])
}

// Plan is the memo part of a transaction plan.
type Plan struct {
	Plaintext Plaintext
	Key       symmetric.PayloadKey
}

// Ciphertext encrypts the plan.
func (p Plan) Ciphertext() (Ciphertext, error) {
	return Encrypt(p.Key, p.Plaintext)
}
