// Package symmetric derives the per-payload keys and runs the ChaCha20-Poly1305
// encryption for note, memo, memo-key and swap payloads.
//
// Every payload kind uses a fixed nonce. That is only sound because each key
// encrypts exactly one payload of its kind: a payload key is derived from a
// fresh ephemeral key agreement (or a unique commitment), and the memo key is
// random per transaction. Callers must never reuse a key for two plaintexts
// of the same kind.
package symmetric

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
)

const (
	// KeyLen is the length of every symmetric key.
	KeyLen = chacha20poly1305.KeySize

	// TagLen is the Poly1305 tag appended to each ciphertext.
	TagLen = chacha20poly1305.Overhead

	// WrappedKeyLen is a 32-byte key plus its tag.
	WrappedKeyLen = KeyLen + TagLen
)

// PayloadKind selects the nonce of a payload.
type PayloadKind uint8

const (
	KindNote PayloadKind = iota
	KindMemoKey
	KindSwap
	KindMemo
)

// Nonce returns the fixed nonce of the kind: its discriminant followed by
// zero bytes.
func (k PayloadKind) Nonce() [chacha20poly1305.NonceSize]byte {
	var n [chacha20poly1305.NonceSize]byte
	n[0] = byte(k)
	return n
}

func (k PayloadKind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindMemoKey:
		return "memo key"
	case KindSwap:
		return "swap"
	case KindMemo:
		return "memo"
	}
	return "unknown"
}

func seal(key [KeyLen]byte, kind PayloadKind, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, errcode.Wrap(err, errcode.EncryptionError, "chacha20poly1305 key")
	}
	nonce := kind.Nonce()
	return aead.Seal(make([]byte, 0, len(plaintext)+TagLen), nonce[:], plaintext, nil), nil
}

func open(key [KeyLen]byte, kind PayloadKind, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, errcode.Wrap(err, errcode.EncryptionError, "chacha20poly1305 key")
	}
	nonce := kind.Nonce()
	pt, err := aead.Open(nil, nonce[:], ciphertext, nil)
	if err != nil {
		return nil, errcode.Wrap(errors.Wrapf(err, "%s payload", kind), errcode.EncryptionError, "decryption failed")
	}
	return pt, nil
}

// PayloadKey encrypts one payload.
type PayloadKey [KeyLen]byte

// DerivePayloadKey hashes a key agreement result and the ephemeral public key.
func DerivePayloadKey(shared ka.SharedSecret, epk ka.Public) PayloadKey {
	return PayloadKey(crypto.Hash256(crypto.PayloadKeyPersonalization, shared[:], epk[:]))
}

// DeriveSwapKey derives the key a sender uses to encrypt a swap to itself.
func DeriveSwapKey(ovk keys.OutgoingViewingKey, cm decaf377.Fq) PayloadKey {
	cmBytes := decaf377.FqToBytes(&cm)
	return PayloadKey(crypto.Hash256(crypto.SwapKeyPersonalization, ovk[:], cmBytes[:]))
}

// PayloadKeyFromBytes copies a 32-byte key.
func PayloadKeyFromBytes(b []byte) (PayloadKey, error) {
	var k PayloadKey
	if len(b) != KeyLen {
		return k, errcode.InvalidKeyLen
	}
	copy(k[:], b)
	return k, nil
}

// Encrypt seals plaintext under the kind's nonce.
func (k PayloadKey) Encrypt(plaintext []byte, kind PayloadKind) ([]byte, error) {
	return seal(k, kind, plaintext)
}

// Decrypt opens a ciphertext sealed with Encrypt.
func (k PayloadKey) Decrypt(ciphertext []byte, kind PayloadKind) ([]byte, error) {
	return open(k, kind, ciphertext)
}

// OutgoingCipherKey wraps a note's shared secret to the sender's ovk.
type OutgoingCipherKey [KeyLen]byte

// DeriveOutgoingCipherKey binds the wrapping key to the action it belongs to.
func DeriveOutgoingCipherKey(ovk keys.OutgoingViewingKey, cv balance.Commitment, cm decaf377.Fq, epk ka.Public) OutgoingCipherKey {
	cvBytes := cv.Bytes()
	cmBytes := decaf377.FqToBytes(&cm)
	return OutgoingCipherKey(crypto.Hash256(crypto.OutCipherKeyPersonalization, ovk[:], cvBytes[:], cmBytes[:], epk[:]))
}

// Wrap encrypts the shared secret of a note.
func (k OutgoingCipherKey) Wrap(shared ka.SharedSecret) (OvkWrappedKey, error) {
	ct, err := seal(k, KindNote, shared[:])
	if err != nil {
		return OvkWrappedKey{}, err
	}
	return OvkWrappedKey(ct), nil
}

// OvkWrappedKey is a note's shared secret encrypted to the sender.
type OvkWrappedKey [WrappedKeyLen]byte

// Decrypt recovers the wrapped shared secret.
func (w OvkWrappedKey) Decrypt(ock OutgoingCipherKey) (ka.SharedSecret, error) {
	pt, err := open(ock, KindNote, w[:])
	if err != nil {
		return ka.SharedSecret{}, err
	}
	return ka.SharedSecret(pt), nil
}

// WrappedMemoKey is a transaction memo key encrypted to one output's
// recipient.
type WrappedMemoKey [WrappedKeyLen]byte

// WrapMemoKey encrypts memoKey under a key agreed between the output's
// ephemeral secret and the recipient's transmission key.
func WrapMemoKey(memoKey PayloadKey, esk ka.Secret, transmissionKey ka.Public, gd decaf377.Element) (WrappedMemoKey, error) {
	epk := esk.DiversifiedPublic(gd)
	shared, err := esk.KeyAgreementWith(transmissionKey)
	if err != nil {
		return WrappedMemoKey{}, err
	}
	ct, err := DerivePayloadKey(shared, epk).Encrypt(memoKey[:], KindMemoKey)
	if err != nil {
		return WrappedMemoKey{}, err
	}
	return WrappedMemoKey(ct), nil
}

// Decrypt recovers the memo key as the recipient.
func (w WrappedMemoKey) Decrypt(epk ka.Public, ivk keys.IncomingViewingKey) (PayloadKey, error) {
	shared, err := ivk.KeyAgreementWith(epk)
	if err != nil {
		return PayloadKey{}, err
	}
	return w.DecryptWithSecret(shared, epk)
}

// DecryptWithSecret recovers the memo key from a known shared secret, as
// the sender does after unwrapping its ovk-wrapped key.
func (w WrappedMemoKey) DecryptWithSecret(shared ka.SharedSecret, epk ka.Public) (PayloadKey, error) {
	pt, err := DerivePayloadKey(shared, epk).Decrypt(w[:], KindMemoKey)
	if err != nil {
		return PayloadKey{}, err
	}
	return PayloadKey(pt), nil
}
