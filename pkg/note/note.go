// Package note models shielded notes: their commitments, nullifiers and the
// encrypted payloads an output publishes.
package note

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/poseidon"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

const (
	// PlaintextLen is address ‖ amount ‖ asset id ‖ rseed.
	PlaintextLen = address.Len + asset.ValueLen + RseedLen

	// CiphertextLen is the plaintext plus its tag.
	CiphertextLen = PlaintextLen + symmetric.TagLen
)

// Note is a value sent to an address, with the seed its secrets come from.
type Note struct {
	value   asset.Value
	rseed   Rseed
	address address.Address
}

// New assembles a note.
func New(addr address.Address, value asset.Value, rseed Rseed) Note {
	return Note{value: value, rseed: rseed, address: addr}
}

// FromBytes parses a decrypted note plaintext.
func FromBytes(b []byte) (Note, error) {
	if len(b) != PlaintextLen {
		return Note{}, errcode.InvalidLength
	}
	addr, err := address.FromBytes(b[:address.Len])
	if err != nil {
		return Note{}, err
	}
	value, err := asset.ValueFromBytes(b[address.Len : address.Len+asset.ValueLen])
	if err != nil {
		return Note{}, err
	}
	rseed, err := RseedFromBytes(b[address.Len+asset.ValueLen:])
	if err != nil {
		return Note{}, err
	}
	return New(addr, value, rseed), nil
}

// Value returns the note's value.
func (n Note) Value() asset.Value { return n.value }

// Rseed returns the note's seed.
func (n Note) Rseed() Rseed { return n.rseed }

// Address returns the recipient.
func (n Note) Address() address.Address { return n.address }

// TransmissionKey returns the recipient's transmission key.
func (n Note) TransmissionKey() ka.Public {
	return n.address.TransmissionKey()
}

// DiversifiedGenerator returns the recipient's g_d.
func (n Note) DiversifiedGenerator() decaf377.Element {
	return n.address.DiversifiedGenerator()
}

// Bytes returns the 160-byte plaintext.
func (n Note) Bytes() [PlaintextLen]byte {
	var out [PlaintextLen]byte
	addr := n.address.Bytes()
	value := n.value.Bytes()
	copy(out[:address.Len], addr[:])
	copy(out[address.Len:], value[:])
	copy(out[address.Len+asset.ValueLen:], n.rseed[:])
	return out
}

// EphemeralSecretKey derives esk from the seed.
func (n Note) EphemeralSecretKey() (ka.Secret, error) {
	return n.rseed.DeriveESK()
}

// EphemeralPublicKey returns esk·g_d.
func (n Note) EphemeralPublicKey() (ka.Public, error) {
	esk, err := n.EphemeralSecretKey()
	if err != nil {
		return ka.Public{}, err
	}
	return esk.DiversifiedPublic(n.DiversifiedGenerator()), nil
}

// Commit computes the note commitment
// hash_6(rcm, amount, asset, g_d, pk_d, ck).
func (n Note) Commit() (StateCommitment, error) {
	rcm, err := n.rseed.DeriveNoteBlinding()
	if err != nil {
		return StateCommitment{}, err
	}
	ck := n.address.ClueKey()
	h := poseidon.Hash6(
		crypto.DomainSeparator(crypto.NoteCommitDomain),
		rcm,
		n.value.Amount.Field(),
		n.value.AssetID.Field(),
		n.DiversifiedGenerator().CompressToField(),
		n.address.TransmissionKeyField(),
		decaf377.FqFromLEBytesModOrder(ck[:]),
	)
	return StateCommitment{inner: h}, nil
}

func (n Note) payloadKey() (ka.Secret, ka.Public, ka.SharedSecret, error) {
	esk, err := n.EphemeralSecretKey()
	if err != nil {
		return ka.Secret{}, ka.Public{}, ka.SharedSecret{}, err
	}
	epk := esk.DiversifiedPublic(n.DiversifiedGenerator())
	shared, err := esk.KeyAgreementWith(n.TransmissionKey())
	if err != nil {
		return ka.Secret{}, ka.Public{}, ka.SharedSecret{}, err
	}
	return esk, epk, shared, nil
}

// Encrypt encrypts the plaintext to the recipient.
func (n Note) Encrypt() (Ciphertext, error) {
	_, epk, shared, err := n.payloadKey()
	if err != nil {
		return Ciphertext{}, err
	}
	pt := n.Bytes()
	ct, err := symmetric.DerivePayloadKey(shared, epk).Encrypt(pt[:], symmetric.KindNote)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext(ct), nil
}

// EncryptKey wraps the note's shared secret to the sender's ovk, bound to
// the action's balance commitment cv.
func (n Note) EncryptKey(ovk keys.OutgoingViewingKey, cv balance.Commitment) (symmetric.OvkWrappedKey, error) {
	_, epk, shared, err := n.payloadKey()
	if err != nil {
		return symmetric.OvkWrappedKey{}, err
	}
	cm, err := n.Commit()
	if err != nil {
		return symmetric.OvkWrappedKey{}, err
	}
	return symmetric.DeriveOutgoingCipherKey(ovk, cv, cm.inner, epk).Wrap(shared)
}

// Payload builds the commitment, ephemeral key and ciphertext an output
// publishes.
func (n Note) Payload() (Payload, error) {
	cm, err := n.Commit()
	if err != nil {
		return Payload{}, err
	}
	epk, err := n.EphemeralPublicKey()
	if err != nil {
		return Payload{}, err
	}
	ct, err := n.Encrypt()
	if err != nil {
		return Payload{}, err
	}
	return Payload{NoteCommitment: cm, EphemeralKey: epk, EncryptedNote: ct}, nil
}

// Decrypt recovers a note addressed to ivk.
//
// The recovered note must re-derive the same ephemeral key, which binds the
// plaintext to the payload it came from.
func Decrypt(ct Ciphertext, ivk keys.IncomingViewingKey, epk ka.Public) (Note, error) {
	shared, err := ivk.KeyAgreementWith(epk)
	if err != nil {
		return Note{}, err
	}
	return decryptWithSecret(ct, shared, epk)
}

// DecryptWithOVK recovers a note the holder of ovk sent, from the wrapped
// shared secret in its output.
func DecryptWithOVK(
	ct Ciphertext,
	wrapped symmetric.OvkWrappedKey,
	ovk keys.OutgoingViewingKey,
	cv balance.Commitment,
	cm StateCommitment,
	epk ka.Public,
) (Note, error) {
	ock := symmetric.DeriveOutgoingCipherKey(ovk, cv, cm.inner, epk)
	shared, err := wrapped.Decrypt(ock)
	if err != nil {
		return Note{}, err
	}
	return decryptWithSecret(ct, shared, epk)
}

func decryptWithSecret(ct Ciphertext, shared ka.SharedSecret, epk ka.Public) (Note, error) {
	pt, err := symmetric.DerivePayloadKey(shared, epk).Decrypt(ct[:], symmetric.KindNote)
	if err != nil {
		return Note{}, err
	}
	n, err := FromBytes(pt)
	if err != nil {
		return Note{}, err
	}
	got, err := n.EphemeralPublicKey()
	if err != nil {
		return Note{}, err
	}
	if got != epk {
		return Note{}, errcode.New(errcode.EncryptionError, "ephemeral key mismatch")
	}
	return n, nil
}
