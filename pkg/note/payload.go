package note

import (
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// Ciphertext is an encrypted note.
type Ciphertext [CiphertextLen]byte

// MarshalProto encodes shielded_pool.v1.NoteCiphertext.
func (c Ciphertext) MarshalProto() []byte {
	return proto.Inner(c[:])
}

// Payload is what an output publishes about its note.
type Payload struct {
	NoteCommitment StateCommitment
	EphemeralKey   ka.Public
	EncryptedNote  Ciphertext
}

// MarshalProto encodes shielded_pool.v1.NotePayload.
func (p Payload) MarshalProto() []byte {
	return proto.NewEncoder(CiphertextLen+80).
		Message(proto.NotePayloadNoteCommitment, p.NoteCommitment).
		BytesField(proto.NotePayloadEphemeralKey, p.EphemeralKey[:]).
		Message(proto.NotePayloadEncryptedNote, p.EncryptedNote).
		Bytes()
}
