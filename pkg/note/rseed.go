package note

import (
	"encoding/hex"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/ka"
)

// RseedLen is the length of a note's random seed.
const RseedLen = 32

// Rseed is the per-note seed of its ephemeral key and commitment blinding.
type Rseed [RseedLen]byte

// RseedFromBytes copies a 32-byte seed.
func RseedFromBytes(b []byte) (Rseed, error) {
	var r Rseed
	if len(b) != RseedLen {
		return r, errcode.InvalidLength
	}
	copy(r[:], b)
	return r, nil
}

// DeriveESK derives the ephemeral secret esk = Fr(expand(rseed, [4])).
func (r Rseed) DeriveESK() (ka.Secret, error) {
	s, err := crypto.ExpandFr(crypto.ESKPersonalization, r[:], []byte{4})
	if err != nil {
		return ka.Secret{}, err
	}
	return ka.NewSecret(s), nil
}

// DeriveNoteBlinding derives rcm = Fq(expand(rseed, [5])).
func (r Rseed) DeriveNoteBlinding() (decaf377.Fq, error) {
	return crypto.ExpandFq(crypto.RcmPersonalization, r[:], []byte{5})
}

// MarshalText encodes the seed as hex.
func (r Rseed) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(r[:])), nil
}

// UnmarshalText decodes a hex seed.
func (r *Rseed) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.UnexpectedCharacters, "rseed hex")
	}
	parsed, err := RseedFromBytes(b)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
