package crypto

import (
	"encoding/hex"
	"io"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// rdsaPersonalization personalizes the challenge and nonce hashes.
const rdsaPersonalization = "decaf377-rdsa---"

// SignatureLen is the encoded length of a signature: R ‖ s.
const SignatureLen = 64

// nonceRandomBytes is how much randomness is mixed into each nonce.
const nonceRandomBytes = 80

// HashToScalar hashes parts with BLAKE2b-512 under the rdsa personalization
// and reduces the digest into Fr.
func HashToScalar(parts ...[]byte) decaf377.Fr {
	sum := Hash512(rdsaPersonalization, parts...)
	return decaf377.FrFromLEBytesModOrder(sum[:])
}

// SigningKey is a spend authorization signing key.
type SigningKey struct {
	sk decaf377.Fr
	vk VerificationKey
}

// VerificationKey is a spend authorization verification key, kept together
// with its encoding.
type VerificationKey struct {
	point decaf377.Element
	bytes decaf377.Encoding
}

// Signature is a decaf377-rdsa signature.
type Signature [SignatureLen]byte

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.UnexpectedCharacters
	}
	if len(raw) != SignatureLen {
		return errcode.InvalidSignatureLen
	}
	copy(s[:], raw)
	return nil
}

// NewSigningKey wraps a scalar as a signing key.
func NewSigningKey(sk decaf377.Fr) SigningKey {
	return SigningKey{sk: sk, vk: newVerificationKey(decaf377.BasepointMul(sk))}
}

// SigningKeyFromBytes decodes a canonical 32-byte scalar.
func SigningKeyFromBytes(b []byte) (SigningKey, error) {
	sk, err := decaf377.FrFromBytesChecked(b)
	if err != nil {
		return SigningKey{}, err
	}
	return NewSigningKey(sk), nil
}

func newVerificationKey(p decaf377.Element) VerificationKey {
	return VerificationKey{point: p, bytes: p.Compress()}
}

// Bytes returns the scalar encoding.
func (k SigningKey) Bytes() [32]byte {
	return k.sk.Bytes()
}

// VerificationKey returns the matching verification key.
func (k SigningKey) VerificationKey() VerificationKey {
	return k.vk
}

// Randomize returns the signing key sk + randomizer.
func (k SigningKey) Randomize(randomizer decaf377.Fr) SigningKey {
	return NewSigningKey(k.sk.Add(randomizer))
}

// Sign signs msg. The nonce hashes 80 bytes read from rng together with the
// verification key and the message.
func (k SigningKey) Sign(rng io.Reader, msg []byte) (Signature, error) {
	var sig Signature

	var random [nonceRandomBytes]byte
	if _, err := io.ReadFull(rng, random[:]); err != nil {
		return sig, errcode.Wrap(err, errcode.UnexpectedError, "signature nonce")
	}

	nonce := HashToScalar(random[:], k.vk.bytes[:], msg)
	r := decaf377.BasepointMul(nonce).Compress()
	c := HashToScalar(r[:], k.vk.bytes[:], msg)
	s := nonce.Add(c.Mul(k.sk)).Bytes()

	copy(sig[:32], r[:])
	copy(sig[32:], s[:])
	return sig, nil
}

// VerificationKeyFromBytes decodes a verification key.
func VerificationKeyFromBytes(b []byte) (VerificationKey, error) {
	p, err := decaf377.DecompressBytes(b)
	if err != nil {
		return VerificationKey{}, err
	}
	return newVerificationKey(p), nil
}

// Bytes returns the encoding of the key.
func (vk VerificationKey) Bytes() [32]byte {
	return vk.bytes
}

// Element returns the key as a group element.
func (vk VerificationKey) Element() decaf377.Element {
	return vk.point
}

// Randomize returns vk + randomizer·G, the key that verifies signatures of
// the matching randomized signing key.
func (vk VerificationKey) Randomize(randomizer decaf377.Fr) VerificationKey {
	return newVerificationKey(vk.point.Add(decaf377.BasepointMul(randomizer)))
}

// Verify checks sig over msg.
func (vk VerificationKey) Verify(msg []byte, sig Signature) error {
	r, err := decaf377.DecompressBytes(sig[:32])
	if err != nil {
		return errcode.InvalidSignature
	}
	s, err := decaf377.FrFromBytesChecked(sig[32:])
	if err != nil {
		return errcode.InvalidSignature
	}

	c := HashToScalar(sig[:32], vk.bytes[:], msg)

	// s·G == R + c·vk
	lhs := decaf377.BasepointMul(s)
	rhs := r.Add(vk.point.ScalarMul(c))
	if !lhs.Equal(rhs) {
		return errcode.InvalidSignature
	}
	return nil
}
