// Package crypto holds the labelled BLAKE2b primitives every derivation in
// the key hierarchy is built from, and the decaf377-rdsa spend authorization
// signature scheme.
//
// BLAKE2b personalization is a distinct parameter of the hash function, not a
// key: labels shorter than 16 bytes are zero padded by the hasher.
package crypto

import (
	"hash"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// Labels for Expand. Each is exactly 16 bytes.
const (
	ExpandSeedPersonalization   = "Penumbra_ExpndSd"
	OVKPersonalization          = "Penumbra_DeriOVK"
	DKPersonalization           = "Penumbra_DerivDK"
	DiversifyPersonalization    = "Penumbra_Divrsfy"
	ESKPersonalization          = "Penumbra_DeriEsk"
	RcmPersonalization          = "Penumbra_DeriRcm"
	AssetIDPersonalization      = "Penumbra_AssetID"
	FMDExpandPersonalization    = "PenumbraExpndFMD"
	PayloadKeyPersonalization   = "Penumbra_Payload"
	SwapKeyPersonalization      = "Penumbra_Payswap"
	OutCipherKeyPersonalization = "Penumbra_OutCiph"
)

// Labels hashed with plain BLAKE2b-512 into Fq domain separators
// (see DomainSeparator).
const (
	NoteCommitDomain = "penumbra.notecommit"
	NullifierDomain  = "penumbra.nullifier"
	SwapDomain       = "penumbra.swap"
	ValueGenDomain   = "penumbra.value.generator"
	BindingBasepoint = "decaf377-rdsa-binding"
)

// Labels whose bytes are reduced into Fq directly (see RawDomainSeparator).
const (
	IVKDomain      = "penumbra.derive.ivk"
	WalletIDDomain = "Penumbra_HashFVK"
)

// maxKeyLen is the BLAKE2b key size limit.
const maxKeyLen = 64

// blake2bNew512 creates a BLAKE2b-512 hash with the given personalization and
// optional key.
func blake2bNew512(personalization, key []byte) (hash.Hash, error) {
	config := &blake2b.Config{
		Size:   64,
		Person: personalization,
	}
	if len(key) > 0 {
		config.Key = key
	}
	return blake2b.New(config)
}

// blake2bNewSized creates a BLAKE2b hash of the given output size.
func blake2bNewSized(size int, personalization []byte) (hash.Hash, error) {
	config := &blake2b.Config{
		Size:   uint8(size),
		Person: personalization,
	}
	return blake2b.New(config)
}

// Expand is the keyed PRF: BLAKE2b-512 personalized with label, keyed with
// key (unkeyed when key is empty), over input.
func Expand(label string, key, input []byte) ([64]byte, error) {
	var out [64]byte
	if len(key) > maxKeyLen {
		return out, errcode.InvalidKeyLen
	}
	h, err := blake2bNew512([]byte(label), key)
	if err != nil {
		return out, errcode.Wrap(err, errcode.UnexpectedError, "blake2b config")
	}
	h.Write(input)
	copy(out[:], h.Sum(nil))
	return out, nil
}

// ExpandFq reduces the Expand output into the base field.
func ExpandFq(label string, key, input []byte) (decaf377.Fq, error) {
	out, err := Expand(label, key, input)
	if err != nil {
		return decaf377.Fq{}, err
	}
	return decaf377.FqFromLEBytesModOrder(out[:]), nil
}

// ExpandFr reduces the Expand output into the scalar field.
func ExpandFr(label string, key, input []byte) (decaf377.Fr, error) {
	out, err := Expand(label, key, input)
	if err != nil {
		return decaf377.Fr{}, err
	}
	return decaf377.FrFromLEBytesModOrder(out[:]), nil
}

// DomainSeparator hashes label with plain BLAKE2b-512 and reduces the digest
// into Fq. Poseidon domain separators are built this way.
func DomainSeparator(label string) decaf377.Fq {
	sum := blake2b.Sum512([]byte(label))
	return decaf377.FqFromLEBytesModOrder(sum[:])
}

// RawDomainSeparator reduces the label bytes themselves into Fq.
func RawDomainSeparator(label string) decaf377.Fq {
	return decaf377.FqFromLEBytesModOrder([]byte(label))
}

// Hash returns the BLAKE2b digest of size bytes, personalized with
// personalization, over the concatenation of parts.
func Hash(size int, personalization string, parts ...[]byte) []byte {
	h, err := blake2bNewSized(size, []byte(personalization))
	if err != nil {
		// Only reachable with an out of range size or a label over 16 bytes,
		// both fixed at every call site.
		panic("crypto: " + err.Error())
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Hash512 is Hash with a 64 byte output.
func Hash512(personalization string, parts ...[]byte) [64]byte {
	var out [64]byte
	copy(out[:], Hash(64, personalization, parts...))
	return out
}

// Hash256 is Hash with a 32 byte output.
func Hash256(personalization string, parts ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], Hash(32, personalization, parts...))
	return out
}
