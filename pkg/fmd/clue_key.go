// Package fmd implements fuzzy message detection: clue keys, their expanded
// subkey cache, clue creation and clue examination.
//
// A clue of precision p carries p encrypted bits. A holder of the matching
// detection key decrypts every bit to 1, while an unrelated key decrypts
// each bit to 1 with probability 1/2, giving a false positive rate of 2^-p.
package fmd

import (
	"io"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

const (
	// MaxPrecision is the largest supported clue precision in bits.
	MaxPrecision = 24

	// ClueLen is the encoded clue length: P ‖ y ‖ precision ‖ ciphertexts.
	ClueLen = 32 + 32 + 1 + ciphertextLen

	ciphertextLen = MaxPrecision / 8

	// maxExpandAttempts bounds the search in ExpandInfallible.
	maxExpandAttempts = 1024
)

const (
	subkeyPersonalization = "decaf377-fmd.hkd"
	rPersonalization      = "decaf377-fmd.rdv"
	zPersonalization      = "decaf377-fmd.zdv"
	bitPersonalization    = "decaf377-fmd.bit"
	scalarPersonalization = "decaf377-fmd.sca"
)

// ClueKey is the public half of a detection key pair, carried in addresses.
type ClueKey [32]byte

// Clue is a detection clue.
type Clue [ClueLen]byte

// ClueKeyFromBytes copies a 32-byte clue key.
func ClueKeyFromBytes(b []byte) (ClueKey, error) {
	var ck ClueKey
	if len(b) != len(ck) {
		return ck, errcode.InvalidClueKey
	}
	copy(ck[:], b)
	return ck, nil
}

// ExpandedClueKey caches the subkeys derived from a clue key. Subkeys are
// computed on demand and kept: the cache only grows.
type ExpandedClueKey struct {
	root    decaf377.Element
	rootEnc decaf377.Encoding
	subkeys [MaxPrecision]decaf377.Element
	n       int
}

// Expand decodes the clue key into an empty cache.
func (ck ClueKey) Expand() (*ExpandedClueKey, error) {
	enc := decaf377.Encoding(ck)
	root, err := enc.Decompress()
	if err != nil {
		return nil, errcode.InvalidAddress
	}
	return &ExpandedClueKey{root: root, rootEnc: enc}, nil
}

// ExpandInfallible expands ck + c for the smallest counter c ≥ 1 whose
// encoding is a valid point. The search gives up with ClueCreationFailed
// after maxExpandAttempts tries.
func (ck ClueKey) ExpandInfallible() (*ExpandedClueKey, error) {
	base := decaf377.FqFromLEBytesModOrder(ck[:])
	for counter := uint64(1); counter <= maxExpandAttempts; counter++ {
		c := decaf377.FqFromUint64(counter)
		var shifted decaf377.Fq
		shifted.Add(&base, &c)
		if eck, err := ClueKey(decaf377.FqToBytes(&shifted)).Expand(); err == nil {
			return eck, nil
		}
	}
	return nil, errcode.ClueCreationFailed
}

// Len reports how many subkeys are cached.
func (e *ExpandedClueKey) Len() int {
	return e.n
}

// EnsureAtLeast derives subkeys up to precision. Already cached subkeys are
// not recomputed.
func (e *ExpandedClueKey) EnsureAtLeast(precision int) error {
	if precision > MaxPrecision {
		return errcode.PrecisionTooLarge
	}
	for i := e.n; i < precision; i++ {
		x := subkeyScalar(e.rootEnc, i)
		e.subkeys[i] = e.root.Add(decaf377.BasepointMul(x))
	}
	if precision > e.n {
		e.n = precision
	}
	return nil
}

func subkeyScalar(rootEnc decaf377.Encoding, i int) decaf377.Fr {
	sum := crypto.Hash512(subkeyPersonalization, rootEnc[:], []byte{byte(i)})
	return decaf377.FrFromLEBytesModOrder(sum[:])
}

func (e *ExpandedClueKey) hashScalar(personalization string, data []byte) decaf377.Fr {
	sum := crypto.Hash512(personalization, e.rootEnc[:], data)
	return decaf377.FrFromLEBytesModOrder(sum[:])
}

// CreateClueDeterministic builds a clue of the given precision from a 32-byte
// seed.
func (e *ExpandedClueKey) CreateClueDeterministic(precision uint8, rseed [32]byte) (Clue, error) {
	var clue Clue
	if int(precision) > MaxPrecision {
		return clue, errcode.PrecisionTooLarge
	}
	if err := e.EnsureAtLeast(int(precision)); err != nil {
		return clue, err
	}

	r := e.hashScalar(rPersonalization, rseed[:])
	z := e.hashScalar(zPersonalization, rseed[:])
	rInv, err := r.Inverse()
	if err != nil {
		return clue, errcode.ClueCreationFailed
	}

	p := decaf377.BasepointMul(r).Compress()
	q := decaf377.BasepointMul(z).Compress()

	var ctxts [ciphertextLen]byte
	for i := 0; i < int(precision); i++ {
		rxi := e.subkeys[i].ScalarMul(r).Compress()
		key := bitKey(p, rxi, q)
		if key^1 != 0 {
			ctxts[i/8] |= 1 << (i % 8)
		}
	}

	m := challenge(p, precision, ctxts)
	y := z.Sub(m).Mul(rInv).Bytes()

	copy(clue[0:32], p[:])
	copy(clue[32:64], y[:])
	clue[64] = precision
	copy(clue[65:], ctxts[:])
	return clue, nil
}

// CreateClue builds a clue from 32 bytes of fresh randomness.
func (e *ExpandedClueKey) CreateClue(precision uint8, rng io.Reader) (Clue, error) {
	var rseed [32]byte
	if _, err := io.ReadFull(rng, rseed[:]); err != nil {
		return Clue{}, errcode.Wrap(err, errcode.ClueCreationFailed, "clue seed")
	}
	return e.CreateClueDeterministic(precision, rseed)
}

func bitKey(p, shared, q decaf377.Encoding) byte {
	return crypto.Hash(64, bitPersonalization, p[:], shared[:], q[:])[0] & 1
}

func challenge(p decaf377.Encoding, precision uint8, ctxts [ciphertextLen]byte) decaf377.Fr {
	sum := crypto.Hash512(scalarPersonalization, p[:], []byte{precision}, ctxts[:])
	return decaf377.FrFromLEBytesModOrder(sum[:])
}

// Precision returns the number of encrypted bits in the clue.
func (c Clue) Precision() uint8 {
	return c[64]
}
