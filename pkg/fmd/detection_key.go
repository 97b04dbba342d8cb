package fmd

import (
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
)

// DetectionKey is the secret half of a detection key pair.
type DetectionKey struct {
	dtk decaf377.Fr
}

// NewDetectionKey wraps a scalar.
func NewDetectionKey(dtk decaf377.Fr) DetectionKey {
	return DetectionKey{dtk: dtk}
}

// DetectionKeyFromBytes decodes a canonical scalar.
func DetectionKeyFromBytes(b []byte) (DetectionKey, error) {
	dtk, err := decaf377.FrFromBytesChecked(b)
	if err != nil {
		return DetectionKey{}, errcode.InvalidDetectionKey
	}
	return DetectionKey{dtk: dtk}, nil
}

// Bytes returns the scalar encoding.
func (dk DetectionKey) Bytes() [32]byte {
	return dk.dtk.Bytes()
}

// ClueKey returns dtk·G.
func (dk DetectionKey) ClueKey() ClueKey {
	return ClueKey(decaf377.BasepointMul(dk.dtk).Compress())
}

// ExamineClue reports whether clue may be addressed to this key.
//
// The clue's second point is recovered as Q = y·P + m·G, then bit i is
// decrypted with the subkey secret x_i = dtk + H(root, i) since r·X_i = x_i·P.
// Every bit must decrypt to 1.
func (dk DetectionKey) ExamineClue(clue Clue) (bool, error) {
	precision := clue.Precision()
	if int(precision) > MaxPrecision {
		return false, errcode.PrecisionTooLarge
	}

	p, err := decaf377.DecompressBytes(clue[0:32])
	if err != nil {
		return false, errcode.InvalidClueKey
	}
	y, err := decaf377.FrFromBytesChecked(clue[32:64])
	if err != nil {
		return false, errcode.InvalidClueKey
	}

	var pEnc decaf377.Encoding
	copy(pEnc[:], clue[0:32])
	var ctxts [ciphertextLen]byte
	copy(ctxts[:], clue[65:])

	m := challenge(pEnc, precision, ctxts)
	q := p.ScalarMul(y).Add(decaf377.BasepointMul(m)).Compress()

	rootEnc := decaf377.Encoding(dk.ClueKey())
	for i := 0; i < int(precision); i++ {
		xi := dk.dtk.Add(subkeyScalar(rootEnc, i))
		shared := p.ScalarMul(xi).Compress()
		ctxt := (ctxts[i/8] >> (i % 8)) & 1
		if ctxt^bitKey(pEnc, shared, q) != 1 {
			return false, nil
		}
	}
	return true, nil
}
