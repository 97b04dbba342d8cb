package keys

import (
	"crypto/aes"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
)

// OVKLen and DKLen are the viewing key component lengths.
const (
	OVKLen = 32
	DKLen  = 16
)

// OutgoingViewingKey lets the sender recover what it sent.
type OutgoingViewingKey [OVKLen]byte

// DiversifierKey maps address indices to diversifiers and back.
type DiversifierKey [DKLen]byte

// DiversifierForIndex encrypts the 16-byte index encoding with AES-128.
func (dk DiversifierKey) DiversifierForIndex(idx address.Index) address.Diversifier {
	block, err := aes.NewCipher(dk[:])
	if err != nil {
		// A 16-byte key is always accepted.
		panic(err)
	}
	in := idx.Bytes()
	var d address.Diversifier
	block.Encrypt(d[:], in[:])
	return d
}

// IndexForDiversifier decrypts a diversifier back to its index.
func (dk DiversifierKey) IndexForDiversifier(d address.Diversifier) address.Index {
	block, err := aes.NewCipher(dk[:])
	if err != nil {
		panic(err)
	}
	var out [address.DiversifierLen]byte
	block.Decrypt(out[:], d[:])
	idx, _ := address.IndexFromBytes(out[:])
	return idx
}
