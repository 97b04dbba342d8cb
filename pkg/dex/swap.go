package dex

import (
	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/asset"
	"github.com/suffix-labs/penumbra-signer/pkg/balance"
	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/decaf377"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/poseidon"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
	"github.com/suffix-labs/penumbra-signer/pkg/symmetric"
)

const (
	// SwapPlaintextLen is pair ‖ delta_1 ‖ delta_2 ‖ fee ‖ claim address ‖ rseed.
	SwapPlaintextLen = TradingPairLen + 2*asset.AmountLen + asset.ValueLen + address.Len + note.RseedLen

	// SwapCiphertextLen is the plaintext plus its tag.
	SwapCiphertextLen = SwapPlaintextLen + symmetric.TagLen
)

// SwapPlaintext is the private part of a swap, encrypted to the sender so
// that it can later claim the outputs.
type SwapPlaintext struct {
	TradingPair  TradingPair     `json:"trading_pair"`
	Delta1       asset.Amount    `json:"delta_1_i"`
	Delta2       asset.Amount    `json:"delta_2_i"`
	ClaimFee     balance.Fee     `json:"claim_fee"`
	ClaimAddress address.Address `json:"claim_address"`
	Rseed        note.Rseed      `json:"rseed"`
}

// Bytes returns the 256-byte plaintext.
func (s SwapPlaintext) Bytes() [SwapPlaintextLen]byte {
	var out [SwapPlaintextLen]byte
	off := 0
	put := func(b []byte) {
		copy(out[off:], b)
		off += len(b)
	}
	pair := s.TradingPair.Bytes()
	d1 := s.Delta1.Bytes()
	d2 := s.Delta2.Bytes()
	fee := s.ClaimFee.Bytes()
	addr := s.ClaimAddress.Bytes()
	put(pair[:])
	put(d1[:])
	put(d2[:])
	put(fee[:])
	put(addr[:])
	put(s.Rseed[:])
	return out
}

// SwapPlaintextFromBytes parses a decrypted swap.
func SwapPlaintextFromBytes(b []byte) (SwapPlaintext, error) {
	if len(b) != SwapPlaintextLen {
		return SwapPlaintext{}, errcode.InvalidLength
	}
	var (
		s   SwapPlaintext
		err error
		off int
	)
	next := func(n int) []byte {
		out := b[off : off+n]
		off += n
		return out
	}
	if s.TradingPair, err = TradingPairFromBytes(next(TradingPairLen)); err != nil {
		return SwapPlaintext{}, err
	}
	if s.Delta1, err = asset.AmountFromBytes(next(asset.AmountLen)); err != nil {
		return SwapPlaintext{}, err
	}
	if s.Delta2, err = asset.AmountFromBytes(next(asset.AmountLen)); err != nil {
		return SwapPlaintext{}, err
	}
	fee, err := asset.ValueFromBytes(next(asset.ValueLen))
	if err != nil {
		return SwapPlaintext{}, err
	}
	feeAsset := fee.AssetID
	s.ClaimFee = balance.Fee{Amount: fee.Amount, AssetID: &feeAsset}
	if s.ClaimAddress, err = address.FromBytes(next(address.Len)); err != nil {
		return SwapPlaintext{}, err
	}
	if s.Rseed, err = note.RseedFromBytes(next(note.RseedLen)); err != nil {
		return SwapPlaintext{}, err
	}
	return s, nil
}

// Commit computes the swap commitment
// hash_7(rseed, fee amount, fee asset, g_d, pk_d, ck, hash_4(pair, deltas)).
func (s SwapPlaintext) Commit() note.StateCommitment {
	ds := crypto.DomainSeparator(crypto.SwapDomain)
	fee := s.ClaimFee.Value()
	ck := s.ClaimAddress.ClueKey()
	inner := poseidon.Hash4(ds,
		s.TradingPair.Asset1.Field(),
		s.TradingPair.Asset2.Field(),
		s.Delta1.Field(),
		s.Delta2.Field(),
	)
	h := poseidon.Hash7(ds,
		decaf377.FqFromLEBytesModOrder(s.Rseed[:]),
		fee.Amount.Field(),
		fee.AssetID.Field(),
		s.ClaimAddress.DiversifiedGenerator().CompressToField(),
		s.ClaimAddress.TransmissionKeyField(),
		decaf377.FqFromLEBytesModOrder(ck[:]),
		inner,
	)
	return note.NewStateCommitment(h)
}

// Encrypt seals the plaintext under a key derived from ovk and the swap
// commitment.
func (s SwapPlaintext) Encrypt(ovk keys.OutgoingViewingKey) (SwapPayload, error) {
	cm := s.Commit()
	pt := s.Bytes()
	ct, err := symmetric.DeriveSwapKey(ovk, cm.Field()).Encrypt(pt[:], symmetric.KindSwap)
	if err != nil {
		return SwapPayload{}, err
	}
	return SwapPayload{Commitment: cm, EncryptedSwap: SwapCiphertext(ct)}, nil
}

// SwapCiphertext is an encrypted swap plaintext.
type SwapCiphertext [SwapCiphertextLen]byte

// Decrypt opens the ciphertext as its sender.
func (c SwapCiphertext) Decrypt(ovk keys.OutgoingViewingKey, cm note.StateCommitment) (SwapPlaintext, error) {
	pt, err := symmetric.DeriveSwapKey(ovk, cm.Field()).Decrypt(c[:], symmetric.KindSwap)
	if err != nil {
		return SwapPlaintext{}, err
	}
	return SwapPlaintextFromBytes(pt)
}

// SwapPayload is the commitment and ciphertext a swap publishes.
type SwapPayload struct {
	Commitment    note.StateCommitment
	EncryptedSwap SwapCiphertext
}

// MarshalProto encodes dex.v1.SwapPayload.
func (p SwapPayload) MarshalProto() []byte {
	return proto.NewEncoder(SwapCiphertextLen+40).
		Message(proto.SwapPayloadCommitment, p.Commitment).
		BytesField(proto.SwapPayloadEncryptedSwap, p.EncryptedSwap[:]).
		Bytes()
}
