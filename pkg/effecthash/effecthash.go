// Package effecthash computes effect hashes, the 64-byte digests of a
// transaction's state-changing data that spend authorizations sign.
//
// Every effecting message is hashed as
//
//	BLAKE2b-512(len(typeURL) as u64 LE || typeURL || canonical encoding)
//
// and the transaction hash folds the parameters, memo, detection data and
// per-action hashes under the "PenumbraEfHs" personalization.
package effecthash

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	blake2b "github.com/minio/blake2b-simd"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/fmd"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/memo"
	"github.com/suffix-labs/penumbra-signer/pkg/note"
	"github.com/suffix-labs/penumbra-signer/pkg/proto"
)

// Len is the size of an effect hash.
const Len = 64

// TransactionPersonalization keys the whole-transaction hash.
const TransactionPersonalization = "PenumbraEfHs"

// Capacity limits of a transaction plan.
const (
	MaxActions   = 16
	MaxCluePlans = 16
)

// Type URLs of the hashed messages.
const (
	TransactionParametersURL = "/penumbra.core.transaction.v1.TransactionParameters"
	MemoCiphertextURL        = "/penumbra.core.transaction.v1.MemoCiphertext"
	DetectionDataURL         = "/penumbra.core.transaction.v1.DetectionData"

	SpendBodyURL            = "/penumbra.core.component.shielded_pool.v1.SpendBody"
	OutputBodyURL           = "/penumbra.core.component.shielded_pool.v1.OutputBody"
	SwapBodyURL             = "/penumbra.core.component.dex.v1.SwapBody"
	PositionWithdrawURL     = "/penumbra.core.component.dex.v1.PositionWithdraw"
	UndelegateClaimBodyURL  = "/penumbra.core.component.stake.v1.UndelegateClaimBody"
	DelegateURL             = "/penumbra.core.component.stake.v1.Delegate"
	UndelegateURL           = "/penumbra.core.component.stake.v1.Undelegate"
	DelegatorVoteBodyURL    = "/penumbra.core.component.governance.v1.DelegatorVoteBody"
	Ics20WithdrawalURL      = "/penumbra.core.component.ibc.v1.Ics20Withdrawal"
	DutchAuctionWithdrawURL = "/penumbra.core.component.auction.v1.ActionDutchAuctionWithdraw"
)

// Hash is an effect hash.
type Hash [Len]byte

// IsZero reports whether h is the all-zero placeholder used for absent
// memo and detection data.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalText encodes the hash as hex.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a hex hash.
func (h *Hash) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errcode.Wrap(err, errcode.UnexpectedCharacters, "effect hash hex")
	}
	if len(b) != Len {
		return errcode.InvalidLength
	}
	copy(h[:], b)
	return nil
}

// newState returns a BLAKE2b-512 state primed with the length-prefixed type
// URL. The URL plays the role of a personalization string but is hashed as
// data, so it may be longer than BLAKE2b's 16-byte parameter.
func newState(typeURL string) hash.Hash {
	h := blake2b.New512()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(typeURL)))
	h.Write(n[:])
	h.Write([]byte(typeURL))
	return h
}

func sum(h hash.Hash) Hash {
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// FromEffectingData hashes pre-encoded message bytes under typeURL.
func FromEffectingData(typeURL string, data []byte) Hash {
	h := newState(typeURL)
	h.Write(data)
	return sum(h)
}

// FromProto hashes the canonical encoding of m under typeURL.
func FromProto(typeURL string, m proto.Marshaler) Hash {
	return FromEffectingData(typeURL, m.MarshalProto())
}

// Parameters hashes the caller-encoded TransactionParameters message.
func Parameters(encoded []byte) Hash {
	return FromEffectingData(TransactionParametersURL, encoded)
}

// Memo hashes an encrypted memo.
func Memo(ct memo.Ciphertext) Hash {
	return FromProto(MemoCiphertextURL, ct)
}

// MemoPlan encrypts the planned memo and hashes the ciphertext. A nil plan
// hashes to zero.
func MemoPlan(p *memo.Plan) (Hash, error) {
	if p == nil {
		return Hash{}, nil
	}
	ct, err := p.Ciphertext()
	if err != nil {
		return Hash{}, err
	}
	return Memo(ct), nil
}

// CluePlan describes one fuzzy message detection clue to attach to a
// transaction.
type CluePlan struct {
	Address       address.Address `json:"address"`
	Rseed         note.Rseed      `json:"rseed"`
	PrecisionBits uint8           `json:"precision_bits"`
}

type clueMessage fmd.Clue

func (c clueMessage) MarshalProto() []byte {
	return proto.Inner(c[:])
}

// DetectionData builds a clue for each plan and hashes the resulting
// DetectionData message. No plans hash to zero. The platform heartbeat runs
// around every clue since expansion dominates signing time.
func DetectionData(plans []CluePlan, p hw.Platform) (Hash, error) {
	if len(plans) == 0 {
		return Hash{}, nil
	}
	if len(plans) > MaxCluePlans {
		return Hash{}, errcode.DetectionDataOverflow
	}

	enc := proto.NewEncoder(len(plans) * (fmd.ClueLen + 4))
	for _, plan := range plans {
		ck := plan.Address.ClueKey()
		expanded, err := ck.ExpandInfallible()
		if err != nil {
			return Hash{}, errcode.Wrap(err, errcode.ClueCreationFailed, "expand clue key")
		}
		p.Heartbeat()
		clue, err := expanded.CreateClueDeterministic(plan.PrecisionBits, [32]byte(plan.Rseed))
		if err != nil {
			if errcode.FromError(err) == errcode.PrecisionTooLarge {
				return Hash{}, err
			}
			return Hash{}, errcode.Wrap(err, errcode.ClueCreationFailed, "create clue")
		}
		p.Heartbeat()
		enc.Message(proto.DetectionDataFmdClues, clueMessage(clue))
	}

	h := newState(DetectionDataURL)
	h.Write(enc.Bytes())
	return sum(h), nil
}

// Transaction folds the component hashes into the transaction effect hash.
// Absent memo or detection data is passed as the zero hash.
func Transaction(parameters, memoHash, detection Hash, actions []Hash) (Hash, error) {
	if len(actions) > MaxActions {
		return Hash{}, errcode.ActionsOverflow
	}

	h, err := blake2b.New(&blake2b.Config{
		Size:   Len,
		Person: []byte(TransactionPersonalization),
	})
	if err != nil {
		return Hash{}, errcode.Wrap(err, errcode.EffectHashError, "transaction hasher")
	}
	h.Write(parameters[:])
	h.Write(memoHash[:])
	h.Write(detection[:])

	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(actions)))
	h.Write(n[:])
	for _, a := range actions {
		h.Write(a[:])
	}
	return sum(h), nil
}
