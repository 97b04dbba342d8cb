// Package api provides the high-level public API of the signer.
//
// This is the main entry point for applications that hold plan files and
// keys as bytes and text. It wraps the lower packages in the order a
// wallet uses them:
//
//  1. DeriveFullViewingKey - spend key to full viewing key
//  2. PaymentAddress / DecodeAddress - address text for an account
//  3. ParsePlan / SerializePlan - plan file encoding
//  4. VerifyBeforeSigning - checks a plan before it is shown for signing
//  5. ComputeEffectHash - the hash that gets signed
//  6. SignPlan - spend and vote authorizations
//  7. VerifyAuthorization - checks signatures against a plan
package api

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/suffix-labs/penumbra-signer/pkg/address"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/fmd"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/plan"
	"github.com/suffix-labs/penumbra-signer/pkg/signer"
)

// ============================================================================
// API Function 1: DeriveFullViewingKey
// ============================================================================

// DeriveFullViewingKey derives the viewing key of a 32-byte spend key.
func DeriveFullViewingKey(spendKey []byte) (*keys.FullViewingKey, error) {
	sk, err := keys.SpendKeyFromBytes(spendKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid spend key")
	}
	fvk, err := sk.FullViewingKey()
	if err != nil {
		return nil, errors.Wrap(err, "deriving full viewing key")
	}
	return fvk, nil
}

// ============================================================================
// API Function 2: PaymentAddress / DecodeAddress
// ============================================================================

// PaymentAddress encodes the main address of account under hrp.
func PaymentAddress(fvk *keys.FullViewingKey, account uint32, hrp string) (string, error) {
	addr, _, err := fvk.PaymentAddress(address.NewIndex(account))
	if err != nil {
		return "", errors.Wrapf(err, "deriving address for account %d", account)
	}
	s, err := addr.Encode(hrp)
	if err != nil {
		return "", errors.Wrap(err, "encoding address")
	}
	return s, nil
}

// AddressInfo describes a decoded address from the point of view of one
// viewing key.
type AddressInfo struct {
	Address   address.Address
	Visible   bool
	Account   uint32
	Ephemeral bool
}

// DecodeAddress parses an address string and looks it up under fvk.
func DecodeAddress(fvk *keys.FullViewingKey, s, hrp string) (*AddressInfo, error) {
	addr, err := address.Decode(s, hrp)
	if err != nil {
		return nil, errors.Wrap(err, "decoding address")
	}
	info := &AddressInfo{Address: addr}
	if idx, ok := fvk.AddressIndex(addr); ok {
		info.Visible = true
		info.Account = idx.Account
		info.Ephemeral = idx.IsEphemeral()
	}
	return info, nil
}

// ============================================================================
// API Function 3: ParsePlan / SerializePlan
// ============================================================================

// ParsePlan decodes and validates a plan file.
func ParsePlan(data []byte) (*plan.TransactionPlan, error) {
	tp, err := plan.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid plan")
	}
	return tp, nil
}

// SerializePlan encodes a plan file.
func SerializePlan(tp *plan.TransactionPlan) ([]byte, error) {
	data, err := plan.Serialize(tp)
	if err != nil {
		return nil, errors.Wrap(err, "serializing plan")
	}
	return data, nil
}

// ============================================================================
// API Function 4: VerifyBeforeSigning
// ============================================================================

// VerifyBeforeSigning checks a plan before it is presented for signing:
//   - the plan is well formed and within capacity
//   - every spent or voting note belongs to fvk
//   - every clue plan has a supported precision
//   - the memo, if any, fits
func VerifyBeforeSigning(tp *plan.TransactionPlan, fvk *keys.FullViewingKey) error {
	if err := tp.Validate(); err != nil {
		return errors.Wrap(err, "invalid plan")
	}
	for i, sp := range tp.SpendPlans() {
		if !fvk.ViewsAddress(sp.Note.Address) {
			return errors.Wrapf(errcode.New(errcode.SpendPlanError, "note not owned"), "spend %d", i)
		}
	}
	for i, vp := range tp.DelegatorVotePlans() {
		if !fvk.ViewsAddress(vp.StakedNote.Address) {
			return errors.Wrapf(errcode.New(errcode.DelegatorVotePlanError, "note not owned"), "delegator vote %d", i)
		}
	}
	for i, cp := range tp.DetectionData {
		if cp.PrecisionBits > fmd.MaxPrecision {
			return errors.Wrapf(errcode.PrecisionTooLarge, "clue plan %d", i)
		}
	}
	if tp.Memo != nil {
		if _, err := tp.Memo.Plan(); err != nil {
			return errors.Wrap(err, "memo")
		}
	}
	return nil
}

// ============================================================================
// API Function 5: ComputeEffectHash
// ============================================================================

// ComputeEffectHash computes the effect hash of a plan file.
func ComputeEffectHash(data []byte, fvk *keys.FullViewingKey) (effecthash.Hash, error) {
	tp, err := ParsePlan(data)
	if err != nil {
		return effecthash.Hash{}, err
	}
	h, err := tp.EffectHash(fvk, hw.NewHost(nil))
	if err != nil {
		return effecthash.Hash{}, errors.Wrap(err, "computing effect hash")
	}
	return h, nil
}

// ============================================================================
// API Function 6: SignPlan
// ============================================================================

// SignPlan verifies and signs a plan file with spendKey.
func SignPlan(data []byte, spendKey []byte, platform hw.Platform, logger *zap.Logger) (*signer.AuthorizationData, error) {
	sk, err := keys.SpendKeyFromBytes(spendKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid spend key")
	}
	tp, err := ParsePlan(data)
	if err != nil {
		return nil, err
	}

	s := signer.New(sk, platform, logger)
	fvk, err := s.FullViewingKey()
	if err != nil {
		return nil, errors.Wrap(err, "deriving full viewing key")
	}
	if err := VerifyBeforeSigning(tp, fvk); err != nil {
		return nil, err
	}

	auth, err := s.Sign(tp)
	if err != nil {
		return nil, errors.Wrap(err, "signing")
	}
	return auth, nil
}

// ============================================================================
// API Function 7: VerifyAuthorization
// ============================================================================

// VerifyAuthorization checks that auth carries one valid signature per
// spend and delegator vote of tp, over tp's effect hash.
func VerifyAuthorization(tp *plan.TransactionPlan, fvk *keys.FullViewingKey, auth *signer.AuthorizationData) error {
	h, err := tp.EffectHash(fvk, hw.NewHost(nil))
	if err != nil {
		return errors.Wrap(err, "computing effect hash")
	}
	if h != auth.EffectHash {
		return errors.Wrap(errcode.EffectHashError, "effect hash mismatch")
	}

	spends := tp.SpendPlans()
	if len(spends) != len(auth.SpendAuths) {
		return errors.Wrapf(errcode.UnexpectedNumberItems, "have %d spend auths for %d spends", len(auth.SpendAuths), len(spends))
	}
	for i, sp := range spends {
		if err := sp.Rk(fvk).Verify(h[:], auth.SpendAuths[i]); err != nil {
			return errors.Wrapf(err, "spend %d", i)
		}
	}

	votes := tp.DelegatorVotePlans()
	if len(votes) != len(auth.DelegatorVoteAuths) {
		return errors.Wrapf(errcode.UnexpectedNumberItems, "have %d vote auths for %d votes", len(auth.DelegatorVoteAuths), len(votes))
	}
	for i, vp := range votes {
		if err := vp.Rk(fvk).Verify(h[:], auth.DelegatorVoteAuths[i]); err != nil {
			return errors.Wrapf(err, "delegator vote %d", i)
		}
	}
	return nil
}
