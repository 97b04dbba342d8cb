// Package signer authorizes transaction plans with a spend key.
//
// The signer recomputes the effect hash from the plan itself rather than
// trusting a hash supplied by the host, then signs it once per spend and
// per delegator vote, each time under that action's randomized key.
package signer

import (
	"go.uber.org/zap"

	"github.com/suffix-labs/penumbra-signer/pkg/crypto"
	"github.com/suffix-labs/penumbra-signer/pkg/effecthash"
	"github.com/suffix-labs/penumbra-signer/pkg/errcode"
	"github.com/suffix-labs/penumbra-signer/pkg/hw"
	"github.com/suffix-labs/penumbra-signer/pkg/keys"
	"github.com/suffix-labs/penumbra-signer/pkg/plan"
)

// AuthorizationData is everything the host needs to finish a transaction.
type AuthorizationData struct {
	EffectHash         effecthash.Hash    `json:"effect_hash"`
	SpendAuths         []crypto.Signature `json:"spend_auths"`
	DelegatorVoteAuths []crypto.Signature `json:"delegator_vote_auths"`
}

// Signer holds a spend key for the lifetime of a signing session.
type Signer struct {
	sk       keys.SpendKeyBytes
	platform hw.Platform
	logger   *zap.Logger
}

// New creates a Signer. A nil logger disables logging.
func New(sk keys.SpendKeyBytes, platform hw.Platform, logger *zap.Logger) *Signer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Signer{sk: sk, platform: platform, logger: logger}
}

// FullViewingKey derives the viewing key of the held spend key.
func (s *Signer) FullViewingKey() (*keys.FullViewingKey, error) {
	return s.sk.FullViewingKey()
}

// Sign computes the plan's effect hash and authorizes every spend and
// delegator vote in it.
func (s *Signer) Sign(p *plan.TransactionPlan) (*AuthorizationData, error) {
	fvk, err := s.sk.FullViewingKey()
	if err != nil {
		return nil, err
	}
	hash, err := p.EffectHash(fvk, s.platform)
	if err != nil {
		return nil, err
	}

	auth := &AuthorizationData{EffectHash: hash}
	for _, spend := range p.SpendPlans() {
		sig, err := SignSpend(hash, spend.Randomizer, s.sk)
		if err != nil {
			return nil, errcode.Wrap(err, errcode.SpendPlanError, "spend auth")
		}
		s.platform.Heartbeat()
		auth.SpendAuths = append(auth.SpendAuths, sig)
	}
	for _, vote := range p.DelegatorVotePlans() {
		sig, err := SignSpend(hash, vote.Randomizer, s.sk)
		if err != nil {
			return nil, errcode.Wrap(err, errcode.DelegatorVotePlanError, "delegator vote auth")
		}
		s.platform.Heartbeat()
		auth.DelegatorVoteAuths = append(auth.DelegatorVoteAuths, sig)
	}

	s.logger.Debug("signed plan",
		zap.Int("actions", len(p.Actions)),
		zap.Int("spend_auths", len(auth.SpendAuths)),
		zap.Int("vote_auths", len(auth.DelegatorVoteAuths)),
	)
	return auth, nil
}

// SignSpend signs effectHash with the spend authorization key randomized by
// randomizer. The signing nonce comes from a ChaCha20 stream keyed by the
// randomizer, so the same inputs always give the same signature.
func SignSpend(effectHash effecthash.Hash, randomizer plan.Bytes32, sk keys.SpendKeyBytes) (crypto.Signature, error) {
	ask, err := sk.SigningKey()
	if err != nil {
		return crypto.Signature{}, err
	}
	rsk := ask.Randomize(randomizer.Scalar())
	return rsk.Sign(hw.NewChaChaRand(randomizer), effectHash[:])
}
