package proto

// Single-field wrappers (AssetId, BalanceCommitment, StateCommitment,
// Nullifier, SpendVerificationKey, IdentityKey, Penalty, PositionId,
// AuctionId, NoteCiphertext, MemoCiphertext, SwapCiphertext).
const InnerField Number = 1

// penumbra.core.num.v1.Amount
const (
	AmountLo Number = 1
	AmountHi Number = 2
)

// penumbra.core.asset.v1.Value
const (
	ValueAmount  Number = 1
	ValueAssetID Number = 2
)

// penumbra.core.component.dex.v1.TradingPair
const (
	TradingPairAsset1 Number = 1
	TradingPairAsset2 Number = 2
)

// penumbra.core.component.shielded_pool.v1.SpendBody
const (
	SpendBalanceCommitment Number = 1
	SpendRk                Number = 4
	SpendNullifier         Number = 6
)

// penumbra.core.component.shielded_pool.v1.OutputBody
const (
	OutputNotePayload       Number = 1
	OutputBalanceCommitment Number = 2
	OutputWrappedMemoKey    Number = 3
	OutputOvkWrappedKey     Number = 4
)

// penumbra.core.component.shielded_pool.v1.NotePayload
const (
	NotePayloadNoteCommitment Number = 1
	NotePayloadEphemeralKey   Number = 2
	NotePayloadEncryptedNote  Number = 3
)

// penumbra.core.component.dex.v1.SwapBody
const (
	SwapTradingPair   Number = 1
	SwapDelta1        Number = 2
	SwapDelta2        Number = 3
	SwapFeeCommitment Number = 4
	SwapPayload       Number = 5
)

// penumbra.core.component.dex.v1.SwapPayload
const (
	SwapPayloadCommitment    Number = 1
	SwapPayloadEncryptedSwap Number = 2
)

// penumbra.core.component.stake.v1.UndelegateClaimBody
const (
	UndelegateClaimValidatorIdentity    Number = 1
	UndelegateClaimPenalty              Number = 3
	UndelegateClaimBalanceCommitment    Number = 4
	UndelegateClaimUnbondingStartHeight Number = 5
)

// penumbra.core.component.governance.v1.DelegatorVoteBody
const (
	DelegatorVoteProposal       Number = 1
	DelegatorVoteStartPosition  Number = 2
	DelegatorVoteVote           Number = 3
	DelegatorVoteValue          Number = 4
	DelegatorVoteUnbondedAmount Number = 5
	DelegatorVoteNullifier      Number = 6
	DelegatorVoteRk             Number = 7

	// governance.v1.Vote
	VoteVote Number = 1
)

// penumbra.core.component.dex.v1.PositionWithdraw
const (
	PositionWithdrawPositionID         Number = 1
	PositionWithdrawReservesCommitment Number = 2
	PositionWithdrawSequence           Number = 3
)

// penumbra.core.component.auction.v1.ActionDutchAuctionWithdraw
const (
	AuctionWithdrawAuctionID          Number = 1
	AuctionWithdrawSeq                Number = 2
	AuctionWithdrawReservesCommitment Number = 3
)

// penumbra.core.transaction.v1.DetectionData
const DetectionDataFmdClues Number = 4
