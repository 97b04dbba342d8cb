// Package errcode defines the closed error taxonomy shared by every layer of
// the signing core.
//
// Every fallible operation reports exactly one Code. Codes are stable numeric
// values: the boundary layer (pkg/ffi) returns them to callers unmodified, so
// the order below is part of the external contract and must never change.
package errcode

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is a numeric status returned across the boundary.
type Code uint32

const (
	Ok Code = iota

	// Generic errors
	NoData
	InitContextEmpty
	DisplayIdxOutOfRange
	DisplayPageOutOfRange
	UnexpectedError

	// Method/Version related
	UnexpectedMethod
	UnexpectedVersion
	UnexpectedCharacters

	// Field related
	DuplicatedField
	MissingField
	UnexpectedField

	// Transaction related
	UnknownTransaction
	InvalidTransactionType

	// Plan related
	SpendPlanError
	OutputPlanError
	DelegatePlanError
	UndelegatePlanError
	Ics20WithdrawalPlanError
	SwapPlanError
	ParameterHashError
	EffectHashError
	UndelegateClaimPlanError
	DelegatorVotePlanError
	PositionClosePlanError
	PositionOpenPlanError
	PositionWithdrawPlanError
	DutchAuctionSchedulePlanError
	DutchAuctionEndPlanError
	DutchAuctionWithdrawPlanError

	// Chain related
	InvalidChainId
	UnexpectedChain

	// Cryptographic and key-related errors
	InvalidHashMode
	InvalidSignature
	InvalidPubkeyEncoding
	InvalidAddressVersion
	InvalidAddressLength
	InvalidTypeId
	InvalidCodec
	InvalidThreshold
	InvalidNetworkId
	InvalidAsciiValue
	InvalidTimestamp
	InvalidStakingAmount
	UnexpectedType
	OperationOverflows
	UnexpectedBufferEnd
	UnexpectedNumberItems
	ValueOutOfRange
	InvalidAddress
	InvalidPath
	InvalidLength
	TooManyOutputs
	UnexpectedData
	InvalidClueKey
	InvalidTxKey
	InvalidFq
	InvalidDetectionKey
	InvalidFvk
	InvalidIvk
	InvalidKeyLen
	InvalidActionType
	InvalidPrecision
	PrecisionTooLarge
	ClueCreationFailed
	InvalidAssetId
	DetectionDataOverflow
	ActionsOverflow
	InvalidMetadata
	InvalidSignatureLen
	Overflow
	NonIntegral
	UnexpectedValue
	InvalidUtf8
	EncryptionError
	ActionDecodeError
	CluePlanDecodeError
)

var codeNames = [...]string{
	Ok:                            "ok",
	NoData:                        "no data",
	InitContextEmpty:              "init context empty",
	DisplayIdxOutOfRange:          "display index out of range",
	DisplayPageOutOfRange:         "display page out of range",
	UnexpectedError:               "unexpected error",
	UnexpectedMethod:              "unexpected method",
	UnexpectedVersion:             "unexpected version",
	UnexpectedCharacters:          "unexpected characters",
	DuplicatedField:               "duplicated field",
	MissingField:                  "missing field",
	UnexpectedField:               "unexpected field",
	UnknownTransaction:            "unknown transaction",
	InvalidTransactionType:        "invalid transaction type",
	SpendPlanError:                "spend plan error",
	OutputPlanError:               "output plan error",
	DelegatePlanError:             "delegate plan error",
	UndelegatePlanError:           "undelegate plan error",
	Ics20WithdrawalPlanError:      "ics20 withdrawal plan error",
	SwapPlanError:                 "swap plan error",
	ParameterHashError:            "parameter hash error",
	EffectHashError:               "effect hash error",
	UndelegateClaimPlanError:      "undelegate claim plan error",
	DelegatorVotePlanError:        "delegator vote plan error",
	PositionClosePlanError:        "position close plan error",
	PositionOpenPlanError:         "position open plan error",
	PositionWithdrawPlanError:     "position withdraw plan error",
	DutchAuctionSchedulePlanError: "dutch auction schedule plan error",
	DutchAuctionEndPlanError:      "dutch auction end plan error",
	DutchAuctionWithdrawPlanError: "dutch auction withdraw plan error",
	InvalidChainId:                "invalid chain id",
	UnexpectedChain:               "unexpected chain",
	InvalidHashMode:               "invalid hash mode",
	InvalidSignature:              "invalid signature",
	InvalidPubkeyEncoding:         "invalid public key encoding",
	InvalidAddressVersion:         "invalid address version",
	InvalidAddressLength:          "invalid address length",
	InvalidTypeId:                 "invalid type id",
	InvalidCodec:                  "invalid codec",
	InvalidThreshold:              "invalid threshold",
	InvalidNetworkId:              "invalid network id",
	InvalidAsciiValue:             "invalid ascii value",
	InvalidTimestamp:              "invalid timestamp",
	InvalidStakingAmount:          "invalid staking amount",
	UnexpectedType:                "unexpected type",
	OperationOverflows:            "operation overflows",
	UnexpectedBufferEnd:           "unexpected buffer end",
	UnexpectedNumberItems:         "unexpected number of items",
	ValueOutOfRange:               "value out of range",
	InvalidAddress:                "invalid address",
	InvalidPath:                   "invalid path",
	InvalidLength:                 "invalid length",
	TooManyOutputs:                "too many outputs",
	UnexpectedData:                "unexpected data",
	InvalidClueKey:                "invalid clue key",
	InvalidTxKey:                  "invalid transmission key",
	InvalidFq:                     "invalid base field element",
	InvalidDetectionKey:           "invalid detection key",
	InvalidFvk:                    "invalid full viewing key",
	InvalidIvk:                    "invalid incoming viewing key",
	InvalidKeyLen:                 "invalid key length",
	InvalidActionType:             "invalid action type",
	InvalidPrecision:              "invalid precision",
	PrecisionTooLarge:             "precision too large",
	ClueCreationFailed:            "clue creation failed",
	InvalidAssetId:                "invalid asset id",
	DetectionDataOverflow:         "detection data overflow",
	ActionsOverflow:               "actions overflow",
	InvalidMetadata:               "invalid metadata",
	InvalidSignatureLen:           "invalid signature length",
	Overflow:                      "overflow",
	NonIntegral:                   "non integral",
	UnexpectedValue:               "unexpected value",
	InvalidUtf8:                   "invalid utf8",
	EncryptionError:               "encryption error",
	ActionDecodeError:             "action decode error",
	CluePlanDecodeError:           "clue plan decode error",
}

// String returns the human readable name of the code.
func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint32(c))
}

// Error makes Code usable as a plain error value.
func (c Code) Error() string {
	return c.String()
}

// Error attaches a message and an optional cause to a Code.
//
// Used where an operation wants to say which step failed without losing the
// numeric code (e.g. a spend plan whose note failed to decode).
type Error struct {
	Code    Code   // Status reported across the boundary
	Message string // Fixed diagnostic text, never secret material
	Cause   error  // Underlying error (if any)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error for code with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an *Error for code around cause.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// FromError recovers the status code carried by err.
//
// The outermost *Error wins, so a plan layer can re-label a lower level
// failure (e.g. InvalidFq inside a spend becomes SpendPlanError). Bare Code
// values found through pkg/errors causes are reported as is. Anything else is
// UnexpectedError.
func FromError(err error) Code {
	if err == nil {
		return Ok
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Code
	}
	var code Code
	if errors.As(errors.Cause(err), &code) {
		return code
	}
	if errors.As(err, &code) {
		return code
	}
	return UnexpectedError
}
