package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Module error codes scoped by ModuleName.
// NOTE: Error code 1 is reserved by cosmos-sdk as internal error / unknown failure
var (
	ErrStaleRoot           = errorsmod.Register(ModuleName, 2, "stale root")
	ErrInvalidSignature    = errorsmod.Register(ModuleName, 3, "invalid signature")
	ErrInvalidDoubleUpdate = errorsmod.Register(ModuleName, 4, "invalid double update")
	ErrChainFailed         = errorsmod.Register(ModuleName, 5, "chain failed")
	ErrAlreadyProcessed    = errorsmod.Register(ModuleName, 6, "message already processed")
	ErrNotPending          = errorsmod.Register(ModuleName, 7, "message not pending")
	ErrInvalidProof        = errorsmod.Register(ModuleName, 8, "invalid merkle proof")
	ErrInvalidDomain       = errorsmod.Register(ModuleName, 9, "invalid domain")
	ErrSequenceOverflow    = errorsmod.Register(ModuleName, 10, "sequence overflow")
	ErrMessageTooLong      = errorsmod.Register(ModuleName, 11, "message body too long")
	ErrTreeFull            = errorsmod.Register(ModuleName, 12, "merkle tree full")
	ErrInvalidMessage      = errorsmod.Register(ModuleName, 13, "invalid message")
	ErrDispatchNotFound    = errorsmod.Register(ModuleName, 14, "dispatch not found")
	ErrUpdateNotFound      = errorsmod.Register(ModuleName, 15, "signed update not found")
	ErrInvalidKey          = errorsmod.Register(ModuleName, 16, "invalid signing key")
)

// ErrorClass groups module errors by how a caller should react to them.
type ErrorClass uint8

const (
	// ErrorClassUnknown is any error not raised by the protocol itself, such
	// as a storage failure.
	ErrorClassUnknown ErrorClass = iota
	// ErrorClassValidation rejects the input without touching state. The
	// caller may retry with corrected input.
	ErrorClassValidation
	// ErrorClassFraud means the instance was halted by a proven double
	// update. It is permanent.
	ErrorClassFraud
	// ErrorClassReplay means the message was already handled or was never
	// proven. The message can not be replayed.
	ErrorClassReplay
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassUnknown:
		return "unknown"
	case ErrorClassValidation:
		return "validation"
	case ErrorClassFraud:
		return "fraud"
	case ErrorClassReplay:
		return "replay"
	default:
		return "invalid"
	}
}

// Retryable reports whether the same operation may succeed with different
// input.
func (c ErrorClass) Retryable() bool {
	switch c {
	case ErrorClassValidation, ErrorClassReplay, ErrorClassUnknown:
		return true
	case ErrorClassFraud:
		return false
	default:
		return false
	}
}

var validationErrors = []error{
	ErrStaleRoot,
	ErrInvalidSignature,
	ErrInvalidDoubleUpdate,
	ErrInvalidProof,
	ErrInvalidDomain,
	ErrSequenceOverflow,
	ErrMessageTooLong,
	ErrTreeFull,
	ErrInvalidMessage,
	ErrDispatchNotFound,
	ErrUpdateNotFound,
	ErrInvalidKey,
}

// ClassifyError maps an error returned by this module to its class.
func ClassifyError(err error) ErrorClass {
	switch {
	case err == nil:
		return ErrorClassUnknown
	case errors.Is(err, ErrChainFailed):
		return ErrorClassFraud
	case errors.Is(err, ErrAlreadyProcessed), errors.Is(err, ErrNotPending):
		return ErrorClassReplay
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ErrorClassValidation
		}
	}
	return ErrorClassUnknown
}
