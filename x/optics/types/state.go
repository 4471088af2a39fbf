package types

import "fmt"

// State is the lifecycle of a home or replica instance. FAILED is terminal.
type State uint8

const (
	StateActive State = iota
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Validate returns an error for values outside the enum.
func (s State) Validate() error {
	switch s {
	case StateActive, StateFailed:
		return nil
	default:
		return fmt.Errorf("invalid state %d", uint8(s))
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s State) CanTransitionTo(next State) bool {
	switch s {
	case StateActive:
		return next == StateFailed
	case StateFailed:
		return false
	default:
		return false
	}
}

// MessageStatus is the processing status of a leaf on a replica. It only ever
// moves forward: NONE -> PENDING -> PROCESSED.
type MessageStatus uint8

const (
	MessageStatusNone MessageStatus = iota
	MessageStatusPending
	MessageStatusProcessed
)

func (s MessageStatus) String() string {
	switch s {
	case MessageStatusNone:
		return "NONE"
	case MessageStatusPending:
		return "PENDING"
	case MessageStatusProcessed:
		return "PROCESSED"
	default:
		return fmt.Sprintf("MessageStatus(%d)", uint8(s))
	}
}

// Validate returns an error for values outside the enum.
func (s MessageStatus) Validate() error {
	switch s {
	case MessageStatusNone, MessageStatusPending, MessageStatusProcessed:
		return nil
	default:
		return fmt.Errorf("invalid message status %d", uint8(s))
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s MessageStatus) CanTransitionTo(next MessageStatus) bool {
	switch s {
	case MessageStatusNone:
		return next == MessageStatusPending || next == MessageStatusProcessed
	case MessageStatusPending:
		return next == MessageStatusProcessed
	case MessageStatusProcessed:
		return false
	default:
		return false
	}
}
