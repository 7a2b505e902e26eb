package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors, rejected before any provider call
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrInvalidMode     = errors.New("invalid mode")

	// Proposal errors
	ErrNoPendingProposal = errors.New("no pending proposal")

	// Memory errors
	ErrInvalidMemoryInput = errors.New("invalid memory input")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
	MemoryIDKey  = "memory_id"
	ModeKey      = "mode"
)
