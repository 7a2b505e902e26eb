package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
)

// SessionID is a UUID-based identifier for a conversation session
type SessionID string

// NewSessionID generates a new UUID v7 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// ConversationMessage is one entry of the append-only conversation log.
// Messages are immutable once appended; the log only grows or is cleared
// wholesale with its session.
type ConversationMessage struct {
	Seq       int                 `json:"seq"`
	Role      types.Role          `json:"role"`
	Content   string              `json:"content"`
	Source    types.MessageSource `json:"source,omitempty"`
	MemoryIDs []MemoryID          `json:"memoryIds,omitempty"` // memories used to ground an answer
	CreatedAt time.Time           `json:"createdAt"`
}

// PendingProposal stages at most one SuggestedMemory for user review. It is
// owned by the conversation session, replaced whenever a later turn proposes
// another memory, and cleared on confirm or dismiss. It never expires on its
// own while the session lives.
type PendingProposal struct {
	// MemoryID is assigned when the proposal is staged so that retrying a
	// failed confirmation reuses the same identity instead of duplicating
	// the memory.
	MemoryID   MemoryID            `json:"memoryId"`
	Memory     SuggestedMemory     `json:"memory"`
	Transcript string              `json:"transcript"` // utterance the suggestion came from
	Source     types.MessageSource `json:"source"`
	ProposedAt time.Time           `json:"proposedAt"`
}
