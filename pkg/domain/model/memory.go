package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
)

// MemoryID is a UUID-based identifier for Memory
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Memory is a persisted memory entry. One only comes into existence through
// an explicit user confirmation of a pending proposal or through the manual
// form; the dialogue engine never writes one directly.
type Memory struct {
	ID          MemoryID
	Title       string
	Description string
	HappenedOn  time.Time // absolute calendar date resolved from the date label
	People      []string
	Importance  types.Importance
	Provenance  types.Provenance
	Transcript  string // raw transcript the memory was confirmed from, if any
	CreatedAt   time.Time
}
