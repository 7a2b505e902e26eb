package model

import (
	"strings"

	"github.com/keepsake-lab/keepsake/pkg/domain/types"
)

// SuggestedMemory is candidate content for a not-yet-persisted memory. It is
// not a Memory: it has no identity and no creation time, and exists only to
// be shown to the user for confirmation.
type SuggestedMemory struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DateLabel   types.DateLabel  `json:"dateLabel,omitempty"`
	People      []string         `json:"people,omitempty"`
	Importance  types.Importance `json:"importance,omitempty"`
}

// IsWellFormed reports whether the suggestion carries enough content to be
// staged as a proposal. A title is the minimum.
func (m *SuggestedMemory) IsWellFormed() bool {
	return m != nil && strings.TrimSpace(m.Title) != ""
}

// AssistantTurnResult is the normalized output of one dialogue turn. The
// memory block is present if and only if Action is ActionCreateMemory.
type AssistantTurnResult struct {
	AssistantSpeech string           `json:"assistantSpeech"`
	Action          types.Action     `json:"action"`
	Memory          *SuggestedMemory `json:"memory,omitempty"`
	SafetyFlag      types.SafetyFlag `json:"safetyFlag,omitempty"`
}
