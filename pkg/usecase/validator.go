package usecase

import (
	"encoding/json"
	"strings"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
)

// fallbackSpeech is the safe default reply emitted whenever provider output
// cannot be used: unparsable JSON, missing required fields, or an action
// outside the closed enum.
const fallbackSpeech = "Sorry, I didn't catch that. Could you say it again?"

// fallbackResult returns the safe default turn result. The provider is an
// untrusted text source; any output that cannot be normalized collapses to
// this, never to raw or partial data.
func fallbackResult() *model.AssistantTurnResult {
	return &model.AssistantTurnResult{
		AssistantSpeech: fallbackSpeech,
		Action:          types.ActionNone,
		SafetyFlag:      types.SafetyFlagNone,
	}
}

// rawTurnResult is the loosely-typed decode target for provider output.
// Every field is re-validated before it reaches a caller.
type rawTurnResult struct {
	AssistantSpeech string              `json:"assistantSpeech"`
	Action          string              `json:"action"`
	Memory          *rawSuggestedMemory `json:"memory"`
	SafetyFlag      string              `json:"safetyFlag"`
}

type rawSuggestedMemory struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DateLabel   string   `json:"dateLabel"`
	People      []string `json:"people"`
	Importance  string   `json:"importance"`
}

// validateTurnResult normalizes one provider completion into a well-formed
// AssistantTurnResult. It is total: it never returns nil and never fails.
func validateTurnResult(raw string) *model.AssistantTurnResult {
	text := trimCodeFence(raw)

	var decoded rawTurnResult
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return fallbackResult()
	}

	speech := strings.TrimSpace(decoded.AssistantSpeech)
	if speech == "" {
		return fallbackResult()
	}

	action, err := types.ParseAction(decoded.Action)
	if err != nil {
		return fallbackResult()
	}

	result := &model.AssistantTurnResult{
		AssistantSpeech: speech,
		Action:          action,
		// Fail-closed: an unrecognized flag value is none, only an exact
		// distress signal elevates risk handling.
		SafetyFlag: types.SafetyFlag(decoded.SafetyFlag).Normalize(),
	}

	if action == types.ActionCreateMemory {
		mem := normalizeSuggestedMemory(decoded.Memory)
		if mem == nil {
			// create_memory without a usable payload would be a dangling
			// proposal; downgrade instead of surfacing it.
			result.Action = types.ActionNone
			return result
		}
		result.Memory = mem
	}

	// Memory blocks never accompany any other action.
	return result
}

func normalizeSuggestedMemory(raw *rawSuggestedMemory) *model.SuggestedMemory {
	if raw == nil {
		return nil
	}

	mem := &model.SuggestedMemory{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		People:      raw.People,
		Importance:  types.Importance(raw.Importance).Normalize(),
	}
	if label := types.DateLabel(strings.ToLower(strings.TrimSpace(raw.DateLabel))); label.IsValid() {
		mem.DateLabel = label
	}
	if !mem.IsWellFormed() {
		return nil
	}
	return mem
}

// trimCodeFence strips a markdown code fence some providers wrap JSON in
// despite instructions.
func trimCodeFence(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
