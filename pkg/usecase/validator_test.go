package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
)

func TestValidateTurnResult(t *testing.T) {
	t.Run("accepts well-formed output", func(t *testing.T) {
		raw := `{"assistantSpeech": "That sounds like a lovely day.", "action": "none", "safetyFlag": "none"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal("That sounds like a lovely day.")
		gt.Value(t, result.Action).Equal(types.ActionNone)
		gt.Value(t, result.SafetyFlag).Equal(types.SafetyFlagNone)
		gt.Value(t, result.Memory).Nil()
	})

	t.Run("accepts create_memory with memory payload", func(t *testing.T) {
		raw := `{
			"assistantSpeech": "Shall I save that?",
			"action": "create_memory",
			"memory": {
				"title": "Tea with Maya",
				"description": "Had tea in the garden with Maya",
				"dateLabel": "yesterday",
				"people": ["Maya"],
				"importance": "high"
			}
		}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.Action).Equal(types.ActionCreateMemory)
		gt.Value(t, result.Memory).NotNil()
		gt.Value(t, result.Memory.Title).Equal("Tea with Maya")
		gt.Value(t, result.Memory.DateLabel).Equal(types.DateLabelYesterday)
		gt.Array(t, result.Memory.People).Length(1)
		gt.Value(t, result.Memory.Importance).Equal(types.ImportanceHigh)
	})

	t.Run("strips markdown code fence", func(t *testing.T) {
		raw := "```json\n{\"assistantSpeech\": \"Hello.\", \"action\": \"none\"}\n```"
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal("Hello.")
		gt.Value(t, result.Action).Equal(types.ActionNone)
	})

	t.Run("unparsable output falls back", func(t *testing.T) {
		result := usecase.ValidateTurnResult("I think you should save this memory!")

		gt.Value(t, result.AssistantSpeech).Equal(usecase.FallbackSpeech)
		gt.Value(t, result.Action).Equal(types.ActionNone)
		gt.Value(t, result.SafetyFlag).Equal(types.SafetyFlagNone)
	})

	t.Run("missing speech falls back", func(t *testing.T) {
		raw := `{"assistantSpeech": "   ", "action": "none"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal(usecase.FallbackSpeech)
		gt.Value(t, result.Action).Equal(types.ActionNone)
	})

	t.Run("missing action falls back", func(t *testing.T) {
		raw := `{"assistantSpeech": "Hello."}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal(usecase.FallbackSpeech)
		gt.Value(t, result.Action).Equal(types.ActionNone)
	})

	t.Run("action outside the enum falls back", func(t *testing.T) {
		raw := `{"assistantSpeech": "Deleting everything.", "action": "delete_memory"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal(usecase.FallbackSpeech)
		gt.Value(t, result.Action).Equal(types.ActionNone)
	})

	t.Run("unrecognized safetyFlag normalizes to none", func(t *testing.T) {
		raw := `{"assistantSpeech": "Hello.", "action": "none", "safetyFlag": "panic"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal("Hello.")
		gt.Value(t, result.SafetyFlag).Equal(types.SafetyFlagNone)
	})

	t.Run("recognized distress flag survives", func(t *testing.T) {
		raw := `{"assistantSpeech": "I'm here with you.", "action": "none", "safetyFlag": "distress"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.SafetyFlag).Equal(types.SafetyFlagDistress)
	})

	t.Run("create_memory without payload downgrades to none", func(t *testing.T) {
		raw := `{"assistantSpeech": "Saving it now.", "action": "create_memory"}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.AssistantSpeech).Equal("Saving it now.")
		gt.Value(t, result.Action).Equal(types.ActionNone)
		gt.Value(t, result.Memory).Nil()
	})

	t.Run("create_memory with untitled payload downgrades to none", func(t *testing.T) {
		raw := `{"assistantSpeech": "Saving it now.", "action": "create_memory", "memory": {"title": "  ", "description": "something"}}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.Action).Equal(types.ActionNone)
		gt.Value(t, result.Memory).Nil()
	})

	t.Run("memory block is dropped when action is not create_memory", func(t *testing.T) {
		raw := `{"assistantSpeech": "Let me look.", "action": "recall_memory", "memory": {"title": "Stray", "description": "should not surface"}}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.Action).Equal(types.ActionRecallMemory)
		gt.Value(t, result.Memory).Nil()
	})

	t.Run("unknown importance and dateLabel are normalized", func(t *testing.T) {
		raw := `{"assistantSpeech": "Shall I save that?", "action": "create_memory", "memory": {"title": "Walk", "description": "", "dateLabel": "last spring", "importance": "critical"}}`
		result := usecase.ValidateTurnResult(raw)

		gt.Value(t, result.Action).Equal(types.ActionCreateMemory)
		gt.Value(t, result.Memory.DateLabel).Equal(types.DateLabel(""))
		gt.Value(t, result.Memory.Importance).Equal(types.ImportanceNormal)
	})
}

func TestTrimCodeFence(t *testing.T) {
	gt.Value(t, usecase.TrimCodeFence("{\"a\":1}")).Equal(`{"a":1}`)
	gt.Value(t, usecase.TrimCodeFence("```json\n{\"a\":1}\n```")).Equal(`{"a":1}`)
	gt.Value(t, usecase.TrimCodeFence("```\n{\"a\":1}\n```")).Equal(`{"a":1}`)
	gt.Value(t, usecase.TrimCodeFence("  {\"a\":1}  ")).Equal(`{"a":1}`)
}
