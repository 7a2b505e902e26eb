package usecase_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
)

func TestBuildSystemPrompt(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("includes profile and current date", func(t *testing.T) {
		prompt, err := usecase.BuildSystemPrompt(testProfile(), types.ModeAdd, now)
		gt.NoError(t, err).Required()

		gt.Bool(t, strings.Contains(prompt, "Rose")).True()
		gt.Bool(t, strings.Contains(prompt, "English")).True()
		gt.Bool(t, strings.Contains(prompt, "Tuesday, March 10, 2026")).True()
		gt.Bool(t, strings.Contains(prompt, "Mode: add")).True()
	})

	t.Run("mode rules differ per mode", func(t *testing.T) {
		prompts := map[types.Mode]string{}
		for _, mode := range types.AllModes() {
			prompt, err := usecase.BuildSystemPrompt(testProfile(), mode, now)
			gt.NoError(t, err).Required()
			prompts[mode] = prompt
		}

		gt.Value(t, prompts[types.ModeAdd]).NotEqual(prompts[types.ModeRecall])
		gt.Value(t, prompts[types.ModeRecall]).NotEqual(prompts[types.ModeGround])
		gt.Value(t, prompts[types.ModeGround]).NotEqual(prompts[types.ModeAuto])
	})

	t.Run("nil profile falls back to defaults", func(t *testing.T) {
		prompt, err := usecase.BuildSystemPrompt(nil, types.ModeAuto, now)
		gt.NoError(t, err).Required()
		gt.Bool(t, strings.Contains(prompt, "English")).True()
	})

	t.Run("hard rules are present under every mode", func(t *testing.T) {
		for _, mode := range types.AllModes() {
			prompt, err := usecase.BuildSystemPrompt(testProfile(), mode, now)
			gt.NoError(t, err).Required()
			gt.Bool(t, strings.Contains(prompt, "Never claim a diagnosis")).True()
			gt.Bool(t, strings.Contains(prompt, "Never claim to be human")).True()
		}
	})
}

func TestTurnResponseSchema(t *testing.T) {
	schema := usecase.TurnResponseSchema()

	gt.Value(t, schema.Type).Equal(gollem.TypeObject)

	speech, ok := schema.Properties["assistantSpeech"]
	gt.Bool(t, ok).True()
	gt.Bool(t, speech.Required).True()

	action, ok := schema.Properties["action"]
	gt.Bool(t, ok).True()
	gt.Bool(t, action.Required).True()
	gt.Array(t, action.Enum).Length(len(types.AllActions()))

	memory, ok := schema.Properties["memory"]
	gt.Bool(t, ok).True()
	gt.Value(t, memory.Type).Equal(gollem.TypeObject)
	gt.Bool(t, memory.Properties["title"].Required).True()

	flag, ok := schema.Properties["safetyFlag"]
	gt.Bool(t, ok).True()
	gt.Array(t, flag.Enum).Length(2)
}
