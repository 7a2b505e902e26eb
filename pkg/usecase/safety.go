package usecase

import (
	"strings"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/model/config"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
)

// distressCues is the deterministic local fallback for distress detection.
// The provider's own judgment is the primary detector, but provider failure
// must not lose the safety net, so the gate also scans the transcript
// itself. The list is kept small and literal to limit false positives.
var distressCues = []string{
	"want to die",
	"wanna die",
	"kill myself",
	"hurt myself",
	"end my life",
	"end it all",
	"suicide",
	"not safe",
	"i'm unsafe",
	"i am unsafe",
	"i feel unsafe",
}

// haltCues are explicit stop phrases that end a turn with a brief
// acknowledgment no matter what the selected mode would produce.
var haltCues = []string{
	"stop",
	"leave it",
	"never mind",
	"nevermind",
	"forget it",
	"cancel",
}

func isDistressTranscript(transcript string) bool {
	text := strings.ToLower(transcript)
	for _, cue := range distressCues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

func isHaltTranscript(transcript string) bool {
	text := strings.ToLower(strings.TrimSpace(transcript))
	text = strings.TrimRight(text, ".!")
	for _, cue := range haltCues {
		if text == cue || text == "please "+cue || text == cue+" please" {
			return true
		}
	}
	return false
}

// safetySpeech builds the fixed escalation reply: acknowledgment, the
// statement that this is only a digital assistant that cannot guarantee
// safety, and encouragement to reach a trusted person or emergency services.
func safetySpeech(profile *config.Profile) string {
	var b strings.Builder
	b.WriteString("I hear you, and I'm sorry things feel this hard right now. ")
	b.WriteString("I'm only a digital assistant and I can't keep you safe. ")

	if profile != nil && len(profile.TrustedContacts) > 0 {
		c := profile.TrustedContacts[0]
		b.WriteString("Please reach out to ")
		b.WriteString(c.Name)
		if c.Relation != "" {
			b.WriteString(" (your ")
			b.WriteString(c.Relation)
			b.WriteString(")")
		}
		if c.Phone != "" {
			b.WriteString(" at ")
			b.WriteString(c.Phone)
		}
		b.WriteString(", or call emergency services.")
	} else {
		b.WriteString("Please reach out to someone you trust, or call emergency services.")
	}

	return b.String()
}

// applySafetyGate enforces the hard safety constraints on a structurally
// valid result. When either the provider flagged distress or the transcript
// itself matches a distress cue, the whole result is rewritten: fixed
// escalation speech, action none, safetyFlag distress. The override is
// unconditional; no mode and no provider output can disable it.
func applySafetyGate(result *model.AssistantTurnResult, transcript string, profile *config.Profile) *model.AssistantTurnResult {
	distress := result.SafetyFlag == types.SafetyFlagDistress || isDistressTranscript(transcript)
	if !distress {
		result.SafetyFlag = types.SafetyFlagNone
		return result
	}

	return &model.AssistantTurnResult{
		AssistantSpeech: safetySpeech(profile),
		Action:          types.ActionNone,
		SafetyFlag:      types.SafetyFlagDistress,
	}
}
