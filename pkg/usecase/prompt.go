package usecase

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/model/config"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/system.md
var systemPromptTmpl string

//go:embed prompt/add.md
var addModeRules string

//go:embed prompt/recall.md
var recallModeRules string

//go:embed prompt/ground.md
var groundModeRules string

//go:embed prompt/auto.md
var autoModeRules string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// systemPromptData holds all data for the system prompt template
type systemPromptData struct {
	DisplayName string
	Language    string
	CurrentDate string
	Mode        string
	ModeRules   string
}

func modeRules(mode types.Mode) string {
	switch mode {
	case types.ModeAdd:
		return addModeRules
	case types.ModeRecall:
		return recallModeRules
	case types.ModeGround:
		return groundModeRules
	default:
		return autoModeRules
	}
}

// buildSystemPrompt renders the instruction set for one turn: the global
// rules layered under the selected mode's rules. The instructions are
// advisory to the provider; the validator and the safety gate re-check
// everything they promise.
func buildSystemPrompt(profile *config.Profile, mode types.Mode, now time.Time) (string, error) {
	if profile == nil {
		profile = config.DefaultProfile()
	}

	data := systemPromptData{
		DisplayName: profile.DisplayName,
		Language:    profile.Language,
		CurrentDate: now.Format("Monday, January 2, 2006"),
		Mode:        mode.String(),
		ModeRules:   modeRules(mode),
	}

	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute system prompt template")
	}

	return buf.String(), nil
}

// turnResponseSchema is the strict output contract sent to the provider.
// It mirrors model.AssistantTurnResult.
func turnResponseSchema() *gollem.Parameter {
	dateLabels := make([]string, 0, len(types.AllDateLabels()))
	for _, l := range types.AllDateLabels() {
		dateLabels = append(dateLabels, l.String())
	}
	importances := make([]string, 0, len(types.AllImportances()))
	for _, i := range types.AllImportances() {
		importances = append(importances, i.String())
	}
	actions := make([]string, 0, len(types.AllActions()))
	for _, a := range types.AllActions() {
		actions = append(actions, a.String())
	}

	return &gollem.Parameter{
		Title:       "AssistantTurnResult",
		Description: "Decision for one dialogue turn",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"assistantSpeech": {
				Type:        gollem.TypeString,
				Description: "Short spoken reply to the user. One or two sentences, plain text, no markdown.",
				Required:    true,
			},
			"action": {
				Type:        gollem.TypeString,
				Description: "What the system should do after this turn.",
				Enum:        actions,
				Required:    true,
			},
			"memory": {
				Type:        gollem.TypeObject,
				Description: "Candidate memory to propose for saving. Present exactly when action is create_memory.",
				Properties: map[string]*gollem.Parameter{
					"title": {
						Type:        gollem.TypeString,
						Description: "Short, concrete title for the memory.",
						Required:    true,
					},
					"description": {
						Type:        gollem.TypeString,
						Description: "Fuller description in the speaker's own words.",
						Required:    true,
					},
					"dateLabel": {
						Type:        gollem.TypeString,
						Description: "When it happened, if stated or implied.",
						Enum:        dateLabels,
					},
					"people": {
						Type:        gollem.TypeArray,
						Description: "Names of people mentioned, in order of mention.",
						Items:       &gollem.Parameter{Type: gollem.TypeString},
					},
					"importance": {
						Type:        gollem.TypeString,
						Description: "How much weight the speaker gives this memory.",
						Enum:        importances,
					},
				},
			},
			"safetyFlag": {
				Type:        gollem.TypeString,
				Description: "Set to distress only when the utterance indicates self-harm, wanting to die, or being unsafe.",
				Enum:        []string{types.SafetyFlagNone.String(), types.SafetyFlagDistress.String()},
			},
		},
	}
}
