package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/model/config"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// haltSpeech acknowledges an explicit stop cue
const haltSpeech = "Okay, leaving it there."

// faultedSpeech is emitted when the completion provider failed outright.
// The user always sees some response rather than a broken state.
const faultedSpeech = "Sorry, I'm having trouble thinking right now. Let's try again in a moment."

// DialogueUseCase is the dialogue engine: one call to RunTurn is one full
// traversal of the turn state machine. The engine holds no state of its own
// across turns; mode and the pending proposal live in the session.
type DialogueUseCase struct {
	sessions  *session.Service
	llmClient gollem.LLMClient
	profile   *config.Profile
	now       func() time.Time
}

// NewDialogueUseCase creates a new DialogueUseCase
func NewDialogueUseCase(sessions *session.Service, llmClient gollem.LLMClient, profile *config.Profile, now func() time.Time) *DialogueUseCase {
	if now == nil {
		now = time.Now
	}
	return &DialogueUseCase{
		sessions:  sessions,
		llmClient: llmClient,
		profile:   profile,
		now:       now,
	}
}

// RunTurn processes one dialogue turn. Input errors (blank transcript after
// snapshotting, a turn already in flight, unknown session) are returned as
// errors before any provider call. Provider and schema failures are not
// errors: they resolve to fallback results so a turn always ends Validated
// or Faulted with a usable AssistantTurnResult.
func (uc *DialogueUseCase) RunTurn(ctx context.Context, sessionID model.SessionID, transcript string, source types.MessageSource) (*model.AssistantTurnResult, error) {
	in, err := uc.sessions.BeginTurn(sessionID, transcript, source)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Transcript) == "" {
		uc.sessions.AbortTurn(sessionID)
		return nil, goerr.Wrap(ErrEmptyTranscript, "nothing to submit", goerr.V(SessionIDKey, sessionID))
	}

	result := uc.decide(ctx, in)

	userMsg := model.ConversationMessage{
		Role:      types.RoleUser,
		Content:   in.Transcript,
		Source:    in.Source,
		CreatedAt: uc.now(),
	}
	assistantMsg := model.ConversationMessage{
		Role:      types.RoleAssistant,
		Content:   result.AssistantSpeech,
		CreatedAt: uc.now(),
	}

	var proposal *model.PendingProposal
	if result.Action == types.ActionCreateMemory {
		proposal = &model.PendingProposal{
			MemoryID:   model.NewMemoryID(),
			Memory:     *result.Memory,
			Transcript: in.Transcript,
			Source:     in.Source,
			ProposedAt: uc.now(),
		}
	}

	if _, err := uc.sessions.EndTurn(sessionID, userMsg, assistantMsg, proposal); err != nil {
		return nil, goerr.Wrap(err, "failed to commit turn", goerr.V(SessionIDKey, sessionID))
	}

	return result, nil
}

// decide runs prompt → provider → validator → safety gate for one snapshot.
// It is total: every path ends in a well-formed result.
func (uc *DialogueUseCase) decide(ctx context.Context, in session.TurnInput) *model.AssistantTurnResult {
	// The stop rule is enforced locally, not just stated in the prompt:
	// an explicit halt cue never reaches the provider.
	if isHaltTranscript(in.Transcript) {
		result := &model.AssistantTurnResult{
			AssistantSpeech: haltSpeech,
			Action:          types.ActionNone,
			SafetyFlag:      types.SafetyFlagNone,
		}
		return applySafetyGate(result, in.Transcript, uc.profile)
	}

	raw, err := uc.complete(ctx, in)
	if err != nil {
		// ProviderError: no retry, neutral fallback. The safety gate still
		// runs so a distress transcript keeps its escalation even when the
		// provider is down.
		logging.From(ctx).Error("completion provider failed",
			"mode", in.Mode,
			"error", err.Error(),
		)
		faulted := &model.AssistantTurnResult{
			AssistantSpeech: faultedSpeech,
			Action:          types.ActionNone,
			SafetyFlag:      types.SafetyFlagNone,
		}
		return applySafetyGate(faulted, in.Transcript, uc.profile)
	}

	result := validateTurnResult(raw)
	return applySafetyGate(result, in.Transcript, uc.profile)
}

// complete performs the single external completion call for a turn
func (uc *DialogueUseCase) complete(ctx context.Context, in session.TurnInput) (string, error) {
	systemPrompt, err := buildSystemPrompt(uc.profile, in.Mode, uc.now())
	if err != nil {
		return "", err
	}

	llmSession, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(turnResponseSchema()),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create provider session")
	}

	resp, err := llmSession.GenerateContent(ctx, gollem.Text(in.Transcript))
	if err != nil {
		return "", goerr.Wrap(err, "completion request failed")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("completion returned no content")
	}

	return strings.Join(resp.Texts, ""), nil
}
