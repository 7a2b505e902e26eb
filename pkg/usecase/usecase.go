package usecase

import (
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/keepsake-lab/keepsake/pkg/domain/model/config"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/m-mizutani/gollem"
)

// UseCases aggregates the dialogue-side use cases around a shared session
// service and repository.
type UseCases struct {
	sessions *session.Service
	profile  *config.Profile
	now      func() time.Time

	Dialogue *DialogueUseCase
	Proposal *ProposalUseCase
	Memory   *MemoryUseCase
}

type Option func(*UseCases)

// WithProfile sets the care profile used by prompts and the safety gate
func WithProfile(profile *config.Profile) Option {
	return func(uc *UseCases) {
		uc.profile = profile
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, llmClient gollem.LLMClient, sessions *session.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		sessions: sessions,
		profile:  config.DefaultProfile(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	// Dates are the user's dates: when the profile names a timezone, the
	// clock is shifted into it before any date label or prompt date is
	// derived from it.
	if loc := uc.profile.Location(); loc != nil {
		base := uc.now
		uc.now = func() time.Time { return base().In(loc) }
	}

	uc.Dialogue = NewDialogueUseCase(sessions, llmClient, uc.profile, uc.now)
	uc.Proposal = NewProposalUseCase(sessions, repo, uc.now)
	uc.Memory = NewMemoryUseCase(repo, uc.now)

	return uc
}

// Sessions exposes the shared session service to the controller layer
func (uc *UseCases) Sessions() *session.Service {
	return uc.sessions
}
