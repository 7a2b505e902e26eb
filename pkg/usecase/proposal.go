package usecase

import (
	"context"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ProposalUseCase drives the confirm/dismiss half of the two-phase flow.
// It is the only dialogue-side code path that calls the store mutation.
type ProposalUseCase struct {
	sessions *session.Service
	repo     interfaces.Repository
	now      func() time.Time
}

// NewProposalUseCase creates a new ProposalUseCase
func NewProposalUseCase(sessions *session.Service, repo interfaces.Repository, now func() time.Time) *ProposalUseCase {
	if now == nil {
		now = time.Now
	}
	return &ProposalUseCase{
		sessions: sessions,
		repo:     repo,
		now:      now,
	}
}

// Current returns the pending proposal for the session, or
// ErrNoPendingProposal when none is staged.
func (uc *ProposalUseCase) Current(ctx context.Context, sessionID model.SessionID) (*model.PendingProposal, error) {
	proposal, err := uc.sessions.Proposal(sessionID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, goerr.Wrap(ErrNoPendingProposal, "nothing staged", goerr.V(SessionIDKey, sessionID))
	}
	return proposal, nil
}

// Confirm turns the pending proposal into exactly one persisted memory. The
// date label is resolved to an absolute date here, at confirmation time.
// On a store failure the proposal is kept so the user can retry without
// re-describing the memory; the proposal is cleared only after the mutation
// succeeded.
func (uc *ProposalUseCase) Confirm(ctx context.Context, sessionID model.SessionID) (*model.Memory, error) {
	proposal, err := uc.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mem := &model.Memory{
		ID:          proposal.MemoryID,
		Title:       proposal.Memory.Title,
		Description: proposal.Memory.Description,
		HappenedOn:  proposal.Memory.DateLabel.Resolve(uc.now()),
		People:      proposal.Memory.People,
		Importance:  proposal.Memory.Importance.Normalize(),
		Provenance:  types.ProvenanceVoice,
		Transcript:  proposal.Transcript,
	}

	created, err := uc.repo.Memory().Create(ctx, mem)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist confirmed memory",
			goerr.V(SessionIDKey, sessionID),
			goerr.V(MemoryIDKey, proposal.MemoryID),
		)
	}

	if err := uc.sessions.ClearProposal(sessionID); err != nil {
		// The memory is saved; a stale proposal is the lesser problem.
		logging.From(ctx).Warn("memory saved but proposal not cleared",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}

	return created, nil
}

// Dismiss discards the pending proposal without any store mutation
func (uc *ProposalUseCase) Dismiss(ctx context.Context, sessionID model.SessionID) error {
	if _, err := uc.Current(ctx, sessionID); err != nil {
		return err
	}
	return uc.sessions.ClearProposal(sessionID)
}
