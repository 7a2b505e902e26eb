package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/repository/memory"
	"github.com/keepsake-lab/keepsake/pkg/service/session"
	"github.com/keepsake-lab/keepsake/pkg/usecase"
)

// flakyRepository fails the first failures Create calls, then delegates
type flakyRepository struct {
	interfaces.Repository
	failures int
	creates  int
}

func (r *flakyRepository) Memory() interfaces.MemoryRepository {
	return &flakyMemoryRepository{parent: r}
}

type flakyMemoryRepository struct {
	parent *flakyRepository
}

func (r *flakyMemoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	r.parent.creates++
	if r.parent.failures > 0 {
		r.parent.failures--
		return nil, goerr.New("store unavailable")
	}
	return r.parent.Repository.Memory().Create(ctx, mem)
}

func (r *flakyMemoryRepository) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	return r.parent.Repository.Memory().Get(ctx, id)
}

func (r *flakyMemoryRepository) Delete(ctx context.Context, id model.MemoryID) error {
	return r.parent.Repository.Memory().Delete(ctx, id)
}

func (r *flakyMemoryRepository) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	return r.parent.Repository.Memory().List(ctx, limit)
}

func newProposalFixture(t *testing.T, repo interfaces.Repository) (*usecase.UseCases, model.SessionID) {
	t.Helper()

	sessions := session.New()
	uc := usecase.New(repo, respondWith(createMemoryReply), sessions,
		usecase.WithProfile(testProfile()),
		usecase.WithClock(func() time.Time {
			return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		}),
	)

	snap := sessions.Create(types.ModeAdd)
	_, err := uc.Dialogue.RunTurn(context.Background(), snap.ID, "yesterday Maya and I had tea", types.MessageSourceVoice)
	gt.NoError(t, err).Required()

	return uc, snap.ID
}

func TestProposalCurrent(t *testing.T) {
	uc, sessionID := newProposalFixture(t, memory.New())
	ctx := context.Background()

	proposal, err := uc.Proposal.Current(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Value(t, proposal.Memory.Title).Equal("Tea with Maya")
}

func TestProposalConfirm(t *testing.T) {
	repo := memory.New()
	uc, sessionID := newProposalFixture(t, repo)
	ctx := context.Background()

	created, err := uc.Proposal.Confirm(ctx, sessionID)
	gt.NoError(t, err).Required()

	gt.Value(t, created.Title).Equal("Tea with Maya")
	gt.Value(t, created.Provenance).Equal(types.ProvenanceVoice)
	gt.Value(t, created.Transcript).Equal("yesterday Maya and I had tea")
	gt.Value(t, created.Importance).Equal(types.ImportanceHigh)

	// "yesterday" resolved against the fixed clock
	gt.Value(t, created.HappenedOn).Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))

	// exactly one mutation happened
	all, err := repo.Memory().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(1)

	// the proposal is cleared; a second confirm has nothing to act on
	_, err = uc.Proposal.Confirm(ctx, sessionID)
	gt.Bool(t, errors.Is(err, usecase.ErrNoPendingProposal)).True()
}

func TestProposalDismiss(t *testing.T) {
	repo := memory.New()
	uc, sessionID := newProposalFixture(t, repo)
	ctx := context.Background()

	gt.NoError(t, uc.Proposal.Dismiss(ctx, sessionID))

	// no mutation at all
	all, err := repo.Memory().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(0)

	_, err = uc.Proposal.Current(ctx, sessionID)
	gt.Bool(t, errors.Is(err, usecase.ErrNoPendingProposal)).True()

	gt.Bool(t, errors.Is(uc.Proposal.Dismiss(ctx, sessionID), usecase.ErrNoPendingProposal)).True()
}

func TestProposalConfirmStoreFailureKeepsProposal(t *testing.T) {
	repo := &flakyRepository{Repository: memory.New(), failures: 1}
	uc, sessionID := newProposalFixture(t, repo)
	ctx := context.Background()

	_, err := uc.Proposal.Confirm(ctx, sessionID)
	gt.Value(t, err).NotNil()

	// the proposal survives the failure so the user can retry
	proposal, err := uc.Proposal.Current(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Value(t, proposal.Memory.Title).Equal("Tea with Maya")

	// the retry reuses the staged identity, so no duplicate is possible
	created, err := uc.Proposal.Confirm(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).Equal(proposal.MemoryID)

	all, err := repo.Memory().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(1)
	gt.Value(t, repo.creates).Equal(2)
}

func TestProposalUnknownSession(t *testing.T) {
	uc, _ := newProposalFixture(t, memory.New())

	_, err := uc.Proposal.Current(context.Background(), model.NewSessionID())
	gt.Bool(t, errors.Is(err, session.ErrNotFound)).True()
}
