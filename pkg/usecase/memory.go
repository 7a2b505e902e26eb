package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// MemoryUseCase covers the manual-form path into the store and the
// timeline listing. It shares the store surface with ProposalUseCase but
// not the two-phase flow: a manual entry is its own confirmation.
type MemoryUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

// NewMemoryUseCase creates a new MemoryUseCase
func NewMemoryUseCase(repo interfaces.Repository, now func() time.Time) *MemoryUseCase {
	if now == nil {
		now = time.Now
	}
	return &MemoryUseCase{repo: repo, now: now}
}

// ManualMemoryInput is the manual form's payload
type ManualMemoryInput struct {
	Title       string
	Description string
	DateLabel   types.DateLabel
	People      []string
	Importance  types.Importance
}

// CreateManual persists a memory entered through the manual form
func (uc *MemoryUseCase) CreateManual(ctx context.Context, input ManualMemoryInput) (*model.Memory, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, goerr.Wrap(ErrInvalidMemoryInput, "title is required")
	}

	mem := &model.Memory{
		ID:          model.NewMemoryID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		HappenedOn:  input.DateLabel.Resolve(uc.now()),
		People:      input.People,
		Importance:  input.Importance.Normalize(),
		Provenance:  types.ProvenanceManual,
	}

	created, err := uc.repo.Memory().Create(ctx, mem)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist manual memory")
	}
	return created, nil
}

// List returns persisted memories, newest happened-on first
func (uc *MemoryUseCase) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	memories, err := uc.repo.Memory().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories")
	}
	return memories, nil
}

// Get returns a single memory by ID
func (uc *MemoryUseCase) Get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	mem, err := uc.repo.Memory().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(MemoryIDKey, id))
	}
	return mem, nil
}
