package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[model.MemoryID]*model.Memory
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		entries: make(map[model.MemoryID]*model.Memory),
	}
}

func copyMemory(m *model.Memory) *model.Memory {
	copied := *m
	if m.People != nil {
		copied.People = append([]string(nil), m.People...)
	}
	return &copied
}

func (r *memoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyMemory(mem)
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	created.Importance = created.Importance.Normalize()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	// Create with a caller-supplied ID overwrites, which makes a retried
	// confirmation idempotent.
	r.entries[created.ID] = created
	return copyMemory(created), nil
}

func (r *memoryRepository) Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mem, exists := r.entries[memoryID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V("memoryID", memoryID))
	}
	return copyMemory(mem), nil
}

func (r *memoryRepository) Delete(ctx context.Context, memoryID model.MemoryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[memoryID]; !exists {
		return goerr.Wrap(ErrNotFound, "memory not found", goerr.V("memoryID", memoryID))
	}
	delete(r.entries, memoryID)
	return nil
}

func (r *memoryRepository) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Memory, 0, len(r.entries))
	for _, m := range r.entries {
		result = append(result, copyMemory(m))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].HappenedOn.Equal(result[j].HappenedOn) {
			return result[i].HappenedOn.After(result[j].HappenedOn)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
