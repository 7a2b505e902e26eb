package interfaces

import (
	"context"

	"github.com/keepsake-lab/keepsake/pkg/domain/model"
)

// MemoryRepository defines the interface for Memory data persistence.
// Create is idempotent on retry in the sense that the caller supplies the
// MemoryID: retrying a failed confirmation with the same ID overwrites
// rather than duplicates.
type MemoryRepository interface {
	// Create persists a new memory entry
	Create(ctx context.Context, memory *model.Memory) (*model.Memory, error)

	// Get retrieves a memory entry by ID
	Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error)

	// Delete deletes a memory entry by ID
	Delete(ctx context.Context, memoryID model.MemoryID) error

	// List retrieves memory entries ordered by HappenedOn descending,
	// CreatedAt descending within a day. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*model.Memory, error)
}
