package memory_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/keepsake-lab/keepsake/pkg/repository/firestore"
	"github.com/keepsake-lab/keepsake/pkg/repository/memory"
)

func newMemory(title string, happenedOn time.Time) *model.Memory {
	return &model.Memory{
		ID:          model.NewMemoryID(),
		Title:       title,
		Description: "a quiet afternoon",
		HappenedOn:  happenedOn,
		People:      []string{"Maya"},
		Importance:  types.ImportanceNormal,
		Provenance:  types.ProvenanceVoice,
		Transcript:  "we had tea in the garden with Maya",
	}
}

func runMemoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	day := func(offset int) time.Time {
		return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	t.Run("Create persists and fills CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newMemory("Tea in the garden", day(0))
		created, err := repo.Memory().Create(ctx, mem)
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).Equal(mem.ID)
		gt.Value(t, created.Title).Equal("Tea in the garden")
		gt.Value(t, created.Provenance).Equal(types.ProvenanceVoice)
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Get retrieves existing memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newMemory("Walk by the river", day(-1))
		created, err := repo.Memory().Create(ctx, mem)
		gt.NoError(t, err).Required()

		retrieved, err := repo.Memory().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, retrieved.ID).Equal(created.ID)
		gt.Value(t, retrieved.Title).Equal("Walk by the river")
		gt.Value(t, retrieved.Description).Equal("a quiet afternoon")
		gt.Array(t, retrieved.People).Length(1)
		gt.Value(t, retrieved.Transcript).Equal("we had tea in the garden with Maya")
		gt.Bool(t, retrieved.HappenedOn.Equal(day(-1))).True()
	})

	t.Run("Get returns error for non-existent memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Memory().Get(ctx, model.NewMemoryID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)).True()
	})

	t.Run("Create with same ID overwrites", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newMemory("First attempt", day(0))
		_, err := repo.Memory().Create(ctx, mem)
		gt.NoError(t, err).Required()

		retry := *mem
		retry.Title = "Second attempt"
		_, err = repo.Memory().Create(ctx, &retry)
		gt.NoError(t, err).Required()

		retrieved, err := repo.Memory().Get(ctx, mem.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Title).Equal("Second attempt")

		all, err := repo.Memory().List(ctx, 0)
		gt.NoError(t, err).Required()
		count := 0
		for _, m := range all {
			if m.ID == mem.ID {
				count++
			}
		}
		gt.Value(t, count).Equal(1)
	})

	t.Run("Delete removes memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		mem := newMemory("To be removed", day(0))
		_, err := repo.Memory().Create(ctx, mem)
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Memory().Delete(ctx, mem.ID))

		_, err = repo.Memory().Get(ctx, mem.ID)
		gt.Value(t, err).NotNil()
	})

	t.Run("List orders by HappenedOn descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 4; i++ {
			mem := newMemory(fmt.Sprintf("entry %d", i), day(-i))
			_, err := repo.Memory().Create(ctx, mem)
			gt.NoError(t, err).Required()
		}

		all, err := repo.Memory().List(ctx, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(4)
		for i := 1; i < len(all); i++ {
			gt.Bool(t, all[i].HappenedOn.After(all[i-1].HappenedOn)).False()
		}
	})

	t.Run("List respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			mem := newMemory(fmt.Sprintf("entry %d", i), day(-i))
			_, err := repo.Memory().Create(ctx, mem)
			gt.NoError(t, err).Required()
		}

		limited, err := repo.Memory().List(ctx, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(2)
		gt.Value(t, limited[0].Title).Equal("entry 0")
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID,
		firestore.WithCollectionPrefix(fmt.Sprintf("test_%d_", time.Now().UnixNano())))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryRepository(t *testing.T) {
	runMemoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRepository(t *testing.T) {
	runMemoryRepositoryTest(t, newFirestoreRepository)
}
