package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/keepsake-lab/keepsake/pkg/domain/model"
	"github.com/keepsake-lab/keepsake/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// memoryDoc is the Firestore document representation of model.Memory
type memoryDoc struct {
	ID          model.MemoryID   `firestore:"id"`
	Title       string           `firestore:"title"`
	Description string           `firestore:"description"`
	HappenedOn  time.Time        `firestore:"happened_on"`
	People      []string         `firestore:"people,omitempty"`
	Importance  types.Importance `firestore:"importance"`
	Provenance  types.Provenance `firestore:"provenance"`
	Transcript  string           `firestore:"transcript,omitempty"`
	CreatedAt   time.Time        `firestore:"created_at"`
}

func toMemoryDoc(m *model.Memory) *memoryDoc {
	return &memoryDoc{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		HappenedOn:  m.HappenedOn,
		People:      m.People,
		Importance:  m.Importance,
		Provenance:  m.Provenance,
		Transcript:  m.Transcript,
		CreatedAt:   m.CreatedAt,
	}
}

func fromMemoryDoc(d *memoryDoc) *model.Memory {
	return &model.Memory{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		HappenedOn:  d.HappenedOn,
		People:      d.People,
		Importance:  d.Importance,
		Provenance:  d.Provenance,
		Transcript:  d.Transcript,
		CreatedAt:   d.CreatedAt,
	}
}

type memoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryRepository(client *firestore.Client) *memoryRepository {
	return &memoryRepository{client: client}
}

func (r *memoryRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "memories")
}

func (r *memoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	created := *mem
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	created.Importance = created.Importance.Normalize()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	// Set on a fixed document ID: retrying a confirmation with the same
	// MemoryID overwrites instead of duplicating.
	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toMemoryDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory", goerr.V("memoryID", created.ID))
	}

	return &created, nil
}

func (r *memoryRepository) Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error) {
	doc, err := r.collection().Doc(string(memoryID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V("memoryID", memoryID))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V("memoryID", memoryID))
	}

	var d memoryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V("memoryID", memoryID))
	}
	return fromMemoryDoc(&d), nil
}

func (r *memoryRepository) Delete(ctx context.Context, memoryID model.MemoryID) error {
	docRef := r.collection().Doc(string(memoryID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "memory not found", goerr.V("memoryID", memoryID))
		}
		return goerr.Wrap(err, "failed to get memory", goerr.V("memoryID", memoryID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V("memoryID", memoryID))
	}
	return nil
}

func (r *memoryRepository) List(ctx context.Context, limit int) ([]*model.Memory, error) {
	query := r.collection().
		OrderBy("happened_on", firestore.Desc).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Memory
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memories")
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V("doc", doc.Ref.ID))
		}
		result = append(result, fromMemoryDoc(&d))
	}

	if result == nil {
		result = []*model.Memory{}
	}
	return result, nil
}
