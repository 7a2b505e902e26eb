package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Firestore is the Firestore-backed repository
type Firestore struct {
	client   *firestore.Client
	memories *memoryRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to isolate runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.memories.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:   client,
		memories: newMemoryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memories
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
