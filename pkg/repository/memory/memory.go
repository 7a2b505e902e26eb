package memory

import (
	"github.com/keepsake-lab/keepsake/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Memory is the in-memory repository backend, used for development and tests
type Memory struct {
	memories *memoryRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		memories: newMemoryRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memories
}

func (m *Memory) Close() error {
	return nil
}
