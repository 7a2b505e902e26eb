package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Memory() MemoryRepository

	// Close releases backend resources. Safe to call on any backend.
	Close() error
}
