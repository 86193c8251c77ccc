package ports

import "go.trai.ch/zr/internal/core/domain"

// CacheStore defines the interface for storing and retrieving cache
// entries keyed by task name.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the cache entry for a given task name.
	// Returns nil, nil if not found.
	Get(taskName string) (*domain.CacheEntry, error)

	// Put stores the cache entry.
	Put(info domain.CacheEntry) error
}
