// Package memstore keeps short key mappings in process memory.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/models"
	"github.com/KretovDmitry/squarehouse/internal/repository"
)

var _ repository.MappingStorage = (*MappingRepository)(nil)

// MappingRepository is an in-memory implementation of the MappingStorage interface.
// Mappings live for the life of the process and are never expired.
// It is safe for concurrent use.
type MappingRepository struct {
	// store maps short keys to long URLs.
	store map[string]string
	// mu serializes every read and write of the store.
	mu sync.RWMutex
}

// NewMappingRepository creates an empty repository.
func NewMappingRepository() *MappingRepository {
	return &MappingRepository{store: make(map[string]string)}
}

// Put saves the mapping. An existing mapping under the same
// short key is silently overwritten.
func (r *MappingRepository) Put(_ context.Context, m *models.Mapping) error {
	if m == nil {
		return fmt.Errorf("%w: mapping", errs.ErrNilDependency)
	}

	r.mu.Lock()
	r.store[m.ShortKey] = m.LongURL
	r.mu.Unlock()

	return nil
}

// Get retrieves a mapping by its short key.
// If the key is not found, it returns ErrNotFound.
func (r *MappingRepository) Get(_ context.Context, shortKey string) (*models.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	longURL, found := r.store[shortKey]
	if !found {
		return nil, fmt.Errorf("%s: %w", shortKey, errs.ErrNotFound)
	}

	return models.NewMapping(shortKey, longURL), nil
}

// Len reports the number of stored mappings.
func (r *MappingRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
