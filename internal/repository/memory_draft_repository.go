package repository

import (
	"context"
	"sync"

	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
)

// MemoryDraftRepository keeps drafts in process memory. Contents vanish on restart.
type MemoryDraftRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryDraftRepository returns an empty store.
func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{values: make(map[string]string)}
}

// Get returns the stored payload or ErrCacheMiss.
func (r *MemoryDraftRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", appErrors.ErrCacheMiss
	}
	return value, nil
}

// Set overwrites the payload stored under key.
func (r *MemoryDraftRepository) Set(_ context.Context, key, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = payload
	return nil
}

// Remove deletes key.
func (r *MemoryDraftRepository) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
