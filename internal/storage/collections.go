package storage

import (
	"sync"

	"github.com/vedsharma/resterx/internal/model"
)

// CollectionRepo persists the full collection list under one key
type CollectionRepo struct {
	kv KV
	mu sync.Mutex
}

// NewCollectionRepo creates a repo over kv
func NewCollectionRepo(kv KV) *CollectionRepo {
	return &CollectionRepo{kv: kv}
}

// Load returns all collections in creation order
func (r *CollectionRepo) Load() ([]model.Collection, error) {
	collections := []model.Collection{}
	if err := loadJSON(r.kv, KeyCollections, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// Save replaces all collections with the provided list
func (r *CollectionRepo) Save(collections []model.Collection) error {
	if collections == nil {
		collections = []model.Collection{}
	}
	return saveJSON(r.kv, KeyCollections, collections)
}

// Update loads the collections, applies fn and saves the result when fn
// succeeds. Nothing is written when fn returns an error.
func (r *CollectionRepo) Update(fn func([]model.Collection) ([]model.Collection, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collections, err := r.Load()
	if err != nil {
		return err
	}
	updated, err := fn(collections)
	if err != nil {
		return err
	}
	return r.Save(updated)
}
