package storage

import (
	"strconv"
	"sync"

	"github.com/vedsharma/resterx/internal/model"
)

// HistoryStore keeps the newest-first, capped request history
type HistoryStore struct {
	kv    KV
	limit int
	mu    sync.Mutex
}

// NewHistoryStore creates a history store keeping at most limit entries.
// Limits outside 1..MaxHistoryEntries fall back to MaxHistoryEntries.
func NewHistoryStore(kv KV, limit int) *HistoryStore {
	if limit <= 0 || limit > model.MaxHistoryEntries {
		limit = model.MaxHistoryEntries
	}
	return &HistoryStore{kv: kv, limit: limit}
}

// Load returns the stored history, newest first
func (s *HistoryStore) Load() ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *HistoryStore) loadLocked() ([]model.HistoryEntry, error) {
	entries := []model.HistoryEntry{}
	if err := loadJSON(s.kv, KeyHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append prepends entry, drops entries beyond the limit and persists the log
func (s *HistoryStore) Append(entry model.HistoryEntry) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	if err := saveJSON(s.kv, KeyHistory, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear removes all history
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveJSON(s.kv, KeyHistory, []model.HistoryEntry{})
}

// Find looks an entry up by 1-based index or by id
func (s *HistoryStore) Find(identifier string) (*model.HistoryEntry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	if index, err := strconv.Atoi(identifier); err == nil {
		if index > 0 && index <= len(entries) {
			return &entries[index-1], nil
		}
	}

	for i := range entries {
		if entries[i].ID == identifier {
			return &entries[i], nil
		}
	}
	return nil, nil
}
