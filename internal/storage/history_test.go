package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestHistoryKeepsNewestHundred(t *testing.T) {
	store := NewHistoryStore(NewMemoryKV(), 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 130; i++ {
		_, err := store.Append(model.HistoryEntry{
			ID:        fmt.Sprintf("%d", i),
			Method:    model.MethodGet,
			URL:       "https://x.test",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, model.MaxHistoryEntries)
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("%d", 130-i), entry.ID)
	}
}

func TestHistoryLimitIsCapped(t *testing.T) {
	store := NewHistoryStore(NewMemoryKV(), 5000)
	assert.Equal(t, model.MaxHistoryEntries, store.limit)

	small := NewHistoryStore(NewMemoryKV(), 2)
	for i := 0; i < 3; i++ {
		_, err := small.Append(model.HistoryEntry{ID: fmt.Sprintf("%d", i)})
		require.NoError(t, err)
	}
	entries, err := small.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHistoryFindAndClear(t *testing.T) {
	store := NewHistoryStore(NewMemoryKV(), 0)
	_, err := store.Append(model.HistoryEntry{ID: "abc"})
	require.NoError(t, err)
	_, err = store.Append(model.HistoryEntry{ID: "def"})
	require.NoError(t, err)

	byIndex, err := store.Find("1")
	require.NoError(t, err)
	require.NotNil(t, byIndex)
	assert.Equal(t, "def", byIndex.ID)

	byID, err := store.Find("abc")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "abc", byID.ID)

	missing, err := store.Find("zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Clear())
	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryCorruptValue(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(KeyHistory, "{not json"))
	_, err := NewHistoryStore(kv, 0).Load()
	assert.Error(t, err)
}
