package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestEnvironmentLifecycle(t *testing.T) {
	kv := NewMemoryKV()
	store := NewEnvironmentStore(kv)

	active, err := store.Active()
	require.NoError(t, err)
	assert.Nil(t, active)

	dev, err := store.Create("dev")
	require.NoError(t, err)
	assert.NotEmpty(t, dev.ID)

	require.NoError(t, store.SetVariable("dev", "token", "abc"))
	require.NoError(t, store.SetVariable(dev.ID, "host", "https://dev.test"))
	require.NoError(t, store.SetVariable("dev", "token", "xyz"))

	_, err = store.Activate("dev")
	require.NoError(t, err)

	active, err = store.Active()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, []model.KeyValue{{Key: "token", Value: "xyz"}, {Key: "host", Value: "https://dev.test"}}, active.Variables)

	require.NoError(t, store.UnsetVariable("dev", "token"))
	active, err = store.Active()
	require.NoError(t, err)
	assert.Equal(t, []model.KeyValue{{Key: "host", Value: "https://dev.test"}}, active.Variables)

	require.NoError(t, store.Delete("dev"))
	active, err = store.Active()
	require.NoError(t, err)
	assert.Nil(t, active)
	_, ok, _ := kv.Get(KeyActiveEnvironment)
	assert.False(t, ok)
}

func TestEnvironmentValidation(t *testing.T) {
	store := NewEnvironmentStore(NewMemoryKV())

	_, err := store.Create("  ")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = store.Create("prod")
	require.NoError(t, err)
	assert.True(t, errors.Is(store.SetVariable("prod", "", "v"), model.ErrValidation))
	assert.Error(t, store.SetVariable("missing", "k", "v"))
	assert.Error(t, store.Delete("missing"))

	_, err = store.Activate("missing")
	assert.Error(t, err)
}

func TestEnvironmentDeactivate(t *testing.T) {
	store := NewEnvironmentStore(NewMemoryKV())
	_, err := store.Import(model.Environment{Name: "qa", Variables: []model.KeyValue{{Key: "a", Value: "b"}}})
	require.NoError(t, err)
	_, err = store.Activate("qa")
	require.NoError(t, err)

	require.NoError(t, store.Deactivate())
	active, err := store.Active()
	require.NoError(t, err)
	assert.Nil(t, active)
}
