package collection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/storage"
)

func newTestStore() *Store {
	return NewStore(storage.NewCollectionRepo(storage.NewMemoryKV()))
}

func TestCreateAndGetCollection(t *testing.T) {
	store := newTestStore()

	col, err := store.CreateCollection("  Users API ", "user endpoints")
	require.NoError(t, err)
	assert.Equal(t, "Users API", col.Name)
	assert.NotEmpty(t, col.ID)
	assert.Empty(t, col.Requests)

	byName, err := store.Get("Users API")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, col.ID, byName.ID)

	byID, err := store.Get(col.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "user endpoints", byID.Description)

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.CreateCollection(" ", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSaveRequestKeepsOnlyActiveCredentials(t *testing.T) {
	store := newTestStore()
	col, err := store.CreateCollection("API", "")
	require.NoError(t, err)

	draft := model.RequestDraft{
		Method:  model.MethodPost,
		URL:     "https://api.test/users",
		Headers: []model.KeyValue{{Key: "Accept", Value: "application/json"}, {Key: "", Value: "dropped"}},
		Body:    `{"name":"a"}`,
		Auth: model.Auth{
			Kind:        model.AuthBasic,
			BearerToken: "stale",
			Username:    "u",
			Password:    "p",
		},
	}
	saved, err := store.SaveRequest(col.ID, "create user", draft)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, map[string]string{"Accept": "application/json"}, saved.Headers)
	assert.Equal(t, "u", saved.BasicUsername)
	assert.Empty(t, saved.BearerToken)

	got, err := store.Get(col.ID)
	require.NoError(t, err)
	require.Len(t, got.Requests, 1)
	assert.Equal(t, saved.ID, got.Requests[0].ID)

	_, err = store.SaveRequest(col.ID, "create user", draft)
	require.NoError(t, err)
	got, err = store.Get(col.ID)
	require.NoError(t, err)
	assert.Len(t, got.Requests, 2, "saving the same name again adds a second entry")
}

func TestSaveRequestKeepsQueryAndPathValues(t *testing.T) {
	store := newTestStore()
	col, err := store.CreateCollection("API", "")
	require.NoError(t, err)

	draft := model.RequestDraft{
		Method:        model.MethodGet,
		URL:           "{{base}}/users/{{id}}/items",
		PathVariables: []model.KeyValue{{Key: "base", Value: ""}, {Key: "id", Value: "42"}},
		QueryParams: []model.QueryParam{
			{Key: "q", Value: "shoes", Enabled: true},
			{Key: "skip", Value: "me", Enabled: false},
		},
	}
	saved, err := store.SaveRequest(col.ID, "search", draft)
	require.NoError(t, err)
	assert.Equal(t, "{{base}}/users/42/items?q=shoes", saved.URL)
	assert.Equal(t, saved.URL, DraftFromSaved(saved).URL)
}

func TestSaveRequestValidation(t *testing.T) {
	store := newTestStore()
	col, err := store.CreateCollection("API", "")
	require.NoError(t, err)

	draft := model.RequestDraft{Method: model.MethodGet, URL: "https://api.test"}

	tests := []struct {
		name    string
		colRef  string
		reqName string
		draft   model.RequestDraft
	}{
		{name: "empty name", colRef: col.ID, reqName: "", draft: draft},
		{name: "blank name", colRef: col.ID, reqName: "   ", draft: draft},
		{name: "empty url", colRef: col.ID, reqName: "x", draft: model.RequestDraft{Method: model.MethodGet}},
		{name: "no collection", colRef: "", reqName: "x", draft: draft},
		{name: "unknown collection", colRef: "ghost", reqName: "x", draft: draft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveRequest(tt.colRef, tt.reqName, tt.draft)
			require.Error(t, err)
			var vErr *model.ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}

	got, err := store.Get(col.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Requests)
}

func TestDeleteCollection(t *testing.T) {
	store := newTestStore()
	_, err := store.CreateCollection("one", "")
	require.NoError(t, err)
	two, err := store.CreateCollection("two", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteCollection("one"))
	cols, err := store.List()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, two.ID, cols[0].ID)

	assert.Error(t, store.DeleteCollection("one"))
}

func TestDraftFromSaved(t *testing.T) {
	draft := DraftFromSaved(model.SavedRequest{
		Method:      model.MethodPut,
		URL:         "https://api.test/items/1",
		Headers:     map[string]string{"X-B": "2", "X-A": "1"},
		Body:        ` {"a":1}`,
		AuthKind:    model.AuthBearer,
		BearerToken: "tok",
	})

	assert.Equal(t, []model.KeyValue{{Key: "X-A", Value: "1"}, {Key: "X-B", Value: "2"}}, draft.Headers)
	assert.Equal(t, model.BodyJSON, draft.BodyKind)
	assert.Equal(t, "tok", draft.Auth.BearerToken)

	empty := DraftFromSaved(model.SavedRequest{Method: model.MethodGet, URL: "https://x.test"})
	assert.Equal(t, model.BodyNone, empty.BodyKind)

	text := DraftFromSaved(model.SavedRequest{Method: model.MethodPost, URL: "https://x.test", Body: "hello"})
	assert.Equal(t, model.BodyText, text.BodyKind)
}
