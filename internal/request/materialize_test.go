package request

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestMaterializeResolvesHeadersFromEnvironment(t *testing.T) {
	t.Parallel()

	env := &model.Environment{Name: "dev", Variables: []model.KeyValue{{Key: "token", Value: "abc123"}}}
	draft := model.RequestDraft{
		Method:  model.MethodGet,
		URL:     "https://api.example.com/me",
		Headers: []model.KeyValue{{Key: "Authorization", Value: "Bearer {{token}}"}},
	}

	m := Materialize(draft, env)
	got, ok := m.Header("authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer abc123", got)
}

func TestMaterializeBasicAuth(t *testing.T) {
	t.Parallel()

	draft := model.RequestDraft{
		Method: model.MethodGet,
		URL:    "https://api.example.com/me",
		Auth:   model.Auth{Kind: model.AuthBasic, Username: "bob", Password: "secret"},
	}

	m := Materialize(draft, nil)
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("bob:secret"))
	got, ok := m.Header("Authorization")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestMaterializeBasicAuthRequiresBothFields(t *testing.T) {
	t.Parallel()

	draft := model.RequestDraft{
		Method: model.MethodGet,
		URL:    "https://api.example.com/me",
		Auth:   model.Auth{Kind: model.AuthBasic, Username: "bob"},
	}
	_, ok := Materialize(draft, nil).Header("Authorization")
	assert.False(t, ok)
}

func TestMaterializeAuthOverridesUserHeader(t *testing.T) {
	t.Parallel()

	env := &model.Environment{Variables: []model.KeyValue{{Key: "tok", Value: "xyz"}}}
	draft := model.RequestDraft{
		Method:  model.MethodGet,
		URL:     "https://api.example.com",
		Headers: []model.KeyValue{{Key: "authorization", Value: "manual"}},
		Auth:    model.Auth{Kind: model.AuthOAuth2, BearerToken: "{{tok}}"},
	}

	m := Materialize(draft, env)
	require.Len(t, m.Headers, 1)
	assert.Equal(t, model.KeyValue{Key: "Authorization", Value: "Bearer xyz"}, m.Headers[0])
}

func TestMaterializeJSONContentTypeDefault(t *testing.T) {
	t.Parallel()

	draft := model.RequestDraft{
		Method:   model.MethodPost,
		URL:      "https://api.example.com/users",
		Body:     `{"name":"{{name}}"}`,
		BodyKind: model.BodyJSON,
	}
	env := &model.Environment{Variables: []model.KeyValue{{Key: "name", Value: "ada"}}}

	m := Materialize(draft, env)
	ct, ok := m.Header("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json", ct)
	assert.True(t, m.HasBody)
	assert.Equal(t, `{"name":"ada"}`, m.Body)

	draft.Headers = []model.KeyValue{{Key: "content-type", Value: "application/vnd.api+json"}}
	m = Materialize(draft, env)
	ct, _ = m.Header("Content-Type")
	assert.Equal(t, "application/vnd.api+json", ct)
	assert.Len(t, m.Headers, 1)
}

func TestMaterializeOmitsBodyForNonBodyMethods(t *testing.T) {
	t.Parallel()

	for _, method := range []model.Method{model.MethodGet, model.MethodDelete, model.MethodHead} {
		draft := model.RequestDraft{Method: method, URL: "https://x.test", Body: "payload", BodyKind: model.BodyText}
		m := Materialize(draft, nil)
		assert.False(t, m.HasBody, method)
		assert.Empty(t, m.Body, method)
	}
}

func TestMaterializeSkipsIncompleteHeaders(t *testing.T) {
	t.Parallel()

	draft := model.RequestDraft{
		URL:     "https://x.test",
		Headers: []model.KeyValue{{Key: "X-Empty", Value: ""}, {Key: "", Value: "v"}, {Key: "Accept", Value: "*/*"}},
	}
	m := Materialize(draft, nil)
	assert.Equal(t, model.MethodGet, m.Method)
	assert.Equal(t, []model.KeyValue{{Key: "Accept", Value: "*/*"}}, m.Headers)
}

func TestMaterializeComposesURL(t *testing.T) {
	t.Parallel()

	env := &model.Environment{Variables: []model.KeyValue{{Key: "base", Value: "https://x.test"}}}
	draft := model.RequestDraft{
		URL:           "{{base}}/users/{{id}}",
		PathVariables: []model.KeyValue{{Key: "id", Value: "9"}},
		QueryParams:   []model.QueryParam{{Key: "expand", Value: "all", Enabled: true}},
	}
	assert.Equal(t, "https://x.test/users/9?expand=all", Materialize(draft, env).URL)
}
