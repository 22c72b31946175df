package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	variables := []model.KeyValue{
		{Key: "host", Value: "https://api.example.com"},
		{Key: "token", Value: "abc123"},
		{Key: "empty", Value: ""},
		{Key: "", Value: "ignored"},
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "{{host}}/users", want: "https://api.example.com/users"},
		{name: "whitespace", input: "{{ host }}/users?t={{  token}}", want: "https://api.example.com/users?t=abc123"},
		{name: "repeated", input: "{{token}}-{{token}}", want: "abc123-abc123"},
		{name: "unknown left alone", input: "{{host}}/{{id}}", want: "https://api.example.com/{{id}}"},
		{name: "empty value skipped", input: "x{{empty}}y", want: "x{{empty}}y"},
		{name: "no placeholders", input: "https://x.test/a b", want: "https://x.test/a b"},
		{name: "case sensitive", input: "{{TOKEN}}", want: "{{TOKEN}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.input, variables))
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	t.Parallel()

	variables := []model.KeyValue{
		{Key: "id", Value: "first"},
		{Key: "id", Value: "second"},
	}
	assert.Equal(t, "/items/first", Resolve("/items/{{id}}", variables))
}

func TestResolveDoesNotRecurse(t *testing.T) {
	t.Parallel()

	variables := []model.KeyValue{
		{Key: "a", Value: "{{b}}"},
		{Key: "b", Value: "{{a}}"},
	}
	assert.Equal(t, "{{b}}|{{a}}", Resolve("{{a}}|{{b}}", variables))
}

func TestResolveIdempotentOnResolvedText(t *testing.T) {
	t.Parallel()

	variables := []model.KeyValue{{Key: "token", Value: "abc123"}}
	once := Resolve("Bearer {{ token }}", variables)
	require.Equal(t, "Bearer abc123", once)
	assert.Equal(t, once, Resolve(once, variables))
}

func TestResolveWithoutEnvironment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "{{token}}", ResolveWith("{{token}}", nil))
	env := &model.Environment{Name: "dev", Variables: []model.KeyValue{{Key: "token", Value: "t"}}}
	assert.Equal(t, "t", ResolveWith("{{token}}", env))
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	got := Placeholders("https://x.test/{{ org }}/repos/{{repo}}/{{org}}")
	assert.Equal(t, []string{"org", "repo"}, got)
	assert.Nil(t, Placeholders("https://x.test/plain"))
}

func TestSyncPathVariables(t *testing.T) {
	t.Parallel()

	existing := []model.KeyValue{{Key: "id", Value: "42"}, {Key: "gone", Value: "x"}}
	got := SyncPathVariables("https://x.test/users/{{id}}/posts/{{postId}}", existing)
	assert.Equal(t, []model.KeyValue{{Key: "id", Value: "42"}, {Key: "postId", Value: ""}}, got)
}
