package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestParseEnvironmentYAMLMapping(t *testing.T) {
	envs, err := ParseEnvironmentYAML([]byte(`
name: staging
variables:
  base: https://staging.example.com
  token: abc123
  retries: 3
`))
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "staging", envs[0].Name)
	assert.Equal(t, []model.KeyValue{
		{Key: "base", Value: "https://staging.example.com"},
		{Key: "token", Value: "abc123"},
		{Key: "retries", Value: "3"},
	}, envs[0].Variables)
}

func TestParseEnvironmentYAMLList(t *testing.T) {
	envs, err := ParseEnvironmentYAML([]byte(`
- name: dev
  variables:
    - key: base
      value: http://localhost:8080
- name: empty
`))
	require.NoError(t, err)
	require.Len(t, envs, 2)
	assert.Equal(t, []model.KeyValue{{Key: "base", Value: "http://localhost:8080"}}, envs[0].Variables)
	assert.Empty(t, envs[1].Variables)
}

func TestParseEnvironmentYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid yaml", doc: "name: [unclosed"},
		{name: "empty", doc: ""},
		{name: "scalar", doc: "just text"},
		{name: "no name", doc: "variables:\n  a: b\n"},
		{name: "nested value", doc: "name: x\nvariables:\n  a:\n    b: c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvironmentYAML([]byte(tt.doc))
			assert.ErrorIs(t, err, model.ErrFormat)
		})
	}
}
