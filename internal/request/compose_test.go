package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vedsharma/resterx/internal/model"
)

func TestComposeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		pathVars []model.KeyValue
		params   []model.QueryParam
		want     string
	}{
		{
			name: "enabled params only",
			raw:  "https://x.test/items",
			params: []model.QueryParam{
				{Key: "q", Value: "shoes", Enabled: true},
				{Key: "unused", Value: "x", Enabled: false},
			},
			want: "https://x.test/items?q=shoes",
		},
		{
			name:   "existing query preserved",
			raw:    "https://x.test/items?page=2",
			params: []model.QueryParam{{Key: "q", Value: "red shoes", Enabled: true}},
			want:   "https://x.test/items?page=2&q=red+shoes",
		},
		{
			name:   "empty key or value skipped",
			raw:    "https://x.test/items",
			params: []model.QueryParam{{Key: "", Value: "a", Enabled: true}, {Key: "b", Value: "", Enabled: true}},
			want:   "https://x.test/items",
		},
		{
			name:     "path variables",
			raw:      "https://x.test/users/{{ id }}/posts",
			pathVars: []model.KeyValue{{Key: "id", Value: "7"}},
			params:   []model.QueryParam{{Key: "sort", Value: "desc", Enabled: true}},
			want:     "https://x.test/users/7/posts?sort=desc",
		},
		{
			name:     "relative url fails soft",
			raw:      "/users/{{id}}",
			pathVars: []model.KeyValue{{Key: "id", Value: "7"}},
			params:   []model.QueryParam{{Key: "q", Value: "x", Enabled: true}},
			want:     "/users/7",
		},
		{
			name:   "unparseable url fails soft",
			raw:    "http://[::1",
			params: []model.QueryParam{{Key: "q", Value: "x", Enabled: true}},
			want:   "http://[::1",
		},
		{
			name:   "encodes reserved characters",
			raw:    "https://x.test/search",
			params: []model.QueryParam{{Key: "filter", Value: "a&b=c", Enabled: true}},
			want:   "https://x.test/search?filter=a%26b%3Dc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposeURL(tt.raw, tt.pathVars, tt.params))
		})
	}
}

func TestExpandURL(t *testing.T) {
	t.Parallel()

	params := []model.QueryParam{{Key: "q", Value: "red shoes", Enabled: true}, {Key: "off", Value: "1"}}
	pathVars := []model.KeyValue{{Key: "id", Value: "7"}}

	assert.Equal(t, "https://x.test/items?q=red+shoes", ExpandURL("https://x.test/items", nil, params))
	assert.Equal(t, "{{base}}/users/7?q=red+shoes", ExpandURL("{{base}}/users/{{id}}", pathVars, params))
	assert.Equal(t, "{{base}}/items?page=2&q=red+shoes#top", ExpandURL("{{base}}/items?page=2#top", nil, params))
	assert.Equal(t, "https://x.test/items?q=red+shoes", ExpandURL("https://x.test/items?", nil, params))
	assert.Equal(t, "{{base}}/users/7", ExpandURL("{{base}}/users/{{id}}", pathVars, nil))
}
