package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func TestCompareIdenticalExceptTiming(t *testing.T) {
	a := model.ResponseRecord{
		StatusCode: 200, StatusText: "OK",
		Headers:        map[string]string{"Content-Type": "application/json"},
		Body:           `{"b":2,"a":1}`,
		ResponseTimeMs: 12, ResponseSizeBytes: 13,
	}
	b := a
	b.Body = `{ "a": 1, "b": 2 }`
	b.ResponseSizeBytes = 13
	b.ResponseTimeMs = 40

	res := Compare(Side{Label: "staging", Record: a}, Side{Label: "prod", Record: b})
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "Response Time", res.Fields[0].Field)
	assert.Equal(t, "12ms", res.Fields[0].Left)
	assert.Equal(t, "40ms", res.Fields[0].Right)
	assert.Empty(t, res.BodyDiff)
	assert.Empty(t, res.HeaderDiff)
	assert.True(t, res.Identical())
}

func TestCompareReportsDifferences(t *testing.T) {
	a := model.ResponseRecord{
		StatusCode: 200, StatusText: "OK",
		Headers: map[string]string{"X-Version": "1"},
		Body:    `{"name":"ada"}`,
	}
	b := model.ResponseRecord{
		StatusCode: 404, StatusText: "Not Found",
		Headers: map[string]string{"X-Version": "2", "X-Extra": "y"},
		Body:    `{"name":"bob"}`,
	}

	res := Compare(Side{Record: a}, Side{Record: b})
	assert.Equal(t, "left", res.LeftLabel)
	assert.Equal(t, "right", res.RightLabel)
	assert.False(t, res.Identical())

	fields := map[string]FieldDiff{}
	for _, f := range res.Fields {
		fields[f.Field] = f
	}
	assert.Equal(t, "200", fields["Status"].Left)
	assert.Equal(t, "404", fields["Status"].Right)
	assert.Equal(t, "Not Found", fields["Status Text"].Right)
	assert.Equal(t, "2", fields["Header Count"].Right)
	assert.NotContains(t, fields, "Error")

	assert.Contains(t, res.BodyDiff, `-  "name": "ada"`)
	assert.Contains(t, res.BodyDiff, `+  "name": "bob"`)
	assert.True(t, strings.HasPrefix(res.BodyDiff, "--- left"))
	assert.Contains(t, res.HeaderDiff, "+X-Extra: y")
}

func TestNormalizeBodyLeavesNonJSON(t *testing.T) {
	assert.Equal(t, "plain <b>text</b>", NormalizeBody("plain <b>text</b>"))
	assert.Equal(t, "", NormalizeBody(""))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", NormalizeBody(`{"a":1}`))
}

func TestCompareTransportFailure(t *testing.T) {
	ok := model.ResponseRecord{StatusCode: 200, StatusText: "OK", Body: "fine"}
	failed := model.ResponseRecord{StatusCode: 0, StatusText: "Network Error", Body: "connection refused", Error: true}

	res := Compare(Side{Label: "a", Record: ok}, Side{Label: "b", Record: failed})
	fields := map[string]FieldDiff{}
	for _, f := range res.Fields {
		fields[f.Field] = f
	}
	assert.Equal(t, "true", fields["Error"].Right)
	assert.Contains(t, res.BodyDiff, "+connection refused")
}
