package compare

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/tidwall/pretty"

	"github.com/vedsharma/resterx/internal/model"
)

// Side is one response taking part in a comparison
type Side struct {
	Label  string
	Record model.ResponseRecord
}

// FieldDiff is a scalar field whose value differs between the two sides
type FieldDiff struct {
	Field string
	Left  string
	Right string
}

// Result holds the differences between two responses
type Result struct {
	LeftLabel  string
	RightLabel string
	Fields     []FieldDiff
	HeaderDiff string
	BodyDiff   string
}

// Identical reports whether nothing but timing differs
func (r Result) Identical() bool {
	for _, f := range r.Fields {
		if f.Field != "Response Time" {
			return false
		}
	}
	return r.HeaderDiff == "" && r.BodyDiff == ""
}

// Compare diffs two responses. JSON bodies are pretty printed first so
// formatting differences do not show up.
func Compare(left, right Side) Result {
	res := Result{LeftLabel: labelOr(left.Label, "left"), RightLabel: labelOr(right.Label, "right")}
	a, b := left.Record, right.Record

	addField := func(name, l, r string) {
		if l != r {
			res.Fields = append(res.Fields, FieldDiff{Field: name, Left: l, Right: r})
		}
	}
	addField("Status", strconv.Itoa(a.StatusCode), strconv.Itoa(b.StatusCode))
	addField("Status Text", a.StatusText, b.StatusText)
	addField("Response Time", formatMs(a.ResponseTimeMs), formatMs(b.ResponseTimeMs))
	addField("Size", strconv.FormatInt(a.ResponseSizeBytes, 10)+" B", strconv.FormatInt(b.ResponseSizeBytes, 10)+" B")
	addField("Error", strconv.FormatBool(a.Error), strconv.FormatBool(b.Error))
	addField("Header Count", strconv.Itoa(len(a.Headers)), strconv.Itoa(len(b.Headers)))

	res.HeaderDiff = unified(res.LeftLabel+" headers", res.RightLabel+" headers", headerText(a.Headers), headerText(b.Headers))
	res.BodyDiff = unified(res.LeftLabel, res.RightLabel, NormalizeBody(a.Body), NormalizeBody(b.Body))
	return res
}

// NormalizeBody pretty prints JSON bodies and returns anything else unchanged
func NormalizeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return body
	}
	return string(pretty.PrettyOptions([]byte(trimmed), &pretty.Options{Width: 80, Indent: "  ", SortKeys: true}))
}

func unified(lhsLabel, rhsLabel, lhs, rhs string) string {
	lhs = ensureTrailingNewline(lhs)
	rhs = ensureTrailingNewline(rhs)
	if lhs == rhs {
		return ""
	}
	return udiff.Unified(lhsLabel, rhsLabel, lhs, rhs)
}

func headerText(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(headers[k])
		b.WriteByte('\n')
	}
	return b.String()
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func formatMs(ms int64) string {
	return strconv.FormatInt(ms, 10) + "ms"
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
