package vars

import (
	"regexp"
	"strings"

	"github.com/vedsharma/resterx/internal/model"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Resolve replaces every {{ key }} placeholder in text with the value of the
// first variable carrying that key. Variables with an empty key or value are
// ignored and unknown placeholders are left untouched.
// Substituted values are never re-scanned, so a value that itself looks like
// a placeholder is inserted verbatim.
func Resolve(text string, variables []model.KeyValue) string {
	if text == "" || len(variables) == 0 || !strings.Contains(text, "{{") {
		return text
	}

	lookup := make(map[string]string, len(variables))
	for _, v := range variables {
		key := strings.TrimSpace(v.Key)
		if key == "" || v.Value == "" {
			continue
		}
		if _, seen := lookup[key]; seen {
			continue
		}
		lookup[key] = v.Value
	}
	if len(lookup) == 0 {
		return text
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		if value, ok := lookup[sub[1]]; ok {
			return value
		}
		return match
	})
}

// ResolveWith resolves text against env, returning text unchanged when no
// environment is active.
func ResolveWith(text string, env *model.Environment) string {
	if env == nil {
		return text
	}
	return Resolve(text, env.Variables)
}

// Placeholders returns the distinct placeholder names in order of first appearance.
func Placeholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// SyncPathVariables rebuilds the path variable list from the placeholders in
// url, keeping values the user already entered for names that still appear.
func SyncPathVariables(url string, existing []model.KeyValue) []model.KeyValue {
	names := Placeholders(url)
	if len(names) == 0 {
		return nil
	}
	values := make(map[string]string, len(existing))
	for _, kv := range existing {
		if _, ok := values[kv.Key]; !ok {
			values[kv.Key] = kv.Value
		}
	}
	out := make([]model.KeyValue, 0, len(names))
	for _, name := range names {
		out = append(out, model.KeyValue{Key: name, Value: values[name]})
	}
	return out
}
