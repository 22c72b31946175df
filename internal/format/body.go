package format

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// PrettyBody indents JSON bodies. Anything that is not valid JSON is
// returned unchanged.
func PrettyBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return body
	}
	return strings.TrimSuffix(string(pretty.Pretty([]byte(trimmed))), "\n")
}

// Query extracts the value at path (gjson syntax) from a JSON body.
// Objects and arrays come back pretty printed, scalars as plain text.
func Query(body, path string) (string, bool) {
	if !gjson.Valid(body) {
		return "", false
	}
	res := gjson.Get(body, path)
	if !res.Exists() {
		return "", false
	}
	if res.IsObject() || res.IsArray() {
		return PrettyBody(res.Raw), true
	}
	return res.String(), true
}
