package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedsharma/resterx/internal/model"
)

// SchemaV21 identifies the Postman collection v2.1 format
const SchemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

type postmanCollection struct {
	Info postmanInfo  `json:"info"`
	Item []postmanItem `json:"item"`
}

type postmanInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

type postmanItem struct {
	Name    string         `json:"name"`
	Request postmanRequest `json:"request"`
}

type postmanRequest struct {
	Method string          `json:"method"`
	URL    postmanURL      `json:"url"`
	Header []postmanHeader `json:"header"`
	Body   *postmanBody    `json:"body,omitempty"`
	Auth   *postmanAuth    `json:"auth,omitempty"`
}

type postmanURL struct {
	Raw  string   `json:"raw"`
	Host []string `json:"host,omitempty"`
	Path []string `json:"path,omitempty"`
}

type postmanHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type postmanBody struct {
	Mode    string             `json:"mode"`
	Raw     string             `json:"raw"`
	Options postmanBodyOptions `json:"options"`
}

type postmanBodyOptions struct {
	Raw struct {
		Language string `json:"language"`
	} `json:"raw"`
}

type postmanAuth struct {
	Type   string             `json:"type"`
	Bearer []postmanAuthParam `json:"bearer,omitempty"`
	Basic  []postmanAuthParam `json:"basic,omitempty"`
	OAuth2 []postmanAuthParam `json:"oauth2,omitempty"`
}

type postmanAuthParam struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Export renders col as a Postman v2.1 collection document
func Export(col model.Collection) ([]byte, error) {
	doc := postmanCollection{
		Info: postmanInfo{Name: col.Name, Description: col.Description, Schema: SchemaV21},
		Item: make([]postmanItem, 0, len(col.Requests)),
	}

	for _, req := range col.Requests {
		item := postmanItem{
			Name: req.Name,
			Request: postmanRequest{
				Method: string(req.Method),
				URL:    exportURL(req.URL),
				Header: []postmanHeader{},
			},
		}
		for _, h := range sortedHeaders(req.Headers) {
			item.Request.Header = append(item.Request.Header, postmanHeader{Key: h.Key, Value: h.Value, Type: "text"})
		}
		if req.Body != "" {
			body := &postmanBody{Mode: "raw", Raw: req.Body}
			body.Options.Raw.Language = "json"
			item.Request.Body = body
		}
		item.Request.Auth = exportAuth(req)
		doc.Item = append(doc.Item, item)
	}

	return json.MarshalIndent(doc, "", "  ")
}

func exportURL(raw string) postmanURL {
	out := postmanURL{Raw: raw}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return out
	}
	out.Host = nonEmpty(strings.Split(parsed.Hostname(), "."))
	out.Path = nonEmpty(strings.Split(parsed.Path, "/"))
	return out
}

func exportAuth(req model.SavedRequest) *postmanAuth {
	switch req.AuthKind {
	case model.AuthBearer:
		return &postmanAuth{Type: "bearer", Bearer: []postmanAuthParam{
			{Key: "token", Value: req.BearerToken, Type: "string"},
		}}
	case model.AuthOAuth2:
		return &postmanAuth{Type: "oauth2", OAuth2: []postmanAuthParam{
			{Key: "accessToken", Value: req.BearerToken, Type: "string"},
		}}
	case model.AuthBasic:
		return &postmanAuth{Type: "basic", Basic: []postmanAuthParam{
			{Key: "username", Value: req.BasicUsername, Type: "string"},
			{Key: "password", Value: req.BasicPassword, Type: "string"},
		}}
	default:
		return nil
	}
}

type importDoc struct {
	Info *struct {
		Name        string          `json:"name"`
		Description json.RawMessage `json:"description"`
	} `json:"info"`
	Item []struct {
		Name    string          `json:"name"`
		Request json.RawMessage `json:"request"`
	} `json:"item"`
}

type importRequest struct {
	Method json.RawMessage `json:"method"`
	URL    json.RawMessage `json:"url"`
	Header json.RawMessage `json:"header"`
	Body   json.RawMessage `json:"body"`
	Auth   json.RawMessage `json:"auth"`
}

// Parse reads a Postman collection document. The document must carry
// info.name and an item array. Items without a request object are skipped.
func Parse(data []byte) (model.Collection, error) {
	var doc importDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Collection{}, &model.FormatError{Reason: "not valid JSON", Err: err}
	}
	if doc.Info == nil || strings.TrimSpace(doc.Info.Name) == "" {
		return model.Collection{}, &model.FormatError{Reason: "missing info.name"}
	}
	if doc.Item == nil {
		return model.Collection{}, &model.FormatError{Reason: "missing item array"}
	}

	col := model.Collection{
		ID:          uuid.NewString(),
		Name:        doc.Info.Name,
		Description: textOf(doc.Info.Description),
		Requests:    []model.SavedRequest{},
	}

	now := time.Now()
	for _, item := range doc.Item {
		if !isObject(item.Request) {
			continue
		}
		var req importRequest
		// Fields are raw so a single oddly typed field never drops the item
		_ = json.Unmarshal(item.Request, &req)

		saved := model.SavedRequest{
			ID:        uuid.NewString(),
			Name:      item.Name,
			Method:    importMethod(textOf(req.Method)),
			URL:       importURL(req.URL),
			Headers:   importHeaders(req.Header),
			Body:      importBody(req.Body),
			AuthKind:  model.AuthNone,
			CreatedAt: now,
		}
		applyImportedAuth(&saved, req.Auth)
		col.Requests = append(col.Requests, saved)
	}

	return col, nil
}

func importMethod(s string) model.Method {
	if m, ok := model.ParseMethod(s); ok {
		return m
	}
	if s == "" {
		return model.MethodGet
	}
	return model.Method(strings.ToUpper(s))
}

// importURL accepts either a bare string or an object with a raw field
func importURL(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Raw string `json:"raw"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Raw
	}
	return ""
}

// importBody accepts {"mode":"raw","raw":...} or a bare string
func importBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Mode string `json:"mode"`
		Raw  string `json:"raw"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Mode == "raw" {
		return obj.Raw
	}
	return ""
}

// importHeaders accepts an array of {key, value, disabled} rows or a single
// "Key: Value" string with one header per line. Rows that do not decode are
// skipped.
func importHeaders(raw json.RawMessage) map[string]string {
	headers := map[string]string{}
	if len(raw) == 0 {
		return headers
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		for _, line := range strings.Split(text, "\n") {
			key, value, found := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				continue
			}
			headers[key] = strings.TrimSpace(value)
		}
		return headers
	}

	var rows []json.RawMessage
	if json.Unmarshal(raw, &rows) != nil {
		return headers
	}
	for _, row := range rows {
		var h struct {
			Key      string          `json:"key"`
			Value    json.RawMessage `json:"value"`
			Disabled bool            `json:"disabled"`
		}
		if json.Unmarshal(row, &h) != nil || h.Key == "" || h.Disabled {
			continue
		}
		headers[h.Key] = scalarString(h.Value)
	}
	return headers
}

func applyImportedAuth(saved *model.SavedRequest, raw json.RawMessage) {
	var auth struct {
		Type   string          `json:"type"`
		Bearer json.RawMessage `json:"bearer"`
		Basic  json.RawMessage `json:"basic"`
		OAuth2 json.RawMessage `json:"oauth2"`
	}
	if !isObject(raw) || json.Unmarshal(raw, &auth) != nil {
		return
	}
	switch strings.ToLower(auth.Type) {
	case "bearer":
		saved.AuthKind = model.AuthBearer
		saved.BearerToken = paramValue(auth.Bearer, "token")
	case "oauth2":
		saved.AuthKind = model.AuthOAuth2
		saved.BearerToken = paramValue(auth.OAuth2, "accessToken")
	case "basic":
		saved.AuthKind = model.AuthBasic
		saved.BasicUsername = paramValue(auth.Basic, "username")
		saved.BasicPassword = paramValue(auth.Basic, "password")
	}
}

// paramValue reads key from auth params given either as a v2.1 array of
// {key, value} pairs or as a v2.0 object such as {"token": "..."}.
func paramValue(raw json.RawMessage, key string) string {
	var params []struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if json.Unmarshal(raw, &params) == nil {
		for _, p := range params {
			if p.Key == key {
				return scalarString(p.Value)
			}
		}
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) == nil {
		return scalarString(obj[key])
	}
	return ""
}

// scalarString returns a JSON string's text or the literal text of a number
// or boolean. Null, objects and arrays yield "".
func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return ""
	}
	return string(trimmed)
}

// textOf reads a string field, also accepting {"content": ...}
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Content string `json:"content"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Content
	}
	return ""
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedHeaders(headers map[string]string) []model.KeyValue {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.KeyValue{Key: k, Value: headers[k]})
	}
	return out
}

// ExportCollection renders the referenced collection as a Postman document
func (s *Store) ExportCollection(ref string) ([]byte, error) {
	col, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, fmt.Errorf("collection %q not found", ref)
	}
	return Export(*col)
}

// ImportCollection parses a Postman document and stores it as a new
// collection. Nothing is stored when parsing fails.
func (s *Store) ImportCollection(data []byte) (model.Collection, error) {
	col, err := Parse(data)
	if err != nil {
		return model.Collection{}, err
	}
	return s.AddImported(col)
}
