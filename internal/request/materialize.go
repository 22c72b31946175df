package request

import (
	"encoding/base64"
	"strings"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/vars"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
)

// Materialized is a concrete request ready for the transport
type Materialized struct {
	Method  model.Method
	URL     string
	Headers []model.KeyValue
	Body    string
	HasBody bool
}

// Header returns the value of the first header matching name case-insensitively
func (m Materialized) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Key, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Materialize turns a draft plus the active environment (nil when none) into
// a concrete request. Each field is resolved exactly once.
func Materialize(draft model.RequestDraft, env *model.Environment) Materialized {
	resolve := func(s string) string { return vars.ResolveWith(s, env) }

	method := draft.Method
	if method == "" {
		method = model.MethodGet
	}

	m := Materialized{
		Method: method,
		URL:    ComposeURL(resolve(draft.URL), draft.PathVariables, draft.QueryParams),
	}

	for _, h := range draft.Headers {
		if h.Key == "" || h.Value == "" {
			continue
		}
		m.setHeader(resolve(h.Key), resolve(h.Value))
	}

	if value, ok := authorizationValue(draft.Auth, resolve); ok {
		m.setHeader(headerAuthorization, value)
	}

	if draft.BodyKind == model.BodyJSON && draft.Body != "" {
		if _, ok := m.Header(headerContentType); !ok {
			m.setHeader(headerContentType, contentTypeJSON)
		}
	}

	if method.AllowsBody() && draft.Body != "" {
		m.Body = resolve(draft.Body)
		m.HasBody = true
	}

	return m
}

func authorizationValue(auth model.Auth, resolve func(string) string) (string, bool) {
	switch auth.Kind {
	case model.AuthBearer, model.AuthOAuth2:
		if auth.BearerToken == "" {
			return "", false
		}
		return "Bearer " + resolve(auth.BearerToken), true
	case model.AuthBasic:
		if auth.Username == "" || auth.Password == "" {
			return "", false
		}
		creds := resolve(auth.Username) + ":" + resolve(auth.Password)
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds)), true
	default:
		return "", false
	}
}

// setHeader replaces a header with the same name in place or appends it
func (m *Materialized) setHeader(key, value string) {
	for i, h := range m.Headers {
		if strings.EqualFold(h.Key, key) {
			m.Headers[i] = model.KeyValue{Key: key, Value: value}
			return
		}
	}
	m.Headers = append(m.Headers, model.KeyValue{Key: key, Value: value})
}
