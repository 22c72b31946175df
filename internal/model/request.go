package model

import "strings"

// Method is an HTTP method supported by the request editor
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
	MethodHead   Method = "HEAD"
)

// Methods lists the supported methods in menu order
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead}

// ParseMethod normalizes s to a supported method
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// AllowsBody reports whether a body is transmitted for this method
func (m Method) AllowsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// BodyKind describes how the draft body is interpreted
type BodyKind string

const (
	BodyNone BodyKind = "none"
	BodyJSON BodyKind = "json"
	BodyText BodyKind = "text"
	BodyForm BodyKind = "form"
)

// AuthKind selects how the Authorization header is derived
type AuthKind string

const (
	AuthNone   AuthKind = "none"
	AuthBearer AuthKind = "bearer"
	AuthBasic  AuthKind = "basic"
	AuthOAuth2 AuthKind = "oauth2"
)

// ParseAuthKind maps user input to an AuthKind, defaulting to none
func ParseAuthKind(s string) AuthKind {
	switch AuthKind(strings.ToLower(strings.TrimSpace(s))) {
	case AuthBearer:
		return AuthBearer
	case AuthBasic:
		return AuthBasic
	case AuthOAuth2:
		return AuthOAuth2
	default:
		return AuthNone
	}
}

// KeyValue is an ordered key/value pair (headers, variables, path variables)
type KeyValue struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// QueryParam is a query parameter row that can be toggled off
type QueryParam struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// Auth holds the credentials entered for the draft
type Auth struct {
	Kind        AuthKind `json:"kind"`
	BearerToken string   `json:"bearerToken,omitempty"`
	Username    string   `json:"username,omitempty"`
	Password    string   `json:"password,omitempty"`
}

// RequestDraft is the editable, unsaved request definition
type RequestDraft struct {
	Method        Method       `json:"method"`
	URL           string       `json:"url"`
	Headers       []KeyValue   `json:"headers"`
	QueryParams   []QueryParam `json:"queryParams"`
	PathVariables []KeyValue   `json:"pathVariables"`
	Body          string       `json:"body"`
	BodyKind      BodyKind     `json:"bodyKind"`
	Auth          Auth         `json:"auth"`
}
