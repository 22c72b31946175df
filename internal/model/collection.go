package model

import "time"

// SavedRequest represents a request saved in a collection
type SavedRequest struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Method        Method            `json:"method"`
	URL           string            `json:"url"`
	Headers       map[string]string `json:"headers"`
	Body          string            `json:"body"`
	AuthKind      AuthKind          `json:"authKind"`
	BearerToken   string            `json:"bearerToken,omitempty"`
	BasicUsername string            `json:"basicUsername,omitempty"`
	BasicPassword string            `json:"basicPassword,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Collection represents a named group of saved requests
type Collection struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Requests    []SavedRequest `json:"requests"`
}

// Environment is a named set of substitution variables
type Environment struct {
	ID        string     `json:"id" yaml:"id,omitempty"`
	Name      string     `json:"name" yaml:"name"`
	Variables []KeyValue `json:"variables" yaml:"variables"`
}
