package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vedsharma/resterx/internal/http"
	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/recorder"
	"github.com/vedsharma/resterx/internal/request"
)

// EnvironmentSource returns the active environment, or nil when none is active
type EnvironmentSource interface {
	Active() (*model.Environment, error)
}

// Invoker executes a materialized request under a retry policy
type Invoker interface {
	InvokeWithRetry(ctx context.Context, m request.Materialized, p http.Policy) model.ResponseRecord
}

// Result is the outcome of one send
type Result struct {
	Request  request.Materialized
	Response model.ResponseRecord
	Entry    *model.HistoryEntry
}

// Sender runs the send pipeline: resolve, compose, materialize, invoke, record
type Sender struct {
	envs     EnvironmentSource
	client   Invoker
	recorder *recorder.Recorder
	policy   http.Policy
	logger   *slog.Logger
}

// Option configures a Sender
type Option func(*Sender)

// WithPolicy sets the timeout and retry policy applied to every send
func WithPolicy(p http.Policy) Option {
	return func(s *Sender) { s.policy = p }
}

// WithLogger sets the sender logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSender creates a Sender. envs may be nil when environments are not used.
func NewSender(envs EnvironmentSource, client Invoker, rec *recorder.Recorder, opts ...Option) *Sender {
	s := &Sender{
		envs:     envs,
		client:   client,
		recorder: rec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendOptions tweak a single send
type SendOptions struct {
	// NoHistory keeps the attempt out of the history log. The current
	// response and cookies are still updated.
	NoHistory bool
}

// Send materializes draft against the active environment and executes it.
// Transport failures are reported inside Result.Response; the returned error
// covers validation and storage failures only.
func (s *Sender) Send(ctx context.Context, draft model.RequestDraft, opts SendOptions) (Result, error) {
	if strings.TrimSpace(draft.URL) == "" {
		return Result{}, &model.ValidationError{Field: "url", Reason: "must not be empty"}
	}

	m, err := s.Prepare(draft)
	if err != nil {
		return Result{}, err
	}

	s.logger.Debug("sending request", "method", m.Method, "url", m.URL, "headers", len(m.Headers), "body", m.HasBody)
	rec := s.client.InvokeWithRetry(ctx, m, s.policy)
	if rec.Error {
		s.logger.Warn("request failed", "url", m.URL, "error", rec.Body)
	}

	result := Result{Request: m, Response: rec}
	if s.recorder == nil {
		return result, nil
	}
	if opts.NoHistory {
		s.recorder.Observe(rec)
		return result, nil
	}

	entry, err := s.recorder.Record(m.Method, m.URL, rec)
	if err != nil {
		return result, fmt.Errorf("failed to save history: %w", err)
	}
	result.Entry = &entry
	return result, nil
}

// Prepare materializes draft against the active environment without sending
func (s *Sender) Prepare(draft model.RequestDraft) (request.Materialized, error) {
	env, err := s.activeEnvironment()
	if err != nil {
		return request.Materialized{}, err
	}
	return request.Materialize(draft, env), nil
}

// Invoke executes an already materialized request under the sender's policy
// without recording it.
func (s *Sender) Invoke(ctx context.Context, m request.Materialized) model.ResponseRecord {
	return s.client.InvokeWithRetry(ctx, m, s.policy)
}

func (s *Sender) activeEnvironment() (*model.Environment, error) {
	if s.envs == nil {
		return nil, nil
	}
	env, err := s.envs.Active()
	if err != nil {
		return nil, fmt.Errorf("failed to load active environment: %w", err)
	}
	return env, nil
}
