package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/request"
)

const (
	// MaxResponseSize limits response body to 50MB to prevent memory exhaustion
	MaxResponseSize = 50 * 1024 * 1024

	// NetworkErrorStatus is the status text of a failed attempt
	NetworkErrorStatus = "Network Error"
)

// Doer performs a single HTTP round trip
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues materialized requests and normalizes the outcome
type Client struct {
	doer   Doer
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithDoer swaps the transport, mostly for tests
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithLogger sets the logger used for transport warnings
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new HTTP client. Timeouts are applied per attempt
// through the context, so the underlying http.Client has none.
func NewClient(opts ...Option) *Client {
	c := &Client{
		doer:   &http.Client{},
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke executes one request. It never fails: transport problems come back
// as a record with StatusCode 0 and Error set.
func (c *Client) Invoke(ctx context.Context, m request.Materialized) model.ResponseRecord {
	if err := c.validateURL(m.URL); err != nil {
		return c.errorRecord(err, 0)
	}

	var bodyReader io.Reader
	if m.HasBody {
		bodyReader = strings.NewReader(m.Body)
	}

	req, err := http.NewRequestWithContext(ctx, string(m.Method), m.URL, bodyReader)
	if err != nil {
		return c.errorRecord(err, 0)
	}
	for _, h := range m.Headers {
		req.Header.Set(h.Key, h.Value)
	}

	start := c.now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return c.errorRecord(err, c.now().Sub(start))
	}
	defer resp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	elapsed := c.now().Sub(start)
	if err != nil {
		return c.errorRecord(err, elapsed)
	}
	if int64(len(respBody)) > MaxResponseSize {
		respBody = respBody[:MaxResponseSize]
		c.logger.Warn("response body truncated", "url", m.URL, "limit_bytes", MaxResponseSize)
	}

	return model.ResponseRecord{
		StatusCode:        resp.StatusCode,
		StatusText:        statusText(resp),
		Headers:           flattenHeaders(resp.Header),
		Body:              string(respBody),
		ResponseTimeMs:    elapsed.Milliseconds(),
		ResponseSizeBytes: int64(len(respBody)),
		Timestamp:         c.now(),
	}
}

func (c *Client) errorRecord(err error, elapsed time.Duration) model.ResponseRecord {
	c.logger.Debug("request failed", "error", err)
	return model.ResponseRecord{
		StatusCode:     0,
		StatusText:     NetworkErrorStatus,
		Headers:        map[string]string{},
		Body:           err.Error(),
		ResponseTimeMs: elapsed.Milliseconds(),
		Timestamp:      c.now(),
		Error:          true,
	}
}

// statusText strips the numeric prefix from resp.Status ("200 OK" -> "OK")
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

// flattenHeaders converts response headers to a flat map. Repeated values are
// joined with ", " except Set-Cookie, whose values may contain commas and are
// joined with newlines instead.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		sep := ", "
		if strings.EqualFold(key, "Set-Cookie") {
			sep = "\n"
		}
		out[key] = strings.Join(values, sep)
	}
	return out
}
