package recorder

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vedsharma/resterx/internal/model"
)

// HistoryAppender persists history entries
type HistoryAppender interface {
	Append(entry model.HistoryEntry) ([]model.HistoryEntry, error)
}

// Recorder keeps the current response and the session cookies, and appends
// every recorded attempt to the history.
type Recorder struct {
	history HistoryAppender
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	current *model.ResponseRecord
	cookies []model.Cookie
}

// New creates a recorder writing history to h
func New(h HistoryAppender) *Recorder {
	return &Recorder{
		history: h,
		now:     time.Now,
		newID:   func() string { return uuid.New().String()[:8] },
	}
}

// Record stores rec as the current response, collects its cookies and
// prepends a history entry for the resolved URL.
func (r *Recorder) Record(method model.Method, resolvedURL string, rec model.ResponseRecord) (model.HistoryEntry, error) {
	r.Observe(rec)

	entry := model.HistoryEntry{
		ID:             r.newID(),
		Method:         method,
		URL:            resolvedURL,
		StatusCode:     rec.StatusCode,
		ResponseTimeMs: rec.ResponseTimeMs,
		Timestamp:      r.now(),
	}
	if r.history == nil {
		return entry, nil
	}
	if _, err := r.history.Append(entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// Observe updates the current response and cookies without touching history
func (r *Recorder) Observe(rec model.ResponseRecord) {
	var parsed []model.Cookie
	for key, value := range rec.Headers {
		if strings.EqualFold(key, "set-cookie") {
			parsed = append(parsed, ParseSetCookie(value)...)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = &rec
	if len(parsed) > 0 {
		r.cookies = append(parsed, r.cookies...)
	}
}

// Current returns the most recent response, or nil before the first send
func (r *Recorder) Current() *model.ResponseRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	rec := *r.current
	return &rec
}

// Cookies returns the session cookies, newest first
func (r *Recorder) Cookies() []model.Cookie {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Cookie, len(r.cookies))
	copy(out, r.cookies)
	return out
}

// ClearCookies empties the session cookie list
func (r *Recorder) ClearCookies() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cookies = nil
}
