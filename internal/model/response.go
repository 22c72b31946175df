package model

import "time"

// ResponseRecord is the normalized outcome of one request attempt
type ResponseRecord struct {
	StatusCode        int               `json:"statusCode"`
	StatusText        string            `json:"statusText"`
	Headers           map[string]string `json:"headers"`
	Body              string            `json:"body"`
	ResponseTimeMs    int64             `json:"responseTimeMs"`
	ResponseSizeBytes int64             `json:"responseSizeBytes"`
	Timestamp         time.Time         `json:"timestamp"`
	Error             bool              `json:"error"`
}

// HistoryEntry summarizes one send attempt
type HistoryEntry struct {
	ID             string    `json:"id"`
	Method         Method    `json:"method"`
	URL            string    `json:"url"`
	StatusCode     int       `json:"statusCode"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	Timestamp      time.Time `json:"timestamp"`
}

// MaxHistoryEntries caps the history log
const MaxHistoryEntries = 100

// Cookie is parsed from a Set-Cookie response header
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  string `json:"expires,omitempty"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
}
