package fetch

import "time"

// Result is a successful or semi-successful fetch: the HTTP response made
// it back and its body was read (and possibly charset-converted).
type Result struct {
	StatusCode      int
	Headers         map[string]string
	Body            []byte
	DurationMillis  int64
	RetryCount      int
	ContentType     string // detected MIME, e.g. "text/html; charset=utf-8"
	CrawledAt       time.Time
}
