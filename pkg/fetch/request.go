// Package fetch implements the HTTP fetcher: one request attempt with
// timeout, retry, MIME detection, and charset conversion.
package fetch

import "time"

// Method is the HTTP method a Request uses. Only GET and POST are
// supported per the configuration contract.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Encoding declares how a textual response body should be reinterpreted
// (Input) and re-encoded (Output).
type Encoding struct {
	Input  string // charset name; empty means "detect from Content-Type"
	Output string // charset name; empty means "no conversion"
}

// HasOutput reports whether response bodies should be charset-converted.
func (e Encoding) HasOutput() bool { return e.Output != "" }

// Request is one fully-rendered, concrete request derived from task
// expansion.
type Request struct {
	URL         string
	Method      Method
	Header      map[string]string
	Encoding    Encoding
	Timeout     time.Duration
	MaxRetry    int
	QueryParams map[string]string
	BodyParams  map[string]string
	Sleep       time.Duration
}
