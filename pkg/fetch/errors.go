package fetch

import "fmt"

// Error is the fetch error sum type. Every variant carries a numeric code
// and a short label for metrics reporting.
type Error interface {
	error
	Code() int
	Label() string
	crawlerError()
}

// ClientError is returned for a 4xx response.
type ClientError struct {
	Result Result
}

func (e *ClientError) Error() string  { return fmt.Sprintf("client error: status %d", e.Result.StatusCode) }
func (e *ClientError) Code() int      { return 400 }
func (e *ClientError) Label() string  { return "client_error" }
func (*ClientError) crawlerError()    {}

// ServerError is returned for a 5xx response after retries are exhausted.
type ServerError struct {
	Result Result
}

func (e *ServerError) Error() string { return fmt.Sprintf("server error: status %d", e.Result.StatusCode) }
func (e *ServerError) Code() int     { return 500 }
func (e *ServerError) Label() string { return "server_error" }
func (*ServerError) crawlerError()   {}

// TimeoutError is returned when every attempt timed out.
type TimeoutError struct {
	TimeoutSeconds int
	RetryCount     int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %d attempt(s), timeout=%ds", e.RetryCount+1, e.TimeoutSeconds)
}
func (e *TimeoutError) Code() int    { return 600 }
func (e *TimeoutError) Label() string { return "timeout_error" }
func (*TimeoutError) crawlerError()   {}

// CharsetConversionError is returned when a textual body's charset could
// not be converted to the requested output charset. It is never retried.
type CharsetConversionError struct {
	Detail string
	Result Result
}

func (e *CharsetConversionError) Error() string { return "charset conversion failed: " + e.Detail }
func (e *CharsetConversionError) Code() int      { return 700 }
func (e *CharsetConversionError) Label() string  { return "charset_conversion_error" }
func (*CharsetConversionError) crawlerError()    {}

// OtherError covers transport failures, invalid headers, and panics
// recovered by the worker pool.
type OtherError struct {
	Detail string
}

func (e *OtherError) Error() string { return e.Detail }
func (e *OtherError) Code() int     { return 800 }
func (e *OtherError) Label() string { return "other_error" }
func (*OtherError) crawlerError()   {}
