package fetch

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// HTTPDoer is the minimal surface the fetcher needs from an HTTP client,
// matching net/http.Client so tests can substitute a fake transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher executes one CrawlerRequest against the network, implementing
// the retry/timeout/charset state machine.
type Fetcher struct {
	client HTTPDoer
	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
	// sleep is overridable in tests; defaults to time.Sleep.
	sleep func(time.Duration)
}

// New builds a Fetcher. A nil client defaults to a new http.Client per
// request, configured with the request's own timeout.
func New(client HTTPDoer) *Fetcher {
	return &Fetcher{client: client, now: time.Now, sleep: time.Sleep}
}

// Fetch executes req, retrying per the state machine in the fetcher
// contract, and returns either a Result or a classified Error.
func (f *Fetcher) Fetch(req Request) (*Result, Error) {
	client := f.client
	if client == nil {
		client = &http.Client{Timeout: req.Timeout}
	}

	start := f.now()
	retryCount := 0
	for {
		if req.Sleep > 0 {
			f.sleep(req.Sleep)
		}

		httpReq, err := buildHTTPRequest(req)
		if err != nil {
			return nil, &OtherError{Detail: err.Error()}
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			if isTimeout(err) {
				if retryCount >= req.MaxRetry {
					return nil, &TimeoutError{TimeoutSeconds: int(req.Timeout / time.Second), RetryCount: retryCount}
				}
				retryCount++
				continue
			}
			return nil, &OtherError{Detail: err.Error()}
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, &OtherError{Detail: fmt.Sprintf("reading response body: %v", err)}
		}

		durationMillis := f.now().Sub(start).Milliseconds()
		contentType := detectContentType(resp.Header.Get("Content-Type"), req.Encoding.Input)

		result := Result{
			StatusCode:     resp.StatusCode,
			Headers:        flattenHeader(resp.Header),
			Body:           body,
			DurationMillis: durationMillis,
			RetryCount:     retryCount,
			ContentType:    contentType,
			CrawledAt:      f.now(),
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			converted, convertedType, convErr := maybeConvertCharset(result.Body, contentType, req.Encoding)
			if convErr != nil {
				return nil, &CharsetConversionError{Detail: convErr.Error(), Result: result}
			}
			result.Body = converted
			result.ContentType = convertedType
			return &result, nil

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			result.Body = bestEffortUTF8(result.Body, contentType)
			return nil, &ClientError{Result: result}

		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			if retryCount >= req.MaxRetry {
				result.Body = bestEffortUTF8(result.Body, contentType)
				return nil, &ServerError{Result: result}
			}
			retryCount++
			continue

		default:
			return nil, &OtherError{Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
		}
	}
}

func buildHTTPRequest(req Request) (*http.Request, error) {
	target := req.URL
	method := string(req.Method)
	if method == "" {
		method = string(MethodGet)
	}

	var body io.Reader
	switch Method(method) {
	case MethodGet:
		if q := encodeParams(req.QueryParams); q != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target = target + sep + q
		}
	case MethodPost:
		body = strings.NewReader(encodeParams(req.BodyParams))
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}

	httpReq, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if method == string(MethodPost) {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Header {
		if !validHeaderNameValue(k, v) {
			return nil, fmt.Errorf("invalid header %q", k)
		}
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

// encodeParams renders a param map as a percent-encoded query/form string,
// iterating keys in sorted order for deterministic output.
func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	values := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, params[k])
	}
	// url.Values.Encode already sorts by key; explicit sort above keeps
	// this resilient to that implementation detail changing.
	return values.Encode()
}

func validHeaderNameValue(name, value string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= 0x20 || r == 0x7f || strings.ContainsRune(":()<>@,;\\\"/[]?={} \t", r) {
			return false
		}
	}
	for _, r := range value {
		if r == '\r' || r == '\n' {
			return false
		}
	}
	return true
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, errTimeout)
}

var errTimeout = fmt.Errorf("timeout")

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// detectContentType parses the Content-Type header if present. If it is
// absent and an input charset was configured, a text/plain type carrying
// that charset is synthesized. Otherwise it defaults to
// application/octet-stream.
func detectContentType(header string, inputCharset string) string {
	if header != "" {
		if mt, params, err := mime.ParseMediaType(header); err == nil {
			if inputCharset != "" && isTextMIME(mt) {
				params["charset"] = inputCharset
			}
			return mime.FormatMediaType(mt, params)
		}
		return header
	}
	if inputCharset != "" {
		return mime.FormatMediaType("text/plain", map[string]string{"charset": inputCharset})
	}
	return "application/octet-stream"
}

// maybeConvertCharset converts body to the configured output charset when
// the detected MIME is textual and an output charset was requested.
func maybeConvertCharset(body []byte, contentType string, enc Encoding) ([]byte, string, error) {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || !isTextMIME(mt) || !enc.HasOutput() {
		return body, contentType, nil
	}

	charset := params["charset"]
	if charset == "" {
		charset = enc.Input
	}
	if charset == "" {
		return nil, "", fmt.Errorf("no charset detected for textual response")
	}

	converted, err := convertCharset(body, charset, enc.Output)
	if err != nil {
		return nil, "", err
	}

	params["charset"] = strings.ToLower(enc.Output)
	newType := mime.FormatMediaType(mt, params)
	return converted, newType, nil
}

// bestEffortUTF8 converts 4xx/5xx bodies to UTF-8 for textual MIMEs,
// swallowing conversion errors since the body is only used for
// diagnostics on these paths.
func bestEffortUTF8(body []byte, contentType string) []byte {
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil || !isTextMIME(mt) {
		return body
	}
	charset := params["charset"]
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return body
	}
	converted, err := convertCharset(body, charset, "utf-8")
	if err != nil {
		return body
	}
	return converted
}
