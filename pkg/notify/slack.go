package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackSink posts notifications to an incoming webhook URL.
type SlackSink struct {
	webhookURL  string
	channel     string
	mention     string
	minSeverity Severity
	httpClient  *http.Client
}

// NewSlackSink builds a SlackSink. mention may be empty.
func NewSlackSink(webhookURL, channel, mention string, minSeverity Severity) *SlackSink {
	return &SlackSink{
		webhookURL:  webhookURL,
		channel:     channel,
		mention:     mention,
		minSeverity: minSeverity,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SlackSink) Name() string { return "slack" }

func (s *SlackSink) MinSeverity() Severity { return s.minSeverity }

type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (s *SlackSink) Notify(ctx context.Context, severity Severity, label, message string) error {
	text := fmt.Sprintf("[%s] %s: %s", severity, label, message)
	if s.mention != "" && severity == SeverityError {
		text = s.mention + " " + text
	}

	body, err := json.Marshal(slackPayload{Channel: s.channel, Text: text})
	if err != nil {
		return &Error{Sink: s.Name(), Detail: fmt.Sprintf("encoding payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return &Error{Sink: s.Name(), Detail: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Sink: s.Name(), Detail: fmt.Sprintf("sending webhook: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return &Error{Sink: s.Name(), Detail: fmt.Sprintf("webhook returned status %d", resp.StatusCode)}
	}
	return nil
}
