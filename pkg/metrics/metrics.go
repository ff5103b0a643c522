// Package metrics builds the per-task and per-crawl records shipped to
// the search backend after each run.
package metrics

import (
	"os"
	"time"

	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/persist"
	"github.com/ravencrawl/raven/pkg/taskrun"
)

// TaskSummary is the compact task description embedded in a TaskMetric.
type TaskSummary struct {
	URL      string   `json:"url"`
	Method   string   `json:"method"`
	SinkDesc []string `json:"sinks"`
}

// TaskMetric is the flat per-task record published to the search backend.
type TaskMetric struct {
	RunID               string      `json:"run_id,omitempty"`
	Name                string      `json:"name"`
	Date                time.Time   `json:"date"`
	TotalDurationMillis int64       `json:"total_duration_ms"`
	CrawlerDurationMillis *int64    `json:"crawler_duration_ms,omitempty"`
	PersistDurationMillis *int64    `json:"persist_duration_ms,omitempty"`
	ResultCode          int         `json:"result_code"`
	ResultLabel         string      `json:"result_label"`
	ResultDetail        string      `json:"result_detail"`
	Task                TaskSummary `json:"task"`
}

// IndexName returns the target index for this record, derived from Date.
func (m TaskMetric) IndexName(prefix string) string {
	return prefix + "-task-metrics-" + m.Date.Format("2006-01-02")
}

// CrawlerMetric is the flat per-request record published to the search
// backend.
type CrawlerMetric struct {
	RunID                 string        `json:"run_id,omitempty"`
	CrawlerName           string        `json:"crawler_name"`
	ResultCode             int          `json:"result_code"`
	ResultMessage          string       `json:"result_message"`
	RequestDurationMillis  *int64       `json:"request_duration_ms,omitempty"`
	ErrorDetail            string       `json:"error_detail,omitempty"`
	Request                fetch.Request `json:"request"`
	RetryCount             int          `json:"retry_count"`
	CrawledDate            time.Time    `json:"crawled_date"`
	Hostname               string       `json:"hostname"`
}

// IndexName returns the target index for this record, derived from
// CrawledDate.
func (m CrawlerMetric) IndexName(prefix string) string {
	return prefix + "-crawler-" + m.CrawledDate.Format("2006-01-02")
}

func taskSummary(task taskrun.Task) TaskSummary {
	sinks := make([]string, len(task.Sinks))
	for i, s := range task.Sinks {
		sinks[i] = s.Describe()
	}
	return TaskSummary{URL: task.Request.URL, Method: string(task.Request.Method), SinkDesc: sinks}
}

// BuildTaskMetric derives a TaskMetric from one task outcome.
func BuildTaskMetric(outcome taskrun.Outcome, now time.Time) TaskMetric {
	m := TaskMetric{
		Name: outcome.Task.Name,
		Date: now,
		TotalDurationMillis: outcome.TotalMillis,
		Task: taskSummary(outcome.Task),
	}

	if outcome.Success {
		m.ResultCode = 0
		m.ResultLabel = "success"
		m.ResultDetail = "success"
		if outcome.CrawlerResult != nil {
			cd := outcome.CrawlerResult.DurationMillis
			m.CrawlerDurationMillis = &cd
			m.Date = outcome.CrawlerResult.CrawledAt
		}
		pd := outcome.PersistMillis
		m.PersistDurationMillis = &pd
		return m
	}

	switch cause := outcome.Cause.(type) {
	case taskrun.CrawlerFailed:
		m.ResultCode = cause.Err.Code()
		m.ResultLabel = cause.Err.Label()
		m.ResultDetail = cause.Err.Error()
	case taskrun.PersistFailed:
		m.ResultCode = 900
		m.ResultLabel = "persist_failed"
		m.ResultDetail = persistErrorsDetail(cause.PersistErrors)
		if cause.CrawlerResult != nil {
			cd := cause.CrawlerResult.DurationMillis
			m.CrawlerDurationMillis = &cd
			m.Date = cause.CrawlerResult.CrawledAt
		}
		pd := cause.PersistMillis
		m.PersistDurationMillis = &pd
	}
	return m
}

// BuildCrawlerMetric derives a CrawlerMetric from one task outcome.
func BuildCrawlerMetric(outcome taskrun.Outcome, crawlerName string, now time.Time) CrawlerMetric {
	hostname, _ := os.Hostname()
	m := CrawlerMetric{
		CrawlerName: crawlerName,
		Request:     outcome.Task.Request,
		Hostname:    hostname,
		CrawledDate: now,
	}

	if outcome.Success && outcome.CrawlerResult != nil {
		m.ResultCode = 200
		m.ResultMessage = "success"
		d := outcome.CrawlerResult.DurationMillis
		m.RequestDurationMillis = &d
		m.RetryCount = outcome.CrawlerResult.RetryCount
		m.CrawledDate = outcome.CrawlerResult.CrawledAt
		return m
	}

	switch cause := outcome.Cause.(type) {
	case taskrun.CrawlerFailed:
		m.ResultCode = cause.Err.Code()
		m.ResultMessage = cause.Err.Label()
		m.ErrorDetail = cause.Err.Error()
		if te, ok := cause.Err.(*fetch.TimeoutError); ok {
			m.RetryCount = te.RetryCount
		}
	case taskrun.PersistFailed:
		m.ResultCode = 200
		m.ResultMessage = "success"
		if cause.CrawlerResult != nil {
			d := cause.CrawlerResult.DurationMillis
			m.RequestDurationMillis = &d
			m.RetryCount = cause.CrawlerResult.RetryCount
			m.CrawledDate = cause.CrawlerResult.CrawledAt
		}
		m.ErrorDetail = persistErrorsDetail(cause.PersistErrors)
	}
	return m
}

func persistErrorsDetail(errs []persist.Error) string {
	if len(errs) == 0 {
		return ""
	}
	out := errs[0].Error()
	for _, e := range errs[1:] {
		out += "; " + e.Error()
	}
	return out
}
