package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/metrics"
	"github.com/ravencrawl/raven/pkg/persist"
	"github.com/ravencrawl/raven/pkg/taskrun"
)

func TestBuildTaskMetricSuccess(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	outcome := taskrun.Outcome{
		Task:          taskrun.Task{Name: "t1", Request: fetch.Request{URL: "http://x", Method: fetch.MethodGet}},
		Success:       true,
		CrawlerResult: &fetch.Result{CrawledAt: now, DurationMillis: 42},
		TotalMillis:   100,
	}

	m := metrics.BuildTaskMetric(outcome, now)
	assert.Equal(t, 0, m.ResultCode)
	assert.Equal(t, "success", m.ResultLabel)
	require.NotNil(t, m.CrawlerDurationMillis)
	assert.Equal(t, int64(42), *m.CrawlerDurationMillis)
	assert.Equal(t, "raven-task-metrics-2024-05-06", m.IndexName("raven"))
}

func TestBuildTaskMetricCrawlerFailed(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	outcome := taskrun.Outcome{
		Task:    taskrun.Task{Name: "t1"},
		Success: false,
		Cause:   taskrun.CrawlerFailed{Err: &fetch.ServerError{Result: fetch.Result{StatusCode: 503}}},
	}

	m := metrics.BuildTaskMetric(outcome, now)
	assert.Equal(t, 500, m.ResultCode)
	assert.Equal(t, "server_error", m.ResultLabel)
}

func TestBuildCrawlerMetricSuccess(t *testing.T) {
	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	outcome := taskrun.Outcome{
		Success:       true,
		CrawlerResult: &fetch.Result{CrawledAt: now, DurationMillis: 10, RetryCount: 2},
	}

	m := metrics.BuildCrawlerMetric(outcome, "my-crawler", now)
	assert.Equal(t, 200, m.ResultCode)
	assert.Equal(t, 2, m.RetryCount)
	assert.Equal(t, "raven-crawler-2024-05-06", m.IndexName("raven"))
}

func TestBuildSummaryCountsFailuresAndPersistErrors(t *testing.T) {
	start := time.Now().Add(-time.Second)
	outcomes := []taskrun.Outcome{
		{Success: true, CrawlerResult: &fetch.Result{Body: []byte("hello")}, PersistErrors: []persist.Error{&persist.S3Error{Detail: "x"}}},
		{Success: false},
	}

	s := metrics.BuildSummary("my-crawler", start, outcomes)
	assert.Equal(t, 2, s.TaskCount)
	assert.Equal(t, 1, s.FailureCount)
	assert.Equal(t, 1, s.PersistErrorCount)
	assert.Equal(t, int64(5), s.BytesTransferred)
	assert.Contains(t, s.Message(), "failures=1")
}
