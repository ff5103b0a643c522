package metrics

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ravencrawl/raven/pkg/taskrun"
)

// Summary aggregates one run's outcomes for the final notification.
type Summary struct {
	CrawlerName        string
	Hostname           string
	StartedAt          time.Time
	TotalDuration       time.Duration
	TaskCount          int
	FailureCount       int
	PersistErrorCount  int
	BytesTransferred   int64
}

// BuildSummary aggregates outcomes into a Summary.
func BuildSummary(crawlerName string, startedAt time.Time, outcomes []taskrun.Outcome) Summary {
	hostname, _ := os.Hostname()
	s := Summary{
		CrawlerName: crawlerName,
		Hostname:    hostname,
		StartedAt:   startedAt,
		TotalDuration: time.Since(startedAt),
		TaskCount:   len(outcomes),
	}

	for _, outcome := range outcomes {
		if !outcome.Success {
			s.FailureCount++
			continue
		}
		s.PersistErrorCount += len(outcome.PersistErrors)
		if outcome.CrawlerResult != nil {
			s.BytesTransferred += int64(len(outcome.CrawlerResult.Body))
		}
	}
	return s
}

// Message renders the human-readable run summary body sent through the
// notify sink.
func (s Summary) Message() string {
	return fmt.Sprintf(
		"crawler=%s host=%s started=%s duration=%.1fs tasks=%d failures=%d persist_errors=%d transferred=%s",
		s.CrawlerName,
		s.Hostname,
		s.StartedAt.Format("2006-01-02 15:04:05"),
		s.TotalDuration.Seconds(),
		s.TaskCount,
		s.FailureCount,
		s.PersistErrorCount,
		humanize.Bytes(uint64(s.BytesTransferred)),
	)
}
