package searchindex

import _ "embed"

// TaskMetricsTemplate is the index template body for task-metric records,
// derived from the field set the reference crawler writes for
// raven_task_metrics documents.
//
//go:embed templates/task_metrics.json
var TaskMetricsTemplate []byte

// CrawlerMetricsTemplate is the index template body for per-request
// crawler records.
//
//go:embed templates/crawler_metrics.json
var CrawlerMetricsTemplate []byte
