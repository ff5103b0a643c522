// Package orchestrator wires configuration loading, task expansion, the
// worker pool, metrics, search-backend publishing, and notifications into
// one run.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ravencrawl/raven/internal/config"
	"github.com/ravencrawl/raven/internal/observability"
	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/metrics"
	"github.com/ravencrawl/raven/pkg/notify"
	"github.com/ravencrawl/raven/pkg/persist"
	"github.com/ravencrawl/raven/pkg/searchindex"
	"github.com/ravencrawl/raven/pkg/taskexpand"
	"github.com/ravencrawl/raven/pkg/taskrun"
	"github.com/ravencrawl/raven/pkg/workerpool"
)

// Result is the outcome of a full run, returned to the caller, which
// prints its summary; the exit code depends only on Run's error.
type Result struct {
	Outcomes []taskrun.Outcome
	Summary  metrics.Summary
}

// Stage names the point at which a run failed to start.
type Stage string

const (
	StageConfig    Stage = "config"
	StageExpansion Stage = "expansion"
	StageStartup   Stage = "startup"
)

// StartupError reports why a run could not begin, tagged with the Stage
// that failed so the CLI can select the matching exit code.
type StartupError struct {
	Stage Stage
	Err   error
}

func (e *StartupError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StartupError) Unwrap() error { return e.Err }

// Run executes one crawl run end to end: it loads and validates the
// configuration at configPath, expands it into tasks, runs them through
// the worker pool, publishes metrics to the search backend (if
// configured), and sends the final run summary through the notify
// dispatcher, at warn severity when any task failed and at info severity
// otherwise, so sinks whose minimum severity is higher do not receive it.
// Task and persistence failures are non-fatal: they are reflected
// in the returned Result and reported through notify, and Run still
// returns a nil error. A non-nil error means the run could not start at
// all (bad config, expansion failure).
func Run(ctx context.Context, configPath string) (*Result, error) {
	doc, err := config.Load(configPath)
	if err != nil {
		return nil, &StartupError{Stage: StageConfig, Err: fmt.Errorf("loading configuration: %w", err)}
	}

	if _, err := observability.Init(observability.Config{
		Level:    doc.Log.Level,
		FilePath: doc.Log.FilePath,
	}); err != nil {
		return nil, &StartupError{Stage: StageStartup, Err: fmt.Errorf("initializing logger: %w", err)}
	}

	dispatcher, err := notify.Build(doc.Notify)
	if err != nil {
		return nil, &StartupError{Stage: StageStartup, Err: fmt.Errorf("building notify dispatcher: %w", err)}
	}

	runID := uuid.New().String()
	observability.CLILogger = observability.CLILogger.With(zap.String("run_id", runID))

	now := time.Now()
	tasks, err := taskexpand.Expand(doc, now)
	if err != nil {
		observability.CLILogger.Error("task expansion failed", zap.Error(err))
		dispatcher.Error(ctx, "expansion_failed", err.Error())
		return nil, &StartupError{Stage: StageExpansion, Err: fmt.Errorf("expanding tasks: %w", err)}
	}

	s3Client, err := buildS3Client(ctx, doc)
	if err != nil {
		observability.CLILogger.Error("failed to configure S3 sink", zap.Error(err))
		dispatcher.Error(ctx, "startup_failure", err.Error())
		return nil, &StartupError{Stage: StageStartup, Err: fmt.Errorf("configuring S3 client: %w", err)}
	}

	executor := taskrun.NewExecutor(fetch.New(nil), persist.NewDispatcher(s3Client))
	pool := workerpool.New(executor, doc.MaxThreads)

	observability.CLILogger.Info("starting run",
		zap.String("name", doc.Name),
		zap.Int("task_count", len(tasks)),
		zap.Int("max_threads", doc.MaxThreads))

	outcomes := pool.Run(ctx, tasks)

	publishMetrics(ctx, doc, outcomes, now, runID, dispatcher)

	summary := metrics.BuildSummary(doc.Name, now, outcomes)
	observability.CLILogger.Info("run completed", zap.String("summary", summary.Message()))

	if summary.FailureCount > 0 {
		dispatcher.Warn(ctx, "run_completed_with_failures", summary.Message())
	} else {
		dispatcher.Info(ctx, "run_completed", summary.Message())
	}

	return &Result{Outcomes: outcomes, Summary: summary}, nil
}

func buildS3Client(ctx context.Context, doc *config.Document) (*persist.S3Client, error) {
	for _, sinkCfg := range doc.Output {
		if sinkCfg.AmazonS3 == nil {
			continue
		}
		return persist.NewS3Client(ctx, sinkCfg.AmazonS3.Region, sinkCfg.AmazonS3.Endpoint)
	}
	return nil, nil
}

func publishMetrics(ctx context.Context, doc *config.Document, outcomes []taskrun.Outcome, now time.Time, runID string, dispatcher *notify.Dispatcher) {
	if doc.Log.SearchBackendURL == "" {
		return
	}

	client := searchindex.New(doc.Log.SearchBackendURL)
	publisher := searchindex.NewPublisher(client, doc.Log.IndexPrefix)

	if err := publisher.EnsureTemplates(ctx); err != nil {
		observability.CLILogger.Warn("failed to ensure search index templates", zap.Error(err))
		dispatcher.Warn(ctx, "metrics_publish_failed", err.Error())
		return
	}

	taskMetrics := make([]metrics.TaskMetric, len(outcomes))
	crawlerMetrics := make([]metrics.CrawlerMetric, len(outcomes))
	for i, outcome := range outcomes {
		taskMetrics[i] = metrics.BuildTaskMetric(outcome, now)
		taskMetrics[i].RunID = runID
		crawlerMetrics[i] = metrics.BuildCrawlerMetric(outcome, doc.Name, now)
		crawlerMetrics[i].RunID = runID
	}

	if err := publisher.PublishTaskMetrics(ctx, taskMetrics); err != nil {
		observability.CLILogger.Warn("failed to publish task metrics", zap.Error(err))
		dispatcher.Warn(ctx, "metrics_publish_failed", err.Error())
	}
	if err := publisher.PublishCrawlerMetrics(ctx, crawlerMetrics); err != nil {
		observability.CLILogger.Warn("failed to publish crawler metrics", zap.Error(err))
		dispatcher.Warn(ctx, "metrics_publish_failed", err.Error())
	}
}
