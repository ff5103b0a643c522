package taskrun

import (
	"context"
	"time"

	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/persist"
)

// Executor composes a Fetcher and a Dispatcher into the single-task
// pipeline: fetch, then (on success) persist to every sink, then classify.
type Executor struct {
	Fetcher    *fetch.Fetcher
	Dispatcher *persist.Dispatcher
	now        func() time.Time
}

// NewExecutor builds an Executor from its two collaborators.
func NewExecutor(fetcher *fetch.Fetcher, dispatcher *persist.Dispatcher) *Executor {
	return &Executor{Fetcher: fetcher, Dispatcher: dispatcher, now: time.Now}
}

// Run executes task to completion, never panicking on task-domain errors;
// panics raised by the HTTP or persistence layers are the worker pool's
// responsibility to recover, not the executor's.
func (e *Executor) Run(ctx context.Context, task Task) Outcome {
	t0 := e.now()

	result, fetchErr := e.Fetcher.Fetch(task.Request)
	if fetchErr != nil {
		return Outcome{
			Task:        task,
			TotalMillis: e.since(t0),
			Success:     false,
			Cause:       CrawlerFailed{Err: fetchErr},
		}
	}

	p0 := e.now()
	persistErrors := e.Dispatcher.Write(ctx, task.Sinks, result.Body, result.ContentType)
	persistMillis := e.since(p0)

	if len(task.Sinks) > 0 && len(persistErrors) == len(task.Sinks) {
		return Outcome{
			Task:        task,
			TotalMillis: e.since(t0),
			Success:     false,
			Cause: PersistFailed{
				CrawlerResult: result,
				PersistErrors: persistErrors,
				PersistMillis: persistMillis,
			},
		}
	}

	return Outcome{
		Task:          task,
		TotalMillis:   e.since(t0),
		Success:       true,
		CrawlerResult: result,
		PersistErrors: persistErrors,
		PersistMillis: persistMillis,
	}
}

func (e *Executor) since(start time.Time) int64 {
	return e.now().Sub(start).Milliseconds()
}
