// Package workerpool runs a fixed-size set of parallel workers over a
// static task list, collecting every result in submission order.
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/taskrun"
)

// Runner executes a single task to completion. *taskrun.Executor satisfies
// this.
type Runner interface {
	Run(ctx context.Context, task taskrun.Task) taskrun.Outcome
}

// Pool runs tasks with bounded parallelism.
type Pool struct {
	runner     Runner
	maxThreads int
}

// New builds a Pool with the given worker count. maxThreads < 1 is
// clamped to 1 so the pool can never deadlock on a misconfigured run.
func New(runner Runner, maxThreads int) *Pool {
	if maxThreads < 1 {
		maxThreads = 1
	}
	return &Pool{runner: runner, maxThreads: maxThreads}
}

// Run submits every task to the pool and returns the outcomes in
// submission order. Completion order between tasks is unspecified; each
// submission slot holds its own outcome regardless of when it finished. A
// task that panics inside a worker is reported as an OtherError and does
// not terminate its peers.
func (p *Pool) Run(ctx context.Context, tasks []taskrun.Task) []taskrun.Outcome {
	outcomes := make([]taskrun.Outcome, len(tasks))

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			outcomes[idx] = p.runOne(ctx, tasks[idx])
		}
	}

	for i := 0; i < p.maxThreads; i++ {
		wg.Add(1)
		go worker()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes
}

// runOne recovers a panic from the runner so one broken task cannot take
// down the whole pool.
func (p *Pool) runOne(ctx context.Context, task taskrun.Task) (outcome taskrun.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = taskrun.Outcome{
				Task:    task,
				Success: false,
				Cause:   taskrun.CrawlerFailed{Err: &fetch.OtherError{Detail: fmt.Sprintf("panic in worker: %v", r)}},
			}
		}
	}()
	return p.runner.Run(ctx, task)
}
