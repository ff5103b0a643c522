package workerpool_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/pkg/taskrun"
	"github.com/ravencrawl/raven/pkg/workerpool"
)

type fakeRunner struct {
	inFlight  atomic.Int32
	maxInFlight atomic.Int32
	panicOn   map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, task taskrun.Task) taskrun.Outcome {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if n <= max || f.maxInFlight.CompareAndSwap(max, n) {
			break
		}
	}
	if f.panicOn != nil && f.panicOn[task.Name] {
		panic("boom: " + task.Name)
	}
	return taskrun.Outcome{Task: task, Success: true}
}

func tasksNamed(names ...string) []taskrun.Task {
	tasks := make([]taskrun.Task, len(names))
	for i, n := range names {
		tasks[i] = taskrun.Task{Name: n}
	}
	return tasks
}

func TestPoolPreservesSubmissionOrder(t *testing.T) {
	runner := &fakeRunner{}
	pool := workerpool.New(runner, 4)

	tasks := tasksNamed("a", "b", "c", "d", "e")
	outcomes := pool.Run(context.Background(), tasks)

	require.Len(t, outcomes, 5)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, name, outcomes[i].Task.Name)
	}
}

func TestPoolSerialExecutionDoesNotDeadlock(t *testing.T) {
	runner := &fakeRunner{}
	pool := workerpool.New(runner, 1)

	outcomes := pool.Run(context.Background(), tasksNamed("only"))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)
}

func TestPoolIsolatesPanickingTask(t *testing.T) {
	runner := &fakeRunner{panicOn: map[string]bool{"b": true}}
	pool := workerpool.New(runner, 2)

	outcomes := pool.Run(context.Background(), tasksNamed("a", "b", "c"))
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Success)
	assert.False(t, outcomes[1].Success)
	cause, ok := outcomes[1].Cause.(taskrun.CrawlerFailed)
	require.True(t, ok)
	assert.Contains(t, cause.Err.Error(), "panic in worker")
	assert.True(t, outcomes[2].Success)
}
