// Package taskrun executes one CrawlTask: fetch, then persist to every
// configured sink, then classify the outcome.
package taskrun

import (
	"github.com/ravencrawl/raven/pkg/fetch"
	"github.com/ravencrawl/raven/pkg/persist"
)

// Task is one concrete request plus its ordered list of persistence sinks.
// It is read-only once Task Expansion produces it.
type Task struct {
	Name    string
	Request fetch.Request
	Sinks   []persist.Sink
}

// Cause explains why a Task produced a Failure outcome.
type Cause interface {
	outcomeCause()
}

// CrawlerFailed means the fetch itself never produced a usable result.
type CrawlerFailed struct {
	Err fetch.Error
}

func (CrawlerFailed) outcomeCause() {}

// PersistFailed means the fetch succeeded but every configured sink failed
// to persist the body.
type PersistFailed struct {
	CrawlerResult *fetch.Result
	PersistErrors []persist.Error
	PersistMillis int64
}

func (PersistFailed) outcomeCause() {}

// Outcome is the tagged union result of running one Task.
type Outcome struct {
	Task          Task
	TotalMillis   int64
	Success       bool
	CrawlerResult *fetch.Result  // set on Success
	PersistErrors []persist.Error // set on Success (partial) or PersistFailed
	PersistMillis int64          // set on Success
	Cause         Cause          // set when Success is false
}
