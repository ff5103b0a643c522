// Package exitcode names the process exit codes this binary can return.
//
// Per the run contract, a crawl that completes with partial task failures
// still exits 0 — these codes are reserved for startup-time failures only.
package exitcode

const (
	// InvalidConfig is returned when the configuration file cannot be read,
	// parsed, or fails schema validation.
	InvalidConfig = 10
	// ExpansionFailed is returned when task expansion itself errors before
	// any task runs (e.g. a malformed template referencing an undefined key).
	ExpansionFailed = 11
	// StartupFailure is returned for any other error that prevents a run
	// from beginning, such as a logger, notify dispatcher, or S3 client that
	// could not be constructed.
	StartupFailure = 12
)
