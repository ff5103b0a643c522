// Package cmd implements the raven command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "none",
	BuildDate: "unknown",
}

var rootCmd = &cobra.Command{
	Use:   "raven",
	Short: "Declarative batch HTTP crawler",
	Long: `raven runs one declarative run-configuration document: it expands a
templated request into a set of concrete fetch tasks, runs them through a
bounded worker pool, persists each response to its configured sinks, and
reports metrics and a run summary.`,
}

// SetVersionInfo installs build-time version metadata, normally called
// from main with values set by -ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate)
}

// Execute runs the root command, returning the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ce, ok := err.(*cliError); ok {
			return ce.code
		}
		return 1
	}
	return 0
}

// cliError pairs an error with the process exit code it should produce.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func exitError(code int, message string, err error) error {
	return &cliError{code: code, err: fmt.Errorf("%s: %w", message, err)}
}
