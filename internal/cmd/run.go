package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravencrawl/raven/internal/exitcode"
	"github.com/ravencrawl/raven/internal/orchestrator"
)

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Run a crawl from a run-configuration document",
	Long: `Run executes a single declarative run-configuration document: it
expands the templated request into concrete fetch tasks, runs them through
a bounded worker pool, persists every response to its configured sinks,
and reports metrics and a run summary.

Example:
  raven run crawl.yaml
  raven run crawl.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	configPath := args[0]

	result, err := orchestrator.Run(ctx, configPath)
	if err != nil {
		var startupErr *orchestrator.StartupError
		if errors.As(err, &startupErr) {
			return exitError(exitCodeForStage(startupErr.Stage), "run failed to start", startupErr.Err)
		}
		return exitError(exitcode.StartupFailure, "run failed to start", err)
	}

	fmt.Println(result.Summary.Message())
	return nil
}

func exitCodeForStage(stage orchestrator.Stage) int {
	switch stage {
	case orchestrator.StageConfig:
		return exitcode.InvalidConfig
	case orchestrator.StageExpansion:
		return exitcode.ExpansionFailed
	default:
		return exitcode.StartupFailure
	}
}
