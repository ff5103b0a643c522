package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravencrawl/raven/internal/orchestrator"
)

func TestExitCodeForStage(t *testing.T) {
	assert.Equal(t, 10, exitCodeForStage(orchestrator.StageConfig))
	assert.Equal(t, 11, exitCodeForStage(orchestrator.StageExpansion))
	assert.Equal(t, 12, exitCodeForStage(orchestrator.StageStartup))
}

func TestRunCmdRequiresExactlyOneArg(t *testing.T) {
	err := runCmd.Args(runCmd, []string{})
	assert.Error(t, err)

	err = runCmd.Args(runCmd, []string{"a", "b"})
	assert.Error(t, err)

	err = runCmd.Args(runCmd, []string{"one.yaml"})
	assert.NoError(t, err)
}
