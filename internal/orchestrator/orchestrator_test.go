package orchestrator_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/internal/orchestrator"
)

func TestRunFetchesAndPersistsToLocalFile(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer origin.Close()

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.html")

	configYAML := fmt.Sprintf(`
name: test-run
request:
  url: %q
  method: GET
output:
  - local_file:
      path: %q
log:
  file_path: ""
  level: error
`, origin.URL, outPath)

	configPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	result, err := orchestrator.Run(context.Background(), configPath)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Success)
	assert.Equal(t, 0, result.Summary.FailureCount)

	body, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestRunReturnsErrorOnInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("not: [valid"), 0o644))

	_, err := orchestrator.Run(context.Background(), configPath)
	require.Error(t, err)
	var startupErr *orchestrator.StartupError
	require.ErrorAs(t, err, &startupErr)
	assert.Equal(t, orchestrator.StageConfig, startupErr.Stage)
}

func TestRunReportsTaskFailureWithoutErroring(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer origin.Close()

	dir := t.TempDir()
	configYAML := fmt.Sprintf(`
name: test-run
request:
  url: %q
  method: GET
output:
  - local_file:
      path: %q
log:
  file_path: ""
  level: error
`, origin.URL, filepath.Join(dir, "out.html"))

	configPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	result, err := orchestrator.Run(context.Background(), configPath)
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.False(t, result.Outcomes[0].Success)
	assert.Equal(t, 1, result.Summary.FailureCount)
}
