package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
name: smoke-test
request:
  url: "http://example.com/{{id}}"
  method: GET
  vars:
    - id: ["1", "2"]
output:
  - local_file:
      path: "out/{{id}}.html"
log:
  file_path: "run.log"
  level: info
`

func TestLoadFromBytesYAML(t *testing.T) {
	doc, err := LoadFromBytes([]byte(minimalYAML), "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "smoke-test", doc.Name)
	assert.Equal(t, "GET", doc.Request.Method)
	assert.Equal(t, 1, doc.MaxThreads, "max_threads defaults to 1")
	assert.Equal(t, 1, doc.Request.TimeoutSeconds, "timeout_seconds defaults to 1")
	assert.Equal(t, "raven", doc.Log.IndexPrefix)
}

func TestLoadFromBytesRejectsUnknownField(t *testing.T) {
	bad := minimalYAML + "\nbogus_field: true\n"
	_, err := LoadFromBytes([]byte(bad), "config.yaml")
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestLoadFromBytesRequiresOutput(t *testing.T) {
	const noOutput = `
name: smoke-test
request:
  url: "http://example.com"
  method: GET
log:
  file_path: "run.log"
  level: info
`
	_, err := LoadFromBytes([]byte(noOutput), "config.yaml")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadFromBytesJSON(t *testing.T) {
	const jsonDoc = `{
		"name": "json-test",
		"request": {"url": "http://example.com", "method": "POST"},
		"output": [{"local_file": {"path": "out.html"}}],
		"log": {"file_path": "run.log", "level": "warn"}
	}`
	doc, err := LoadFromBytes([]byte(jsonDoc), "config.json")
	require.NoError(t, err)
	assert.Equal(t, "json-test", doc.Name)
	assert.Equal(t, "POST", doc.Request.Method)
}
