package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture writes name under dir and returns its path.
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "conf/catalog.yaml", "resources: []\n")
	writeFixture(t, dir, "conf/schema.sql", "SELECT 1;")
	path := writeFixture(t, dir, "test.yaml", `
name: test_scenario
description: "Test scenario for validation"
config: conf/catalog.yaml
seed: [conf/schema.sql]
requests:
  - name: all
    path: /api/rest/products
    headers: { X-Include: totalCount }
    expect:
      status: 200
      count: 3
      items:
        - { id: 1 }
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, filepath.Join(dir, "conf", "catalog.yaml"), scenario.Config)
	assert.Equal(t, []string{filepath.Join(dir, "conf", "schema.sql")}, scenario.Seed)
	require.Len(t, scenario.Requests, 1)

	req := scenario.Requests[0]
	assert.Equal(t, "totalCount", req.Headers["X-Include"])
	require.NotNil(t, req.Expect)
	require.NotNil(t, req.Expect.Count)
	assert.Equal(t, 3, *req.Expect.Count)
	assert.Equal(t, 1, req.Expect.Items[0]["id"])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "test.yaml", `
name: s
description: d
config: missing.yaml
requests:
  - { name: a, path: /health }
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: s
description: d
config: c.yaml
request:
  - { name: a, path: /health }
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nconfig: c\nrequests: [{name: a, path: /}]",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: s\nconfig: c\nrequests: [{name: a, path: /}]",
			wantErr: "description is required",
		},
		{
			name:    "missing config",
			yaml:    "name: s\ndescription: d\nrequests: [{name: a, path: /}]",
			wantErr: "config is required",
		},
		{
			name:    "no requests",
			yaml:    "name: s\ndescription: d\nconfig: c",
			wantErr: "requests list is required",
		},
		{
			name:    "unnamed request",
			yaml:    "name: s\ndescription: d\nconfig: c\nrequests: [{path: /}]",
			wantErr: "requests[0]: name is required",
		},
		{
			name:    "duplicate request",
			yaml:    "name: s\ndescription: d\nconfig: c\nrequests: [{name: a, path: /}, {name: a, path: /}]",
			wantErr: `requests[1]: duplicate name "a"`,
		},
		{
			name:    "relative path",
			yaml:    "name: s\ndescription: d\nconfig: c\nrequests: [{name: a, path: api/rest/x}]",
			wantErr: "path must start with /",
		},
		{
			name:    "bad status",
			yaml:    "name: s\ndescription: d\nconfig: c\nrequests: [{name: a, path: /, expect: {status: 42}}]",
			wantErr: "invalid status 42",
		},
		{
			name:    "negative count",
			yaml:    "name: s\ndescription: d\nconfig: c\nrequests: [{name: a, path: /, expect: {count: -1}}]",
			wantErr: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDir_SortedAndSkipsSubdirs(t *testing.T) {
	scenarios, err := LoadDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "catalog_list", scenarios[0].Name)
	assert.Equal(t, "catalog_read", scenarios[1].Name)
}

func TestLoadDir_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.yaml", "name: [")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
