package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidate_Valid(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid (1 resource(s))")
}

func TestValidate_ValidJSON(t *testing.T) {
	out, err := executeValidate(t, "json", filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"products"}, resp.Data.Resources)
}

func TestValidate_Invalid(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E201")
	assert.Contains(t, out, "E203")
	assert.Contains(t, out, "E205")
}

func TestValidate_InvalidJSON(t *testing.T) {
	out, err := executeValidate(t, "json", filepath.Join("testdata", "invalid.yaml"))
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.GreaterOrEqual(t, len(resp.Data.Errors), 3)
	assert.Equal(t, "E201", resp.Error.Code)
}

func TestValidate_MissingFile(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidate_MissingArgs(t *testing.T) {
	_, err := executeValidate(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
