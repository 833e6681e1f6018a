package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceArgs points a read command at a seeded SQLite file in a temp dir.
func sourceArgs(t *testing.T) []string {
	t.Helper()
	return []string{
		"--config", filepath.Join("testdata", "catalog.yaml"),
		"--dsn", filepath.Join(t.TempDir(), "shop.db"),
		"--seed", filepath.Join("testdata", "shop.sql"),
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList_Text(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "price>=10&price<100&fields=id,name"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		`{"id":2,"name":"book"}`,
		`{"id":3,"name":"lamp"}`,
		`{"id":5,"name":"mug"}`,
	}, lines)
}

func TestList_JSONWithTotal(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "json"})
	args := append([]string{"products", "limit=2&fields=id,category_id", "--total"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.NoError(t, err)

	var resp struct {
		Status    string          `json:"status"`
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	assert.JSONEq(t, `{
		"resource": "products",
		"count": 2,
		"total": 5,
		"items": [
			{"id": 1, "category_id": "Stationery"},
			{"id": 2, "category_id": "Stationery"}
		]
	}`, string(resp.Data))
}

func TestList_TotalTextGoesToStderr(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "name=desk", "--total"}, sourceArgs(t)...)

	out, errOut, err := execute(t, cmd, args...)
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"desk"`)
	assert.Equal(t, "1 of 1 record(s)\n", errOut)
}

func TestList_MaxLimitFromConfig(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "limit=50&fields=id"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestList_BadFilterValue(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "price>ten"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E303]")
	assert.Contains(t, out, `invalid value "ten" for filter "price"`)
}

func TestList_UnknownResource(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})
	args := append([]string{"orders"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]")
}

func TestList_MissingConfig(t *testing.T) {
	cmd := NewListCommand(&RootOptions{Format: "text"})

	out, _, err := execute(t, cmd, "products", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestGet_Found(t *testing.T) {
	cmd := NewGetCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "3"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.NoError(t, err)
	assert.Equal(t, `{"id":3,"name":"lamp","price":80,"category_id":"Furniture"}`+"\n", out)
}

func TestGet_FieldsJSON(t *testing.T) {
	cmd := NewGetCommand(&RootOptions{Format: "json"})
	args := append([]string{"products", "1", "--fields", "name"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"name": "pen"}, resp.Data)
}

func TestGet_NotFound(t *testing.T) {
	cmd := NewGetCommand(&RootOptions{Format: "text"})
	args := append([]string{"products", "999"}, sourceArgs(t)...)

	out, _, err := execute(t, cmd, args...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E302]")
	assert.Contains(t, out, `products "999" not found`)
}
