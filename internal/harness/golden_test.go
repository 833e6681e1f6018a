package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_CatalogList(t *testing.T) {
	// Regenerate with: go test ./internal/harness -run TestRunWithGolden -update
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "catalog_list")))
}

func TestRunWithGolden_CatalogRead(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "catalog_read")))
}

func TestMarshalSnapshot_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "catalog_list")

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	a, err := MarshalSnapshot(first)
	require.NoError(t, err)
	b, err := MarshalSnapshot(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(a), `"path": "/api/rest/products?price<60&fields=id,name"`)
}

func TestCompareGolden(t *testing.T) {
	dir := t.TempDir()
	result := NewResult("snap")
	result.Responses = append(result.Responses, exchange(200, `[]`))

	err := CompareGolden(dir, result, false)
	require.Error(t, err, "missing golden file")

	require.NoError(t, CompareGolden(dir, result, true))
	_, err = os.Stat(filepath.Join(dir, "snap.golden"))
	require.NoError(t, err)
	require.NoError(t, CompareGolden(dir, result, false))

	result.Responses[0].Status = 500
	err = CompareGolden(dir, result, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differs")
}
