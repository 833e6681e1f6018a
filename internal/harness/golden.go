package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where golden files live, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot is the golden form of a result: every response in order, without
// pass/fail state.
type Snapshot struct {
	Scenario  string     `json:"scenario"`
	Responses []Exchange `json:"responses"`
}

// MarshalSnapshot renders result as indented JSON with a trailing newline.
// Query strings are kept readable, so HTML characters are not escaped.
func MarshalSnapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot{
		Scenario:  result.Scenario,
		Responses: result.Responses,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario, fails t on any expectation mismatch
// and compares the responses against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// CompareGolden checks result against dir/{name}.golden outside of go test,
// as the CLI does. With update set the file is (re)written instead.
func CompareGolden(dir string, result *Result, update bool) error {
	data, err := MarshalSnapshot(result)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, result.Scenario+".golden")
	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("response snapshot differs from %s", path)
	}
	return nil
}
