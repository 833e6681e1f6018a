package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a sequence of requests against one configuration.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the resource configuration (YAML or CUE).
	Config string `yaml:"config"`

	// Seed lists SQL scripts run in order before the requests.
	Seed []string `yaml:"seed,omitempty"`

	// SeedSQL is run after the Seed scripts.
	SeedSQL string `yaml:"seed_sql,omitempty"`

	// Requests are issued in order.
	Requests []Request `yaml:"requests"`
}

// Request is one GET request and its expectations.
type Request struct {
	Name    string            `yaml:"name"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers,omitempty"`

	// Expect is optional; without it only a 200 status is required.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected response.
type Expect struct {
	Status   int               `yaml:"status,omitempty"`
	Count    *int              `yaml:"count,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	Items    []map[string]any  `yaml:"items,omitempty"`
	Contains []string          `yaml:"contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file, resolving config and
// seed paths relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	scenario.resolve(filepath.Dir(path))

	if err := validateFiles(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes a scenario without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario directly inside dir,
// sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) resolve(base string) {
	if s.Config != "" && !filepath.IsAbs(s.Config) {
		s.Config = filepath.Join(base, s.Config)
	}
	for i, p := range s.Seed {
		if !filepath.IsAbs(p) {
			s.Seed[i] = filepath.Join(base, p)
		}
	}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Config == "" {
		return fmt.Errorf("config is required")
	}
	if len(s.Requests) == 0 {
		return fmt.Errorf("requests list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Requests))
	for i, r := range s.Requests {
		if r.Name == "" {
			return fmt.Errorf("requests[%d]: name is required", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("requests[%d]: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true

		if !strings.HasPrefix(r.Path, "/") {
			return fmt.Errorf("requests[%d]: path must start with /", i)
		}
		if r.Expect == nil {
			continue
		}
		if r.Expect.Status != 0 && (r.Expect.Status < 100 || r.Expect.Status > 599) {
			return fmt.Errorf("requests[%d].expect: invalid status %d", i, r.Expect.Status)
		}
		if r.Expect.Count != nil && *r.Expect.Count < 0 {
			return fmt.Errorf("requests[%d].expect: count must be non-negative", i)
		}
	}
	return nil
}

// validateFiles checks that referenced files exist.
func validateFiles(s *Scenario) error {
	if _, err := os.Stat(s.Config); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", s.Config)
	}
	for _, p := range s.Seed {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("seed file not found: %s", p)
		}
	}
	return nil
}
