package harness

import (
	"encoding/json"
)

// Exchange is one request and the response it produced.
type Exchange struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true if every expect clause matched.
	Pass bool `json:"pass"`

	// Responses holds one exchange per request, in order.
	Responses []Exchange `json:"responses"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario:  scenario,
		Pass:      true,
		Responses: []Exchange{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
