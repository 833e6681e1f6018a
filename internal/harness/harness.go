package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/roach88/restview/internal/config"
	"github.com/roach88/restview/internal/extension"
	"github.com/roach88/restview/internal/query"
	"github.com/roach88/restview/internal/server"
	"github.com/roach88/restview/internal/store"
	"github.com/roach88/restview/internal/testutil"
)

// baseURL is the origin requests are addressed to. Only the path reaches
// the server.
const baseURL = "http://restview.test"

// snapshotHeaders are the response headers recorded in every exchange.
var snapshotHeaders = []string{
	"Content-Language",
	extension.HeaderTotalCount,
	extension.HeaderRequestID,
}

// Harness serves one scenario.
type Harness struct {
	server *server.Server
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Request IDs come from a SequenceGenerator so responses are reproducible.
//
// Execution flow:
//  1. Create fresh in-memory database
//  2. Run the seed scripts
//  3. Load the resource configuration and build the server
//  4. Issue each request and check its expect clause
//
// A non-nil error means the scenario could not be run at all; failed
// expectations are reported in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := seed(ctx, st, scenario); err != nil {
		return nil, err
	}

	cfg, err := config.Load(scenario.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	srv, err := server.New(cfg, func(r config.Resource) (query.Engine, error) {
		return st.Repository(r.StoreTable()), nil
	}, server.Options{
		IDGenerator: testutil.NewSequenceGenerator("req"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build server: %w", err)
	}

	h := &Harness{server: srv}

	result := NewResult(scenario.Name)
	for i, req := range scenario.Requests {
		ex, err := h.do(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, req.Name, err)
		}
		result.Responses = append(result.Responses, ex)

		for _, aerr := range checkExchange(ex, req.Expect) {
			result.AddError(aerr.Error())
		}
	}
	return result, nil
}

// seed runs the seed files, then the inline SQL.
func seed(ctx context.Context, st *store.Store, scenario *Scenario) error {
	for _, path := range scenario.Seed {
		script, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		if err := st.Exec(ctx, string(script)); err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
	}
	if err := st.Exec(ctx, scenario.SeedSQL); err != nil {
		return fmt.Errorf("seed_sql: %w", err)
	}
	return nil
}

// do issues one request against the in-process server.
func (h *Harness) do(ctx context.Context, r Request) (Exchange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+r.Path, nil)
	if err != nil {
		return Exchange{}, fmt.Errorf("build request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)

	return Exchange{
		Name:    r.Name,
		Path:    r.Path,
		Status:  rec.Code,
		Headers: pickHeaders(rec.Header(), r.Expect),
		Body:    rawBody(rec.Body.Bytes()),
	}, nil
}

// pickHeaders keeps the snapshot headers plus any the request expects.
func pickHeaders(header http.Header, expect *Expect) map[string]string {
	out := make(map[string]string)
	for _, name := range snapshotHeaders {
		if v := header.Get(name); v != "" {
			out[name] = v
		}
	}
	if expect != nil {
		for name := range expect.Headers {
			if v := header.Get(name); v != "" {
				out[name] = v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// rawBody returns body as JSON. Non-JSON bodies become a JSON string.
func rawBody(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return quoted
}
