package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/restview/internal/extension"
	"github.com/roach88/restview/internal/filter"
	"github.com/roach88/restview/internal/handler"
	"github.com/roach88/restview/internal/projection"
	"github.com/roach88/restview/internal/server"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Total bool // ask for the total count
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Resource string            `json:"resource"`
	Count    int               `json:"count"`
	Total    *int64            `json:"total,omitempty"`
	Items    []projection.Item `json:"items"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <resource> [query]",
		Short: "List records of a resource",
		Long: `List records of a resource without starting the server.

The optional query uses the same syntax as the HTTP API: filters such as
price>10 or name=pen joined by &, plus page, limit and fields.

Examples:
  restview list products
  restview list products 'price>=10&price<100&fields=id,name' --total
  restview list products 'page=2&limit=5' --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			return runList(opts, args[0], raw, cmd)
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().BoolVar(&opts.Total, "total", false, "report the number of matching records on all pages")

	return cmd
}

func runList(opts *ListOptions, resource, raw string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	quietLogging(opts.RootOptions)
	ctx := cmd.Context()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	seed, _ := cmd.Flags().GetString("seed")
	src, err := openSource(ctx, settings, seed, formatter)
	if err != nil {
		return err
	}
	defer src.Close()

	rc, ok := src.cfg.Lookup(resource)
	if !ok {
		return unknownResource(formatter, resource)
	}
	transforms, err := rc.Transforms()
	if err != nil {
		return configError(formatter, err)
	}
	pred, err := filter.NewBuilder(transforms).FromQuery(raw, rc.Whitelist())
	if err != nil {
		_ = formatter.Error(ErrCodeBadQuery, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.Prefix+resource+"?"+raw, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeBadQuery, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid query", err)
	}
	if opts.Total {
		req.Header.Set(extension.HeaderInclude, "totalCount")
	}

	engine, _ := src.engine(rc)
	maxLimit := rc.MaxLimit
	if maxLimit == 0 {
		maxLimit = settings.MaxLimit
	}
	h := handler.New(rc.Name, engine,
		handler.WithChain(extension.NewChain(extension.NewRequestID(nil), extension.TotalCount{})),
		handler.WithMaxLimit(maxLimit))

	params := handler.ParseParams(req.URL.Query(), rc.Fields)
	resp, err := h.List(ctx, handler.ListRequest{
		Page:     params.Page,
		Limit:    params.Limit,
		Criteria: pred,
		Fields:   params.Fields,
		Request:  req,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list failed", err)
	}

	items, _ := resp.Body.([]projection.Item)
	result := ListResult{Resource: rc.Name, Count: len(items), Items: items}
	if v := resp.Header.Get(extension.HeaderTotalCount); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			result.Total = &n
		}
	}

	lines := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return WrapExitError(ExitCommandError, "encode record", err)
		}
		lines = append(lines, line)
	}

	if err := formatter.Records(lines, result, resp.Header.Get(extension.HeaderRequestID)); err != nil {
		return err
	}
	if result.Total != nil && opts.Format != "json" {
		fmt.Fprintf(formatter.GetErrWriter(), "%d of %d record(s)\n", result.Count, *result.Total)
	}
	return nil
}

func unknownResource(formatter *OutputFormatter, resource string) error {
	msg := fmt.Sprintf("unknown resource %q", resource)
	_ = formatter.Error(ErrCodeUnknownResource, msg, nil)
	return NewExitError(ExitFailure, msg)
}
