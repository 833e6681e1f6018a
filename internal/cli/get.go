package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/roach88/restview/internal/extension"
	"github.com/roach88/restview/internal/handler"
	"github.com/roach88/restview/internal/server"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Fields string // comma-separated projection
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record of a resource",
		Long: `Show one record of a resource without starting the server.

Exit codes:
  0 - Record found
  1 - Unknown resource or no record with that id
  2 - Command error (configuration unreadable, database unreachable, etc.)

Examples:
  restview get products 42
  restview get products 42 --fields id,name --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	addSourceFlags(cmd)
	cmd.Flags().StringVar(&opts.Fields, "fields", "", "comma-separated fields to return")

	return cmd
}

func runGet(opts *GetOptions, resource, id string, cmd *cobra.Command) error {
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

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.Prefix+resource+"/"+url.PathEscape(id), nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "build request", err)
	}

	engine, _ := src.engine(rc)
	h := handler.New(rc.Name, engine,
		handler.WithChain(extension.NewChain(extension.NewRequestID(nil))))

	resp, err := h.Get(ctx, handler.GetRequest{
		ID:      id,
		Fields:  handler.FieldsParam(url.Values{handler.ParamFields: {opts.Fields}}, rc.Fields),
		Request: req,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "get failed", err)
	}

	if resp.Status == http.StatusNotFound {
		msg := fmt.Sprintf("%s %q not found", rc.Name, id)
		_ = formatter.Error(ErrCodeRecordNotFound, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	line, err := json.Marshal(resp.Body)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode record", err)
	}
	return formatter.Records([]json.RawMessage{line}, resp.Body, resp.Header.Get(extension.HeaderRequestID))
}
