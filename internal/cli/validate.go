package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/restview/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                     `json:"valid"`
	Resources []string                 `json:"resources,omitempty"`
	Errors    []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate a resource configuration",
		Long: `Validate a resource configuration without connecting to a database.

Checks resource and filter names, reserved parameters (page, limit, fields,
locale), filter transforms and reference declarations. All problems are
reported, not just the first.

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors
  2 - File missing or not parseable`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)
	cfg, err := config.Load(path)
	if err == nil {
		return outputValidateSuccess(formatter, cfg)
	}

	var verrs config.ValidationErrors
	if errors.As(err, &verrs) {
		return outputValidationErrors(formatter, verrs)
	}

	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		// Unreadable files are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}

	_ = formatter.Error(config.ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "validation failed", err)
}

func outputValidateSuccess(formatter *OutputFormatter, cfg *config.File) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Resources: cfg.Names()})
	}

	fmt.Fprintf(formatter.Writer, "✓ Configuration valid (%d resource(s))\n", len(cfg.Resources))
	for _, r := range cfg.Resources {
		formatter.VerboseLog("  %s: table %s, %d filter(s)", r.Name, r.Table, len(r.Filters))
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs config.ValidationErrors) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n", err.Field)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
