package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/restview/internal/config"
	"github.com/roach88/restview/internal/query"
	"github.com/roach88/restview/internal/store"
)

// addSourceFlags registers the flags naming the database and the resource
// configuration. Every flag can also be set through RESTVIEW_* variables.
func addSourceFlags(cmd *cobra.Command) {
	d := config.DefaultSettings()
	cmd.Flags().String("config", d.Config, "resource configuration file (.yaml or .cue)")
	cmd.Flags().String("driver", d.Driver, "database driver (sqlite3|mysql|pgx)")
	cmd.Flags().String("dsn", d.DSN, "database connection string")
	cmd.Flags().String("seed", "", "SQL script to run after connecting")
}

// loadSettings merges flags, environment and defaults.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	v := config.NewViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Settings{}, WrapExitError(ExitCommandError, "failed to bind flags", err)
	}
	s, err := config.LoadSettings(v)
	if err != nil {
		return config.Settings{}, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return s, nil
}

// source is an open database plus the resources it serves.
type source struct {
	store *store.Store
	cfg   *config.File
}

// openSource loads the configuration, connects to the database and runs
// the optional seed script. Failures are reported through formatter and
// returned as ExitErrors.
func openSource(ctx context.Context, s config.Settings, seed string, formatter *OutputFormatter) (*source, error) {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return nil, configError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d resource(s) from %s", len(cfg.Resources), s.Config)

	st, err := store.Open(s.Driver, s.DSN)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	formatter.VerboseLog("Connected to %s database", st.Dialect())

	if seed != "" {
		script, err := os.ReadFile(seed)
		if err != nil {
			st.Close()
			_ = formatter.Error(config.ErrCodeNotFound, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to read seed script", err)
		}
		if err := st.Exec(ctx, string(script)); err != nil {
			st.Close()
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to run seed script", err)
		}
		formatter.VerboseLog("Ran seed script %s", seed)
	}

	return &source{store: st, cfg: cfg}, nil
}

// engine backs a resource with its table.
func (src *source) engine(r config.Resource) (query.Engine, error) {
	return src.store.Repository(r.StoreTable()), nil
}

func (src *source) Close() error {
	return src.store.Close()
}

// configError reports a configuration load failure. Unreadable files are
// command errors; invalid contents are failures.
func configError(formatter *OutputFormatter, err error) error {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", loadErr.Code, loadErr.Message))
	}

	var verrs config.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		_ = formatter.Error(verrs[0].Code, verrs[0].Message, verrs)
		return NewExitError(ExitFailure, fmt.Sprintf("configuration invalid with %d error(s)", len(verrs)))
	}

	_ = formatter.Error(config.ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load configuration", err)
}
