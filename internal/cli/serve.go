package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/restview/internal/config"
	"github.com/roach88/restview/internal/server"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions

	// ready receives the listening address once the server accepts
	// connections. Tests use it to find a ":0" port.
	ready chan<- string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured resources over HTTP",
		Long: `Serve the configured resources over HTTP.

Routes:
  GET /api/rest/<resource>        list records, filtered by the query string
  GET /api/rest/<resource>/<id>   read one record
  GET /metrics                    Prometheus metrics
  GET /health                     liveness

Every flag can also be set through the environment, prefixed with
RESTVIEW_ and with dashes replaced by underscores (RESTVIEW_LOG_LEVEL).

Example:
  restview serve --config catalog.yaml --driver pgx --dsn postgres://localhost/shop
  restview serve --config catalog.cue --dsn ./shop.db --rate-limit 50`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	d := config.DefaultSettings()
	addSourceFlags(cmd)
	cmd.Flags().String("addr", d.Addr, "listen address")
	cmd.Flags().String("log-level", d.LogLevel, "log level (debug|info|warn|error)")
	cmd.Flags().String("log-format", d.LogFormat, "log format (text|json)")
	cmd.Flags().Float64("rate-limit", d.RateLimit, "requests per second per client (0 disables)")
	cmd.Flags().Int("burst", d.Burst, "rate limiter burst")
	cmd.Flags().Int("max-limit", d.MaxLimit, "largest page size for resources without max_limit")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	level := settings.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), settings.LogFormat, level))

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, _ := cmd.Flags().GetString("seed")
	src, err := openSource(ctx, settings, seed, formatter)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.New(src.cfg, src.engine, server.Options{
		Registry:  reg,
		RateLimit: settings.RateLimit,
		Burst:     settings.Burst,
		MaxLimit:  settings.MaxLimit,
	})
	if err != nil {
		return configError(formatter, err)
	}

	ln, err := net.Listen("tcp", settings.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("server starting",
		"addr", ln.Addr().String(),
		"driver", settings.Driver,
		"config", settings.Config,
		"resources", src.cfg.Names())
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", ln.Addr())
	if opts.ready != nil {
		opts.ready <- ln.Addr().String()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
