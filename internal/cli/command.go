package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/statuspage-service/internal/config"
	"github.com/sandeepkv93/statuspage-service/internal/database"
	"github.com/sandeepkv93/statuspage-service/internal/di"
)

type options struct {
	envFile string
}

type probeOptions struct {
	baseURL string
	host    string
	timeout time.Duration
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "statuspage",
		Short:         "Multi-tenant hosted status pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional env file loaded before the process environment")
	cmd.AddCommand(newServeCommand(opts), newMigrateCommand(opts), newSessionsCommand(opts), newProbeCommand())
	return cmd
}

func (o *options) load() (*config.Config, error) {
	if o.envFile == "" {
		return config.Load()
	}
	return config.Load(o.envFile)
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := di.InitializeApp(ctx, cfg)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			if err := database.Migrate(ctx, a.DB); err != nil {
				_ = a.Shutdown(context.Background())
				return err
			}
			return a.Run(ctx)
		},
	}
}

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := maintenance(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(m.DB) }()
			if err := database.Migrate(cmd.Context(), m.DB); err != nil {
				return err
			}
			m.Logger.InfoContext(cmd.Context(), "schema migrated")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSessionsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "sessions", Short: "Session maintenance"}
	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := maintenance(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(m.DB) }()
			n, err := m.Sessions.CleanupExpired(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired sessions\n", n)
			return nil
		},
	})
	return cmd
}

func maintenance(ctx context.Context, opts *options) (*di.Maintenance, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	m, err := di.InitializeMaintenance(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize maintenance: %w", err)
	}
	return m, nil
}

// newProbeCommand checks a running deployment from the outside.
func newProbeCommand() *cobra.Command {
	opts := &probeOptions{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check readiness and optionally one tenant's status endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			out := cmd.OutOrStdout()

			if err := probeGET(ctx, *opts, "/health/ready", ""); err != nil {
				return fmt.Errorf("readiness: %w", err)
			}
			_, _ = fmt.Fprintln(out, "readiness: ok")
			if opts.host == "" {
				return nil
			}
			if err := probeGET(ctx, *opts, "/api/status", opts.host); err != nil {
				return fmt.Errorf("status %s: %w", opts.host, err)
			}
			_, _ = fmt.Fprintf(out, "status %s: ok\n", opts.host)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&opts.host, "host", "", "status page host, e.g. acme.example.com")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "overall probe timeout")
	return cmd
}

func probeGET(ctx context.Context, opts probeOptions, path, host string) error {
	u, err := url.Parse(opts.baseURL)
	if err != nil {
		return err
	}
	rel, err := url.Parse(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.ResolveReference(rel).String(), nil)
	if err != nil {
		return err
	}
	if host != "" {
		req.Host = host
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return errors.New("unexpected response: " + resp.Status)
	}
	return nil
}
