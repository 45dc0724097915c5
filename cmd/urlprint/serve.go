package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlprint/internal/compare"
	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/imagesource"
	securelog "github.com/nao1215/urlprint/internal/log"
	"github.com/nao1215/urlprint/internal/metrics"
	"github.com/nao1215/urlprint/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons and scraping over HTTP",
		Long: `Serve starts an HTTP service with the following endpoints:

  GET /compare?url1=&url2=&bits=&bytes=   comparison report as JSON
  GET /scrape?url=                         links and images as JSON
  GET /metrics                             Prometheus metrics
  GET /healthz                             liveness probe

file:// sources are refused, and by default so are image and page URLs
that resolve to loopback, private or link-local addresses. Use
--allow-private to fetch from internal hosts.

Logs are written to stderr as JSON. The server shuts down gracefully on
SIGINT or SIGTERM.

Examples:
  # Listen on the default address
  urlprint serve

  # Listen on all interfaces, fetching onion images through Tor
  urlprint serve --listen :8080 --tor`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "L", config.DefaultListenAddress, "HTTP listen address")
	cmd.Flags().IntP("bits", "b", config.DefaultBits,
		"Default perceptual hash length when a request omits bits")
	cmd.Flags().IntP("bytes", "B", config.DefaultKeepBytes,
		"Default exact fingerprint length when a request omits bytes")
	cmd.Flags().Bool("allow-private", false,
		"Allow fetching from loopback, private and link-local addresses")
	addFetchFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	if err := readFetchFlags(cmd, cfg); err != nil {
		return err
	}
	var err error
	if cfg.ListenAddress, err = cmd.Flags().GetString("listen"); err != nil {
		return err
	}
	if cfg.Bits, err = cmd.Flags().GetInt("bits"); err != nil {
		return err
	}
	if cfg.KeepBytes, err = cmd.Flags().GetInt("bytes"); err != nil {
		return err
	}
	allowPrivate, err := cmd.Flags().GetBool("allow-private")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := securelog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fc, err := newFetchClients(ctx, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer fc.Close()
	if !allowPrivate {
		fc.http = imagesource.NewPublicHTTPClient(cfg.Timeout)
	}

	recorder := metrics.NewRecorder()
	srv := server.New(
		newComparator(cfg, fc, logger, false, compare.WithObserver(recorder)),
		newScraper(cfg, fc, logger),
		server.WithLogger(logger),
		server.WithRecorder(recorder),
		server.WithRequestTimeout(cfg.Timeout),
		server.WithDefaults(cfg.Bits, cfg.KeepBytes),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", cfg.ListenAddress)
	return srv.ListenAndServe(ctx, cfg.ListenAddress)
}
