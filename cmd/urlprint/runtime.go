package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlprint/internal/compare"
	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/fingerprint"
	"github.com/nao1215/urlprint/internal/imagesource"
	securelog "github.com/nao1215/urlprint/internal/log"
	"github.com/nao1215/urlprint/internal/model"
	"github.com/nao1215/urlprint/internal/phash"
	"github.com/nao1215/urlprint/internal/report"
	"github.com/nao1215/urlprint/internal/tor"
)

// addFetchFlags registers the flags of every command that downloads content.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for one comparison or page, including downloads")
	cmd.Flags().Int64("max-image-size", config.DefaultMaxImageSize,
		"Largest image or page read, in bytes")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header (per-host values in the config file take precedence)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .urlprint in current, XDG config or home directory)")

	// Tor connection flags
	cmd.Flags().Bool("tor", false,
		"Fetch .onion hosts through the Tor proxy given by --tor-proxy")
	cmd.Flags().String("tor-proxy", config.DefaultTorProxyAddress,
		"Tor SOCKS5 proxy address used with --tor")
	cmd.Flags().Bool("embedded-tor", false,
		"Start a private Tor daemon for .onion hosts")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
}

// addReportFlags registers the output format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// readFetchFlags fills the download related fields of cfg and loads the
// site configuration file.
func readFetchFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	flags := cmd.Flags()

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.MaxImageSize, err = flags.GetInt64("max-image-size"); err != nil {
		return err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return err
	}
	if cfg.TorProxyAddress, err = flags.GetString("tor-proxy"); err != nil {
		return err
	}
	if cfg.EmbeddedTor, err = flags.GetBool("embedded-tor"); err != nil {
		return err
	}
	if cfg.EmbeddedTor {
		cfg.UseTor = true
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return loadSiteConfigs(cfg)
}

// readReportFlags fills the output fields of cfg.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	return err
}

// loadSiteConfigs loads per-host settings.
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise an empty configuration is used when no file is found.
func loadSiteConfigs(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		sites, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = sites
	case explicitConfigPath:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}
	return nil
}

// setupLogger creates the sanitizing logger for the CLI and makes it the
// default so that library code logging through slog is sanitized too.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := securelog.NewSecureLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// fetchClients holds the HTTP clients used for clearnet and onion hosts.
type fetchClients struct {
	http     *http.Client
	onion    *http.Client
	embedded *tor.EmbeddedTor
	logger   *slog.Logger
}

// newFetchClients creates the HTTP clients for cfg. With UseTor it verifies
// the external proxy, or starts the embedded Tor daemon, before returning.
// Close must be called to stop an embedded daemon.
func newFetchClients(ctx context.Context, cfg *config.Config, logger *slog.Logger, status io.Writer) (*fetchClients, error) {
	fc := &fetchClients{
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
	if !cfg.UseTor {
		return fc, nil
	}

	var client *tor.Client
	if cfg.EmbeddedTor {
		fmt.Fprintln(status, "Starting embedded Tor daemon...")
		fmt.Fprintf(status, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

		embedded := tor.NewEmbeddedTor(tor.WithStartupTimeout(cfg.TorStartupTimeout))
		if err := embedded.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		fc.embedded = embedded
		logger.Info("embedded Tor daemon started", "socksAddr", embedded.SocksAddr())

		var err error
		if client, err = embedded.NewClient(cfg.Timeout); err != nil {
			fc.Close()
			return nil, fmt.Errorf("failed to create Tor client: %w", err)
		}
	} else {
		var err error
		if client, err = tor.NewClient(cfg.TorProxyAddress, cfg.Timeout); err != nil {
			return nil, fmt.Errorf("failed to create Tor client: %w", err)
		}
	}

	if st := client.CheckConnection(ctx); st != tor.ProxyStatusOK {
		fc.Close()
		return nil, fmt.Errorf("tor proxy check failed: %w (make sure Tor is running at %s)",
			st.Error(), client.ProxyAddress())
	}
	logger.Info("Tor proxy connection verified", "address", client.ProxyAddress())

	fc.onion = client.NewHTTPClient()
	return fc, nil
}

// Close stops the embedded Tor daemon, if any.
func (fc *fetchClients) Close() {
	if fc == nil || fc.embedded == nil {
		return
	}
	fc.logger.Info("stopping embedded Tor daemon...")
	if err := fc.embedded.Stop(); err != nil {
		fc.logger.Error("failed to stop embedded Tor", "error", err)
	}
	fc.embedded = nil
}

// newComparator wires the image source, perceptual hasher and comparator.
// localFiles enables file:// sources and must stay false for anything
// reachable over the network.
func newComparator(cfg *config.Config, fc *fetchClients, logger *slog.Logger, localFiles bool, opts ...compare.Option) *compare.Comparator {
	srcOpts := []imagesource.Option{
		imagesource.WithLocalFiles(localFiles),
		imagesource.WithHTTPClient(fc.http),
		imagesource.WithSiteConfig(cfg.SiteConfigs),
		imagesource.WithUserAgent(cfg.UserAgent),
		imagesource.WithMaxImageSize(cfg.EffectiveMaxImageSize()),
		imagesource.WithLogger(logger),
	}
	if fc.onion != nil {
		srcOpts = append(srcOpts, imagesource.WithOnionClient(fc.onion))
	}

	adapter := fingerprint.NewPerceptualAdapter(imagesource.New(srcOpts...), phash.New())
	opts = append([]compare.Option{compare.WithLogger(logger)}, opts...)
	return compare.New(nil, adapter, opts...)
}

// timeoutComparer bounds every Compare call by its own timeout.
type timeoutComparer struct {
	comparator *compare.Comparator
	timeout    time.Duration
}

func (t timeoutComparer) Compare(ctx context.Context, url1, url2 string, bits, keepBytes int) (*model.ComparisonReport, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.comparator.Compare(ctx, url1, url2, bits, keepBytes)
}

// openOutput returns the report destination: the --output file, created
// with owner-only permissions, or w.
func openOutput(cfg *config.Config, w io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return w, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}
