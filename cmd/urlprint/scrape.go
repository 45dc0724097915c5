package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/report"
	"github.com/nao1215/urlprint/internal/scrape"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [page-url]",
		Short: "List the links and images of a web page",
		Long: `Scrape downloads one HTML page and lists every link (a[href]) and
image (img[src]) on it with absolute URLs. Links are not followed.

Labels are the link text, or the alt (or title) text of an image,
with whitespace collapsed. Elements without text are labelled "None".

Examples:
  # List links and images
  urlprint scrape https://example.com/gallery

  # Images only, as JSON
  urlprint scrape --images-only --json https://example.com/gallery`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	cmd.Flags().BoolP("images-only", "i", false, "List images only")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().StringP("output", "o", "",
		"Write the list to specified file path (creates directories if needed)")
	addFetchFlags(cmd)

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if err := readFetchFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	imagesOnly, err := cmd.Flags().GetBool("images-only")
	if err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fc, err := newFetchClients(ctx, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer fc.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	items, err := newScraper(cfg, fc, logger, scrape.WithImagesOnly(imagesOnly)).Scrape(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut()

	if cfg.JSONReport {
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteItems(items)
	} else {
		_, err = report.NewSimpleWriter(out).WriteItems(items)
	}
	return err
}

// newScraper wires a Scraper to the shared clients and site configuration.
func newScraper(cfg *config.Config, fc *fetchClients, logger *slog.Logger, extra ...scrape.Option) *scrape.Scraper {
	opts := []scrape.Option{
		scrape.WithHTTPClient(fc.http),
		scrape.WithSiteConfig(cfg.SiteConfigs),
		scrape.WithUserAgent(cfg.UserAgent),
		scrape.WithMaxPageSize(cfg.EffectiveMaxImageSize()),
		scrape.WithLogger(logger),
	}
	if fc.onion != nil {
		opts = append(opts, scrape.WithOnionClient(fc.onion))
	}
	return scrape.New(append(opts, extra...)...)
}
