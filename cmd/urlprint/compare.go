package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/pipeline"
	"github.com/nao1215/urlprint/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [url1] [url2]",
		Short: "Compare two URLs by exact and perceptual fingerprints",
		Long: `Compare fingerprints two URLs and reports how similar they are.

Exact scheme: both URLs are normalized and hashed into a UUIDv5 digest
truncated to --bytes bytes. Similarity is 100% or 0%.

Perceptual scheme: the images behind both URLs are downloaded and hashed
into --bits bits. Similarity is the share of equal bits.

--bits is clamped into 4..32 and --bytes into 6..16.

Examples:
  # Compare two image URLs
  urlprint compare https://a.example/cat.png https://cdn.example/cat.png

  # Longer fingerprints, JSON output
  urlprint compare --bits 32 --bytes 16 --json URL1 URL2

  # Compare every pair of a file ("url1 url2" per line, # for comments)
  urlprint compare --list pairs.txt --concurrency 8

  # Compare images hosted on onion services through a local Tor proxy
  urlprint compare --tor http://xxx.onion/a.png http://yyy.onion/a.png

  # Write a Markdown report
  urlprint compare -m -o report.md URL1 URL2`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().IntP("bits", "b", config.DefaultBits,
		"Perceptual hash length in bits (4..32)")
	cmd.Flags().IntP("bytes", "B", config.DefaultKeepBytes,
		"Exact fingerprint length in bytes (6..16)")
	cmd.Flags().StringP("list", "l", "",
		"File of URL pairs to compare, one pair per line")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of pairs compared at once with --list")

	addFetchFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCompareConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateCompare(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fc, err := newFetchClients(ctx, cfg, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer fc.Close()

	out, closeOut, err := openOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut()

	comparer := timeoutComparer{
		comparator: newComparator(cfg, fc, logger, true),
		timeout:    cfg.Timeout,
	}
	writer := newReportWriter(cfg, out)

	if cfg.ListFile != "" {
		return runBatchCompare(ctx, cfg, comparer, writer, logger)
	}

	rep, err := comparer.Compare(ctx, cfg.URL1, cfg.URL2, cfg.Bits, cfg.KeepBytes)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}
	if _, err := writer.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// runBatchCompare compares every pair of cfg.ListFile and writes one batch report.
func runBatchCompare(ctx context.Context, cfg *config.Config, comparer pipeline.Comparer, writer report.Writer, logger *slog.Logger) error {
	pairs, err := pipeline.LoadPairs(cfg.ListFile)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("%w: %s contains no pairs", config.ErrNoTarget, cfg.ListFile)
	}

	bp := pipeline.NewBatchProcessor(comparer, cfg.Bits, cfg.KeepBytes,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)
	results, batchErr := bp.ProcessBatch(ctx, pairs)

	// Pairs finished before an interrupt are still reported.
	if _, err := writer.WriteBatch(pipeline.NewBatchReport(results)); err != nil {
		return errors.Join(batchErr, fmt.Errorf("failed to write report: %w", err))
	}
	if batchErr != nil {
		return fmt.Errorf("batch interrupted: %w", batchErr)
	}
	return nil
}

// buildCompareConfig creates a Config from cobra command flags.
func buildCompareConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.Bits, err = cmd.Flags().GetInt("bits"); err != nil {
		return nil, err
	}
	if cfg.KeepBytes, err = cmd.Flags().GetInt("bytes"); err != nil {
		return nil, err
	}
	if cfg.ListFile, err = cmd.Flags().GetString("list"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}

	switch {
	case cfg.ListFile != "" && len(args) > 0:
		return nil, errors.New("URL arguments cannot be combined with --list")
	case len(args) == 1:
		return nil, errors.New("two URLs are required (or use --list)")
	case len(args) == 2:
		cfg.URL1, cfg.URL2 = args[0], args[1]
	}

	if err := readFetchFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := readReportFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
