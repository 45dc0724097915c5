package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for urlprint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlprint",
		Short: "Compare URLs by exact and perceptual fingerprints",
		Long: `urlprint compares two URLs under two fingerprint schemes.

The exact scheme hashes the normalized URL text (scheme, "www." and
trailing slashes removed, lower-cased) into a UUIDv5 digest, so two
spellings of the same address match at 100%.

The perceptual scheme downloads the image behind each URL (http, https,
file or data: URIs) and compares perceptual hashes by Hamming distance,
so the same picture served from two places scores close to 100%.

.onion image hosts are fetched through Tor when --tor or --embedded-tor
is given.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
