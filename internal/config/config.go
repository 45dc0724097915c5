package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBits is the perceptual hash length used when --bits is not given.
	DefaultBits = 16

	// DefaultKeepBytes is the exact fingerprint length used when --bytes is not given.
	DefaultKeepBytes = 12

	// DefaultTimeout bounds a whole comparison, including both image downloads.
	// Onion image hosts are slow; raise it when comparing through Tor.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxImageSize limits how many bytes are read for one image.
	DefaultMaxImageSize = 10 * 1024 * 1024 // 10MB

	// DefaultConcurrency is the number of pairs compared at once in --list mode.
	// Every pair runs two downloads, so the real fan-out is twice this value.
	DefaultConcurrency = 4

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution overhead
	// and potential issues with IPv6 resolution on some systems.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultListenAddress is where `urlprint serve` listens.
	DefaultListenAddress = "127.0.0.1:8080"

	// DefaultUserAgent identifies urlprint in image and page requests.
	DefaultUserAgent = "urlprint/1.0 (+https://github.com/nao1215/urlprint)"

	// AppName is the application name used for XDG directory paths.
	AppName = "urlprint"
)

// Config holds all configuration options for urlprint.
// It is populated from CLI flags and passed down explicitly; there is no
// global configuration state.
//
// Design decision: one flat struct shared by the compare, scrape and serve
// commands. Each command reads the fields it needs and ignores the rest.
type Config struct {
	// URL1 and URL2 are the two URLs of a single comparison.
	URL1 string
	URL2 string

	// ListFile is a file of URL pairs, one pair per line.
	// When set, URL1 and URL2 are ignored.
	ListFile string

	// Bits is the requested perceptual hash length. It is clamped into
	// [4,32] by the comparator, so out-of-range values are not an error here.
	Bits int

	// KeepBytes is the requested exact fingerprint length, clamped into [6,16].
	KeepBytes int

	// Timeout bounds one comparison.
	Timeout time.Duration

	// MaxImageSize is the largest image payload read, in bytes.
	// 0 means DefaultMaxImageSize.
	MaxImageSize int64

	// Concurrency is the number of pairs compared in parallel in --list mode.
	Concurrency int

	// UserAgent is the User-Agent header sent when fetching images and pages.
	// Per-host values from the config file take precedence.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// UseTor enables fetching .onion image hosts through a Tor SOCKS5 proxy.
	// Clearnet hosts are always fetched directly.
	UseTor bool

	// EmbeddedTor starts a private Tor daemon instead of using TorProxyAddress.
	// Implies UseTor.
	EmbeddedTor bool

	// TorProxyAddress is the external Tor SOCKS5 proxy in "host:port" format.
	TorProxyAddress string

	// TorStartupTimeout is the maximum time to wait for the embedded Tor daemon.
	TorStartupTimeout time.Duration

	// ListenAddress is the HTTP listen address of `urlprint serve`.
	ListenAddress string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (bits, timeout, sizes).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Bits:              DefaultBits,
		KeepBytes:         DefaultKeepBytes,
		Timeout:           DefaultTimeout,
		MaxImageSize:      DefaultMaxImageSize,
		Concurrency:       DefaultConcurrency,
		UserAgent:         DefaultUserAgent,
		TorProxyAddress:   DefaultTorProxyAddress,
		TorStartupTimeout: DefaultTorStartupTimeout,
		ListenAddress:     DefaultListenAddress,
	}
}

// XDGConfigDir returns the XDG config directory for urlprint.
// On Linux: ~/.config/urlprint
// On macOS: ~/Library/Application Support/urlprint
// On Windows: %APPDATA%\urlprint
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the options shared by every command.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxImageSize < 0 {
		return ErrInvalidMaxImageSize
	}
	return nil
}

// ValidateCompare checks Validate plus the presence of comparison targets.
func (c *Config) ValidateCompare() error {
	if c.ListFile == "" && (c.URL1 == "" || c.URL2 == "") {
		return ErrNoTarget
	}
	return c.Validate()
}

// EffectiveMaxImageSize returns MaxImageSize or the default when it is zero.
func (c *Config) EffectiveMaxImageSize() int64 {
	if c.MaxImageSize == 0 {
		return DefaultMaxImageSize
	}
	return c.MaxImageSize
}
