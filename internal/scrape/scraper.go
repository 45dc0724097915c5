package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/tor"
)

// DefaultMaxPageSize bounds the HTML read from a single page.
const DefaultMaxPageSize int64 = 5 * 1024 * 1024

var (
	// ErrInvalidTarget is returned for an empty, unparsable or non-HTTP target.
	ErrInvalidTarget = errors.New("invalid scrape target")

	// ErrOnionWithoutTor is returned for a .onion page without a Tor client.
	ErrOnionWithoutTor = errors.New("onion page requires Tor (use --tor or --embedded-tor)")

	// ErrPageTooLarge is returned when the page exceeds the size limit.
	ErrPageTooLarge = errors.New("page exceeds size limit")
)

// StatusError reports a non-2xx response from the scraped page.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Scraper fetches a page and lists its links and images.
// It is safe for concurrent use.
type Scraper struct {
	httpClient  *http.Client
	onionClient *http.Client
	sites       *config.File
	userAgent   string
	maxPageSize int64
	imagesOnly  bool
	logger      *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the client used for clearnet pages.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.httpClient = client
	}
}

// WithOnionClient sets the Tor-proxied client used for .onion pages.
func WithOnionClient(client *http.Client) Option {
	return func(s *Scraper) {
		s.onionClient = client
	}
}

// WithSiteConfig supplies per-host cookies, headers and user agents.
func WithSiteConfig(file *config.File) Option {
	return func(s *Scraper) {
		s.sites = file
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithMaxPageSize sets the largest accepted page in bytes.
func WithMaxPageSize(n int64) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// WithImagesOnly drops link items from the result.
func WithImagesOnly(imagesOnly bool) Option {
	return func(s *Scraper) {
		s.imagesOnly = imagesOnly
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// New creates a Scraper. Without WithHTTPClient it uses http.DefaultClient.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		httpClient:  http.DefaultClient,
		userAgent:   config.DefaultUserAgent,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scrape fetches target and returns its items. Relative references are
// resolved against the final URL after redirects.
func (s *Scraper) Scrape(ctx context.Context, target string) ([]Item, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidTarget)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidTarget, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}

	client := s.httpClient
	if tor.IsOnionHost(u.Hostname()) {
		if s.onionClient == nil {
			return nil, ErrOnionWithoutTor
		}
		if err := tor.CheckOnionHost(u.Hostname()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
		}
		client = s.onionClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.applySiteConfig(req, u.Hostname())

	s.logger.Debug("scraping page", "url", u.Redacted())
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u.Redacted(), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxPageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	if int64(len(body)) > s.maxPageSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPageTooLarge, s.maxPageSize)
	}

	base := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}
	parser, err := NewParser(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	items, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	if s.imagesOnly {
		items = slices.DeleteFunc(items, func(it Item) bool {
			return it.Type != TypeImage
		})
	}
	s.logger.Debug("scraped page", "url", u.Redacted(), "items", len(items))
	return items, nil
}

func (s *Scraper) applySiteConfig(req *http.Request, host string) {
	ua := s.userAgent
	if s.sites != nil {
		site := s.sites.GetSiteConfig(host)
		if site.Cookie != "" {
			req.Header.Set("Cookie", site.Cookie)
		}
		for k, v := range site.Headers {
			req.Header.Set(k, v)
		}
		if site.UserAgent != "" {
			ua = site.UserAgent
		}
	}
	if ua != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ua)
	}
}
