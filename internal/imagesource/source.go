package imagesource

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/nao1215/urlprint/internal/config"
	"github.com/nao1215/urlprint/internal/fingerprint"
	"github.com/nao1215/urlprint/internal/tor"
)

const (
	// DefaultMaxImageSize bounds every payload unless WithMaxImageSize overrides it.
	DefaultMaxImageSize int64 = 10 * 1024 * 1024

	// DefaultMaxPixels bounds the decoded frame (width * height) unless
	// WithMaxPixels overrides it. 40 megapixels is about 160 MiB as NRGBA.
	DefaultMaxPixels int64 = 40_000_000
)

// Source fetches and decodes images.
// It is safe for concurrent use.
type Source struct {
	// httpClient fetches clearnet hosts.
	httpClient *http.Client

	// onionClient fetches .onion hosts through Tor. Nil disables them.
	onionClient *http.Client

	// sites holds per-host cookies, headers and user agents.
	sites *config.File

	// userAgent is sent when no site config sets one.
	userAgent string

	// maxImageSize bounds the encoded payload in bytes.
	maxImageSize int64

	// maxPixels bounds the decoded frame, checked against the image header.
	maxPixels int64

	// localFiles enables file:// sources.
	localFiles bool

	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets the client used for clearnet hosts.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.httpClient = client
	}
}

// WithOnionClient sets the Tor-proxied client used for .onion hosts.
func WithOnionClient(client *http.Client) Option {
	return func(s *Source) {
		s.onionClient = client
	}
}

// WithSiteConfig supplies per-host cookies, headers and user agents.
func WithSiteConfig(file *config.File) Option {
	return func(s *Source) {
		s.sites = file
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Source) {
		s.userAgent = ua
	}
}

// WithMaxImageSize sets the largest accepted payload in bytes.
func WithMaxImageSize(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxImageSize = n
		}
	}
}

// WithMaxPixels sets the largest accepted frame in pixels. The dimensions
// are read from the image header before any pixel data is allocated.
func WithMaxPixels(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// WithLocalFiles enables file:// sources. They are disabled by default so
// that a Source reachable over the network cannot read the local disk.
func WithLocalFiles(enabled bool) Option {
	return func(s *Source) {
		s.localFiles = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a Source. Without WithHTTPClient it uses http.DefaultClient.
func New(opts ...Option) *Source {
	s := &Source{
		httpClient:   http.DefaultClient,
		maxImageSize: DefaultMaxImageSize,
		maxPixels:    DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Decode loads source and decodes it into an image with EXIF orientation applied.
func (s *Source) Decode(ctx context.Context, source string) (image.Image, error) {
	data, err := s.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > s.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, s.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	s.logger.Debug("decoded image",
		"source", source,
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
	)

	if format == "jpeg" || format == "tiff" {
		if o := readOrientation(data); o > 1 {
			img = applyOrientation(img, o)
		}
	}
	return img, nil
}

// Load returns the raw bytes behind source.
func (s *Source) Load(ctx context.Context, source string) ([]byte, error) {
	if len(source) >= 5 && strings.EqualFold(source[:5], "data:") {
		return s.loadDataURI(source)
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse image URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.fetch(ctx, u)
	case "file":
		if !s.localFiles {
			return nil, ErrLocalFilesDisabled
		}
		return s.readFile(u)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// fetch downloads an image over HTTP, through Tor for .onion hosts.
func (s *Source) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	client := s.httpClient
	if tor.IsOnionHost(u.Hostname()) {
		if s.onionClient == nil {
			return nil, ErrOnionWithoutTor
		}
		if err := tor.CheckOnionHost(u.Hostname()); err != nil {
			return nil, fmt.Errorf("image host %s: %w", u.Hostname(), err)
		}
		client = s.onionClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.applySiteConfig(req, u.Hostname())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: u.Redacted(), StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > s.maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, resp.ContentLength)
	}
	return s.readLimited(resp.Body)
}

// applySiteConfig injects the configured cookie, headers and user agent.
func (s *Source) applySiteConfig(req *http.Request, host string) {
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

func (s *Source) readFile(u *url.URL) ([]byte, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	f, err := os.Open(path) //nolint:gosec // reading a user-supplied image is the point
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	defer f.Close()
	return s.readLimited(f)
}

// loadDataURI decodes data:[<mediatype>][;base64],<payload>.
func (s *Source) loadDataURI(source string) ([]byte, error) {
	meta, payload, ok := strings.Cut(source[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing ','", ErrMalformedDataURI)
	}

	var data []byte
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, payload)
		payload = strings.TrimRight(payload, "=")
		decoded, err := base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			decoded, err = base64.RawURLEncoding.DecodeString(payload)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
		}
		data = []byte(unescaped)
	}

	if int64(len(data)) > s.maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	return data, nil
}

// readLimited reads at most maxImageSize bytes and fails if there is more.
func (s *Source) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > s.maxImageSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, s.maxImageSize)
	}
	return data, nil
}

var _ fingerprint.ImageDecoder = (*Source)(nil)
