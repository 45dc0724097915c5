package compare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/urlprint/internal/fingerprint"
	"github.com/nao1215/urlprint/internal/model"
)

// ExactFingerprinter derives the exact fingerprint of a raw URL.
// *fingerprint.ExactGenerator implements it.
type ExactFingerprinter interface {
	Fingerprint(raw string, keepBytes int) ([]byte, error)
}

// PerceptualFingerprinter derives the perceptual fingerprint of the image
// behind a URL. *fingerprint.PerceptualAdapter implements it.
type PerceptualFingerprinter interface {
	Fingerprint(ctx context.Context, source string, bits int) (fingerprint.BitVector, error)
}

// Observer is notified of every finished scheme. metrics.Recorder
// implements it for the HTTP service.
type Observer interface {
	ObserveScheme(result *model.SchemeResult)
}

// Comparator computes ComparisonReports. It holds no per-call state and is
// safe for concurrent use.
type Comparator struct {
	exact      ExactFingerprinter
	perceptual PerceptualFingerprinter
	observer   Observer
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Comparator) {
		c.logger = logger
	}
}

// WithObserver registers an observer for finished schemes.
func WithObserver(o Observer) Option {
	return func(c *Comparator) {
		c.observer = o
	}
}

// WithClock replaces time.Now for DateCompared and elapsed times.
func WithClock(now func() time.Time) Option {
	return func(c *Comparator) {
		c.now = now
	}
}

// New creates a Comparator. A nil exact fingerprinter defaults to the UUIDv5
// generator.
func New(exact ExactFingerprinter, perceptual PerceptualFingerprinter, opts ...Option) *Comparator {
	if exact == nil {
		exact = fingerprint.NewExactGenerator(nil)
	}
	c := &Comparator{
		exact:      exact,
		perceptual: perceptual,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Compare fingerprints url1 and url2 under both schemes and scores them.
//
// Both URLs are trimmed; an empty URL is a fingerprint.ErrInvalidArgument
// and nothing is fetched. bits is clamped into [4,32] and keepBytes into
// [6,16]; the report carries the effective values. Fetch and decode
// failures are reported per side and do not make Compare fail. ctx bounds
// the image downloads.
func (c *Comparator) Compare(ctx context.Context, url1, url2 string, bits, keepBytes int) (*model.ComparisonReport, error) {
	url1 = strings.TrimSpace(url1)
	url2 = strings.TrimSpace(url2)
	if url1 == "" || url2 == "" {
		return nil, fmt.Errorf("%w: both URLs are required", fingerprint.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bits = fingerprint.ClampBits(bits)
	keepBytes = fingerprint.ClampKeepBytes(keepBytes)

	report := &model.ComparisonReport{
		URL1:         url1,
		URL2:         url2,
		Bits:         bits,
		KeepBytes:    keepBytes,
		DateCompared: c.now(),
	}

	var exact, perceptual model.SchemeResult
	var g errgroup.Group
	g.Go(func() error {
		exact = c.exactScheme(url1, url2, keepBytes)
		return nil
	})
	g.Go(func() error {
		perceptual = c.perceptualScheme(ctx, url1, url2, bits)
		return nil
	})
	_ = g.Wait() //nolint:errcheck // scheme goroutines never return errors

	report.Exact = exact
	report.Perceptual = perceptual

	for _, r := range report.Schemes() {
		c.logger.Debug("scheme finished",
			"scheme", string(r.Scheme),
			"outcome", r.Outcome().String(),
			"similarity", r.FormatSimilarity(),
			"elapsed", r.FormatElapsed(),
		)
		if c.observer != nil {
			c.observer.ObserveScheme(r)
		}
	}
	return report, nil
}

func (c *Comparator) exactScheme(url1, url2 string, keepBytes int) model.SchemeResult {
	start := c.now()

	a, errA := c.exact.Fingerprint(url1, keepBytes)
	b, errB := c.exact.Fingerprint(url2, keepBytes)

	result := model.SchemeResult{
		Scheme:     model.SchemeExact,
		Left:       exactSide(url1, a, errA),
		Right:      exactSide(url2, b, errB),
		Similarity: fingerprint.CompareExact(a, b),
	}
	result.SetElapsed(c.now().Sub(start))
	return result
}

func (c *Comparator) perceptualScheme(ctx context.Context, url1, url2 string, bits int) model.SchemeResult {
	start := c.now()

	var left, right fingerprint.BitVector
	var errLeft, errRight error

	var g errgroup.Group
	g.Go(func() error {
		left, errLeft = c.perceptual.Fingerprint(ctx, url1, bits)
		return nil
	})
	g.Go(func() error {
		right, errRight = c.perceptual.Fingerprint(ctx, url2, bits)
		return nil
	})
	_ = g.Wait() //nolint:errcheck // per-side errors are kept in errLeft/errRight

	for _, side := range []struct {
		url string
		err error
	}{{url1, errLeft}, {url2, errRight}} {
		if side.err != nil {
			c.logger.Warn("perceptual fingerprint failed", "url", side.url, "error", side.err)
		}
	}

	result := model.SchemeResult{
		Scheme:     model.SchemePerceptual,
		Left:       perceptualSide(url1, left, errLeft),
		Right:      perceptualSide(url2, right, errRight),
		Similarity: fingerprint.CompareBits(left, right),
	}
	result.SetElapsed(c.now().Sub(start))
	return result
}

func exactSide(url string, fp []byte, err error) model.SideResult {
	if err != nil {
		return model.SideResult{URL: url, Error: err.Error(), Err: err}
	}
	return model.SideResult{URL: url, Fingerprint: fingerprint.Encode(fp)}
}

func perceptualSide(url string, v fingerprint.BitVector, err error) model.SideResult {
	if err != nil {
		return model.SideResult{URL: url, Error: err.Error(), Err: err}
	}
	return model.SideResult{
		URL:         url,
		Fingerprint: fingerprint.EncodeBits(v),
		Bits:        v.String(),
	}
}
