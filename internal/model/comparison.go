package model

import (
	"fmt"
	"time"

	"github.com/nao1215/urlprint/internal/fingerprint"
)

// Scheme names a fingerprint scheme.
type Scheme string

const (
	// SchemeExact is the UUIDv5 digest of the normalized URL.
	SchemeExact Scheme = "exact"

	// SchemePerceptual is the perceptual hash of the image behind the URL.
	SchemePerceptual Scheme = "perceptual"
)

// SideResult is the fingerprint of one URL under one scheme, or the reason
// there is none.
type SideResult struct {
	// URL is the trimmed input URL.
	URL string `json:"url"`

	// Fingerprint is the URL-safe unpadded base64 encoding of the fingerprint.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Bits is the perceptual vector as a string of 0 and 1.
	// Empty for the exact scheme.
	Bits string `json:"bits,omitempty"`

	// Error describes why no fingerprint was produced.
	Error string `json:"error,omitempty"`

	// Err is the underlying error, for errors.Is checks by callers.
	Err error `json:"-"`
}

// OK reports whether a fingerprint was produced.
func (s SideResult) OK() bool {
	return s.Err == nil && s.Error == ""
}

// SchemeResult is one scheme's outcome for a pair of URLs.
type SchemeResult struct {
	Scheme     Scheme                 `json:"scheme"`
	Left       SideResult             `json:"left"`
	Right      SideResult             `json:"right"`
	Similarity fingerprint.Similarity `json:"similarity"`

	// Elapsed is the wall time of the whole scheme pipeline for both URLs.
	Elapsed time.Duration `json:"-"`

	// ElapsedMS mirrors Elapsed in milliseconds for JSON output.
	ElapsedMS float64 `json:"elapsed_ms"`
}

// SetElapsed records d in both Elapsed and ElapsedMS.
func (r *SchemeResult) SetElapsed(d time.Duration) {
	r.Elapsed = d
	r.ElapsedMS = float64(d) / float64(time.Millisecond)
}

// FormatElapsed returns the elapsed time as "%.2fms".
func (r *SchemeResult) FormatElapsed() string {
	return fmt.Sprintf("%.2fms", r.ElapsedMS)
}

// FormatSimilarity renders the similarity the way the scheme displays it:
// "100%"/"0%" for exact, one decimal for perceptual, "-" when not computable.
func (r *SchemeResult) FormatSimilarity() string {
	if r.Scheme == SchemeExact {
		return r.Similarity.FormatExact()
	}
	return r.Similarity.FormatPerceptual()
}

// Outcome classifies the result. A failed side takes precedence over
// not-computable.
func (r *SchemeResult) Outcome() Outcome {
	switch {
	case !r.Left.OK() || !r.Right.OK():
		return OutcomeFailed
	case !r.Similarity.Computable:
		return OutcomeNotComputable
	case r.Similarity.Match:
		return OutcomeMatch
	default:
		return OutcomeDifferent
	}
}

// ComparisonReport is the result of one comparison of two URLs.
// It is built once per call and not modified after being returned.
type ComparisonReport struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`

	// Bits and KeepBytes are the effective (clamped) parameters.
	Bits      int `json:"bits"`
	KeepBytes int `json:"keep_bytes"`

	DateCompared time.Time `json:"date_compared"`

	Exact      SchemeResult `json:"exact"`
	Perceptual SchemeResult `json:"perceptual"`
}

// Schemes returns the scheme results in display order.
func (r *ComparisonReport) Schemes() []*SchemeResult {
	return []*SchemeResult{&r.Exact, &r.Perceptual}
}
