package fingerprint

import (
	"fmt"
	"math"
)

// Similarity is the outcome of comparing two fingerprints of one scheme.
type Similarity struct {
	// Computable is false when a fingerprint is missing or the lengths differ.
	Computable bool `json:"computable"`

	// Percent is the similarity in [0, 100]. Zero when not computable.
	Percent float64 `json:"percent"`

	// Match is true only for a 100% similarity.
	Match bool `json:"match"`

	// Distance is the Hamming distance for the perceptual scheme.
	Distance int `json:"distance,omitempty"`

	// Reason explains why the similarity is not computable.
	Reason string `json:"reason,omitempty"`
}

// NotComputable returns a Similarity that carries reason instead of a score.
func NotComputable(reason string) Similarity {
	msg := ErrNotComputable.Error()
	if reason != "" {
		msg += ": " + reason
	}
	return Similarity{Reason: msg}
}

// CompareExact scores two exact fingerprints: 100 when their encoded forms are
// identical, 0 otherwise. The namespace digest has no notion of closeness.
// A missing side (nil) is not computable.
func CompareExact(a, b []byte) Similarity {
	if a == nil || b == nil {
		return NotComputable("missing fingerprint")
	}
	if Encode(a) == Encode(b) {
		return Similarity{Computable: true, Percent: 100, Match: true}
	}
	return Similarity{Computable: true, Percent: 0}
}

// CompareBits scores two perceptual fingerprints by Hamming distance:
// max(0, (n-d)/n*100). It is only defined for vectors of equal, non-zero
// length.
func CompareBits(a, b BitVector) Similarity {
	if len(a) == 0 || len(b) == 0 {
		return NotComputable("missing fingerprint")
	}
	d, ok := a.HammingDistance(b)
	if !ok {
		return NotComputable(fmt.Sprintf("length mismatch %d vs %d", len(a), len(b)))
	}

	n := float64(len(a))
	percent := math.Max(0, (n-float64(d))/n*100)

	return Similarity{
		Computable: true,
		Percent:    percent,
		Match:      percent == 100,
		Distance:   d,
	}
}

// FormatExact renders an exact-scheme similarity as "100%" or "0%".
func (s Similarity) FormatExact() string {
	if !s.Computable {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", s.Percent)
}

// FormatPerceptual renders a perceptual similarity with one decimal place.
func (s Similarity) FormatPerceptual() string {
	if !s.Computable {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// Badge is the short verdict shown next to a score.
func (s Similarity) Badge() string {
	switch {
	case !s.Computable:
		return "n/a"
	case s.Match:
		return "✓ Match"
	default:
		return "✗ Different"
	}
}
