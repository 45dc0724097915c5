package model

import "fmt"

// Outcome is the verdict of one fingerprint scheme for one pair of URLs.
type Outcome int

const (
	// OutcomeMatch means the similarity is 100%.
	OutcomeMatch Outcome = iota

	// OutcomeDifferent means a similarity below 100% was computed.
	OutcomeDifferent

	// OutcomeNotComputable means both fingerprints exist but cannot be
	// compared, for example because their lengths differ.
	OutcomeNotComputable

	// OutcomeFailed means at least one side could not be fingerprinted.
	OutcomeFailed
)

// String returns the lower-case name used in logs, metrics labels and JSON.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeDifferent:
		return "different"
	case OutcomeNotComputable:
		return "not_computable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if o < OutcomeMatch || o > OutcomeFailed {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(o.String()), nil
}
