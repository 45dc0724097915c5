package model

// OutcomeCounts counts outcomes of a single scheme.
type OutcomeCounts struct {
	Match         int `json:"match"`
	Different     int `json:"different"`
	NotComputable int `json:"not_computable"`
	Failed        int `json:"failed"`
}

// Add counts one outcome.
func (c *OutcomeCounts) Add(o Outcome) {
	switch o {
	case OutcomeMatch:
		c.Match++
	case OutcomeDifferent:
		c.Different++
	case OutcomeNotComputable:
		c.NotComputable++
	case OutcomeFailed:
		c.Failed++
	}
}

// Total returns the number of counted outcomes.
func (c OutcomeCounts) Total() int {
	return c.Match + c.Different + c.NotComputable + c.Failed
}

// Summary aggregates a batch of comparisons.
type Summary struct {
	// Pairs is the number of pairs submitted.
	Pairs int `json:"pairs"`

	// Rejected counts pairs that produced no report at all, such as a pair
	// with an empty URL or one cancelled before it ran.
	Rejected int `json:"rejected"`

	Exact      OutcomeCounts `json:"exact"`
	Perceptual OutcomeCounts `json:"perceptual"`
}

// Add records one comparison; a nil report counts as rejected.
func (s *Summary) Add(r *ComparisonReport) {
	s.Pairs++
	if r == nil {
		s.Rejected++
		return
	}
	s.Exact.Add(r.Exact.Outcome())
	s.Perceptual.Add(r.Perceptual.Outcome())
}

// HasFailures reports whether any pair was rejected or had a failed side.
func (s *Summary) HasFailures() bool {
	return s.Rejected > 0 || s.Exact.Failed > 0 || s.Perceptual.Failed > 0
}

// BatchEntry is one pair of a batch comparison.
type BatchEntry struct {
	// Line is the 1-based line of the pair in the list file.
	Line int    `json:"line"`
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`

	// Report is nil when the pair was rejected; Error then says why.
	Report *ComparisonReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// BatchReport is the result of `urlprint compare --list`.
type BatchReport struct {
	Entries []BatchEntry `json:"entries"`
	Summary Summary      `json:"summary"`
}
