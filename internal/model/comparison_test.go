package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/urlprint/internal/fingerprint"
)

func TestSchemeResult_Outcome(t *testing.T) {
	t.Parallel()

	ok := SideResult{URL: "a", Fingerprint: "x"}
	failed := SideResult{URL: "b", Error: "decode failed", Err: errors.New("decode failed")}

	tests := []struct {
		name   string
		result SchemeResult
		want   Outcome
	}{
		{
			name:   "match",
			result: SchemeResult{Left: ok, Right: ok, Similarity: fingerprint.Similarity{Computable: true, Percent: 100, Match: true}},
			want:   OutcomeMatch,
		},
		{
			name:   "different",
			result: SchemeResult{Left: ok, Right: ok, Similarity: fingerprint.Similarity{Computable: true, Percent: 75}},
			want:   OutcomeDifferent,
		},
		{
			name:   "not computable",
			result: SchemeResult{Left: ok, Right: ok, Similarity: fingerprint.NotComputable("length mismatch")},
			want:   OutcomeNotComputable,
		},
		{
			name:   "failed side wins over not computable",
			result: SchemeResult{Left: ok, Right: failed, Similarity: fingerprint.NotComputable("missing fingerprint")},
			want:   OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.result.Outcome(); got != tt.want {
				t.Errorf("Outcome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSchemeResult_Format(t *testing.T) {
	t.Parallel()

	r := SchemeResult{Scheme: SchemePerceptual, Similarity: fingerprint.Similarity{Computable: true, Percent: 75}}
	r.SetElapsed(1234567 * time.Nanosecond)

	if got := r.FormatElapsed(); got != "1.23ms" {
		t.Errorf("FormatElapsed() = %q, want 1.23ms", got)
	}
	if got := r.FormatSimilarity(); got != "75.0%" {
		t.Errorf("perceptual FormatSimilarity() = %q, want 75.0%%", got)
	}

	exact := SchemeResult{Scheme: SchemeExact, Similarity: fingerprint.Similarity{Computable: true, Percent: 100, Match: true}}
	if got := exact.FormatSimilarity(); got != "100%" {
		t.Errorf("exact FormatSimilarity() = %q, want 100%%", got)
	}
}

func TestComparisonReport_JSON(t *testing.T) {
	t.Parallel()

	r := ComparisonReport{
		URL1:      "https://a.com/x.png",
		URL2:      "https://a.com/x.png",
		Bits:      16,
		KeepBytes: 12,
		Exact: SchemeResult{
			Scheme: SchemeExact,
			Left:   SideResult{URL: "https://a.com/x.png", Fingerprint: "abc"},
			Right:  SideResult{URL: "https://a.com/x.png", Err: errors.New("hidden")},
		},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{`"keep_bytes":12`, `"scheme":"exact"`, `"elapsed_ms":0`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Err must not be serialized: %s", out)
	}
	if len(r.Schemes()) != 2 || r.Schemes()[0].Scheme != SchemeExact {
		t.Error("Schemes() must list exact first")
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	for o, want := range map[Outcome]string{
		OutcomeMatch:         "match",
		OutcomeDifferent:     "different",
		OutcomeNotComputable: "not_computable",
		OutcomeFailed:        "failed",
		Outcome(42):          "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
	if _, err := Outcome(42).MarshalText(); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestSummary_Add(t *testing.T) {
	t.Parallel()

	ok := SideResult{Fingerprint: "x"}
	match := &ComparisonReport{
		Exact:      SchemeResult{Left: ok, Right: ok, Similarity: fingerprint.Similarity{Computable: true, Percent: 100, Match: true}},
		Perceptual: SchemeResult{Left: ok, Right: SideResult{Error: "boom"}},
	}

	var s Summary
	s.Add(match)
	s.Add(nil)

	if s.Pairs != 2 || s.Rejected != 1 {
		t.Errorf("Pairs/Rejected = %d/%d, want 2/1", s.Pairs, s.Rejected)
	}
	if s.Exact.Match != 1 || s.Perceptual.Failed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Exact.Total() != 1 {
		t.Errorf("Exact.Total() = %d, want 1", s.Exact.Total())
	}
	if !s.HasFailures() {
		t.Error("expected HasFailures")
	}
}
