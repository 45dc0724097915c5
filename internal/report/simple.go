package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/urlprint/internal/model"
	"github.com/nao1215/urlprint/internal/scrape"
)

const (
	lineWidth  = 70
	dateLayout = "2006-01-02 15:04:05 MST"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: plain text with ASCII rules and no ANSI colors, so that
// output piped to a file or another tool stays clean.
type SimpleWriter struct {
	baseWriter

	// verbose prints the full report of every batch entry and the bit
	// vectors of the perceptual scheme.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one comparison: both fingerprints, the similarity with its
// badge and the elapsed time for each scheme.
func (w *SimpleWriter) Write(report *model.ComparisonReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "URLPRINT COMPARISON")
	fmt.Fprintf(&sb, "URL 1:     %s\n", report.URL1)
	fmt.Fprintf(&sb, "URL 2:     %s\n", report.URL2)
	fmt.Fprintf(&sb, "Compared:  %s\n\n", report.DateCompared.Format(dateLayout))

	for _, r := range report.Schemes() {
		w.writeScheme(&sb, r, report)
	}
	writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeScheme writes the section of a single scheme.
func (w *SimpleWriter) writeScheme(sb *strings.Builder, r *model.SchemeResult, report *model.ComparisonReport) {
	writeSection(sb, strings.ToUpper(schemeTitle(r, report)))

	fmt.Fprintf(sb, "  URL 1:       %s\n", sideValue(r.Left))
	if w.verbose && r.Left.Bits != "" {
		fmt.Fprintf(sb, "               %s\n", r.Left.Bits)
	}
	fmt.Fprintf(sb, "  URL 2:       %s\n", sideValue(r.Right))
	if w.verbose && r.Right.Bits != "" {
		fmt.Fprintf(sb, "               %s\n", r.Right.Bits)
	}

	fmt.Fprintf(sb, "  Similarity:  %s  %s\n", r.FormatSimilarity(), r.Similarity.Badge())
	if r.Similarity.Reason != "" {
		fmt.Fprintf(sb, "  Reason:      %s\n", r.Similarity.Reason)
	}
	fmt.Fprintf(sb, "  Elapsed:     %s\n\n", r.FormatElapsed())
}

// WriteBatch outputs one line per pair followed by the summary.
// In verbose mode every compared pair is written in full instead.
func (w *SimpleWriter) WriteBatch(batch *model.BatchReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "URLPRINT BATCH COMPARISON")

	for _, e := range batch.Entries {
		if e.Report == nil {
			fmt.Fprintf(&sb, "[line %d] REJECTED %s | %s: %s\n", e.Line, e.URL1, e.URL2, e.Error)
			continue
		}
		if w.verbose {
			fmt.Fprintf(&sb, "[line %d]\n", e.Line)
			for _, r := range e.Report.Schemes() {
				w.writeScheme(&sb, r, e.Report)
			}
			continue
		}
		fmt.Fprintf(&sb, "[line %d] %s | %s\n", e.Line, e.URL1, e.URL2)
		for _, r := range e.Report.Schemes() {
			fmt.Fprintf(&sb, "    %-10s %-7s %s\n", r.Scheme, r.FormatSimilarity(), r.Similarity.Badge())
		}
	}
	sb.WriteString("\n")

	writeSection(&sb, "SUMMARY")
	s := batch.Summary
	fmt.Fprintf(&sb, "  Pairs:      %d\n", s.Pairs)
	fmt.Fprintf(&sb, "  Rejected:   %d\n\n", s.Rejected)
	fmt.Fprintf(&sb, "  %-12s %6s %10s %15s %7s\n", "", "MATCH", "DIFFERENT", "NOT COMPUTABLE", "FAILED")
	writeCounts(&sb, model.SchemeExact, s.Exact)
	writeCounts(&sb, model.SchemePerceptual, s.Perceptual)
	sb.WriteString("\n")
	writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteItems outputs scraped items as one aligned line each.
func (w *SimpleWriter) WriteItems(items []scrape.Item) (int, error) {
	var sb strings.Builder
	if len(items) == 0 {
		sb.WriteString("No links or images found\n")
	}
	for _, it := range items {
		fmt.Fprintf(&sb, "%-4s %s\n     %s\n", it.Type, it.Href, it.Label)
	}
	return io.WriteString(w.output, sb.String())
}

func writeCounts(sb *strings.Builder, scheme model.Scheme, c model.OutcomeCounts) {
	fmt.Fprintf(sb, "  %-12s %6d %10d %15d %7d\n", scheme, c.Match, c.Different, c.NotComputable, c.Failed)
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	pad := max((lineWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
}

func writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by urlprint\n")
	sb.WriteString("https://github.com/nao1215/urlprint\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
}
