package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/urlprint/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: nao1215/markdown builds the tables and GitHub alerts,
// which keeps escaping and table alignment out of this package.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one comparison in Markdown format.
func (w *MarkdownWriter) Write(report *model.ComparisonReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("URL Fingerprint Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL 1", code(report.URL1)},
			{"URL 2", code(report.URL2)},
			{"Compared", report.DateCompared.Format(dateLayout)},
			{"Bits", strconv.Itoa(report.Bits)},
			{"Bytes", strconv.Itoa(report.KeepBytes)},
		},
	})
	md.PlainText("")

	for _, r := range report.Schemes() {
		w.writeScheme(md, r, report)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeScheme writes a table and a verdict alert for one scheme.
func (w *MarkdownWriter) writeScheme(md *markdown.Markdown, r *model.SchemeResult, report *model.ComparisonReport) {
	md.H2(schemeTitle(r, report))
	md.PlainText("")

	rows := [][]string{
		{"Fingerprint", code(sideValue(r.Left)), code(sideValue(r.Right))},
	}
	if r.Scheme == model.SchemePerceptual && (r.Left.Bits != "" || r.Right.Bits != "") {
		rows = append(rows, []string{"Bits", code(r.Left.Bits), code(r.Right.Bits)})
	}
	rows = append(rows,
		[]string{"Similarity", r.FormatSimilarity(), ""},
		[]string{"Elapsed", r.FormatElapsed(), ""},
	)
	md.Table(markdown.TableSet{
		Header: []string{"", "URL 1", "URL 2"},
		Rows:   rows,
	})
	md.PlainText("")

	writeAlert(md, r)
}

// writeAlert writes an alert matching the outcome of a scheme.
func writeAlert(md *markdown.Markdown, r *model.SchemeResult) {
	switch r.Outcome() {
	case model.OutcomeMatch:
		md.Tip("Match: the fingerprints are identical.")
	case model.OutcomeDifferent:
		md.Note(fmt.Sprintf("Different: %s similar.", r.FormatSimilarity()))
	case model.OutcomeNotComputable:
		md.Importantf("Similarity not computable: %s", r.Similarity.Reason)
	case model.OutcomeFailed:
		md.Cautionf("Fingerprinting failed: %s", firstError(r))
	}
	md.PlainText("")
}

// WriteBatch outputs an overview table of all pairs and the summary.
func (w *MarkdownWriter) WriteBatch(batch *model.BatchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("URL Fingerprint Batch Comparison")
	md.PlainText("")

	rows := make([][]string, 0, len(batch.Entries))
	for _, e := range batch.Entries {
		if e.Report == nil {
			rows = append(rows, []string{strconv.Itoa(e.Line), code(e.URL1), code(e.URL2), "-", "-", e.Error})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(e.Line),
			code(e.URL1),
			code(e.URL2),
			e.Report.Exact.FormatSimilarity(),
			e.Report.Perceptual.FormatSimilarity(),
			e.Report.Perceptual.Similarity.Badge(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Line", "URL 1", "URL 2", "Exact", "Perceptual", "Verdict"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeSummary(md, batch.Summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSummary writes the outcome counts, a pie chart of perceptual
// outcomes and an alert when something failed.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Scheme", "Match", "Different", "Not computable", "Failed"},
		Rows: [][]string{
			countsRow(model.SchemeExact, s.Exact),
			countsRow(model.SchemePerceptual, s.Perceptual),
		},
	})
	md.PlainText("")

	if s.Perceptual.Total() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Perceptual Outcomes"),
			piechart.WithShowData(true),
		)
		for _, slice := range []struct {
			label string
			n     int
		}{
			{"Match", s.Perceptual.Match},
			{"Different", s.Perceptual.Different},
			{"Not computable", s.Perceptual.NotComputable},
			{"Failed", s.Perceptual.Failed},
		} {
			if slice.n > 0 {
				chart.LabelAndIntValue(slice.label, uint64(slice.n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case s.Rejected > 0:
		md.Warningf("%d of %d pair(s) were rejected before comparison.", s.Rejected, s.Pairs)
	case s.HasFailures():
		md.Warningf("Some URLs could not be fingerprinted (%d exact, %d perceptual).",
			s.Exact.Failed, s.Perceptual.Failed)
	default:
		md.Tip(fmt.Sprintf("All %d pair(s) compared.", s.Pairs))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [urlprint](https://github.com/nao1215/urlprint)*")
}

func countsRow(scheme model.Scheme, c model.OutcomeCounts) []string {
	return []string{
		string(scheme),
		strconv.Itoa(c.Match),
		strconv.Itoa(c.Different),
		strconv.Itoa(c.NotComputable),
		strconv.Itoa(c.Failed),
	}
}

func firstError(r *model.SchemeResult) string {
	if !r.Left.OK() {
		return r.Left.Error
	}
	return r.Right.Error
}

// code wraps s in backticks; an empty value becomes "-".
func code(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + truncateString(s, 80) + "`"
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
