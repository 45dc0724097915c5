package report

import (
	"io"
	"strconv"

	"github.com/nao1215/urlprint/internal/model"
)

// Writer defines the interface for report output.
//
// Design decision: an interface lets the same command write to the
// terminal, a file or both without knowing the format.
type Writer interface {
	// Write outputs a single comparison.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ComparisonReport) (int, error)

	// WriteBatch outputs every entry of a batch followed by its summary.
	WriteBatch(batch *model.BatchReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ComparisonReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteBatch outputs the batch to all configured Writers.
func (m *MultiWriter) WriteBatch(batch *model.BatchReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteBatch(batch)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// schemeTitle is the heading used for a scheme in text and Markdown.
func schemeTitle(r *model.SchemeResult, report *model.ComparisonReport) string {
	if r.Scheme == model.SchemeExact {
		return "Exact (UUIDv5, " + strconv.Itoa(report.KeepBytes) + " bytes)"
	}
	return "Perceptual (pHash, " + strconv.Itoa(report.Bits) + " bits)"
}

// sideValue is the fingerprint, or the error that replaced it.
func sideValue(s model.SideResult) string {
	if !s.OK() {
		return "ERROR: " + s.Error
	}
	return s.Fingerprint
}
