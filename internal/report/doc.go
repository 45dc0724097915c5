// Package report renders comparison results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for sharing
//
// Design decision: report writing is kept apart from the data structures
// in the model package, so a new output format never touches the
// comparison code.
package report
