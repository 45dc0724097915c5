// Package model defines the data structures shared by the comparator, the
// report writers, the batch pipeline and the HTTP service.
//
// This package contains the following main types:
//   - ComparisonReport: the result of comparing two URLs under both schemes
//   - SchemeResult: per-scheme fingerprints, similarity and elapsed time
//   - Outcome: the verdict of one scheme (match, different, not computable, failed)
//   - Summary: outcome counts over a batch of comparisons
//
// Design decision: models live in their own package so that compare,
// report, pipeline and server can all depend on them without import cycles.
// Every type serializes to JSON for the --json report and the /compare
// endpoint.
package model
