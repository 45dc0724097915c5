// Package pipeline runs many URL-pair comparisons concurrently.
//
// `urlprint compare --list pairs.txt` reads one pair per line (ParsePairs)
// and hands them to a BatchProcessor, which runs each pair as its own
// self-contained Compare call under an errgroup concurrency limit. Results
// are returned in input order or streamed through a callback.
//
// Design decision: a pair that fails, whether rejected by the comparator or
// cancelled, is recorded in its Result and never stops the other pairs.
// Only cancellation of the caller's context ends a batch early.
package pipeline
