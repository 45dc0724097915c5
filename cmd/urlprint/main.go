// Package main provides the entry point for the urlprint CLI.
//
// urlprint fingerprints URLs two ways and compares them: an exact
// fingerprint of the normalized URL text, and a perceptual hash of the
// image the URL points to.
//
// Usage:
//
//	urlprint compare <url1> <url2>
//	urlprint compare --list <file>
//	urlprint scrape <page-url>
//	urlprint serve
//
// See --help for all available options.
package main

// main is the entry point for urlprint.
func main() {
	Execute()
}
