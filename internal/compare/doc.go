// Package compare orchestrates one comparison of two URLs.
//
// A Comparator runs two fingerprint schemes over the pair:
//
//   - exact: UUIDv5 digest of each normalized URL, truncated to keepBytes
//   - perceptual: hash of the image each URL points to, bits long
//
// The schemes run concurrently, and inside the perceptual scheme both
// images are fetched concurrently. A failure on one side is recorded in that
// side's result and never cancels or alters the other side. Out-of-range
// bits and keepBytes are clamped rather than rejected; only an empty URL
// makes Compare fail.
package compare
