// Package fingerprint implements the fingerprint comparison engine.
//
// Two independent schemes are supported:
//
//   - Exact: a URL is normalized and hashed against the well-known URL
//     namespace with a name-based deterministic digest (UUIDv5). The 16-byte
//     digest is truncated to a configurable prefix of 6 to 16 bytes.
//   - Perceptual: the image a URL points to is decoded and summarized into a
//     fixed-length bit vector of 4 to 32 bits by an injected hasher.
//
// Two fingerprints of the same scheme are turned into a Similarity: the exact
// scheme is binary (0 or 100), the perceptual scheme scores the Hamming
// distance between the two bit vectors.
//
// The package owns no I/O. Image decoding, digesting and perceptual hashing
// are collaborators (ImageDecoder, Digester, ImageHasher) injected by the
// caller, so every property of the engine can be tested with stubs.
//
// # Usage
//
//	gen := fingerprint.NewExactGenerator(fingerprint.UUIDv5Digester{})
//	a, err := gen.Fingerprint("https://www.example.com/logo.png", 12)
//	b, err := gen.Fingerprint("http://example.com/logo.png/", 12)
//	sim := fingerprint.CompareExact(a, b) // 100%
package fingerprint
