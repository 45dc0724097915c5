package fingerprint

import (
	"github.com/google/uuid"
)

// URLNamespace is the well-known namespace identifier for URLs
// (6ba7b811-9dad-11d1-80b4-00c04fd430c8).
var URLNamespace = [DigestSize]byte(uuid.NameSpaceURL)

// Digester derives a deterministic 16-byte digest of name scoped by namespace.
// The same (namespace, name) pair must always yield the same digest.
type Digester interface {
	Digest(namespace [DigestSize]byte, name string) [DigestSize]byte
}

// UUIDv5Digester implements Digester with name-based SHA-1 UUIDs (version 5).
type UUIDv5Digester struct{}

// Digest returns the raw bytes of the version 5 UUID for name in namespace.
func (UUIDv5Digester) Digest(namespace [DigestSize]byte, name string) [DigestSize]byte {
	return [DigestSize]byte(uuid.NewSHA1(uuid.UUID(namespace), []byte(name)))
}

// ExactGenerator produces exact fingerprints from raw URLs.
// It is stateless apart from its digester and safe for concurrent use.
type ExactGenerator struct {
	digester  Digester
	namespace [DigestSize]byte
}

// ExactOption configures an ExactGenerator.
type ExactOption func(*ExactGenerator)

// WithNamespace overrides URLNamespace.
func WithNamespace(namespace [DigestSize]byte) ExactOption {
	return func(g *ExactGenerator) {
		g.namespace = namespace
	}
}

// NewExactGenerator creates a generator backed by digester.
// A nil digester falls back to UUIDv5Digester.
func NewExactGenerator(digester Digester, opts ...ExactOption) *ExactGenerator {
	if digester == nil {
		digester = UUIDv5Digester{}
	}
	g := &ExactGenerator{
		digester:  digester,
		namespace: URLNamespace,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fingerprint returns the first keepBytes bytes of the namespace digest of
// Normalize(raw).
//
// The generator is the trust boundary for fingerprint length: it fails with
// ErrInvalidArgument when raw is empty or keepBytes is outside
// [MinKeepBytes, MaxKeepBytes] instead of clamping silently.
func (g *ExactGenerator) Fingerprint(raw string, keepBytes int) ([]byte, error) {
	if raw == "" {
		return nil, invalidArgument("url is required")
	}
	if keepBytes < MinKeepBytes || keepBytes > MaxKeepBytes {
		return nil, invalidArgument("keepBytes must be %d..%d, got %d", MinKeepBytes, MaxKeepBytes, keepBytes)
	}

	digest := g.digester.Digest(g.namespace, Normalize(raw))

	out := make([]byte, keepBytes)
	copy(out, digest[:keepBytes])
	return out, nil
}
