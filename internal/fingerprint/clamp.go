package fingerprint

// Parameter ranges for both fingerprint schemes.
const (
	// MinKeepBytes is the shortest exact fingerprint in bytes.
	MinKeepBytes = 6
	// MaxKeepBytes is the full digest length.
	MaxKeepBytes = 16
	// DigestSize is the size of the namespace digest.
	DigestSize = 16

	// MinBits is the smallest perceptual bit budget.
	MinBits = 4
	// MaxBits is the largest perceptual bit budget.
	MaxBits = 32
)

// ClampKeepBytes forces n into [MinKeepBytes, MaxKeepBytes].
func ClampKeepBytes(n int) int {
	return clamp(n, MinKeepBytes, MaxKeepBytes)
}

// ClampBits forces n into [MinBits, MaxBits].
func ClampBits(n int) int {
	return clamp(n, MinBits, MaxBits)
}

func clamp(n, lo, hi int) int {
	return min(hi, max(lo, n))
}
