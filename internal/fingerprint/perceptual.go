package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ImageDecoder loads and decodes the image behind a URL or data URI.
type ImageDecoder interface {
	Decode(ctx context.Context, source string) (image.Image, error)
}

// ImageHasher summarizes decoded pixels into a bit vector of exactly bits
// entries. Its algorithm is opaque to this package.
type ImageHasher interface {
	Hash(img image.Image, bits int) (BitVector, error)
}

// PerceptualAdapter runs the external decode and hash capabilities under a
// bounded bit budget.
type PerceptualAdapter struct {
	decoder ImageDecoder
	hasher  ImageHasher
}

// NewPerceptualAdapter creates an adapter from its two collaborators.
func NewPerceptualAdapter(decoder ImageDecoder, hasher ImageHasher) *PerceptualAdapter {
	return &PerceptualAdapter{
		decoder: decoder,
		hasher:  hasher,
	}
}

// Fingerprint decodes source and hashes it into a bits-long vector.
//
// bits must already be clamped into [MinBits, MaxBits]; anything else is an
// ErrInvalidArgument. Load, decode and hash failures, including a hasher that
// returns the wrong number of bits, are returned as *DecodeError.
func (a *PerceptualAdapter) Fingerprint(ctx context.Context, source string, bits int) (BitVector, error) {
	if source == "" {
		return nil, invalidArgument("image source is required")
	}
	if bits < MinBits || bits > MaxBits {
		return nil, invalidArgument("bits must be %d..%d, got %d", MinBits, MaxBits, bits)
	}

	img, err := a.decoder.Decode(ctx, source)
	if err != nil {
		return nil, asDecodeError(source, err)
	}
	if img == nil {
		return nil, &DecodeError{Source: source, Err: errors.New("decoder returned no image")}
	}

	v, err := a.hasher.Hash(img, bits)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	if v.Len() != bits {
		return nil, &DecodeError{
			Source: source,
			Err:    fmt.Errorf("hasher returned %d bits, want %d", v.Len(), bits),
		}
	}

	return v, nil
}

// asDecodeError keeps an existing DecodeError intact and wraps anything else.
func asDecodeError(source string, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Source: source, Err: err}
}
