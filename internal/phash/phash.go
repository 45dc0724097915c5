// Package phash computes DCT-based perceptual hashes of images.
//
// An image is composited onto white, reduced to a small grayscale square and
// transformed with a two-dimensional DCT-II. The lowest-frequency
// coefficients (in zig-zag order, DC excluded) are compared with their median:
// coefficients above the median become 1 bits. Visually similar images keep
// similar low-frequency energy and therefore end up a small Hamming distance
// apart.
package phash

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/nao1215/urlprint/internal/fingerprint"
)

// DefaultSize is the edge length of the grayscale square that is transformed.
const DefaultSize = 32

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Hasher implements fingerprint.ImageHasher.
// The zero value is not usable; create one with New.
type Hasher struct {
	size int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithSize sets the edge length of the transformed square.
// Values below 8 are ignored.
func WithSize(size int) Option {
	return func(h *Hasher) {
		if size >= 8 {
			h.size = size
		}
	}
}

// New creates a Hasher.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		size: DefaultSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// MaxBits is the largest bit budget this hasher can serve.
func (h *Hasher) MaxBits() int {
	return h.size*h.size - 1
}

// Hash returns a bits-long perceptual hash of img.
func (h *Hasher) Hash(img image.Image, bits int) (fingerprint.BitVector, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if bits < 1 || bits > h.MaxBits() {
		return nil, fmt.Errorf("bit budget %d outside 1..%d", bits, h.MaxBits())
	}

	pixels := h.grayscale(img)
	coeffs := h.dct2(pixels)

	lowFreq := make([]float64, 0, bits)
	for _, p := range zigzag(h.size, bits) {
		lowFreq = append(lowFreq, coeffs[p.y*h.size+p.x])
	}

	sorted := make([]float64, len(lowFreq))
	copy(sorted, lowFreq)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	v := make(fingerprint.BitVector, bits)
	for i, c := range lowFreq {
		v[i] = c > median
	}
	return v, nil
}

// grayscale composites img onto white and downsamples it to size x size.
func (h *Hasher) grayscale(img image.Image) []float64 {
	rect := image.Rect(0, 0, h.size, h.size)
	gray := image.NewGray(rect)
	draw.Draw(gray, rect, image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(gray, rect, img, img.Bounds(), draw.Over, nil)

	out := make([]float64, h.size*h.size)
	for y := range h.size {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+h.size]
		for x, p := range row {
			out[y*h.size+x] = float64(p)
		}
	}
	return out
}

// dct2 applies a separable 2-D DCT-II to a row-major size x size matrix.
func (h *Hasher) dct2(m []float64) []float64 {
	n := h.size
	dct := fourier.NewDCT(n)

	rows := make([]float64, n*n)
	for y := range n {
		dct.Transform(rows[y*n:(y+1)*n], m[y*n:(y+1)*n])
	}

	out := make([]float64, n*n)
	col := make([]float64, n)
	res := make([]float64, n)
	for x := range n {
		for y := range n {
			col[y] = rows[y*n+x]
		}
		dct.Transform(res, col)
		for y := range n {
			out[y*n+x] = res[y]
		}
	}
	return out
}

type point struct {
	x, y int
}

// zigzag lists the first count coefficient positions of an n x n matrix in
// zig-zag order, skipping the DC term at (0,0).
func zigzag(n, count int) []point {
	out := make([]point, 0, count)
	for s := 1; s <= 2*(n-1) && len(out) < count; s++ {
		for i := 0; i <= s && len(out) < count; i++ {
			x, y := i, s-i
			if s%2 == 1 {
				x, y = s-i, i
			}
			if x >= n || y >= n {
				continue
			}
			out = append(out, point{x: x, y: y})
		}
	}
	return out
}

var _ fingerprint.ImageHasher = (*Hasher)(nil)
