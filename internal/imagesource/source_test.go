package imagesource

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/urlprint/internal/config"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestSource_DecodeDataURI(t *testing.T) {
	t.Parallel()

	raw := encodePNG(t, 4, 3)
	src := New()

	t.Run("base64 payload", func(t *testing.T) {
		t.Parallel()
		img, err := src.Decode(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(raw))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got := img.Bounds().Size(); got != image.Pt(4, 3) {
			t.Errorf("size = %v, want 4x3", got)
		}
	})

	t.Run("percent-encoded payload", func(t *testing.T) {
		t.Parallel()
		img, err := src.Decode(context.Background(), "data:image/png,"+url.PathEscape(string(raw)))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got := img.Bounds().Dx(); got != 4 {
			t.Errorf("width = %d, want 4", got)
		}
	})

	t.Run("missing separator", func(t *testing.T) {
		t.Parallel()
		_, err := src.Decode(context.Background(), "data:image/png;base64")
		if !errors.Is(err, ErrMalformedDataURI) {
			t.Errorf("error = %v, want ErrMalformedDataURI", err)
		}
	})

	t.Run("bad base64", func(t *testing.T) {
		t.Parallel()
		_, err := src.Decode(context.Background(), "data:image/png;base64,!!!!")
		if !errors.Is(err, ErrMalformedDataURI) {
			t.Errorf("error = %v, want ErrMalformedDataURI", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()
		_, err := src.Decode(context.Background(), "data:text/plain,hello")
		if !errors.Is(err, image.ErrFormat) {
			t.Errorf("error = %v, want image.ErrFormat", err)
		}
	})
}

func TestSource_DecodeHTTP(t *testing.T) {
	t.Parallel()

	raw := encodePNG(t, 8, 8)

	t.Run("applies site config", func(t *testing.T) {
		t.Parallel()

		var gotCookie, gotUA, gotHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
			gotUA = r.Header.Get("User-Agent")
			gotHeader = r.Header.Get("X-Token")
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(raw)
		}))
		defer srv.Close()

		u, _ := url.Parse(srv.URL)
		sites := &config.File{
			Defaults: config.SiteConfig{UserAgent: "default-agent"},
			Sites: map[string]config.SiteConfig{
				u.Hostname(): {
					Cookie:  "session=abc",
					Headers: map[string]string{"X-Token": "t1"},
				},
			},
		}
		src := New(WithHTTPClient(srv.Client()), WithSiteConfig(sites), WithUserAgent("fallback"))

		img, err := src.Decode(context.Background(), srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("width = %d, want 8", img.Bounds().Dx())
		}
		if gotCookie != "session=abc" {
			t.Errorf("Cookie = %q", gotCookie)
		}
		if gotHeader != "t1" {
			t.Errorf("X-Token = %q", gotHeader)
		}
		if gotUA != "default-agent" {
			t.Errorf("User-Agent = %q, want site default", gotUA)
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := New(WithHTTPClient(srv.Client())).Decode(context.Background(), srv.URL+"/missing.png")
		var statusErr *HTTPStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *HTTPStatusError", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
		}
	})

	t.Run("body over size limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(raw)
		}))
		defer srv.Close()

		src := New(WithHTTPClient(srv.Client()), WithMaxImageSize(16))
		_, err := src.Decode(context.Background(), srv.URL)
		if !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("error = %v, want ErrImageTooLarge", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(raw)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := New(WithHTTPClient(srv.Client())).Decode(ctx, srv.URL); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestSource_Load(t *testing.T) {
	t.Parallel()

	t.Run("onion host without Tor", func(t *testing.T) {
		t.Parallel()
		_, err := New().Load(context.Background(), "http://expyuzz4wqqyqhjn.onion/logo.png")
		if !errors.Is(err, ErrOnionWithoutTor) {
			t.Errorf("error = %v, want ErrOnionWithoutTor", err)
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()
		_, err := New().Load(context.Background(), "ftp://example.com/a.png")
		if !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("error = %v, want ErrUnsupportedScheme", err)
		}
	})

	t.Run("local file", func(t *testing.T) {
		t.Parallel()
		raw := encodePNG(t, 2, 2)
		path := filepath.Join(t.TempDir(), "img.png")
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := New(WithLocalFiles(true)).Load(context.Background(), (&url.URL{Scheme: "file", Path: path}).String())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !bytes.Equal(got, raw) {
			t.Error("file contents differ")
		}
	})

	t.Run("local files disabled by default", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "img.png")
		if err := os.WriteFile(path, encodePNG(t, 2, 2), 0o600); err != nil {
			t.Fatal(err)
		}
		for _, source := range []string{"file://" + path, "file:///nonexistent/img.png"} {
			_, err := New().Load(context.Background(), source)
			if !errors.Is(err, ErrLocalFilesDisabled) {
				t.Fatalf("error = %v, want ErrLocalFilesDisabled", err)
			}
			if err.Error() != ErrLocalFilesDisabled.Error() {
				t.Errorf("error %q should not mention the path", err)
			}
		}
	})

	t.Run("data URI over size limit", func(t *testing.T) {
		t.Parallel()
		_, err := New(WithMaxImageSize(2)).Load(context.Background(), "data:,abcdef")
		if !errors.Is(err, ErrImageTooLarge) {
			t.Errorf("error = %v, want ErrImageTooLarge", err)
		}
	})
}

// forgedPNG returns a PNG that is only a header declaring width x height
// followed by an empty IDAT chunk.
func forgedPNG(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(typ), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestSource_DecodePixelLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		opts    []Option
		wantErr error
	}{
		{
			name:    "forged header with huge dimensions",
			data:    forgedPNG(16000, 16000),
			wantErr: ErrTooManyPixels,
		},
		{
			name:    "maximum PNG dimensions",
			data:    forgedPNG(65535, 65535),
			wantErr: ErrTooManyPixels,
		},
		{
			name:    "real image over custom limit",
			data:    encodePNG(t, 10, 10),
			opts:    []Option{WithMaxPixels(99)},
			wantErr: ErrTooManyPixels,
		},
		{
			name: "real image at custom limit",
			data: encodePNG(t, 10, 10),
			opts: []Option{WithMaxPixels(100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tt.data)
			img, err := New(tt.opts...).Decode(context.Background(), source)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if img.Bounds().Dx() != 10 {
					t.Errorf("width = %d, want 10", img.Bounds().Dx())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	t.Parallel()

	// 3x2 source with a unique red value per pixel: R = 10*y + x.
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := range 2 {
		for x := range 3 {
			src.Set(x, y, color.NRGBA{R: uint8(10*y + x), A: 255})
		}
	}
	red := func(img image.Image, x, y int) uint8 {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).R
	}

	tests := []struct {
		orientation int
		size        image.Point
		topLeft     uint8
	}{
		{orientation: 1, size: image.Pt(3, 2), topLeft: 0},
		{orientation: 2, size: image.Pt(3, 2), topLeft: 2},
		{orientation: 3, size: image.Pt(3, 2), topLeft: 12},
		{orientation: 4, size: image.Pt(3, 2), topLeft: 10},
		{orientation: 5, size: image.Pt(2, 3), topLeft: 0},
		{orientation: 6, size: image.Pt(2, 3), topLeft: 10},
		{orientation: 7, size: image.Pt(2, 3), topLeft: 12},
		{orientation: 8, size: image.Pt(2, 3), topLeft: 2},
	}
	for _, tt := range tests {
		got := applyOrientation(src, tt.orientation)
		if size := got.Bounds().Size(); size != tt.size {
			t.Errorf("orientation %d: size = %v, want %v", tt.orientation, size, tt.size)
			continue
		}
		if v := red(got, 0, 0); v != tt.topLeft {
			t.Errorf("orientation %d: top-left = %d, want %d", tt.orientation, v, tt.topLeft)
		}
	}
}

func TestReadOrientation_NoExif(t *testing.T) {
	t.Parallel()

	if got := readOrientation(encodePNG(t, 2, 2)); got != 0 {
		t.Errorf("readOrientation() = %d, want 0", got)
	}
}
