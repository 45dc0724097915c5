package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/urlprint/internal/config"
)

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="next">Next</a><img src="/img/a.png" alt="A">`))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/deep/page", http.StatusFound)
	})
	mux.HandleFunc("/deep/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="sibling">S</a>`))
	})
	mux.HandleFunc("/headers", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "k=v" || r.Header.Get("User-Agent") != "site-agent" {
			http.Error(w, "missing site config", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`<img src="ok.png">`))
	})
	mux.HandleFunc("/big", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("<p>x</p>", 100)))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	srv := newPageServer(t)

	t.Run("links and images", func(t *testing.T) {
		t.Parallel()

		items, err := New().Scrape(t.Context(), srv.URL+"/page")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("len(items) = %d, want 2: %+v", len(items), items)
		}
		if items[0] != (Item{Label: "Next", Href: srv.URL + "/next", Type: TypeLink}) {
			t.Errorf("items[0] = %+v", items[0])
		}
		if items[1] != (Item{Label: "A", Href: srv.URL + "/img/a.png", Type: TypeImage}) {
			t.Errorf("items[1] = %+v", items[1])
		}
	})

	t.Run("images only", func(t *testing.T) {
		t.Parallel()

		items, err := New(WithImagesOnly(true)).Scrape(t.Context(), srv.URL+"/page")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if len(items) != 1 || items[0].Type != TypeImage {
			t.Errorf("items = %+v, want one image", items)
		}
	})

	t.Run("resolves against redirect target", func(t *testing.T) {
		t.Parallel()

		items, err := New().Scrape(t.Context(), srv.URL+"/moved")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if len(items) != 1 || items[0].Href != srv.URL+"/deep/sibling" {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("site config", func(t *testing.T) {
		t.Parallel()

		sites := &config.File{Defaults: config.SiteConfig{Cookie: "k=v", UserAgent: "site-agent"}}
		items, err := New(WithSiteConfig(sites)).Scrape(t.Context(), srv.URL+"/headers")
		if err != nil {
			t.Fatalf("Scrape() error = %v", err)
		}
		if len(items) != 1 {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("status error", func(t *testing.T) {
		t.Parallel()

		_, err := New().Scrape(t.Context(), srv.URL+"/missing")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("error = %v, want 404 StatusError", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		_, err := New(WithMaxPageSize(64)).Scrape(t.Context(), srv.URL+"/big")
		if !errors.Is(err, ErrPageTooLarge) {
			t.Errorf("error = %v, want ErrPageTooLarge", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := New().Scrape(ctx, srv.URL+"/page"); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestScraper_InvalidTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		wantErr error
	}{
		{name: "empty", target: "  ", wantErr: ErrInvalidTarget},
		{name: "ftp scheme", target: "ftp://example.com/", wantErr: ErrInvalidTarget},
		{name: "no host", target: "http:///path", wantErr: ErrInvalidTarget},
		{name: "unparsable", target: "http://[::1", wantErr: ErrInvalidTarget},
		{name: "onion without tor", target: "http://aaaaaaaaaaaaaaaa.onion/", wantErr: ErrOnionWithoutTor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New().Scrape(t.Context(), tt.target); !errors.Is(err, tt.wantErr) {
				t.Errorf("Scrape(%q) error = %v, want %v", tt.target, err, tt.wantErr)
			}
		})
	}
}
