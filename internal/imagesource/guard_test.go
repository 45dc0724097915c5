package imagesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsPublicAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"0.0.0.0", false},
		{"224.0.0.1", false},
		{"::ffff:127.0.0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			if got := IsPublicAddr(netip.MustParseAddr(tt.addr)); got != tt.want {
				t.Errorf("IsPublicAddr(%s) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestPublicAddrControl(t *testing.T) {
	t.Parallel()

	if err := PublicAddrControl("tcp4", "93.184.216.34:443", nil); err != nil {
		t.Errorf("public address refused: %v", err)
	}
	for _, address := range []string{"127.0.0.1:80", "[::1]:443", "not-an-address"} {
		if err := PublicAddrControl("tcp", address, nil); !errors.Is(err, ErrNonPublicAddress) {
			t.Errorf("PublicAddrControl(%q) = %v, want ErrNonPublicAddress", address, err)
		}
	}
}

func TestNewPublicHTTPClient_RefusesLoopback(t *testing.T) {
	t.Parallel()

	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit.Store(true)
		_, _ = w.Write(encodePNG(t, 2, 2))
	}))
	defer srv.Close()

	src := New(WithHTTPClient(NewPublicHTTPClient(5 * time.Second)))
	_, err := src.Decode(context.Background(), srv.URL+"/a.png")
	if !errors.Is(err, ErrNonPublicAddress) {
		t.Errorf("error = %v, want ErrNonPublicAddress", err)
	}
	if hit.Load() {
		t.Error("loopback server was contacted")
	}
}
