package imagesource

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

// PublicAddrControl is a net.Dialer Control function that refuses to
// connect to loopback, private, link-local, multicast and unspecified
// addresses. It runs after name resolution, so a public host name that
// resolves to an internal address is refused as well.
func PublicAddrControl(_, address string, _ syscall.RawConn) error {
	addrPort, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNonPublicAddress, address)
	}
	if !IsPublicAddr(addrPort.Addr()) {
		return fmt.Errorf("%w: %s", ErrNonPublicAddress, addrPort.Addr())
	}
	return nil
}

// IsPublicAddr reports whether addr is a globally routable unicast address.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		addr.IsGlobalUnicast() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast()
}

// NewPublicHTTPClient returns an HTTP client whose connections are limited
// to public addresses. Proxies from the environment are ignored, since a
// proxy would dial the target on the client's behalf.
func NewPublicHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   PublicAddrControl,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
