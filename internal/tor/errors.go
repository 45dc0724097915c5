package tor

import "errors"

// Tor connectivity errors.
// They are returned when the proxy used for .onion image and page hosts
// cannot be reached or is not Tor.
//
// Design decision: each failure mode has its own sentinel, so the CLI can
// print a specific hint (start Tor, fix --tor-proxy, retry later) instead of
// a generic dial error.
var (
	// ErrProxyNotTor is returned when the configured proxy address responds
	// but is not a Tor SOCKS5 proxy. An HTTP proxy or an unrelated service
	// listening on 9050 produces this error.
	ErrProxyNotTor = errors.New("proxy is not a Tor SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection to the proxy
	// can be established. Usually Tor is not running.
	ErrProxyCannotConnect = errors.New("cannot connect to Tor proxy")

	// ErrProxyTimeout is returned when the connection to the proxy times out.
	// The Tor daemon may still be bootstrapping or be overloaded.
	ErrProxyTimeout = errors.New("timeout connecting to Tor proxy")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrEmbeddedTorNotRunning is returned when a client is requested from an
	// EmbeddedTor that was never started or has been stopped.
	ErrEmbeddedTorNotRunning = errors.New("embedded Tor daemon is not running")
)

// ProxyStatus represents the result of checking the Tor proxy connection.
// Client.CheckConnection returns it; Error maps it onto the sentinels above.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy is a working Tor SOCKS5 proxy.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates something answered that does not speak
	// unauthenticated SOCKS5.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates we could not establish a connection.
	// Tor may not be running or the address may be wrong.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the connection attempt timed out.
	// Retrying after bootstrap usually succeeds.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not Tor)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the appropriate error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotTor
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
