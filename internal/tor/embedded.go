package tor

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// EmbeddedTor manages a private Tor daemon started through tornago.
// It lets `urlprint compare --embedded-tor` fetch onion-hosted images on a
// machine without a system Tor service.
//
// Design decision: the daemon is started only with --embedded-tor and one
// instance serves every pair of a --list run and every request of `serve`.
//
// Note: bootstrapping takes one to three minutes. Tor has to:
//   - download directory information from the network
//   - build its first circuits through the relays
//   - open the SOCKS and control listeners
type EmbeddedTor struct {
	// process is the running Tor daemon, nil before Start and after Stop.
	process *tornago.TorProcess

	// socksAddr is the SOCKS5 address of the daemon, set by Start.
	socksAddr string

	// startupTimeout is the maximum time to wait for Tor to bootstrap.
	startupTimeout time.Duration
}

// EmbeddedTorOption configures an EmbeddedTor instance.
type EmbeddedTorOption func(*EmbeddedTor)

// WithStartupTimeout sets the maximum time to wait for Tor to bootstrap.
func WithStartupTimeout(timeout time.Duration) EmbeddedTorOption {
	return func(e *EmbeddedTor) {
		e.startupTimeout = timeout
	}
}

// NewEmbeddedTor creates a new embedded Tor manager.
// Call Start() to actually launch the Tor daemon.
func NewEmbeddedTor(opts ...EmbeddedTorOption) *EmbeddedTor {
	e := &EmbeddedTor{
		startupTimeout: 3 * time.Minute, // Default timeout
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start launches the daemon on OS-assigned ports and blocks until it has
// bootstrapped or the startup timeout expires. If ctx is cancelled while
// the daemon starts, the daemon is stopped and ctx.Err() is returned.
func (e *EmbeddedTor) Start(ctx context.Context) error {
	// ":0" lets the OS pick free ports for both listeners.
	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(e.startupTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	// Blocks until Tor has bootstrapped or the startup timeout expires.
	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return fmt.Errorf("failed to start embedded Tor daemon: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = process.Stop() //nolint:errcheck // Best effort cleanup
		return err
	}

	e.process = process
	e.socksAddr = process.SocksAddr()
	return nil
}

// Stop shuts down the daemon. It is safe to call on an unstarted instance
// and more than once.
func (e *EmbeddedTor) Stop() error {
	if e.process == nil {
		return nil
	}
	err := e.process.Stop()
	e.process = nil
	e.socksAddr = ""
	return err
}

// SocksAddr returns the SOCKS5 address of the running daemon, or "".
//
// The format is "host:port" (e.g., "127.0.0.1:42715"), suitable for
// NewClient.
func (e *EmbeddedTor) SocksAddr() string {
	return e.socksAddr
}

// IsRunning reports whether the daemon is currently running.
func (e *EmbeddedTor) IsRunning() bool {
	return e.process != nil
}

// NewClient creates a Client that uses the embedded daemon's SOCKS port.
func (e *EmbeddedTor) NewClient(timeout time.Duration) (*Client, error) {
	if !e.IsRunning() {
		return nil, ErrEmbeddedTorNotRunning
	}
	return NewClient(e.socksAddr, timeout)
}
