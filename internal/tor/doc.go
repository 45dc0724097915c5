// Package tor routes image requests for .onion hosts through Tor.
//
// Comparing two onion-hosted images means downloading from hidden services,
// which is only possible through a Tor SOCKS5 proxy. Client wraps such a
// proxy (an external daemon, or one started by EmbeddedTor through tornago)
// and hands out http.Clients that dial through it. The host helpers decide
// which requests must take that path.
//
// The package is used with dependency injection: create a Client and pass
// the HTTP client it builds to imagesource.Source.
package tor
