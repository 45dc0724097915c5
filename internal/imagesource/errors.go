package imagesource

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedScheme is returned for sources that are not http(s), data or file URLs.
	ErrUnsupportedScheme = errors.New("unsupported image source scheme")

	// ErrImageTooLarge is returned when the payload exceeds the configured size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrTooManyPixels is returned when the image header declares a frame
	// larger than the configured pixel budget.
	ErrTooManyPixels = errors.New("image dimensions exceed pixel limit")

	// ErrLocalFilesDisabled is returned for file:// sources unless the Source
	// was created with WithLocalFiles(true). The message never names the path.
	ErrLocalFilesDisabled = errors.New("local file sources are disabled")

	// ErrNonPublicAddress is returned by PublicAddrControl for loopback,
	// private and other non-routable targets.
	ErrNonPublicAddress = errors.New("refusing to connect to non-public address")

	// ErrMalformedDataURI is returned when a data: URI has no payload separator
	// or its payload cannot be decoded.
	ErrMalformedDataURI = errors.New("malformed data URI")

	// ErrOnionWithoutTor is returned when a .onion host is requested but no
	// Tor client is configured.
	ErrOnionWithoutTor = errors.New("onion image host requires a Tor client")
)

// HTTPStatusError reports a non-2xx response from an image host.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}
