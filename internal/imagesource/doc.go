// Package imagesource loads and decodes the image behind a URL.
//
// Source implements fingerprint.ImageDecoder for three kinds of source:
//
//   - http:// and https:// URLs, fetched with the configured HTTP client and
//     the per-host cookie, headers and user agent from the .urlprint file
//   - data: URIs with a base64 or percent-encoded payload
//   - file:// URLs on the local filesystem, only with WithLocalFiles(true)
//
// Hosts ending in .onion are only ever fetched through a Tor client. Without
// one the request fails with ErrOnionWithoutTor instead of leaking the lookup
// to the clearnet resolver.
//
// Image dimensions are read from the header and checked against the pixel
// budget (WithMaxPixels) before any frame is allocated. NewPublicHTTPClient
// builds a client that refuses loopback and private addresses, for use by
// network-facing callers.
//
// PNG, JPEG, GIF, WebP, BMP and TIFF are decoded. EXIF orientation is applied
// after decoding so that a rotated copy of a photo hashes like the original.
package imagesource
