package fingerprint

import "encoding/base64"

// Encode renders fingerprint bytes as URL-safe base64 without padding
// ('+' becomes '-', '/' becomes '_', trailing '=' dropped).
// This is a presentation encoding, not a security measure.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// EncodeBits packs v with BitVector.Bytes and encodes it with Encode.
func EncodeBits(v BitVector) string {
	return Encode(v.Bytes())
}
