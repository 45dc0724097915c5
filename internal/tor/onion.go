package tor

import (
	"encoding/base32"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Onion address constants.
const (
	// OnionV3Length is the length of a v3 onion label without the ".onion" suffix.
	OnionV3Length = 56

	// OnionV3Version is the version byte for v3 onion addresses.
	OnionV3Version = 0x03

	// OnionSuffix is the common suffix for all onion addresses.
	OnionSuffix = ".onion"
)

var (
	// onionV3Pattern matches v3 onion addresses (56 base32 characters + .onion).
	onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

	// onionV2Pattern matches deprecated v2 onion addresses.
	onionV2Pattern = regexp.MustCompile(`^[a-z2-7]{16}\.onion$`)
)

// checksumPrefix is the prefix used in v3 onion address checksum calculation.
var checksumPrefix = []byte(".onion checksum")

// Onion host errors.
var (
	// ErrInvalidOnionAddress is returned for hosts that end in .onion but are
	// not a well-formed v3 address.
	ErrInvalidOnionAddress = errors.New("invalid onion address")

	// ErrV2AddressDeprecated is returned for v2 hosts, which stopped working
	// in October 2021.
	ErrV2AddressDeprecated = errors.New("v2 onion addresses are deprecated and no longer functional")
)

// IsOnionHost reports whether host (without port) belongs to a hidden
// service, including subdomains such as "images.<addr>.onion".
// A trailing root dot is ignored.
func IsOnionHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	return strings.HasSuffix(host, OnionSuffix) && len(host) > len(OnionSuffix)
}

// onionAddress strips any subdomains, leaving "<label>.onion".
func onionAddress(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// CheckOnionHost validates the hidden service address of an onion host.
// It returns nil for valid v3 hosts, ErrV2AddressDeprecated for v2 hosts and
// ErrInvalidOnionAddress otherwise.
func CheckOnionHost(host string) error {
	addr := onionAddress(host)
	switch {
	case IsValidV3Address(addr):
		return nil
	case IsV2Address(addr):
		return ErrV2AddressDeprecated
	default:
		return ErrInvalidOnionAddress
	}
}

// IsValidV3Address checks format and checksum of a v3 onion address.
// The checksum is the first 2 bytes of
// SHA3-256(".onion checksum" || pubkey || version), so typos are rejected
// the same way Tor itself rejects them.
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	label := strings.TrimSuffix(address, OnionSuffix)
	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(label))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// 32 bytes ed25519 public key, 2 bytes checksum, 1 byte version.
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != OnionV3Version {
		return false
	}

	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)

	return checksum[0] == sum[0] && checksum[1] == sum[1]
}

// IsV2Address checks if the given address matches the v2 onion address format.
func IsV2Address(address string) bool {
	return onionV2Pattern.MatchString(strings.ToLower(address))
}
