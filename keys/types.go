// Package keys generates the asymmetric key pairs that back DID identifiers.
//
// Three curve families are supported: Ed25519, secp256k1 and NIST P-256.
// Private keys are held in a Secret, which the caller owns and should Destroy
// once the key is no longer needed.
package keys

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedKeyType is returned for any key type outside the three supported curves.
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	// ErrEntropyUnavailable is returned when the random source fails or does not answer in time.
	// The generation can be retried by the caller.
	ErrEntropyUnavailable = errors.New("entropy unavailable")
)

// KeyType is the curve family of a key pair.
type KeyType uint8

// KeyType constants.
const (
	Ed25519 KeyType = iota + 1
	Secp256k1
	P256
)

// Key sizes in bytes.
const (
	PrivateKeySize            = 32
	Ed25519PublicKeySize      = 32
	UncompressedPublicKeySize = 65
	CompactSignatureSize      = 64

	maxScalarDrawAttempts = 8
)

// String returns the canonical name of the key type.
func (t KeyType) String() string {
	switch t {
	case Ed25519:
		return "Ed25519"
	case Secp256k1:
		return "secp256k1"
	case P256:
		return "P-256"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the supported key types.
func (t KeyType) Valid() bool {
	switch t {
	case Ed25519, Secp256k1, P256:
		return true
	default:
		return false
	}
}

// PublicKeySize returns the encoded public key length for t, or 0 if t is unsupported.
func (t KeyType) PublicKeySize() int {
	switch t {
	case Ed25519:
		return Ed25519PublicKeySize
	case Secp256k1, P256:
		return UncompressedPublicKeySize
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t KeyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKeyType, uint8(t))
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *KeyType) UnmarshalText(text []byte) error {
	parsed, err := ParseKeyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

// ParseKeyType parses a key type name. Matching is case insensitive and
// accepts "p256" as an alias of "P-256".
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ed25519":
		return Ed25519, nil
	case "secp256k1":
		return Secp256k1, nil
	case "p-256", "p256":
		return P256, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, s)
	}
}
