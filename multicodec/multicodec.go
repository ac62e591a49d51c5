// Package multicodec tags public keys with their algorithm code and encodes
// them as base58-btc multibase strings, the form used by publicKeyMultibase
// and by did:key identifiers.
package multicodec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multibase"

	"github.com/pilacorp/go-did-sdk/keys"
)

// Base58BTCPrefix is the multibase marker for base58-btc.
const Base58BTCPrefix = "z"

// ErrInvalidMultibase is returned when a string is not a base58-btc multibase
// encoding of a known codec.
var ErrInvalidMultibase = errors.New("invalid multibase key")

// Codec tags prepended to the public key bytes.
var (
	Ed25519Pub   = []byte{0xed, 0x01}
	Secp256k1Pub = []byte{0xe7, 0x01}
	P256Pub      = []byte{0x12, 0x00}
	X25519Pub    = []byte{0xec, 0x01}
)

// Prefix returns the codec tag for t.
func Prefix(t keys.KeyType) ([]byte, error) {
	switch t {
	case keys.Ed25519:
		return Ed25519Pub, nil
	case keys.Secp256k1:
		return Secp256k1Pub, nil
	case keys.P256:
		return P256Pub, nil
	default:
		return nil, fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}

// Encode returns "z" followed by the base58-btc encoding of the codec tag for t and publicKey.
func Encode(publicKey []byte, t keys.KeyType) (string, error) {
	prefix, err := Prefix(t)
	if err != nil {
		return "", err
	}

	return encode(prefix, publicKey), nil
}

// EncodeX25519 encodes an X25519 key agreement public key.
func EncodeX25519(publicKey []byte) string {
	return encode(X25519Pub, publicKey)
}

// EncodeKeyPair encodes the public half of kp.
func EncodeKeyPair(kp *keys.KeyPair) (string, error) {
	return Encode(kp.PublicKey, kp.Type)
}

func encode(prefix, publicKey []byte) string {
	tagged := make([]byte, 0, len(prefix)+len(publicKey))
	tagged = append(tagged, prefix...)
	tagged = append(tagged, publicKey...)

	return Base58BTCPrefix + base58.Encode(tagged)
}

// Decode reverses Encode, returning the public key and its key type.
func Decode(s string) ([]byte, keys.KeyType, error) {
	prefix, raw, err := decode(s)
	if err != nil {
		return nil, 0, err
	}

	for _, t := range []keys.KeyType{keys.Ed25519, keys.Secp256k1, keys.P256} {
		tag, _ := Prefix(t)
		if !bytes.Equal(prefix, tag) {
			continue
		}
		if len(raw) != t.PublicKeySize() {
			return nil, 0, fmt.Errorf("%w: %s key must be %d bytes, got %d", ErrInvalidMultibase, t, t.PublicKeySize(), len(raw))
		}
		return raw, t, nil
	}

	return nil, 0, fmt.Errorf("%w: unknown codec 0x%x", ErrInvalidMultibase, prefix)
}

// DecodeX25519 reverses EncodeX25519.
func DecodeX25519(s string) ([]byte, error) {
	prefix, raw, err := decode(s)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(prefix, X25519Pub) {
		return nil, fmt.Errorf("%w: not an x25519 key", ErrInvalidMultibase)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: x25519 key must be 32 bytes, got %d", ErrInvalidMultibase, len(raw))
	}

	return raw, nil
}

func decode(s string) (prefix, raw []byte, err error) {
	enc, data, err := multibase.Decode(s)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidMultibase, err)
	}
	if enc != multibase.Base58BTC {
		return nil, nil, fmt.Errorf("%w: expected base58btc, got %q", ErrInvalidMultibase, string(rune(enc)))
	}
	if len(data) <= 2 {
		return nil, nil, fmt.Errorf("%w: too short", ErrInvalidMultibase)
	}

	return data[:2], data[2:], nil
}
