// Package keyagreement derives key agreement keys and ECDH shared secrets
// from DID key pairs.
//
// Ed25519 signing keys are mapped onto Curve25519 with the Edwards to
// Montgomery birational map, giving the X25519 key published under a DID
// Document's keyAgreement.
package keyagreement

import (
	"crypto/ecdh"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/curve25519"

	"github.com/pilacorp/go-did-sdk/keys"
)

var (
	// ErrInvalidPublicKey is returned when a peer public key cannot be used.
	ErrInvalidPublicKey = errors.New("invalid public key")
	// ErrInvalidPrivateKey is returned when a private key cannot be used.
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// X25519PublicKey converts an Ed25519 public key to its X25519 form, u = (1+y)/(1-y).
func X25519PublicKey(ed25519PublicKey []byte) ([]byte, error) {
	p, err := new(edwards25519.Point).SetBytes(ed25519PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}

	return p.BytesMontgomery(), nil
}

// X25519PrivateKey converts an Ed25519 seed to the matching X25519 scalar,
// the clamped low half of SHA-512(seed).
func X25519PrivateKey(ed25519Seed []byte) ([]byte, error) {
	if len(ed25519Seed) != keys.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrInvalidPrivateKey, keys.PrivateKeySize, len(ed25519Seed))
	}

	h := sha512.Sum512(ed25519Seed)
	defer keys.Wipe(h[:])

	scalar := make([]byte, curve25519.ScalarSize)
	copy(scalar, h[:curve25519.ScalarSize])
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64

	return scalar, nil
}

// SharedSecret computes the ECDH shared secret between privateKey and
// peerPublicKey, both of type t. Ed25519 keys are converted to X25519 first.
// The result is 32 bytes for every curve.
func SharedSecret(privateKey, peerPublicKey []byte, t keys.KeyType) ([]byte, error) {
	switch t {
	case keys.Ed25519:
		scalar, err := X25519PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		defer keys.Wipe(scalar)

		point, err := X25519PublicKey(peerPublicKey)
		if err != nil {
			return nil, err
		}

		secret, err := curve25519.X25519(scalar, point)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		return secret, nil
	case keys.Secp256k1:
		if len(privateKey) != keys.PrivateKeySize {
			return nil, fmt.Errorf("%w: secp256k1 key must be %d bytes", ErrInvalidPrivateKey, keys.PrivateKeySize)
		}
		pub, err := secp256k1.ParsePubKey(peerPublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		priv := secp256k1.PrivKeyFromBytes(privateKey)
		defer priv.Zero()
		if priv.Key.IsZero() {
			return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
		}

		return secp256k1.GenerateSharedSecret(priv, pub), nil
	case keys.P256:
		priv, err := ecdh.P256().NewPrivateKey(privateKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
		}
		pub, err := ecdh.P256().NewPublicKey(peerPublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}

		secret, err := priv.ECDH(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		return secret, nil
	default:
		return nil, fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}
