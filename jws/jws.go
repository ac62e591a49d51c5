// Package jws issues and verifies compact JWTs signed by DID keys.
package jws

import (
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pilacorp/go-did-sdk/keys"
	"github.com/pilacorp/go-did-sdk/signer"
)

// JOSE algorithm names.
const (
	AlgEdDSA  = "EdDSA"
	AlgES256K = "ES256K"
	AlgES256  = "ES256"
)

// Alg returns the JOSE algorithm for t.
func Alg(t keys.KeyType) (string, error) {
	m, err := method(t)
	if err != nil {
		return "", err
	}

	return m.Alg(), nil
}

func method(t keys.KeyType) (*SigningMethodProvider, error) {
	switch t {
	case keys.Ed25519:
		return EdDSA, nil
	case keys.Secp256k1:
		return ES256K, nil
	case keys.P256:
		return ES256, nil
	default:
		return nil, fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}

// Sign returns claims as a compact JWT signed by p. kid, usually a
// verification method id, is set in the header when non-empty.
func Sign(claims jwt.Claims, p signer.SignerProvider, kid string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("signer provider is required")
	}

	m, err := method(p.KeyType())
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(m, claims)
	token.Header["typ"] = "JWT"
	if kid != "" {
		token.Header["kid"] = kid
	}

	signed, err := token.SignedString(p)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses token into claims and checks its signature against
// publicKey of type t. Only the algorithm matching t is accepted.
func Verify(token string, publicKey []byte, t keys.KeyType, claims jwt.Claims) (*jwt.Token, error) {
	m, err := method(t)
	if err != nil {
		return nil, err
	}

	key, err := verificationKey(publicKey, t)
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{m.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	return parsed, nil
}

// verificationKey returns the key form expected by the jwt method for alg.
func verificationKey(publicKey []byte, t keys.KeyType) (interface{}, error) {
	switch t {
	case keys.Ed25519:
		if len(publicKey) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("invalid ed25519 public key length %d", len(publicKey))
		}
		return ed25519.PublicKey(publicKey), nil
	case keys.P256:
		return signer.P256PublicKey(publicKey)
	default:
		return publicKey, nil
	}
}
