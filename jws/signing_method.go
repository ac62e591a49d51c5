package jws

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pilacorp/go-did-sdk/keys"
	"github.com/pilacorp/go-did-sdk/signer"
)

// SigningMethodProvider signs JWTs with a signer.SignerProvider and verifies
// them against raw public key bytes.
type SigningMethodProvider struct {
	alg     string
	keyType keys.KeyType
}

// Signing methods for the supported key types. Only ES256K is registered
// with jwt; EdDSA and ES256 tokens are parsed by jwt's own methods.
var (
	EdDSA  = &SigningMethodProvider{alg: AlgEdDSA, keyType: keys.Ed25519}
	ES256K = &SigningMethodProvider{alg: AlgES256K, keyType: keys.Secp256k1}
	ES256  = &SigningMethodProvider{alg: AlgES256, keyType: keys.P256}
)

func init() {
	jwt.RegisterSigningMethod(ES256K.Alg(), func() jwt.SigningMethod {
		return ES256K
	})
}

// Alg returns the algorithm name
func (m *SigningMethodProvider) Alg() string {
	return m.alg
}

// Sign signs a string with a signer.SignerProvider
func (m *SigningMethodProvider) Sign(signingString string, key interface{}) ([]byte, error) {
	p, ok := key.(signer.SignerProvider)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}
	if p.KeyType() != m.keyType {
		return nil, fmt.Errorf("%w: %s key cannot sign %s", jwt.ErrInvalidKeyType, p.KeyType(), m.alg)
	}

	sig, err := p.Sign([]byte(signingString))
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	return sig, nil
}

// Verify verifies a signature against raw public key bytes
func (m *SigningMethodProvider) Verify(signingString string, signature []byte, key interface{}) error {
	publicKey, ok := key.([]byte)
	if !ok {
		return jwt.ErrInvalidKeyType
	}

	if !signer.VerifyBytes([]byte(signingString), signature, publicKey, m.keyType) {
		return errors.New("signature verification failed")
	}

	return nil
}
