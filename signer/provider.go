package signer

import (
	"errors"

	"github.com/pilacorp/go-did-sdk/keys"
)

// SignerProvider is the interface for the signer provider.
type SignerProvider interface {
	// Sign returns the raw signature of payload, applying the curve's pre-hash rule.
	Sign(payload []byte) ([]byte, error)
	KeyType() keys.KeyType
	PublicKey() []byte
}

// DefaultProvider signs with an in-memory key pair.
type DefaultProvider struct {
	kp *keys.KeyPair
}

// NewDefaultProvider creates a signer provider over kp. The key pair stays
// owned by the caller; destroying it disables the provider.
func NewDefaultProvider(kp *keys.KeyPair) (SignerProvider, error) {
	if kp == nil || kp.PrivateKey.Destroyed() {
		return nil, errors.New("key pair has no private key")
	}
	if !kp.Type.Valid() {
		return nil, keys.ErrUnsupportedKeyType
	}

	return &DefaultProvider{kp: kp}, nil
}

// Sign signs the payload.
func (p *DefaultProvider) Sign(payload []byte) ([]byte, error) {
	if p.kp.PrivateKey.Destroyed() {
		return nil, errors.New("private key has been destroyed")
	}

	return SignBytes(payload, p.kp.PrivateKey.Bytes(), p.kp.Type)
}

// KeyType returns the key type of the signer.
func (p *DefaultProvider) KeyType() keys.KeyType { return p.kp.Type }

// PublicKey returns the public key of the signer.
func (p *DefaultProvider) PublicKey() []byte { return p.kp.PublicKey }
