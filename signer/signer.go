// Package signer signs and verifies payloads with DID key pairs.
//
// Ed25519 signs the message itself. secp256k1 and P-256 sign the SHA-256
// digest of the message and produce a fixed-width 64-byte r||s signature.
// Verification never fails loudly: any malformed input verifies as false.
package signer

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-did-sdk/keys"
)

// ErrInvalidPrivateKey is returned when private key bytes do not form a valid key for the curve.
var ErrInvalidPrivateKey = errors.New("invalid private key")

const scalarSize = 32

// Sign signs message with privateKey and returns the base64 encoded signature.
func Sign(message, privateKey []byte, t keys.KeyType) (string, error) {
	sig, err := SignBytes(message, privateKey, t)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// SignBytes signs message with privateKey and returns the raw signature.
//
// For Ed25519 the private key is the 32-byte seed (a 64-byte expanded key is
// also accepted). For the ECDSA curves it is the 32-byte scalar.
func SignBytes(message, privateKey []byte, t keys.KeyType) ([]byte, error) {
	switch t {
	case keys.Ed25519:
		return signEd25519(message, privateKey)
	case keys.Secp256k1:
		return signSecp256k1(message, privateKey)
	case keys.P256:
		return signP256(message, privateKey)
	default:
		return nil, fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}

// Verify reports whether signature, base64 encoded, is a valid signature of
// message under publicKey. It returns false for any malformed input.
func Verify(message []byte, signature string, publicKey []byte, t keys.KeyType) bool {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	return VerifyBytes(message, sig, publicKey, t)
}

// VerifyBytes is Verify for a raw signature.
func VerifyBytes(message, signature, publicKey []byte, t keys.KeyType) (ok bool) {
	// inputs are untrusted; a panic in a curve library must still read as a failed check
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	switch t {
	case keys.Ed25519:
		return verifyEd25519(message, signature, publicKey)
	case keys.Secp256k1:
		return verifySecp256k1(message, signature, publicKey)
	case keys.P256:
		return verifyP256(message, signature, publicKey)
	default:
		return false
	}
}

func signEd25519(message, privateKey []byte) ([]byte, error) {
	switch len(privateKey) {
	case ed25519.SeedSize:
		priv := ed25519.NewKeyFromSeed(privateKey)
		defer keys.Wipe(priv)
		return ed25519.Sign(priv, message), nil
	case ed25519.PrivateKeySize:
		return ed25519.Sign(ed25519.PrivateKey(privateKey), message), nil
	default:
		return nil, fmt.Errorf("%w: ed25519 key must be %d or %d bytes, got %d",
			ErrInvalidPrivateKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(privateKey))
	}
}

func verifyEd25519(message, signature, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(publicKey, message, signature)
}

func signSecp256k1(message, privateKey []byte) ([]byte, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	defer keys.WipeInt(priv.D)

	hash := sha256.Sum256(message)
	sig, err := crypto.Sign(hash[:], priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	// drop the recovery id, keep r||s
	return sig[:keys.CompactSignatureSize], nil
}

func verifySecp256k1(message, signature, publicKey []byte) bool {
	if len(signature) != keys.CompactSignatureSize {
		return false
	}

	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return false
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(signature[:scalarSize]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(signature[scalarSize:]); overflow || s.IsZero() {
		return false
	}

	hash := sha256.Sum256(message)

	return btcecdsa.NewSignature(&r, &s).Verify(hash[:], pub)
}

func signP256(message, privateKey []byte) ([]byte, error) {
	priv, err := P256PrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer keys.WipeInt(priv.D)

	hash := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, priv, hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	// pad r and s to fixed length
	sig := make([]byte, keys.CompactSignatureSize)
	r.FillBytes(sig[:scalarSize])
	s.FillBytes(sig[scalarSize:])

	return sig, nil
}

func verifyP256(message, signature, publicKey []byte) bool {
	if len(signature) != keys.CompactSignatureSize {
		return false
	}

	pub, err := P256PublicKey(publicKey)
	if err != nil {
		return false
	}

	r := new(big.Int).SetBytes(signature[:scalarSize])
	s := new(big.Int).SetBytes(signature[scalarSize:])
	if r.Sign() == 0 || s.Sign() == 0 {
		return false
	}

	hash := sha256.Sum256(message)

	return ecdsa.Verify(pub, hash[:], r, s)
}

// P256PrivateKey builds an ECDSA private key from a 32-byte P-256 scalar.
// The caller should wipe the returned key's D once done.
func P256PrivateKey(scalar []byte) (*ecdsa.PrivateKey, error) {
	// ecdh validates the scalar range and derives the public point
	key, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	pub, err := P256PublicKey(key.PublicKey().Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	return &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(scalar),
	}, nil
}

// P256PublicKey parses an uncompressed P-256 point.
func P256PublicKey(publicKey []byte) (*ecdsa.PublicKey, error) {
	// rejects points that are not on the curve
	if _, err := ecdh.P256().NewPublicKey(publicKey); err != nil {
		return nil, fmt.Errorf("invalid p-256 public key: %w", err)
	}
	if len(publicKey) != keys.UncompressedPublicKeySize {
		return nil, fmt.Errorf("invalid p-256 public key: expected %d bytes, got %d", keys.UncompressedPublicKeySize, len(publicKey))
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(publicKey[1 : 1+scalarSize]),
		Y:     new(big.Int).SetBytes(publicKey[1+scalarSize:]),
	}, nil
}

// Secp256k1PublicKey parses a compressed or uncompressed secp256k1 point.
func Secp256k1PublicKey(publicKey []byte) (*ecdsa.PublicKey, error) {
	pub, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 public key: %w", err)
	}

	return crypto.UnmarshalPubkey(pub.SerializeUncompressed())
}
