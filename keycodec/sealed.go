package keycodec

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/pilacorp/go-did-sdk/keys"
)

const sealedFormatVersion = 1

// Scrypt cost parameters for Seal.
const (
	ScryptN = 1 << 15
	ScryptR = 8
	ScryptP = 1
)

// Upper bounds on the scrypt parameters Open accepts.
const (
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16
)

const saltSize = 16

// ErrWrongPassphrase is returned when a sealed key cannot be opened.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key")

// sealedKey is the JSON form of a passphrase protected private key.
type sealedKey struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// Seal encrypts the private key under a key derived from passphrase with
// scrypt, returning a JSON document that Open accepts.
func Seal(privateKey *keys.Secret, passphrase []byte) ([]byte, error) {
	return seal(rand.Reader, privateKey, passphrase, ScryptN, ScryptR, ScryptP)
}

func seal(r io.Reader, privateKey *keys.Secret, passphrase []byte, n, rr, p int) ([]byte, error) {
	if privateKey.Destroyed() {
		return nil, errors.New("private key has been destroyed")
	}

	var salt [saltSize]byte
	if _, err := io.ReadFull(r, salt[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", keys.ErrEntropyUnavailable, err)
	}

	aead, err := newAEAD(passphrase, salt[:], n, rr, p)
	if err != nil {
		return nil, err
	}

	// zero nonce; the key is bound to a fresh salt
	var nonce [chacha20poly1305.NonceSize]byte
	ct := aead.Seal(nil, nonce[:], privateKey.Bytes(), salt[:])

	return json.Marshal(sealedKey{
		V:      sealedFormatVersion,
		Salt:   salt[:],
		N:      n,
		R:      rr,
		P:      p,
		Cipher: ct,
	})
}

// Open decrypts a private key sealed by Seal.
func Open(sealed, passphrase []byte) (*keys.Secret, error) {
	var sk sealedKey
	if err := json.Unmarshal(sealed, &sk); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if sk.V != sealedFormatVersion {
		return nil, fmt.Errorf("%w: unsupported sealed key version %d", ErrInvalidFormat, sk.V)
	}
	if err := checkScryptParams(sk.N, sk.R, sk.P); err != nil {
		return nil, err
	}
	if len(sk.Salt) != saltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidFormat, saltSize, len(sk.Salt))
	}

	aead, err := newAEAD(passphrase, sk.Salt, sk.N, sk.R, sk.P)
	if err != nil {
		return nil, err
	}

	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], sk.Cipher, sk.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	return newSecret(pt)
}

// checkScryptParams bounds the cost parameters read from a sealed key.
func checkScryptParams(n, r, p int) error {
	if n < 2 || n > maxScryptN || n&(n-1) != 0 {
		return fmt.Errorf("%w: scrypt N must be a power of two up to %d, got %d", ErrInvalidFormat, maxScryptN, n)
	}
	if r < 1 || r > maxScryptR {
		return fmt.Errorf("%w: scrypt r must be in [1, %d], got %d", ErrInvalidFormat, maxScryptR, r)
	}
	if p < 1 || p > maxScryptP {
		return fmt.Errorf("%w: scrypt p must be in [1, %d], got %d", ErrInvalidFormat, maxScryptP, p)
	}

	return nil
}

func newAEAD(passphrase, salt []byte, n, r, p int) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, n, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	defer keys.Wipe(key)

	return chacha20poly1305.New(key)
}
