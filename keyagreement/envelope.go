package keyagreement

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/pilacorp/go-did-sdk/keys"
)

const (
	// static-static ECDH, no ephemeral key
	envelopeAlg  = "ECDH-SS+HKDF-SHA256"
	envelopeEnc  = "A256GCM"
	envelopeType = "application/didcomm-encrypted+json"

	contentKeySize = 32
	tagSize        = 16
)

// ErrDecrypt is returned when an envelope cannot be opened.
var ErrDecrypt = errors.New("failed to decrypt envelope")

// Envelope is a JWE in JSON serialization whose content key is derived from
// an ECDH shared secret.
type Envelope struct {
	Protected  string `json:"protected"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

type envelopeHeader struct {
	Alg string `json:"alg"`
	Enc string `json:"enc"`
	Crv string `json:"crv"`
	Typ string `json:"typ"`
}

func curveName(t keys.KeyType) (string, error) {
	switch t {
	case keys.Ed25519:
		return "X25519", nil
	case keys.Secp256k1:
		return "secp256k1", nil
	case keys.P256:
		return "P-256", nil
	default:
		return "", fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}

// Encrypt seals plaintext for the holder of peerPublicKey, using the shared
// secret between privateKey and peerPublicKey.
func Encrypt(privateKey, peerPublicKey []byte, t keys.KeyType, plaintext []byte) (*Envelope, error) {
	secret, err := SharedSecret(privateKey, peerPublicKey, t)
	if err != nil {
		return nil, err
	}
	defer keys.Wipe(secret)

	return seal(rand.Reader, secret, t, plaintext)
}

// Decrypt opens an envelope sealed by the holder of peerPublicKey.
func Decrypt(privateKey, peerPublicKey []byte, t keys.KeyType, env *Envelope) ([]byte, error) {
	secret, err := SharedSecret(privateKey, peerPublicKey, t)
	if err != nil {
		return nil, err
	}
	defer keys.Wipe(secret)

	return open(secret, t, env)
}

// String returns the envelope as JSON.
func (e *Envelope) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func seal(r io.Reader, secret []byte, t keys.KeyType, plaintext []byte) (*Envelope, error) {
	crv, err := curveName(t)
	if err != nil {
		return nil, err
	}

	header, err := json.Marshal(envelopeHeader{Alg: envelopeAlg, Enc: envelopeEnc, Crv: crv, Typ: envelopeType})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header: %w", err)
	}
	protected := base64.RawURLEncoding.EncodeToString(header)

	gcm, err := newGCM(secret, protected)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, fmt.Errorf("%w: %w", keys.ErrEntropyUnavailable, err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, []byte(protected))
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return &Envelope{
		Protected:  protected,
		IV:         base64.RawURLEncoding.EncodeToString(iv),
		Ciphertext: base64.RawURLEncoding.EncodeToString(ct),
		Tag:        base64.RawURLEncoding.EncodeToString(tag),
	}, nil
}

func open(secret []byte, t keys.KeyType, env *Envelope) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: envelope is nil", ErrDecrypt)
	}

	crv, err := curveName(t)
	if err != nil {
		return nil, err
	}

	rawHeader, err := base64.RawURLEncoding.DecodeString(env.Protected)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid protected header: %w", ErrDecrypt, err)
	}
	var header envelopeHeader
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return nil, fmt.Errorf("%w: invalid protected header: %w", ErrDecrypt, err)
	}
	if header.Alg != envelopeAlg || header.Enc != envelopeEnc || header.Crv != crv {
		return nil, fmt.Errorf("%w: unsupported header %s/%s/%s", ErrDecrypt, header.Alg, header.Enc, header.Crv)
	}

	iv, err := base64.RawURLEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid iv: %w", ErrDecrypt, err)
	}
	ct, err := base64.RawURLEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ciphertext: %w", ErrDecrypt, err)
	}
	tag, err := base64.RawURLEncoding.DecodeString(env.Tag)
	if err != nil || len(tag) != tagSize {
		return nil, fmt.Errorf("%w: invalid tag", ErrDecrypt)
	}

	gcm, err := newGCM(secret, env.Protected)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: invalid iv length %d", ErrDecrypt, len(iv))
	}

	plaintext, err := gcm.Open(nil, iv, append(ct, tag...), []byte(env.Protected))
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

// newGCM derives the content key from secret with HKDF-SHA256, bound to the
// protected header.
func newGCM(secret []byte, protected string) (cipher.AEAD, error) {
	key := make([]byte, contentKeySize)
	defer keys.Wipe(key)

	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(envelopeEnc+protected)), key); err != nil {
		return nil, fmt.Errorf("failed to derive content key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return cipher.NewGCM(block)
}
