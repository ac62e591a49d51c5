package keys

import (
	"context"
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
)

// KeyPair is a freshly generated key pair. It is owned by the caller; the
// generator keeps no reference to it.
type KeyPair struct {
	Type       KeyType `json:"type"`
	PrivateKey *Secret `json:"-"`
	// PublicKey is the raw key for Ed25519 and the uncompressed point for the ECDSA curves.
	PublicKey []byte `json:"publicKey"`
}

// PublicKeyHex returns the public key as lower-case hex.
func (k *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey)
}

// Destroy wipes the private key.
func (k *KeyPair) Destroy() {
	if k == nil {
		return
	}
	k.PrivateKey.Destroy()
}

// Generator draws key pairs from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading entropy from r. A nil r selects crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}

	return &Generator{rand: r}
}

var defaultGenerator = NewGenerator(nil)

// Generate creates a key pair of type t using crypto/rand.
func Generate(t KeyType) (*KeyPair, error) {
	return defaultGenerator.Generate(context.Background(), t)
}

// Generate creates a key pair of type t.
//
// If the random source fails, or ctx ends before it delivers, the returned
// error wraps ErrEntropyUnavailable and no key material is returned.
func (g *Generator) Generate(ctx context.Context, t KeyType) (*KeyPair, error) {
	switch t {
	case Ed25519:
		return g.generateEd25519(ctx)
	case Secp256k1:
		return g.generateScalar(ctx, t, secp256k1Public)
	case P256:
		return g.generateScalar(ctx, t, p256Public)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedKeyType, uint8(t))
	}
}

func (g *Generator) generateEd25519(ctx context.Context) (*KeyPair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if err := readEntropy(ctx, g.rand, seed); err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := append([]byte(nil), priv[ed25519.SeedSize:]...)
	Wipe(priv)

	return &KeyPair{
		Type:       Ed25519,
		PrivateKey: NewSecret(seed),
		PublicKey:  pub,
	}, nil
}

// errScalarOutOfRange marks a draw that is not a valid private scalar for the curve.
var errScalarOutOfRange = errors.New("scalar out of range")

// generateScalar draws 32-byte candidates until derive accepts one.
func (g *Generator) generateScalar(ctx context.Context, t KeyType, derive func([]byte) ([]byte, error)) (*KeyPair, error) {
	for range maxScalarDrawAttempts {
		scalar := make([]byte, PrivateKeySize)
		if err := readEntropy(ctx, g.rand, scalar); err != nil {
			return nil, err
		}

		pub, err := derive(scalar)
		if errors.Is(err, errScalarOutOfRange) {
			Wipe(scalar)
			continue
		}
		if err != nil {
			Wipe(scalar)
			return nil, fmt.Errorf("failed to derive %s public key: %w", t, err)
		}

		return &KeyPair{
			Type:       t,
			PrivateKey: NewSecret(scalar),
			PublicKey:  pub,
		}, nil
	}

	return nil, fmt.Errorf("%w: no valid %s scalar after %d draws", ErrEntropyUnavailable, t, maxScalarDrawAttempts)
}

func secp256k1Public(scalar []byte) ([]byte, error) {
	priv, err := crypto.ToECDSA(scalar)
	if err != nil {
		return nil, errScalarOutOfRange
	}
	defer WipeInt(priv.D)

	return crypto.FromECDSAPub(&priv.PublicKey), nil
}

func p256Public(scalar []byte) ([]byte, error) {
	priv, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, errScalarOutOfRange
	}

	return priv.PublicKey().Bytes(), nil
}

// readEntropy fills buf from r. When ctx can be cancelled the read runs
// aside so a blocked source cannot stall the caller past ctx.
func readEntropy(ctx context.Context, r io.Reader, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
	}

	if ctx.Done() == nil {
		if _, err := io.ReadFull(r, buf); err != nil {
			Wipe(buf)
			return fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
		}
		return nil
	}

	scratch := make([]byte, len(buf))
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(r, scratch)
		done <- err
	}()

	select {
	case err := <-done:
		defer Wipe(scratch)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEntropyUnavailable, err)
		}
		copy(buf, scratch)
		return nil
	case <-ctx.Done():
		// the reader goroutine still owns scratch; wipe it once it returns
		go func() {
			<-done
			Wipe(scratch)
		}()
		return fmt.Errorf("%w: %w", ErrEntropyUnavailable, ctx.Err())
	}
}
