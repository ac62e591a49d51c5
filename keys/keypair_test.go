package keys

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		keyType KeyType
		pubLen  int
	}{
		{Ed25519, 32},
		{Secp256k1, 65},
		{P256, 65},
	}

	for _, tt := range tests {
		t.Run(tt.keyType.String(), func(t *testing.T) {
			kp, err := Generate(tt.keyType)
			require.NoError(t, err)
			defer kp.Destroy()

			assert.Equal(t, tt.keyType, kp.Type)
			assert.Len(t, kp.PublicKey, tt.pubLen)
			assert.Equal(t, tt.pubLen, tt.keyType.PublicKeySize())
			assert.Equal(t, PrivateKeySize, kp.PrivateKey.Len())
			assert.Len(t, kp.PublicKeyHex(), 2*tt.pubLen)
			if tt.keyType != Ed25519 {
				assert.Equal(t, byte(0x04), kp.PublicKey[0], "expected uncompressed point")
			}
		})
	}
}

func TestGenerate_Ed25519PublicMatchesSeed(t *testing.T) {
	kp, err := Generate(Ed25519)
	require.NoError(t, err)

	priv := ed25519.NewKeyFromSeed(kp.PrivateKey.Bytes())
	assert.Equal(t, []byte(priv.Public().(ed25519.PublicKey)), kp.PublicKey)
}

func TestGenerate_Unsupported(t *testing.T) {
	kp, err := Generate(KeyType(42))
	assert.ErrorIs(t, err, ErrUnsupportedKeyType)
	assert.Nil(t, kp)
}

func TestGenerate_Distinct(t *testing.T) {
	a, err := Generate(Secp256k1)
	require.NoError(t, err)
	b, err := Generate(Secp256k1)
	require.NoError(t, err)

	assert.False(t, a.PrivateKey.Equal(b.PrivateKey))
	assert.NotEqual(t, a.PublicKey, b.PublicKey)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("rng exhausted") }

type blockingReader struct{ release chan struct{} }

func (r blockingReader) Read(p []byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func TestGenerator_EntropyFailure(t *testing.T) {
	g := NewGenerator(failingReader{})

	for _, kt := range []KeyType{Ed25519, Secp256k1, P256} {
		kp, err := g.Generate(context.Background(), kt)
		assert.ErrorIs(t, err, ErrEntropyUnavailable, kt.String())
		assert.Nil(t, kp)
	}
}

func TestGenerator_EntropyTimeout(t *testing.T) {
	r := blockingReader{release: make(chan struct{})}
	defer close(r.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	kp, err := NewGenerator(r).Generate(ctx, Ed25519)
	assert.ErrorIs(t, err, ErrEntropyUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, kp)
}

func TestGenerator_RedrawsOutOfRangeScalar(t *testing.T) {
	// all-0xff is above the group order of both ECDSA curves
	src := io.MultiReader(bytes.NewReader(bytes.Repeat([]byte{0xff}, 32)), bytes.NewReader(bytes.Repeat([]byte{0x01}, 32)))

	kp, err := NewGenerator(src).Generate(context.Background(), Secp256k1)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0x01}, 32), kp.PrivateKey.Bytes())
}

func TestGenerator_DeterministicReader(t *testing.T) {
	seed := bytes.Repeat([]byte{0x07}, 32)

	a, err := NewGenerator(bytes.NewReader(seed)).Generate(context.Background(), P256)
	require.NoError(t, err)
	b, err := NewGenerator(bytes.NewReader(seed)).Generate(context.Background(), P256)
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey, b.PublicKey)
}

func TestParseKeyType(t *testing.T) {
	tests := []struct {
		in      string
		want    KeyType
		wantErr bool
	}{
		{"Ed25519", Ed25519, false},
		{"ed25519", Ed25519, false},
		{"secp256k1", Secp256k1, false},
		{"P-256", P256, false},
		{"p256", P256, false},
		{"RSA", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedKeyType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyType_Text(t *testing.T) {
	var kt KeyType
	require.NoError(t, json.Unmarshal([]byte(`"P-256"`), &kt))
	assert.Equal(t, P256, kt)

	out, err := json.Marshal(Secp256k1)
	require.NoError(t, err)
	assert.JSONEq(t, `"secp256k1"`, string(out))

	_, err = json.Marshal(KeyType(0))
	assert.Error(t, err)
}

func TestSecret(t *testing.T) {
	s := CopySecret([]byte{1, 2, 3})
	buf := s.Bytes()

	assert.Equal(t, redacted, fmt.Sprintf("%v", s))
	assert.Equal(t, redacted, fmt.Sprintf("%#v", s))

	out, err := json.Marshal(struct{ Key *Secret }{s})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\x01")
	assert.Contains(t, string(out), redacted)

	s.Destroy()
	assert.True(t, s.Destroyed())
	assert.Equal(t, []byte{0, 0, 0}, buf)
	assert.Nil(t, s.Bytes())

	// second Destroy is a no-op
	s.Destroy()
}

func TestKeyPair_Destroy(t *testing.T) {
	kp, err := Generate(Ed25519)
	require.NoError(t, err)

	buf := kp.PrivateKey.Bytes()
	kp.Destroy()

	assert.Equal(t, make([]byte, len(buf)), buf)
	assert.True(t, kp.PrivateKey.Destroyed())
}
