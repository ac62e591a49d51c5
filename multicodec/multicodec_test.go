package multicodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-sdk/keys"
)

func sequence(n int, lead ...byte) []byte {
	b := append([]byte(nil), lead...)
	for i := range n {
		b = append(b, byte(i))
	}
	return b
}

func TestEncode_Vectors(t *testing.T) {
	tests := []struct {
		name    string
		keyType keys.KeyType
		pub     []byte
		want    string
	}{
		{
			name:    "ed25519",
			keyType: keys.Ed25519,
			pub:     sequence(32),
			want:    "z6MkeTGwHmLmuCmgg4ABYhzWVh6ZX7hTwWt8gguAretUfc9c",
		},
		{
			name:    "secp256k1",
			keyType: keys.Secp256k1,
			pub:     sequence(64, 0x04),
			want:    "z7r8ooUidt4QW3yuGPNcNTn8H7va2aYw6nFpY7jLfx9D527KhtfcGkneri25BVmTwGsyokETPD2taTGqkZB8pZbz1Wcjg",
		},
		{
			name:    "p-256",
			keyType: keys.P256,
			pub:     sequence(64, 0x04),
			want:    "zXwpQbWRjqnH6qXCJHx3g2n8EjPZR3Zp6pxKvTusEDtosgYGvVrvS6B9emvgBXeGfqcCgNLFoA27fB4vs3pdF24Ds7pJ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.pub, tt.keyType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			pub, kt, err := Decode(got)
			require.NoError(t, err)
			assert.Equal(t, tt.keyType, kt)
			assert.Equal(t, tt.pub, pub)
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	for _, kt := range []keys.KeyType{keys.Ed25519, keys.Secp256k1, keys.P256} {
		kp, err := keys.Generate(kt)
		require.NoError(t, err)

		a, err := Encode(kp.PublicKey, kt)
		require.NoError(t, err)
		b, err := EncodeKeyPair(kp)
		require.NoError(t, err)

		assert.Equal(t, a, b, kt.String())
		assert.True(t, strings.HasPrefix(a, Base58BTCPrefix))
	}
}

func TestEncode_Ed25519Prefix(t *testing.T) {
	kp, err := keys.Generate(keys.Ed25519)
	require.NoError(t, err)

	mb, err := Encode(kp.PublicKey, keys.Ed25519)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mb, "z6Mk"), mb)
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode([]byte{1, 2, 3}, keys.KeyType(9))
	assert.ErrorIs(t, err, keys.ErrUnsupportedKeyType)
}

func TestX25519(t *testing.T) {
	mb := EncodeX25519(sequence(32))
	assert.Equal(t, "z6LSbgC4DpuCf7zxewhFPnYcyBm3YgxjEEovsehvWqZzTm8z", mb)

	pub, err := DecodeX25519(mb)
	require.NoError(t, err)
	assert.Equal(t, sequence(32), pub)

	_, _, err = Decode(mb)
	assert.ErrorIs(t, err, ErrInvalidMultibase)
}

func TestDecode_Invalid(t *testing.T) {
	ed, err := Encode(sequence(32), keys.Ed25519)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"no prefix":      ed[1:],
		"base64 prefix":  "m" + "7QEAAQIDBAUGBwgJCgsMDQ4PEBESExQVFhcYGRobHB0eHw",
		"bad alphabet":   "z0OIl",
		"too short":      "z2",
		"wrong key size": encode(Ed25519Pub, sequence(16)),
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(in)
			assert.ErrorIs(t, err, ErrInvalidMultibase)
		})
	}

	_, err = DecodeX25519(ed)
	assert.ErrorIs(t, err, ErrInvalidMultibase)
}
