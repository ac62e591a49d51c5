package keyagreement

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-sdk/keys"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	for _, kt := range []keys.KeyType{keys.Ed25519, keys.Secp256k1, keys.P256} {
		t.Run(kt.String(), func(t *testing.T) {
			alice, err := keys.Generate(kt)
			require.NoError(t, err)
			bob, err := keys.Generate(kt)
			require.NoError(t, err)

			msg := []byte(`{"type":"https://didcomm.org/basicmessage/2.0/message","body":{"content":"hi"}}`)
			env, err := Encrypt(alice.PrivateKey.Bytes(), bob.PublicKey, kt, msg)
			require.NoError(t, err)

			var header map[string]string
			raw, err := base64.RawURLEncoding.DecodeString(env.Protected)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &header))
			assert.Equal(t, "ECDH-SS+HKDF-SHA256", header["alg"])
			assert.NotContains(t, header, "epk")
			assert.Equal(t, "A256GCM", header["enc"])

			got, err := Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, kt, env)
			require.NoError(t, err)
			assert.Equal(t, msg, got)

			var decoded Envelope
			require.NoError(t, json.Unmarshal([]byte(env.String()), &decoded))
			assert.Equal(t, *env, decoded)
		})
	}
}

func TestEnvelope_Tampering(t *testing.T) {
	alice, err := keys.Generate(keys.Ed25519)
	require.NoError(t, err)
	bob, err := keys.Generate(keys.Ed25519)
	require.NoError(t, err)
	eve, err := keys.Generate(keys.Ed25519)
	require.NoError(t, err)

	env, err := Encrypt(alice.PrivateKey.Bytes(), bob.PublicKey, keys.Ed25519, []byte("secret"))
	require.NoError(t, err)

	_, err = Decrypt(eve.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, env)
	assert.ErrorIs(t, err, ErrDecrypt)

	tampered := *env
	ct, _ := base64.RawURLEncoding.DecodeString(env.Ciphertext)
	ct[0] ^= 1
	tampered.Ciphertext = base64.RawURLEncoding.EncodeToString(ct)
	_, err = Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, &tampered)
	assert.ErrorIs(t, err, ErrDecrypt)

	swapped := *env
	swapped.Protected = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"ECDH-ES","enc":"A256GCM","crv":"P-256"}`))
	_, err = Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, &swapped)
	assert.ErrorIs(t, err, ErrDecrypt)

	relabelled := *env
	relabelled.Protected = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"ECDH-ES","enc":"A256GCM","crv":"X25519"}`))
	_, err = Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, &relabelled)
	assert.ErrorIs(t, err, ErrDecrypt)

	short := *env
	short.Tag = "AAAA"
	_, err = Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, &short)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = Decrypt(bob.PrivateKey.Bytes(), alice.PublicKey, keys.Ed25519, nil)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestEnvelope_EntropyFailure(t *testing.T) {
	_, err := seal(bytes.NewReader(nil), make([]byte, 32), keys.P256, []byte("x"))
	assert.ErrorIs(t, err, keys.ErrEntropyUnavailable)

	_, err = seal(bytes.NewReader(make([]byte, 12)), make([]byte, 32), keys.KeyType(0), []byte("x"))
	assert.True(t, errors.Is(err, keys.ErrUnsupportedKeyType))
}
