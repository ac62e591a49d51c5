package signer

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-sdk/keys"
)

// newSigningService returns a server that signs with kp, or with wrong when set.
func newSigningService(t *testing.T, kp *keys.KeyPair, apiKey string, wrong *keys.KeyPair) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req struct {
			PayloadHex string `json:"payload_hex"`
			KeyType    string `json:"key_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payload, err := hex.DecodeString(req.PayloadHex)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		signWith := kp
		if wrong != nil {
			signWith = wrong
		}
		sig, err := SignBytes(payload, signWith.PrivateKey.Bytes(), signWith.Type)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"signature_hex": "0x" + hex.EncodeToString(sig)})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestRemoteProvider_Sign(t *testing.T) {
	for _, kt := range []keys.KeyType{keys.Ed25519, keys.Secp256k1, keys.P256} {
		t.Run(kt.String(), func(t *testing.T) {
			kp, err := keys.Generate(kt)
			require.NoError(t, err)
			srv := newSigningService(t, kp, "secret", nil)

			p, err := NewRemoteProvider(srv.URL, "secret", kt, kp.PublicKey)
			require.NoError(t, err)
			assert.Equal(t, kt, p.KeyType())
			assert.Equal(t, kp.PublicKey, p.PublicKey())

			sig, err := p.Sign([]byte("hello"))
			require.NoError(t, err)
			assert.True(t, VerifyBytes([]byte("hello"), sig, kp.PublicKey, kt))
		})
	}
}

func TestRemoteProvider_Errors(t *testing.T) {
	kp, err := keys.Generate(keys.Secp256k1)
	require.NoError(t, err)
	other, err := keys.Generate(keys.Secp256k1)
	require.NoError(t, err)

	_, err = NewRemoteProvider(" ", "", keys.Secp256k1, kp.PublicKey)
	assert.Error(t, err)
	_, err = NewRemoteProvider("http://localhost", "", keys.KeyType(0), kp.PublicKey)
	assert.ErrorIs(t, err, keys.ErrUnsupportedKeyType)
	_, err = NewRemoteProvider("http://localhost", "", keys.Secp256k1, kp.PublicKey[:33])
	assert.Error(t, err)

	srv := newSigningService(t, kp, "secret", nil)
	p, err := NewRemoteProvider(srv.URL, "wrong", keys.Secp256k1, kp.PublicKey)
	require.NoError(t, err)
	_, err = p.Sign([]byte("hello"))
	assert.ErrorContains(t, err, "http 401")

	bad := newSigningService(t, kp, "", other)
	p, err = NewRemoteProvider(bad.URL, "", keys.Secp256k1, kp.PublicKey)
	require.NoError(t, err)
	_, err = p.Sign([]byte("hello"))
	assert.ErrorContains(t, err, "invalid signature")
}
