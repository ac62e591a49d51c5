package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func generate(t *testing.T, args ...string) generateOutput {
	t.Helper()

	out, err := run(t, append([]string{"generate"}, args...)...)
	require.NoError(t, err)

	var got generateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestGenerateSignVerify(t *testing.T) {
	for _, kt := range []string{"Ed25519", "secp256k1", "P-256"} {
		t.Run(kt, func(t *testing.T) {
			got := generate(t, "did:key", "-k", kt, "-f", "base64")
			require.True(t, strings.HasPrefix(got.DID, "did:key:z"))
			assert.Equal(t, got.DID, got.Document.ID)
			assert.True(t, strings.HasPrefix(got.DocumentHash, "0x"))

			sig, err := run(t, "sign", "hello", "-k", kt, "-f", "base64", "--key", got.PrivateKey)
			require.NoError(t, err)
			sig = strings.TrimSpace(sig)

			mb := got.Document.VerificationMethod[0].PublicKeyMultibase
			out, err := run(t, "verify", mb, "hello", sig)
			require.NoError(t, err)
			assert.Equal(t, "valid\n", out)

			_, err = run(t, "verify", mb, "hello!", sig)
			assert.ErrorContains(t, err, "signature is invalid")
		})
	}
}

func TestGenerate_Web(t *testing.T) {
	got := generate(t, "did:web", "--domain", "localhost:8443", "--path", "users/alice")
	assert.Equal(t, "did:web:localhost%3A8443:users:alice", got.DID)

	out, err := run(t, "web-url", got.DID)
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8443/users/alice/did.json\n", out)

	_, err = run(t, "generate", "did:web", "--domain", "")
	assert.Error(t, err)
}

func TestGenerate_SealedKey(t *testing.T) {
	_, err := run(t, "generate", "-f", "sealed")
	assert.ErrorContains(t, err, "passphrase required")

	got := generate(t, "did:peer", "-f", "sealed", "-p", "pw", "--service-endpoint", "https://agent.example.com")
	require.Len(t, got.Document.Service, 1)

	_, err = run(t, "sign", "hello", "-f", "sealed", "-p", "pw", "--key", got.PrivateKey)
	assert.NoError(t, err)

	_, err = run(t, "sign", "hello", "-f", "sealed", "-p", "nope", "--key", got.PrivateKey)
	assert.Error(t, err)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "generate", "-k", "rsa")
	assert.Error(t, err)

	_, err = run(t, "generate", "did:ethr")
	assert.Error(t, err)

	_, err = run(t, "generate", "-f", "der")
	assert.Error(t, err)

	_, err = run(t, "sign", "hello")
	assert.Error(t, err)
}
