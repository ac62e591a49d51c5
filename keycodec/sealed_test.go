package keycodec

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-sdk/keys"
)

// Cheap scrypt parameters keep the tests fast.
const testN, testR, testP = 1 << 10, 8, 1

func TestSeal_RoundTrip(t *testing.T) {
	kp, err := keys.Generate(keys.Ed25519)
	require.NoError(t, err)
	defer kp.Destroy()

	sealed, err := seal(rand.Reader, kp.PrivateKey, []byte("correct horse"), testN, testR, testP)
	require.NoError(t, err)

	got, err := Open(sealed, []byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, got.Equal(kp.PrivateKey))
}

func TestSeal_DefaultParams(t *testing.T) {
	secret := keys.CopySecret(bytes.Repeat([]byte{7}, 32))

	sealed, err := Seal(secret, []byte("pw"))
	require.NoError(t, err)

	got, err := Open(sealed, []byte("pw"))
	require.NoError(t, err)
	assert.True(t, got.Equal(secret))
}

func TestOpen_Errors(t *testing.T) {
	secret := keys.CopySecret(bytes.Repeat([]byte{1}, 32))
	sealed, err := seal(rand.Reader, secret, []byte("pw"), testN, testR, testP)
	require.NoError(t, err)

	_, err = Open(sealed, []byte("wrong"))
	assert.ErrorIs(t, err, ErrWrongPassphrase)

	_, err = Open([]byte("not json"), []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Open([]byte(`{"v":2}`), []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Open([]byte(`{"v":1,"salt":"AAAA","scrypt_N":3,"scrypt_r":8,"scrypt_p":1}`), []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOpen_RejectsCostlyParams(t *testing.T) {
	salt := `"AAAAAAAAAAAAAAAAAAAAAA=="`
	tests := []struct {
		name    string
		n, r, p int
	}{
		{"huge N", 1 << 22, 8, 1},
		{"N not a power of two", 1000, 8, 1},
		{"zero N", 0, 8, 1},
		{"huge r", 1 << 10, 1 << 12, 1},
		{"zero r", 1 << 10, 0, 1},
		{"huge p", 1 << 10, 8, 1 << 10},
		{"negative p", 1 << 10, 8, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := fmt.Sprintf(`{"v":1,"salt":%s,"scrypt_N":%d,"scrypt_r":%d,"scrypt_p":%d,"cipher":"AAAA"}`, salt, tt.n, tt.r, tt.p)
			_, err := Open([]byte(blob), []byte("pw"))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}

	_, err := Open([]byte(`{"v":1,"salt":"AAAA","scrypt_N":1024,"scrypt_r":8,"scrypt_p":1,"cipher":"AAAA"}`), []byte("pw"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestSeal_Errors(t *testing.T) {
	secret := keys.CopySecret(bytes.Repeat([]byte{1}, 32))

	_, err := seal(bytes.NewReader(nil), secret, []byte("pw"), testN, testR, testP)
	assert.ErrorIs(t, err, keys.ErrEntropyUnavailable)

	secret.Destroy()
	_, err = Seal(secret, []byte("pw"))
	assert.Error(t, err)
}
