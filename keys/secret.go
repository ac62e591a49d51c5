package keys

import (
	"crypto/subtle"
	"log/slog"
	"math/big"
	"runtime"
)

const redacted = "[REDACTED]"

// Secret owns a buffer of private key material.
//
// The buffer is zeroed by Destroy, and again by a runtime cleanup once the
// Secret is unreachable. Formatting, logging and JSON encoding never reveal
// the contents.
type Secret struct {
	b []byte
}

// NewSecret takes ownership of b. The caller must not use b afterwards.
func NewSecret(b []byte) *Secret {
	s := &Secret{b: b}
	runtime.AddCleanup(s, Wipe, b)

	return s
}

// CopySecret returns a Secret holding a copy of b; b is left untouched.
func CopySecret(b []byte) *Secret {
	return NewSecret(append(make([]byte, 0, len(b)), b...))
}

// Bytes exposes the underlying buffer without copying. The slice is only
// valid until Destroy is called and must not be retained.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}

	return s.b
}

// Len returns the length of the secret in bytes.
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}

	return len(s.b)
}

// Destroyed reports whether Destroy has been called.
func (s *Secret) Destroyed() bool {
	return s == nil || s.b == nil
}

// Destroy zeroes the secret and releases the buffer. It is safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.b == nil {
		return
	}
	Wipe(s.b)
	s.b = nil
}

// Equal reports whether both secrets hold the same bytes, in constant time.
func (s *Secret) Equal(other *Secret) bool {
	return subtle.ConstantTimeCompare(s.Bytes(), other.Bytes()) == 1
}

// String implements fmt.Stringer.
func (s *Secret) String() string { return redacted }

// GoString implements fmt.GoStringer.
func (s *Secret) GoString() string { return redacted }

// LogValue implements slog.LogValuer.
func (s *Secret) LogValue() slog.Value { return slog.StringValue(redacted) }

// MarshalJSON implements json.Marshaler.
func (s *Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// Wipe overwrites b with zeros.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(&b)
}

// WipeInt zeroes the words backing n.
func WipeInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	n.SetInt64(0)
}
