// Package keycodec serializes private keys to text for export and reads them back.
package keycodec

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/pilacorp/go-did-sdk/keys"
)

// ErrInvalidFormat is returned for unknown formats and for input that does not decode.
var ErrInvalidFormat = errors.New("invalid key format")

// Format is a private key text encoding.
type Format string

// Supported formats.
const (
	FormatHex    Format = "hex"
	FormatBase64 Format = "base64"
	FormatPEM    Format = "pem"
)

// PEMBlockType is the label written around PEM exports.
const PEMBlockType = "PRIVATE KEY"

// ParseFormat parses a format name, case insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHex, FormatBase64, FormatPEM:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, s)
	}
}

// Export encodes the private key in the requested format.
func Export(privateKey *keys.Secret, format Format) (string, error) {
	if privateKey.Destroyed() {
		return "", errors.New("private key has been destroyed")
	}
	b := privateKey.Bytes()

	switch format {
	case FormatHex:
		return hex.EncodeToString(b), nil
	case FormatBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	case FormatPEM:
		var buf bytes.Buffer
		if err := pem.Encode(&buf, &pem.Block{Type: PEMBlockType, Bytes: b}); err != nil {
			return "", fmt.Errorf("failed to encode pem: %w", err)
		}
		out := buf.String()
		keys.Wipe(buf.Bytes())
		return out, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, format)
	}
}

// Import decodes a private key previously written by Export.
func Import(serialized string, format Format) (*keys.Secret, error) {
	switch format {
	case FormatHex:
		s := strings.TrimPrefix(strings.TrimSpace(serialized), "0x")
		if len(s)%2 != 0 {
			return nil, fmt.Errorf("%w: odd length hex", ErrInvalidFormat)
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			keys.Wipe(b)
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return newSecret(b)
	case FormatBase64:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(serialized))
		if err != nil {
			keys.Wipe(b)
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
		return newSecret(b)
	case FormatPEM:
		raw := []byte(serialized)
		defer keys.Wipe(raw)
		block, _ := pem.Decode(raw)
		if block == nil {
			return nil, fmt.Errorf("%w: missing pem markers", ErrInvalidFormat)
		}
		if block.Type != PEMBlockType {
			keys.Wipe(block.Bytes)
			return nil, fmt.Errorf("%w: unexpected pem block %q", ErrInvalidFormat, block.Type)
		}
		return newSecret(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, format)
	}
}

func newSecret(b []byte) (*keys.Secret, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidFormat)
	}

	return keys.NewSecret(b), nil
}
