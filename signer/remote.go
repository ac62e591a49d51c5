package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-did-sdk/keys"
)

// DefaultRemoteTimeout bounds a single remote signing request.
const DefaultRemoteTimeout = 10 * time.Second

// RemoteProvider signs payloads with a key held by a remote signing service.
//
// The service receives {"payload_hex", "key_type"} and answers
// {"signature_hex"} with the raw signature, pre-hash rule applied. Every
// signature is checked against the provider's public key before it is
// returned.
type RemoteProvider struct {
	endpoint  string
	apiKey    string
	keyType   keys.KeyType
	publicKey []byte
	client    *http.Client
}

// NewRemoteProvider creates a new RemoteProvider for the key pair whose
// public half is publicKey.
func NewRemoteProvider(endpoint, apiKey string, t keys.KeyType, publicKey []byte) (*RemoteProvider, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("endpoint required")
	}
	if !t.Valid() {
		return nil, keys.ErrUnsupportedKeyType
	}
	if len(publicKey) != t.PublicKeySize() {
		return nil, fmt.Errorf("invalid %s public key length %d", t, len(publicKey))
	}

	return &RemoteProvider{
		endpoint:  endpoint,
		apiKey:    apiKey,
		keyType:   t,
		publicKey: append([]byte(nil), publicKey...),
		client: &http.Client{
			Timeout:   DefaultRemoteTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// Sign signs a payload using the remote API
func (p *RemoteProvider) Sign(payload []byte) ([]byte, error) {
	return p.SignContext(context.Background(), payload)
}

// SignContext is Sign bounded by ctx.
func (p *RemoteProvider) SignContext(ctx context.Context, payload []byte) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]any{
		"payload_hex": hex.EncodeToString(payload),
		"key_type":    p.keyType.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote signer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote signer http %d", resp.StatusCode)
	}

	var out struct {
		SignatureHex string `json:"signature_hex"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode remote signer response: %w", err)
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(out.SignatureHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signature hex: %w", err)
	}
	if !VerifyBytes(payload, sig, p.publicKey, p.keyType) {
		return nil, errors.New("remote signer returned an invalid signature")
	}

	return sig, nil
}

var _ SignerProvider = (*RemoteProvider)(nil)

// KeyType returns the key type of the signer.
func (p *RemoteProvider) KeyType() keys.KeyType { return p.keyType }

// PublicKey returns the public key of the signer.
func (p *RemoteProvider) PublicKey() []byte { return p.publicKey }
