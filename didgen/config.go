package didgen

import (
	"io"
	"log/slog"

	"github.com/pilacorp/go-did-sdk/config"
	"github.com/pilacorp/go-did-sdk/keys"
)

// DefaultBatchConcurrency bounds the number of key pairs generated in
// parallel by GenerateBatch.
const DefaultBatchConcurrency = 8

// DIDConfig holds configuration for DID generation.
//
// Configuration can be set via functional options when creating a
// DIDGenerator, or passed to individual GenerateDID calls.
//
// Important notes:
//   - Domain is required for did:web and ignored by the other methods
//   - ServiceEndpoint is only used by did:peer
//   - Random defaults to crypto/rand
type DIDConfig struct {
	// KeyType is the curve of the generated key pair.
	KeyType keys.KeyType
	// Domain is the did:web host, optionally with a port.
	Domain string
	// Path is the optional did:web path, with "/" or ":" separators.
	Path string
	// ServiceEndpoint is the DIDComm endpoint published by did:peer documents.
	ServiceEndpoint string
	// Random is the entropy source for key generation.
	Random io.Reader
	// Logger receives generation events. Defaults to slog.Default().
	Logger *slog.Logger
	// Concurrency bounds GenerateBatch.
	Concurrency int
}

// DIDOption is a functional option type for configuring DIDGenerator.
type DIDOption func(*DIDConfig)

// WithKeyType sets the key type of generated key pairs.
func WithKeyType(t keys.KeyType) DIDOption {
	return func(c *DIDConfig) { c.KeyType = t }
}

// WithDomain sets the did:web domain (e.g., "example.com" or "localhost:8443").
func WithDomain(domain string) DIDOption {
	return func(c *DIDConfig) { c.Domain = domain }
}

// WithPath sets the did:web path (e.g., "users/alice").
func WithPath(path string) DIDOption {
	return func(c *DIDConfig) { c.Path = path }
}

// WithServiceEndpoint sets the DIDCommMessaging endpoint of did:peer documents.
func WithServiceEndpoint(endpoint string) DIDOption {
	return func(c *DIDConfig) { c.ServiceEndpoint = endpoint }
}

// WithRandom sets the entropy source.
//
// Intended for tests; production code should keep the crypto/rand default.
func WithRandom(r io.Reader) DIDOption {
	return func(c *DIDConfig) { c.Random = r }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DIDOption {
	return func(c *DIDConfig) { c.Logger = logger }
}

// WithConcurrency sets how many DIDs GenerateBatch generates in parallel.
func WithConcurrency(n int) DIDOption {
	return func(c *DIDConfig) { c.Concurrency = n }
}

// WithDIDConfig sets the complete DID configuration from a DIDConfig struct.
// A nil cfg leaves the configuration unchanged.
func WithDIDConfig(cfg *DIDConfig) DIDOption {
	return func(c *DIDConfig) {
		if cfg == nil {
			return
		}
		c.KeyType = cfg.KeyType
		c.Domain = cfg.Domain
		c.Path = cfg.Path
		c.ServiceEndpoint = cfg.ServiceEndpoint
		c.Random = cfg.Random
		c.Logger = cfg.Logger
		c.Concurrency = cfg.Concurrency
	}
}

func defaultConfig() DIDConfig {
	env := config.FromEnv()

	return DIDConfig{
		KeyType:         env.KeyType,
		Domain:          env.Domain,
		Path:            env.Path,
		ServiceEndpoint: env.ServiceEndpoint,
		Logger:          slog.Default(),
		Concurrency:     DefaultBatchConcurrency,
	}
}
