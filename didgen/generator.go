// Package didgen generates key pairs and turns them into DIDs with their
// DID Documents.
package didgen

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-did-sdk/did"
	"github.com/pilacorp/go-did-sdk/keys"
)

// DIDGenerator generates DIDs.
type DIDGenerator struct {
	baseConfig DIDConfig
}

// NewDIDGenerator creates a new DIDGenerator.
//
// Defaults are read from the environment (see package config) and may be
// overridden by options.
func NewDIDGenerator(options ...DIDOption) *DIDGenerator {
	cfg := defaultConfig()
	for _, opt := range options {
		opt(&cfg)
	}

	return &DIDGenerator{baseConfig: cfg}
}

// GenerateDID generates a DID for method with a generator configured from
// the environment as it is at the time of the call.
func GenerateDID(ctx context.Context, method string, options ...DIDOption) (*DID, error) {
	return NewDIDGenerator().GenerateDID(ctx, method, options...)
}

// GenerateDID generates a new key pair and builds a DID of the given method
// ("did:key", "did:web" or "did:peer") for it.
//
// Method inputs are checked before any entropy is drawn. On failure no key
// material is returned and the generated key pair, if any, is destroyed.
func (g *DIDGenerator) GenerateDID(ctx context.Context, method string, options ...DIDOption) (*DID, error) {
	cfg := g.resolveConfig(options...)

	result, err := generate(ctx, method, &cfg)
	if err != nil {
		cfg.Logger.ErrorContext(ctx, "DID generation failed",
			"method", method, "keyType", cfg.KeyType.String(), "error", err)
		return nil, err
	}

	cfg.Logger.DebugContext(ctx, "DID generated",
		"method", method, "keyType", cfg.KeyType.String(), "did", result.DID)

	return result, nil
}

// GenerateBatch generates n DIDs of the same method concurrently.
//
// If any generation fails, every key pair already generated is destroyed and
// the first error is returned. A Random source set through the options must
// be safe for concurrent use.
func (g *DIDGenerator) GenerateBatch(ctx context.Context, method string, n int, options ...DIDOption) ([]*DID, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid batch size %d", n)
	}

	cfg := g.resolveConfig(options...)

	// Fail fast on bad inputs instead of n times.
	if err := checkInputs(method, &cfg); err != nil {
		cfg.Logger.ErrorContext(ctx, "DID batch generation failed", "method", method, "error", err)
		return nil, err
	}

	results := make([]*DID, n)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.Concurrency, 1))

	for i := range n {
		eg.Go(func() error {
			d, err := generate(egCtx, method, &cfg)
			if err != nil {
				return fmt.Errorf("failed to generate DID %d: %w", i, err)
			}
			results[i] = d
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, d := range results {
			d.Destroy()
		}
		cfg.Logger.ErrorContext(ctx, "DID batch generation failed", "method", method, "error", err)
		return nil, err
	}

	cfg.Logger.DebugContext(ctx, "DID batch generated", "method", method, "count", n)

	return results, nil
}

// resolveConfig merges run-time options with the base configuration.
func (g *DIDGenerator) resolveConfig(options ...DIDOption) DIDConfig {
	cfg := g.baseConfig
	for _, opt := range options {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

func checkInputs(method string, cfg *DIDConfig) error {
	m, err := did.ParseMethod(method)
	if err != nil {
		return err
	}
	if !cfg.KeyType.Valid() {
		return fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(cfg.KeyType))
	}
	if m == did.MethodWeb {
		if _, err := did.WebDID(cfg.Domain, cfg.Path); err != nil {
			return err
		}
	}

	return nil
}

func generate(ctx context.Context, method string, cfg *DIDConfig) (*DID, error) {
	if err := checkInputs(method, cfg); err != nil {
		return nil, err
	}
	m, _ := did.ParseMethod(method)

	kp, err := keys.NewGenerator(cfg.Random).Generate(ctx, cfg.KeyType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	var res *did.Result
	switch m {
	case did.MethodKey:
		res, err = did.BuildKey(kp)
	case did.MethodWeb:
		res, err = did.BuildWeb(kp, cfg.Domain, cfg.Path)
	case did.MethodPeer:
		res, err = did.BuildPeer(kp, cfg.ServiceEndpoint)
	default:
		err = fmt.Errorf("%w: %q", did.ErrUnsupportedMethod, method)
	}
	if err != nil {
		kp.Destroy()
		return nil, fmt.Errorf("failed to build %s: %w", m, err)
	}

	return &DID{
		DID:                  res.DID,
		VerificationMethodID: res.VerificationMethodID,
		PublicKeyMultibase:   res.Document.VerificationMethod[0].PublicKeyMultibase,
		Document:             res.Document,
		KeyPair:              kp,
	}, nil
}
