// Package config reads generator defaults from the environment.
package config

import (
	"os"

	"github.com/pilacorp/go-did-sdk/keys"
)

// Default values
const (
	DefaultKeyType = keys.Ed25519
)

// Environment variable names
const (
	EnvKeyType         = "DID_KEY_TYPE"
	EnvWebDomain       = "DID_WEB_DOMAIN"
	EnvWebPath         = "DID_WEB_PATH"
	EnvServiceEndpoint = "DID_PEER_SERVICE_ENDPOINT"
)

// Config holds the defaults used when generating DIDs.
type Config struct {
	KeyType         keys.KeyType
	Domain          string
	Path            string
	ServiceEndpoint string
}

// KeyTypeName returns the key type name from environment variable or the
// default key type's name.
func KeyTypeName() string {
	if s := os.Getenv(EnvKeyType); s != "" {
		return s
	}
	return DefaultKeyType.String()
}

// KeyType returns the key type from environment variable or default value.
// An unknown name yields the zero KeyType, which generation rejects with
// keys.ErrUnsupportedKeyType.
func KeyType() keys.KeyType {
	t, err := keys.ParseKeyType(KeyTypeName())
	if err != nil {
		return 0
	}
	return t
}

// WebDomain returns the did:web domain from environment variable
func WebDomain() string {
	return os.Getenv(EnvWebDomain)
}

// WebPath returns the did:web path from environment variable
func WebPath() string {
	return os.Getenv(EnvWebPath)
}

// ServiceEndpoint returns the did:peer DIDComm endpoint from environment variable
func ServiceEndpoint() string {
	return os.Getenv(EnvServiceEndpoint)
}

// FromEnv returns a Config populated from the environment.
func FromEnv() *Config {
	return &Config{
		KeyType:         KeyType(),
		Domain:          WebDomain(),
		Path:            WebPath(),
		ServiceEndpoint: ServiceEndpoint(),
	}
}

// New creates a new Config instance with the provided values.
// Empty or zero fields are filled from the environment, then defaults.
func New(cfg Config) *Config {
	result := FromEnv()

	if cfg.KeyType != 0 {
		result.KeyType = cfg.KeyType
	}
	if cfg.Domain != "" {
		result.Domain = cfg.Domain
	}
	if cfg.Path != "" {
		result.Path = cfg.Path
	}
	if cfg.ServiceEndpoint != "" {
		result.ServiceEndpoint = cfg.ServiceEndpoint
	}

	return result
}
