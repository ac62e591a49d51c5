package did

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pilacorp/go-did-sdk/keys"
)

var (
	// ErrUnsupportedMethod is returned for DID methods other than key, web and peer.
	ErrUnsupportedMethod = errors.New("unsupported DID method")
	// ErrInvalidDomain is returned when a did:web domain is empty or malformed.
	ErrInvalidDomain = errors.New("invalid did:web domain")
	// ErrInvalidDocument is returned when a DID Document fails validation.
	ErrInvalidDocument = errors.New("invalid DID document")
	// ErrInvalidDIDURL is returned when a string is not a DID URL.
	ErrInvalidDIDURL = errors.New("invalid DID URL")
)

// Context URLs.
const (
	ContextDIDv1          = "https://www.w3.org/ns/did/v1"
	ContextEd25519Suite   = "https://w3id.org/security/suites/ed25519-2020/v1"
	ContextSecp256k1Suite = "https://w3id.org/security/suites/secp256k1-2019/v1"
	ContextJWSSuite       = "https://w3id.org/security/suites/jws-2020/v1"
	ContextX25519Suite    = "https://w3id.org/security/suites/x25519-2020/v1"
)

// Verification method types.
const (
	TypeEd25519VerificationKey2020        = "Ed25519VerificationKey2020"
	TypeEcdsaSecp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"
	TypeEcdsaSecp256r1VerificationKey2019 = "EcdsaSecp256r1VerificationKey2019"
	TypeX25519KeyAgreementKey2020         = "X25519KeyAgreementKey2020"
)

// ServiceTypeDIDCommMessaging is the service type added to did:peer documents.
const ServiceTypeDIDCommMessaging = "DIDCommMessaging"

// Method is a DID method.
type Method uint8

// Supported DID methods.
const (
	MethodKey Method = iota + 1
	MethodWeb
	MethodPeer
)

// String returns the method prefix, e.g. "did:key".
func (m Method) String() string {
	switch m {
	case MethodKey:
		return "did:key"
	case MethodWeb:
		return "did:web"
	case MethodPeer:
		return "did:peer"
	default:
		return "unknown"
	}
}

// ParseMethod parses "did:key", "did:web" or "did:peer". The bare method
// names "key", "web" and "peer" are accepted too.
func ParseMethod(s string) (Method, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "did:") {
	case "key":
		return MethodKey, nil
	case "web":
		return MethodWeb, nil
	case "peer":
		return MethodPeer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

// Document is a DID Document.
type Document struct {
	Context              []string             `json:"@context"`
	ID                   string               `json:"id"`
	VerificationMethod   []VerificationMethod `json:"verificationMethod"`
	Authentication       []string             `json:"authentication"`
	AssertionMethod      []string             `json:"assertionMethod"`
	CapabilityInvocation []string             `json:"capabilityInvocation"`
	CapabilityDelegation []string             `json:"capabilityDelegation"`
	KeyAgreement         []VerificationMethod `json:"keyAgreement,omitempty"`
	Service              []Service            `json:"service,omitempty"`
}

// VerificationMethod is a public key entry of a DID Document.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Service is a service endpoint entry of a DID Document.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Result is the outcome of building a DID.
type Result struct {
	DID                  string    `json:"did"`
	VerificationMethodID string    `json:"verificationMethodId"`
	Document             *Document `json:"document"`
}

// VerificationMethodType returns the signature suite name for t.
func VerificationMethodType(t keys.KeyType) (string, error) {
	switch t {
	case keys.Ed25519:
		return TypeEd25519VerificationKey2020, nil
	case keys.Secp256k1:
		return TypeEcdsaSecp256k1VerificationKey2019, nil
	case keys.P256:
		return TypeEcdsaSecp256r1VerificationKey2019, nil
	default:
		return "", fmt.Errorf("%w: %d", keys.ErrUnsupportedKeyType, uint8(t))
	}
}

func suiteContext(t keys.KeyType) string {
	switch t {
	case keys.Ed25519:
		return ContextEd25519Suite
	case keys.Secp256k1:
		return ContextSecp256k1Suite
	default:
		return ContextJWSSuite
	}
}

// VerificationMethodByID returns the verification method with the given id,
// looking through keyAgreement entries as well.
func (doc *Document) VerificationMethodByID(id string) (*VerificationMethod, bool) {
	for i := range doc.VerificationMethod {
		if doc.VerificationMethod[i].ID == id {
			return &doc.VerificationMethod[i], true
		}
	}
	for i := range doc.KeyAgreement {
		if doc.KeyAgreement[i].ID == id {
			return &doc.KeyAgreement[i], true
		}
	}

	return nil, false
}
