// Package did builds DID identifiers and DID Documents for the did:key,
// did:web and did:peer (numalgo 0) methods.
//
// Every document carries exactly one verification method, referenced from
// authentication, assertionMethod, capabilityInvocation and
// capabilityDelegation. Ed25519 documents also publish an X25519 key
// agreement key derived from the signing key.
package did

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pilacorp/go-did-sdk/keyagreement"
	"github.com/pilacorp/go-did-sdk/keys"
	"github.com/pilacorp/go-did-sdk/multicodec"
)

const (
	prefixKey  = "did:key:"
	prefixWeb  = "did:web:"
	prefixPeer = "did:peer:0"

	fragmentKey1         = "#key-1"
	fragmentKeyAgreement = "#key-agreement-1"
	fragmentDIDComm      = "#didcomm"

	invalidDomainChars = "/?#@%"
	invalidPathChars   = "?#@%"
)

// BuildKey builds a did:key identifier and document for the public key of kp.
func BuildKey(kp *keys.KeyPair) (*Result, error) {
	mb, err := encodeKey(kp)
	if err != nil {
		return nil, err
	}

	did := prefixKey + mb

	return build(did, did+"#"+mb, mb, kp, embeddedAgreementFragment)
}

// BuildWeb builds a did:web identifier for domain and the optional path, and
// a document for the public key of kp.
//
// A port separator in domain is percent-encoded; "/" separators in path
// become ":".
func BuildWeb(kp *keys.KeyPair, domain, path string) (*Result, error) {
	did, err := WebDID(domain, path)
	if err != nil {
		return nil, err
	}

	mb, err := encodeKey(kp)
	if err != nil {
		return nil, err
	}

	return build(did, did+fragmentKey1, mb, kp, fixedAgreementFragment)
}

// BuildPeer builds a did:peer:0 identifier and document for the inception key
// of kp. A non-empty serviceEndpoint is listed as a DIDCommMessaging service;
// it is not encoded in the identifier.
func BuildPeer(kp *keys.KeyPair, serviceEndpoint string) (*Result, error) {
	mb, err := encodeKey(kp)
	if err != nil {
		return nil, err
	}

	did := prefixPeer + mb
	res, err := build(did, did+fragmentKey1, mb, kp, fixedAgreementFragment)
	if err != nil {
		return nil, err
	}

	if endpoint := strings.TrimSpace(serviceEndpoint); endpoint != "" {
		res.Document.Service = []Service{{
			ID:              did + fragmentDIDComm,
			Type:            ServiceTypeDIDCommMessaging,
			ServiceEndpoint: endpoint,
		}}
		if err := res.Document.Validate(); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// WebDID returns the did:web identifier for domain and path.
func WebDID(domain, path string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "", fmt.Errorf("%w: domain is empty", ErrInvalidDomain)
	}
	if strings.ContainsFunc(domain, func(r rune) bool { return strings.ContainsRune(invalidDomainChars, r) || unicode.IsSpace(r) }) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	did := prefixWeb + strings.ReplaceAll(domain, ":", "%3A")

	path = strings.TrimSpace(path)
	if strings.ContainsFunc(path, func(r rune) bool { return strings.ContainsRune(invalidPathChars, r) || unicode.IsSpace(r) }) {
		return "", fmt.Errorf("%w: path %q", ErrInvalidDomain, path)
	}
	path = strings.Trim(strings.ReplaceAll(path, "/", ":"), ":")
	if path != "" {
		did += ":" + path
	}

	return did, nil
}

func encodeKey(kp *keys.KeyPair) (string, error) {
	if kp == nil {
		return "", errors.New("key pair is nil")
	}
	if kp.Type.Valid() && len(kp.PublicKey) != kp.Type.PublicKeySize() {
		return "", fmt.Errorf("invalid %s public key: expected %d bytes, got %d", kp.Type, kp.Type.PublicKeySize(), len(kp.PublicKey))
	}

	return multicodec.EncodeKeyPair(kp)
}

// agreementFragment names the keyAgreement method given the X25519 multibase key.
type agreementFragment func(x25519Multibase string) string

func embeddedAgreementFragment(x25519Multibase string) string { return "#" + x25519Multibase }

func fixedAgreementFragment(string) string { return fragmentKeyAgreement }

func build(did, vmID, mb string, kp *keys.KeyPair, fragment agreementFragment) (*Result, error) {
	vmType, err := VerificationMethodType(kp.Type)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Context: []string{ContextDIDv1, suiteContext(kp.Type)},
		ID:      did,
		VerificationMethod: []VerificationMethod{{
			ID:                 vmID,
			Type:               vmType,
			Controller:         did,
			PublicKeyMultibase: mb,
		}},
		Authentication:       []string{vmID},
		AssertionMethod:      []string{vmID},
		CapabilityInvocation: []string{vmID},
		CapabilityDelegation: []string{vmID},
	}

	if kp.Type == keys.Ed25519 {
		x25519, err := keyagreement.X25519PublicKey(kp.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key agreement key: %w", err)
		}
		xmb := multicodec.EncodeX25519(x25519)

		doc.Context = append(doc.Context, ContextX25519Suite)
		doc.KeyAgreement = []VerificationMethod{{
			ID:                 did + fragment(xmb),
			Type:               TypeX25519KeyAgreementKey2020,
			Controller:         did,
			PublicKeyMultibase: xmb,
		}}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &Result{
		DID:                  did,
		VerificationMethodID: vmID,
		Document:             doc,
	}, nil
}
