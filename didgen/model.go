package didgen

import (
	"github.com/pilacorp/go-did-sdk/did"
	"github.com/pilacorp/go-did-sdk/keys"
	"github.com/pilacorp/go-did-sdk/signer"
)

// DID is the result of a DID generation.
//
// KeyPair holds the private key of the DID. It is excluded from JSON and
// should be destroyed with Destroy once it has been stored.
type DID struct {
	// DID is the full DID identifier (e.g., "did:key:z6Mk...").
	DID string `json:"did"`
	// VerificationMethodID is the DID URL of the document's verification method.
	VerificationMethodID string `json:"verificationMethodId"`
	// PublicKeyMultibase is the multicodec tagged, base58-btc public key.
	PublicKeyMultibase string `json:"publicKeyMultibase"`
	// Document is the DID Document.
	Document *did.Document `json:"document"`
	// KeyPair is the generated key pair.
	KeyPair *keys.KeyPair `json:"-"`
}

// Signer returns a signer provider backed by the DID's key pair.
func (d *DID) Signer() (signer.SignerProvider, error) {
	return signer.NewDefaultProvider(d.KeyPair)
}

// Destroy wipes the DID's private key.
func (d *DID) Destroy() {
	if d != nil && d.KeyPair != nil {
		d.KeyPair.Destroy()
	}
}
