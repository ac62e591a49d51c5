package did

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the documents produced by this package.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["@context", "id", "verificationMethod", "authentication", "assertionMethod", "capabilityInvocation", "capabilityDelegation"],
  "definitions": {
    "did": {"type": "string", "pattern": "^did:[a-z0-9]+:.+$"},
    "didURL": {"type": "string", "pattern": "^did:[a-z0-9]+:[^#]+#.+$"},
    "references": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/definitions/didURL"}
    },
    "verificationMethod": {
      "type": "object",
      "required": ["id", "type", "controller", "publicKeyMultibase"],
      "properties": {
        "id": {"$ref": "#/definitions/didURL"},
        "type": {"type": "string", "minLength": 1},
        "controller": {"$ref": "#/definitions/did"},
        "publicKeyMultibase": {"type": "string", "pattern": "^z[1-9A-HJ-NP-Za-km-z]+$"}
      }
    }
  },
  "properties": {
    "@context": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "format": "uri"}
    },
    "id": {"$ref": "#/definitions/did"},
    "verificationMethod": {
      "type": "array",
      "minItems": 1,
      "maxItems": 1,
      "items": {"$ref": "#/definitions/verificationMethod"}
    },
    "authentication": {"$ref": "#/definitions/references"},
    "assertionMethod": {"$ref": "#/definitions/references"},
    "capabilityInvocation": {"$ref": "#/definitions/references"},
    "capabilityDelegation": {"$ref": "#/definitions/references"},
    "keyAgreement": {
      "type": "array",
      "items": {"$ref": "#/definitions/verificationMethod"}
    },
    "service": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "serviceEndpoint"],
        "properties": {
          "id": {"$ref": "#/definitions/didURL"},
          "type": {"type": "string", "minLength": 1},
          "serviceEndpoint": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	})

	return compiledSchema, schemaErr
}

// Validate checks the document against the DID Document schema and checks
// that its verification method and references belong to the document's DID.
func (doc *Document) Validate() error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to load DID document schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate DID document: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	for _, vm := range append(append([]VerificationMethod(nil), doc.VerificationMethod...), doc.KeyAgreement...) {
		if vm.Controller != doc.ID {
			return fmt.Errorf("%w: controller %q of %q does not match %q", ErrInvalidDocument, vm.Controller, vm.ID, doc.ID)
		}
		if !strings.HasPrefix(vm.ID, doc.ID+"#") {
			return fmt.Errorf("%w: verification method %q is outside %q", ErrInvalidDocument, vm.ID, doc.ID)
		}
	}

	vmID := doc.VerificationMethod[0].ID
	for name, refs := range map[string][]string{
		"authentication":       doc.Authentication,
		"assertionMethod":      doc.AssertionMethod,
		"capabilityInvocation": doc.CapabilityInvocation,
		"capabilityDelegation": doc.CapabilityDelegation,
	} {
		for _, ref := range refs {
			if ref != vmID {
				return fmt.Errorf("%w: %s references unknown method %q", ErrInvalidDocument, name, ref)
			}
		}
	}

	return nil
}
