package did

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// CanonicalJSON returns the document as JSON with object keys sorted and no
// insignificant whitespace.
//
// For documents whose strings are valid UTF-8 without U+2028 or U+2029 this
// matches the JSON Canonicalization Scheme. Otherwise encoding/json escapes
// U+2028 and U+2029 and replaces invalid UTF-8 with U+FFFD, so the output is
// stable but not JCS.
func (doc *Document) CanonicalJSON() ([]byte, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DID document: %w", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(docJSON, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode DID document: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode DID document: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Hash calculates the Keccak256 hash of the canonical JSON form of the
// document, as lower-case 0x-prefixed hex.
func (doc *Document) Hash() (string, error) {
	docToHash, err := doc.CanonicalJSON()
	if err != nil {
		return "", err
	}

	hash := crypto.Keccak256Hash(docToHash)

	return strings.ToLower(hash.Hex()), nil
}
