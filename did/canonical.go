package did

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

const (
	nquadsFormat     = "application/n-quads"
	defaultAlgorithm = "URDNA2015"
)

// ProcessorOptions holds options for JSON-LD canonicalization of documents.
type ProcessorOptions struct {
	DocumentLoader ld.DocumentLoader
	Algorithm      string
}

// ProcessorOpt configures Canonicalize.
type ProcessorOpt func(opts *ProcessorOptions)

// WithDocumentLoader sets the loader used to resolve @context URLs.
func WithDocumentLoader(loader ld.DocumentLoader) ProcessorOpt {
	return func(opts *ProcessorOptions) {
		opts.DocumentLoader = loader
	}
}

// WithAlgorithm sets the RDF dataset normalization algorithm.
func WithAlgorithm(algorithm string) ProcessorOpt {
	return func(opts *ProcessorOptions) {
		opts.Algorithm = algorithm
	}
}

func prepareProcessorOpts(opts []ProcessorOpt) *ProcessorOptions {
	procOpts := &ProcessorOptions{
		DocumentLoader: ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil)),
		Algorithm:      defaultAlgorithm,
	}
	for _, opt := range opts {
		opt(procOpts)
	}

	return procOpts
}

// Canonicalize returns the URDNA2015 normalized N-Quads of the document.
// Contexts are fetched over the network unless a loader is supplied with
// WithDocumentLoader.
func (doc *Document) Canonicalize(opts ...ProcessorOpt) ([]byte, error) {
	procOpts := prepareProcessorOpts(opts)

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DID document: %w", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(docJSON, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode DID document: %w", err)
	}

	ldOptions := ld.NewJsonLdOptions("")
	ldOptions.ProcessingMode = ld.JsonLd_1_1
	ldOptions.Algorithm = procOpts.Algorithm
	ldOptions.Format = nquadsFormat
	ldOptions.DocumentLoader = procOpts.DocumentLoader

	view, err := ld.NewJsonLdProcessor().Normalize(generic, ldOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize DID document: %w", err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, errors.New("failed to normalize DID document, invalid view")
	}

	return []byte(result), nil
}
