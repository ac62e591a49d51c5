// Package didweb maps did:web identifiers to the HTTPS location of their DID
// Document and serves documents at that location.
package didweb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-did-sdk/did"
)

const (
	// ContentType is the media type of served DID Documents.
	ContentType = "application/did+json"

	wellKnownPath = "/.well-known/did.json"
	documentFile  = "did.json"
	prefix        = "did:web:"
)

// DocumentURL returns the URL a did:web DID Document is published at.
//
//	did:web:example.com                 -> https://example.com/.well-known/did.json
//	did:web:example.com:users:alice     -> https://example.com/users/alice/did.json
//	did:web:localhost%3A8443            -> https://localhost:8443/.well-known/did.json
func DocumentURL(didWeb string) (string, error) {
	host, path, err := split(didWeb)
	if err != nil {
		return "", err
	}

	u := url.URL{Scheme: "https", Host: host, Path: path}

	return u.String(), nil
}

// DocumentPath returns the URL path a did:web DID Document is published at.
func DocumentPath(didWeb string) (string, error) {
	_, path, err := split(didWeb)
	return path, err
}

func split(didWeb string) (host, path string, err error) {
	id, _, err := did.SplitDIDURL(didWeb)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(id, prefix) {
		return "", "", fmt.Errorf("%w: %q is not a did:web identifier", did.ErrUnsupportedMethod, didWeb)
	}

	segments := strings.Split(strings.TrimPrefix(id, prefix), ":")
	for i, s := range segments {
		if s == "" {
			return "", "", fmt.Errorf("%w: empty segment in %q", did.ErrInvalidDIDURL, didWeb)
		}
		if segments[i], err = url.PathUnescape(s); err != nil {
			return "", "", fmt.Errorf("%w: %w", did.ErrInvalidDIDURL, err)
		}
	}

	host = segments[0]
	if strings.ContainsAny(host, "/?#@") {
		return "", "", fmt.Errorf("%w: %q", did.ErrInvalidDomain, host)
	}
	if len(segments) == 1 {
		return host, wellKnownPath, nil
	}

	return host, "/" + strings.Join(segments[1:], "/") + "/" + documentFile, nil
}

// NewHandler returns an HTTP handler serving doc at the path derived from
// its did:web identifier. Requests for any other path get 404 and methods
// other than GET and HEAD get 405. The handler is instrumented with
// OpenTelemetry.
func NewHandler(doc *did.Document) (http.Handler, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	path, err := DocumentPath(doc.ID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DID document: %w", err)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(body)
		}
	})

	return otelhttp.NewHandler(h, "did:web "+doc.ID), nil
}
