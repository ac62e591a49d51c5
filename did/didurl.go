package did

import (
	"fmt"
	"strings"
)

// SplitDIDURL splits a DID URL such as "did:web:example.com#key-1" into the
// DID and the fragment without its "#". The fragment is empty when absent.
func SplitDIDURL(didURL string) (did, fragment string, err error) {
	did, fragment, _ = strings.Cut(didURL, "#")

	parts := strings.SplitN(did, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDIDURL, didURL)
	}

	return did, fragment, nil
}

// MethodOf returns the method of did or didURL.
func MethodOf(didURL string) (Method, error) {
	did, _, err := SplitDIDURL(didURL)
	if err != nil {
		return 0, err
	}

	return ParseMethod(strings.SplitN(did, ":", 3)[1])
}
