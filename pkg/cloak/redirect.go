package cloak

import (
	"fmt"
	"net/url"
)

// MergeRedirectURL merges inbound query parameters into the target URL.
// An inbound parameter with the same name as a target default overrides it;
// parameters unique to the target survive untouched. The merge is
// idempotent.
func MergeRedirectURL(target string, params url.Values) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid target url: %w", err)
	}

	q := u.Query()
	for key, values := range params {
		if len(values) == 0 {
			continue
		}
		q.Set(key, values[0])
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
