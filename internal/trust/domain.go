package trust

import (
	"fmt"
	"net/url"
	"strings"
)

// DomainOf extracts the normalized domain from a raw URL: lowercased host
// with any port and leading "www." stripped
func DomainOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}

	return NormalizeDomain(host), nil
}

// NormalizeDomain canonicalizes a bare hostname
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")
	return host
}
