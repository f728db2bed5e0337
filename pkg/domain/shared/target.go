package shared

import (
	"net/url"
	"strings"
)

// NormalizeURL ensures a target has an explicit scheme and parses as a
// URL with a host. Bare hosts default to https.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewDomainError("INVALID_URL", "url is required", ErrInvalidInput)
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", NewDomainError("INVALID_URL", "url is not valid", ErrInvalidInput)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", NewDomainError("INVALID_URL", "only http and https urls are supported", ErrInvalidInput)
	}
	parsed.Host = strings.ToLower(parsed.Host)

	return parsed.String(), nil
}

// NormalizeHost extracts the lowercased hostname (no port, no scheme,
// no path) from a target. Records and monitors are grouped by this
// value so scheme or path noise cannot split one site's history.
func NormalizeHost(raw string) string {
	normalized, err := NormalizeURL(raw)
	if err != nil {
		return ""
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
