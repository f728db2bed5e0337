package fetchers

import (
	"errors"
	"fmt"
)

// Kind categorizes a fetch failure for user-actionable reporting.
type Kind string

// Fetch error kinds.
const (
	KindInvalidURL        Kind = "invalid_url"
	KindTimeout           Kind = "timeout"
	KindTooManyRedirects  Kind = "too_many_redirects"
	KindInvalidRedirect   Kind = "invalid_redirect"
	KindHTTPStatus        Kind = "http_status"
	KindPayloadTooLarge   Kind = "payload_too_large"
	KindHostNotFound      Kind = "host_not_found"
	KindConnectionRefused Kind = "connection_refused"
	KindTLS               Kind = "tls_error"
	KindBlockedAddress    Kind = "blocked_address"
	KindInternal          Kind = "internal"
)

// FetchError is a categorized page fetch failure. Fetch errors are
// never retried within a single scan call; the caller or the monitor
// tick decides whether to retry on the next scheduled run.
type FetchError struct {
	Kind   Kind
	URL    string
	Status int
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: server responded with status %d", e.URL, e.Status)
	case KindTimeout:
		return fmt.Sprintf("fetch %s: request timed out", e.URL)
	case KindTooManyRedirects:
		return fmt.Sprintf("fetch %s: too many redirects", e.URL)
	case KindPayloadTooLarge:
		return fmt.Sprintf("fetch %s: response body exceeds size limit", e.URL)
	case KindHostNotFound:
		return fmt.Sprintf("fetch %s: host could not be resolved", e.URL)
	case KindConnectionRefused:
		return fmt.Sprintf("fetch %s: connection refused", e.URL)
	case KindTLS:
		return fmt.Sprintf("fetch %s: TLS handshake failed", e.URL)
	case KindBlockedAddress:
		return fmt.Sprintf("fetch %s: target resolves to a blocked address", e.URL)
	case KindInvalidRedirect:
		return fmt.Sprintf("fetch %s: redirect target is not a valid url", e.URL)
	case KindInvalidURL:
		return fmt.Sprintf("fetch %s: not a valid url", e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("fetch %s: request failed", e.URL)
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extracts a FetchError from an error chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
