// Package fetchers retrieves raw page markup with bounded time,
// redirect count, and payload size.
package fetchers

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/a11ylens/api/internal/metrics"
	"github.com/a11ylens/api/pkg/domain/shared"
	"github.com/a11ylens/api/pkg/logger"
)

// Config contains configuration for the page fetcher.
type Config struct {
	Timeout           time.Duration
	MaxRedirects      int
	MaxBodyBytes      int64
	UserAgent         string
	RequestsPerSecond float64
	Burst             int

	// BlockPrivateAddresses refuses targets resolving into private or
	// link-local ranges (SSRF prevention).
	BlockPrivateAddresses bool
}

// DefaultConfig returns the default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:           15 * time.Second,
		MaxRedirects:      5,
		MaxBodyBytes:      5 * 1024 * 1024,
		UserAgent:         "a11ylens-scanner/1.0 (+https://a11ylens.dev/bot)",
		RequestsPerSecond: 2,
		Burst:             4,
	}
}

// blockedIPRanges contains address ranges a scan target must never
// resolve into when the private-address guard is enabled.
var blockedIPRanges = []string{
	"127.0.0.0/8",    // loopback
	"10.0.0.0/8",     // private class A
	"172.16.0.0/12",  // private class B
	"192.168.0.0/16", // private class C
	"169.254.0.0/16", // link-local, includes cloud metadata
	"0.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
}

var blockedCIDRs = func() []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(blockedIPRanges))
	for _, cidr := range blockedIPRanges {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, ipNet)
		}
	}
	return nets
}()

func isIPBlocked(ip net.IP) bool {
	for _, cidr := range blockedCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

// PageFetcher retrieves page markup over HTTP. It is safe for
// concurrent use; the shared rate limiter bounds outbound request
// volume across scans and monitor ticks.
type PageFetcher struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// New creates a new PageFetcher.
func New(cfg Config, log *logger.Logger) *PageFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultConfig().MaxRedirects
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &PageFetcher{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			// Redirects are followed manually so each hop can be
			// counted and validated.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: limiter,
		log:     log,
	}
}

// Fetch retrieves the decoded text body for a target URL. Bare hosts
// default to https. The request carries the fixed client label and is
// bounded by the configured timeout, redirect cap, and body size
// ceiling.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()
	body, err := f.fetch(ctx, rawURL)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := KindInternal
		if fetchErr, ok := AsFetchError(err); ok {
			kind = fetchErr.Kind
		}
		metrics.FetchErrorsTotal.WithLabelValues(string(kind)).Inc()
	}
	return body, err
}

func (f *PageFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	normalized, err := shared.NormalizeURL(rawURL)
	if err != nil {
		return "", &FetchError{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{Kind: KindTimeout, URL: normalized, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	current := normalized
	redirects := 0

	for {
		if f.cfg.BlockPrivateAddresses {
			if err := f.checkAddress(current); err != nil {
				return "", err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return "", &FetchError{Kind: KindInvalidURL, URL: current, Err: err}
		}
		req.Header.Set("User-Agent", f.cfg.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := f.client.Do(req)
		if err != nil {
			return "", f.classify(err, current)
		}

		if isRedirect(resp.StatusCode) {
			location, locErr := resp.Location()
			_ = resp.Body.Close()

			if locErr != nil {
				return "", &FetchError{Kind: KindInvalidRedirect, URL: current, Err: locErr}
			}

			redirects++
			if redirects > f.cfg.MaxRedirects {
				return "", &FetchError{Kind: KindTooManyRedirects, URL: normalized}
			}

			f.log.Debug("following redirect",
				"from", current,
				"to", location.String(),
				"hop", redirects,
			)
			current = location.String()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return "", &FetchError{Kind: KindHTTPStatus, URL: current, Status: resp.StatusCode}
		}

		body, err := f.readBody(resp, current)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}

		return f.decode(body, resp.Header.Get("Content-Type")), nil
	}
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

// readBody accumulates the response body incrementally, aborting once
// the accumulated size exceeds the configured ceiling.
func (f *PageFetcher) readBody(resp *http.Response, url string) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &FetchError{Kind: KindInternal, URL: url, Err: err}
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, f.classify(err, url)
	}
	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, &FetchError{Kind: KindPayloadTooLarge, URL: url}
	}
	return body, nil
}

// decode converts the body to UTF-8 using the declared or sniffed
// charset, falling back to the raw bytes when conversion fails.
func (f *PageFetcher) decode(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

// checkAddress resolves a target's host and rejects blocked ranges.
func (f *PageFetcher) checkAddress(rawURL string) error {
	host := shared.NormalizeHost(rawURL)
	if host == "" {
		return &FetchError{Kind: KindInvalidURL, URL: rawURL}
	}

	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolved, err := net.LookupIP(host)
		if err != nil {
			return &FetchError{Kind: KindHostNotFound, URL: rawURL, Err: err}
		}
		ips = resolved
	}

	for _, ip := range ips {
		if isIPBlocked(ip) {
			return &FetchError{Kind: KindBlockedAddress, URL: rawURL}
		}
	}
	return nil
}

// classify maps transport errors onto the fetch error taxonomy.
func (f *PageFetcher) classify(err error, url string) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: KindTimeout, URL: url, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &FetchError{Kind: KindHostNotFound, URL: url, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &FetchError{Kind: KindConnectionRefused, URL: url, Err: err}
	}

	var certErr *tls.CertificateVerificationError
	var hostnameErr x509.HostnameError
	var authorityErr x509.UnknownAuthorityError
	var invalidErr x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &recordErr) {
		return &FetchError{Kind: KindTLS, URL: url, Err: err}
	}

	return &FetchError{Kind: KindInternal, URL: url, Err: err}
}
