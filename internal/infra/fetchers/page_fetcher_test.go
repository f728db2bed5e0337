package fetchers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a11ylens/api/pkg/logger"
)

func newTestFetcher(cfg Config) *PageFetcher {
	return New(cfg, logger.NewNop())
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "a11ylens")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	body, err := newTestFetcher(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "ok")
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestFetcher(Config{}).Fetch(context.Background(), "")
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidURL, fetchErr.Kind)
}

func TestFetchHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(Config{}).Fetch(context.Background(), srv.URL)
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindHTTPStatus, fetchErr.Kind)
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func redirectChain(t *testing.T, hops int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var hop int
		fmt.Sscanf(r.URL.Path, "/hop/%d", &hop)
		if hop < hops {
			http.Redirect(w, r, fmt.Sprintf("%s/hop/%d", srv.URL, hop+1), http.StatusFound)
			return
		}
		fmt.Fprint(w, "<html><body>landed</body></html>")
	})
	return srv
}

func TestFetchFollowsRedirectsUpToCap(t *testing.T) {
	srv := redirectChain(t, 5)

	body, err := newTestFetcher(Config{MaxRedirects: 5}).Fetch(context.Background(), srv.URL+"/hop/0")
	require.NoError(t, err)
	assert.Contains(t, body, "landed")
}

func TestFetchTooManyRedirects(t *testing.T) {
	srv := redirectChain(t, 6)

	_, err := newTestFetcher(Config{MaxRedirects: 5}).Fetch(context.Background(), srv.URL+"/hop/0")
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindTooManyRedirects, fetchErr.Kind)
}

func TestFetchPayloadTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 2048))
	}))
	defer srv.Close()

	_, err := newTestFetcher(Config{MaxBodyBytes: 1024}).Fetch(context.Background(), srv.URL)
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindPayloadTooLarge, fetchErr.Kind)
}

func TestFetchOversizedErrorPageReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, strings.Repeat("x", 2048))
	}))
	defer srv.Close()

	_, err := newTestFetcher(Config{MaxBodyBytes: 1024}).Fetch(context.Background(), srv.URL)
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindHTTPStatus, fetchErr.Kind, "the terminal status wins over the size cap")
	assert.Equal(t, http.StatusInternalServerError, fetchErr.Status)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestFetcher(Config{Timeout: 100 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, fetchErr.Kind)
}

func TestFetchGzipBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		fmt.Fprint(gz, "<html><body>compressed page</body></html>")
	}))
	defer srv.Close()

	body, err := newTestFetcher(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "compressed page")
}

func TestFetchBlockedAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "should never be reached")
	}))
	defer srv.Close()

	_, err := newTestFetcher(Config{BlockPrivateAddresses: true}).Fetch(context.Background(), srv.URL)
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindBlockedAddress, fetchErr.Kind, "loopback targets are refused")
}

func TestFetchHostNotFound(t *testing.T) {
	_, err := newTestFetcher(Config{Timeout: 2 * time.Second}).
		Fetch(context.Background(), "http://definitely-not-a-real-host.invalid")
	fetchErr, ok := AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, KindHostNotFound, fetchErr.Kind)
}

func TestFetchErrorMessages(t *testing.T) {
	err := &FetchError{Kind: KindHTTPStatus, URL: "https://example.com", Status: 503}
	assert.Contains(t, err.Error(), "503")

	_, ok := AsFetchError(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
}
