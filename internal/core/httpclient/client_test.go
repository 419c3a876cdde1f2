package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggingRoundTripper verifies that requests are executed and the user agent is applied.
func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BookstoreCheckoutSystem", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	logger.Init("development", "debug", "test")

	client := NewClient(1*time.Second, WithUserAgent("BookstoreCheckoutSystem"))
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLoggingRoundTripper_KeepsExplicitUserAgent verifies caller supplied headers win.
func TestLoggingRoundTripper_KeepsExplicitUserAgent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(1*time.Second, WithUserAgent("BookstoreCheckoutSystem"))
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// TestLoggingRoundTripper_Error verifies that failed requests are logged.
func TestLoggingRoundTripper_Error(t *testing.T) {
	logger.Init("development", "debug", "test")

	client := NewClient(1 * time.Second)
	_, err := client.Get("http://invalid-url-that-does-not-exist.local")
	require.Error(t, err)
}

// TestWithProxy verifies that a configured proxy replaces the default transport.
func TestWithProxy(t *testing.T) {
	client := NewClient(time.Second, WithProxy(proxy.Settings{Enabled: true, Hostname: "proxy.local", Port: 3128}))
	rt := client.Transport.(*LoggingRoundTripper)
	assert.NotSame(t, http.DefaultTransport, rt.Proxied)

	plain := NewClient(time.Second, WithProxy(proxy.Settings{}))
	assert.Same(t, http.DefaultTransport, plain.Transport.(*LoggingRoundTripper).Proxied)
}
