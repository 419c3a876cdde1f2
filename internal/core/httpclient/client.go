package httpclient

import (
	"net/http"
	"time"

	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outbound call and stamps the User-Agent header.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// UserAgent is set on requests that do not carry one.
	UserAgent string
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if lrt.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", lrt.UserAgent)
	}

	log := logger.FromContext(req.Context())
	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// Option customizes a client built by NewClient.
type Option func(*LoggingRoundTripper)

// WithUserAgent sets a default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(l *LoggingRoundTripper) {
		l.UserAgent = ua
	}
}

// WithProxy routes requests through the given proxy when it is configured.
func WithProxy(p proxy.Settings) Option {
	return func(l *LoggingRoundTripper) {
		u := p.URL()
		if u == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyURL(u)
		l.Proxied = transport
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	rt := &LoggingRoundTripper{
		Proxied: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}
