// Package httpclient provides a shared, tuned HTTP client factory.
// Connection pooling is reused across probers, which matters when a run
// fires dozens of requests at the same host.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/probekit/probekit/pkg/duration"
)

// Config holds HTTP client configuration options.
type Config struct {
	// Timeout is the total request timeout (default: duration.ProbeHTTP).
	Timeout time.Duration

	// FollowRedirects selects the redirect policy. Scanners usually want
	// to see the redirect response itself, so the default is false.
	FollowRedirects bool

	// InsecureSkipVerify skips TLS certificate verification.
	InsecureSkipVerify bool

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake independently of the
	// dial timeout; a slow handshake must not consume the whole budget.
	TLSHandshakeTimeout time.Duration

	// MaxConnsPerHost caps connections per host (default: 25).
	MaxConnsPerHost int
}

// New creates an HTTP client with the given configuration. Zero-value
// fields fall back to defaults tuned for probing workloads.
func New(cfg Config) *http.Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = duration.ProbeHTTP
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = duration.DialTimeout
	}
	if cfg.TLSHandshakeTimeout == 0 {
		cfg.TLSHandshakeTimeout = duration.TLSHandshake
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = 25
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: duration.KeepAlive,
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     duration.IdleConnTimeout,

		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,

		DialContext: dialer.DialContext,

		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
