package prober

import (
	"context"
	"io"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/httpclient"
	"github.com/probekit/probekit/pkg/probe"
)

// HTTPConfig configures the HTTP prober.
type HTTPConfig struct {
	// FollowRedirects selects the redirect policy for this prober.
	FollowRedirects bool

	// SkipVerify skips TLS certificate verification.
	SkipVerify bool

	// UserAgent presented on every request.
	UserAgent string

	// BodySampleCap bounds the captured body prefix in bytes.
	BodySampleCap int

	// Timeout is the total request timeout. The dispatcher's per-probe
	// deadline still applies on top as the hard upper bound.
	Timeout time.Duration
}

// HTTP issues one HTTP request per candidate and captures status code,
// headers and a bounded body prefix.
type HTTP struct {
	target probe.Target
	client *http.Client
	cfg    HTTPConfig
}

// NewHTTP creates an HTTP prober for the target.
func NewHTTP(t probe.Target, cfg HTTPConfig) *HTTP {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UAChrome
	}
	if cfg.BodySampleCap <= 0 || cfg.BodySampleCap > defaults.BodySampleCap {
		cfg.BodySampleCap = defaults.BodySampleCap
	}
	client := httpclient.New(httpclient.Config{
		Timeout:            cfg.Timeout,
		FollowRedirects:    cfg.FollowRedirects,
		InsecureSkipVerify: cfg.SkipVerify,
	})
	return &HTTP{target: t, client: client, cfg: cfg}
}

// Probe performs the candidate's request against the target base URL.
func (p *HTTP) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	start := time.Now()

	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	url := p.target.BaseURL() + c.Path

	var body io.Reader
	if c.Body != "" {
		body = strings.NewReader(c.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return probe.Failure(c, err, time.Since(start))
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	if c.Header != "" {
		req.Header.Set(c.Header, c.HeaderValue)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return probe.Failure(c, err, time.Since(start))
	}
	defer resp.Body.Close()

	// Bounded read: the cap holds no matter how large the response is.
	sample, err := io.ReadAll(io.LimitReader(resp.Body, int64(p.cfg.BodySampleCap)))
	if err != nil {
		// Status and headers arrived; a failed body read degrades the
		// sample, it does not fail the probe.
		sample = sample[:len(sample):len(sample)]
	}

	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		if len(values) > 0 {
			headers[textproto.CanonicalMIMEHeaderKey(name)] = values[0]
		}
	}

	return probe.Outcome{
		CandidateID: c.ID,
		Kind:        c.Kind,
		Succeeded:   true,
		StatusCode:  resp.StatusCode,
		Headers:     headers,
		BodySample:  sample,
		Elapsed:     time.Since(start),
	}
}
