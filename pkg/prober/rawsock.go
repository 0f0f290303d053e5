package prober

import (
	"context"
	"net"
	"strconv"
	"time"

	utls "github.com/refraction-networking/utls"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/duration"
	"github.com/probekit/probekit/pkg/probe"
)

// RawConfig configures the raw-socket prober.
type RawConfig struct {
	// Port overrides the default port (80, or 443 when TLS is on).
	Port int

	// UseTLS wraps the connection in TLS before writing.
	UseTLS bool

	// SkipVerify skips TLS certificate verification.
	SkipVerify bool

	// ResponseCap bounds the captured response prefix in bytes.
	ResponseCap int

	// ReadWindow is how long to collect response bytes after the write.
	// The context deadline still applies on top.
	ReadWindow time.Duration
}

// Raw writes a candidate's pre-built literal byte sequence to a TCP
// (optionally TLS-wrapped) connection and returns a bounded response
// prefix uninterpreted. It deliberately does not parse HTTP framing:
// the candidates carry ambiguous framing on purpose, and judging what
// came back is the classifier's job, not the prober's.
//
// The TLS layer uses a browser ClientHello (utls) so middleboxes that
// fingerprint handshakes see ordinary client traffic.
type Raw struct {
	target probe.Target
	cfg    RawConfig
}

// NewRaw creates a raw-socket prober for the target.
func NewRaw(t probe.Target, cfg RawConfig) *Raw {
	if cfg.Port == 0 {
		cfg.Port = t.Port
	}
	if cfg.Port == 0 {
		if cfg.UseTLS || t.Scheme == probe.SchemeHTTPS {
			cfg.Port = 443
			cfg.UseTLS = true
		} else {
			cfg.Port = 80
		}
	}
	if cfg.ResponseCap <= 0 || cfg.ResponseCap > defaults.BodySampleCap {
		cfg.ResponseCap = defaults.RawResponseCap
	}
	if cfg.ReadWindow <= 0 {
		cfg.ReadWindow = duration.ProbeRaw
	}
	return &Raw{target: t, cfg: cfg}
}

// Probe dials, writes the raw request and reads until the window or
// deadline closes. Response bytes received before a read timeout make
// the probe a success with a partial sample; timing out with nothing
// read is a transport timeout.
func (p *Raw) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	start := time.Now()

	conn, err := p.dial(ctx)
	if err != nil {
		return probe.Failure(c, err, time.Since(start))
	}
	defer conn.Close()

	deadline := time.Now().Add(p.cfg.ReadWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return probe.Failure(c, err, time.Since(start))
	}

	if _, err := conn.Write(c.Raw); err != nil {
		return probe.Failure(c, err, time.Since(start))
	}

	sample := make([]byte, 0, defaults.BufferSmall)
	buf := make([]byte, defaults.BufferSmall)
	for len(sample) < p.cfg.ResponseCap {
		n, err := conn.Read(buf)
		if n > 0 {
			room := p.cfg.ResponseCap - len(sample)
			if n > room {
				n = room
			}
			sample = append(sample, buf[:n]...)
		}
		if err != nil {
			break
		}
	}

	elapsed := time.Since(start)
	if len(sample) == 0 {
		return probe.Failure(c, context.DeadlineExceeded, elapsed)
	}
	return probe.Outcome{
		CandidateID: c.ID,
		Kind:        c.Kind,
		Succeeded:   true,
		BodySample:  sample,
		Elapsed:     elapsed,
	}
}

// dial opens the transport, applying the connect and TLS handshake
// deadlines separately so a slow handshake cannot ride past the budget.
func (p *Raw) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: duration.DialTimeout}
	addr := net.JoinHostPort(p.target.Host, strconv.Itoa(p.cfg.Port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if !p.cfg.UseTLS {
		return conn, nil
	}

	handshakeBy := time.Now().Add(duration.TLSHandshake)
	if d, ok := ctx.Deadline(); ok && d.Before(handshakeBy) {
		handshakeBy = d
	}
	if err := conn.SetDeadline(handshakeBy); err != nil {
		conn.Close()
		return nil, err
	}

	uconn := utls.UClient(conn, &utls.Config{
		ServerName:         p.target.Host,
		InsecureSkipVerify: p.cfg.SkipVerify,
	}, utls.HelloChrome_Auto)
	if err := uconn.Handshake(); err != nil {
		conn.Close()
		return nil, err
	}
	// Clear the handshake deadline; Probe sets its own read deadline.
	if err := uconn.SetDeadline(time.Time{}); err != nil {
		uconn.Close()
		return nil, err
	}
	return uconn, nil
}
