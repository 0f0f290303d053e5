package prober

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/probekit/probekit/pkg/duration"
	"github.com/probekit/probekit/pkg/probe"
)

// TCP probes (host, port) reachability with a bare connect. A completed
// connection is a successful outcome with no status code; refused,
// unreachable and timed-out connects become transport kinds.
type TCP struct {
	target      probe.Target
	dialTimeout time.Duration
}

// NewTCP creates a TCP-connect prober for the target.
func NewTCP(t probe.Target, dialTimeout time.Duration) *TCP {
	if dialTimeout <= 0 {
		dialTimeout = duration.ProbeTCP
	}
	return &TCP{target: t, dialTimeout: dialTimeout}
}

// Probe connects to the candidate's port. The socket is closed on every
// exit path; nothing leaks past the call.
func (p *TCP) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	start := time.Now()

	dialer := net.Dialer{Timeout: p.dialTimeout}
	addr := net.JoinHostPort(p.target.Host, strconv.Itoa(c.Port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return probe.Failure(c, err, time.Since(start))
	}
	_ = conn.Close()

	return probe.Outcome{
		CandidateID: c.ID,
		Kind:        c.Kind,
		Succeeded:   true,
		Elapsed:     time.Since(start),
	}
}
