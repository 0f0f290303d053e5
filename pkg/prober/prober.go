// Package prober implements the capability of performing one probe:
// candidate in, outcome out. Three variants cover the engine's probe
// kinds: plain TCP connect, HTTP request, and raw-socket HTTP.
//
// Probers never let an error escape their boundary. Every failure mode
// (timeout, refused, TLS failure, DNS failure) is folded into the
// outcome's transport kind; the dispatcher treats a failed probe as a
// valid outcome, not a run-aborting error.
package prober

import (
	"context"

	"github.com/probekit/probekit/pkg/probe"
)

// Prober performs a single probe. The context carries the hard
// per-probe deadline set by the dispatcher; implementations must
// respect it on connect, TLS handshake and body read individually.
type Prober interface {
	Probe(ctx context.Context, c probe.Candidate) probe.Outcome
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, c probe.Candidate) probe.Outcome

func (f Func) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	return f(ctx, c)
}
