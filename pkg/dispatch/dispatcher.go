// Package dispatch orchestrates concurrent probe execution: a
// fixed-size worker pool pulls candidates from a shared queue, executes
// them under a hard per-probe timeout, and streams outcomes in
// completion order.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/duration"
	"github.com/probekit/probekit/pkg/hosterrors"
	"github.com/probekit/probekit/pkg/probe"
	"github.com/probekit/probekit/pkg/prober"
	"github.com/probekit/probekit/pkg/ratelimit"
	"github.com/probekit/probekit/pkg/workerpool"
)

const tracerName = "github.com/probekit/probekit/pkg/dispatch"

// Dispatcher runs probes over a candidate sequence. Create one per scan
// run; the worker pool is built at Run and torn down when the outcome
// stream closes, so no state survives between runs.
type Dispatcher struct {
	// Concurrency is the fixed worker pool size (default
	// defaults.ConcurrencyMedium). In-flight probes never exceed it.
	Concurrency int

	// PerProbeTimeout is the hard upper bound per probe, enforced by
	// the dispatcher independently of any prober-internal timeout.
	PerProbeTimeout time.Duration

	// Limiter optionally bounds the request rate. Nil means unlimited.
	Limiter *ratelimit.Limiter

	// HostErrors optionally skips hosts that keep failing. Nil disables
	// skipping.
	HostErrors *hosterrors.Cache

	// OnProgress, when set, is called after each outcome completes with
	// the live run stats. Callbacks run on worker goroutines and must
	// read counters through the Stats accessors.
	OnProgress func(s *Stats, o probe.Outcome)

	// Stats is populated during Run.
	Stats Stats

	// Host labels outcomes for rate limiting and host-error tracking.
	Host string
}

// Run dispatches every candidate to p and returns the outcome stream.
// Outcomes arrive in completion order, not submission order. The stream
// closes once all issued probes have finished.
//
// Exactly one outcome is produced per issued candidate: a worker panic
// becomes a TransportInternal outcome and the pool keeps going. On ctx
// cancellation no new probes are issued; in-flight probes finish or hit
// their timeout, and Stats.NotDispatched records the cut.
func (d *Dispatcher) Run(ctx context.Context, candidates []probe.Candidate, p prober.Prober) <-chan probe.Outcome {
	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = defaults.ConcurrencyMedium
	}
	if concurrency > len(candidates) && len(candidates) > 0 {
		concurrency = len(candidates)
	}
	timeout := d.PerProbeTimeout
	if timeout <= 0 {
		timeout = duration.ProbeHTTP
	}

	d.Stats = Stats{
		Total:     int64(len(candidates)),
		StartTime: time.Now(),
	}

	// Buffered to the run size: workers never block on a slow consumer,
	// so completion order is preserved at the channel.
	results := make(chan probe.Outcome, len(candidates))

	if len(candidates) == 0 {
		close(results)
		return results
	}

	pool := workerpool.New(concurrency)
	var wg sync.WaitGroup

	go func() {
		tracer := otel.Tracer(tracerName)
		runCtx, span := tracer.Start(ctx, "dispatch.run",
			trace.WithAttributes(
				attribute.Int("probe.candidates", len(candidates)),
				attribute.Int("probe.concurrency", concurrency),
			))

		for _, c := range candidates {
			if runCtx.Err() != nil {
				atomic.AddInt64(&d.Stats.NotDispatched, 1)
				continue
			}

			if d.HostErrors != nil && d.HostErrors.Check(d.Host) {
				d.finish(results, d.skippedOutcome(c))
				continue
			}

			if err := d.Limiter.Wait(runCtx, d.Host); err != nil {
				atomic.AddInt64(&d.Stats.NotDispatched, 1)
				continue
			}

			c := c
			wg.Add(1)
			pool.Submit(func() {
				defer wg.Done()
				d.finish(results, d.probeOne(runCtx, c, p, timeout))
			})
		}

		wg.Wait()
		pool.Close()
		span.SetAttributes(attribute.Int64("probe.completed", atomic.LoadInt64(&d.Stats.Completed)))
		span.End()
		close(results)
	}()

	return results
}

// probeOne executes a single probe under the hard timeout with panic
// isolation. It always returns an outcome.
func (d *Dispatcher) probeOne(ctx context.Context, c probe.Candidate, p prober.Prober, timeout time.Duration) probe.Outcome {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan probe.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				o := probe.Failure(c, fmt.Errorf("prober panic: %v", r), time.Since(start))
				o.Transport = probe.TransportInternal
				done <- o
			}
		}()
		done <- p.Probe(probeCtx, c)
	}()

	select {
	case o := <-done:
		return o
	case <-probeCtx.Done():
		// Hard bound: the prober overran its deadline. Its goroutine
		// unwinds on the cancelled context; the worker moves on.
		o := probe.Failure(c, probeCtx.Err(), time.Since(start))
		if o.Transport != probe.TransportTimeout {
			o.Transport = probe.TransportTimeout
		}
		return o
	}
}

// finish records an outcome in the stats and delivers it downstream.
func (d *Dispatcher) finish(results chan<- probe.Outcome, o probe.Outcome) {
	atomic.AddInt64(&d.Stats.Completed, 1)
	if o.Failed() {
		atomic.AddInt64(&d.Stats.Failed, 1)
	} else {
		atomic.AddInt64(&d.Stats.Succeeded, 1)
	}
	if d.HostErrors != nil {
		d.HostErrors.MarkOutcome(d.Host, o)
	}
	if d.OnProgress != nil {
		d.OnProgress(&d.Stats, o)
	}
	results <- o
}

// skippedOutcome fabricates the outcome for a candidate skipped because
// its host exceeded the failure threshold.
func (d *Dispatcher) skippedOutcome(c probe.Candidate) probe.Outcome {
	atomic.AddInt64(&d.Stats.Skipped, 1)
	return probe.Outcome{
		CandidateID: c.ID,
		Kind:        c.Kind,
		Transport:   probe.TransportUnreachable,
		Detail:      "host skipped: exceeded error threshold",
	}
}
