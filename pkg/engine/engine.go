// Package engine wires a scan run end to end: target parsing, candidate
// generation, concurrent dispatch, classification and aggregation into
// the final ScanReport.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/probekit/probekit/pkg/aggregate"
	"github.com/probekit/probekit/pkg/classify"
	"github.com/probekit/probekit/pkg/config"
	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/dispatch"
	"github.com/probekit/probekit/pkg/generate"
	"github.com/probekit/probekit/pkg/hosterrors"
	"github.com/probekit/probekit/pkg/metrics"
	"github.com/probekit/probekit/pkg/probe"
	"github.com/probekit/probekit/pkg/prober"
	"github.com/probekit/probekit/pkg/ratelimit"
)

// Engine executes scan runs for one configuration. A single engine may
// run repeatedly; each Run builds fresh per-run state.
type Engine struct {
	cfg        *config.Config
	classifier *classify.Classifier
	collector  *metrics.Collector

	// OnProgress, when set, receives per-probe completion updates with
	// the live dispatch stats.
	OnProgress func(s *dispatch.Stats, o probe.Outcome)
}

// New creates an engine with the built-in classification rules.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		classifier: classify.New(classify.DefaultRules()...),
		collector:  metrics.NewCollector(),
	}, nil
}

// Classifier exposes the rule registry so callers can register
// additional rules before Run.
func (e *Engine) Classifier() *classify.Classifier { return e.classifier }

// Metrics exposes the run instrumentation.
func (e *Engine) Metrics() *metrics.Collector { return e.collector }

// Run executes one scan. Setup failures (bad target, no candidates)
// return an error; per-probe transport failures do not. Once dispatch
// starts, Run always completes and returns a report, cancelled runs
// included.
func (e *Engine) Run(ctx context.Context) (aggregate.ScanReport, error) {
	target, err := probe.ParseTarget(e.cfg.Target)
	if err != nil {
		return aggregate.ScanReport{}, err
	}

	src, err := e.sourceFor()
	if err != nil {
		return aggregate.ScanReport{}, err
	}

	gen, err := generate.Generate(target, src, e.cfg.MaxCandidates)
	if err != nil {
		return aggregate.ScanReport{}, err
	}

	p := instrumented{p: e.proberFor(target), collector: e.collector}

	// Rule scoping and evidence need the originating candidate label,
	// which outcomes do not carry.
	labels := make(map[string]string, len(gen.Candidates))
	for _, c := range gen.Candidates {
		labels[c.ID] = c.Label
	}

	d := &dispatch.Dispatcher{
		Concurrency:     e.cfg.Concurrency,
		PerProbeTimeout: e.cfg.PerProbeTimeout,
		Limiter:         ratelimit.New(e.cfg.RateLimit, false),
		HostErrors:      hosterrors.NewCache(defaults.MaxHostErrors),
		OnProgress:      e.OnProgress,
		Host:            target.Host,
	}

	agg := aggregate.New()
	start := time.Now()

	for o := range d.Run(ctx, gen.Candidates, p) {
		agg.RecordOutcome(o)
		e.collector.ObserveOutcome(o)
		findings := e.classifier.Classify(o, labels[o.CandidateID])
		for _, f := range findings {
			e.collector.ObserveFinding(f)
		}
		agg.Add(findings...)
	}

	report := agg.Report()
	report.RunID = uuid.NewString()
	report.Target = target
	report.Mode = e.cfg.Mode
	report.StartTime = start
	report.Duration = time.Since(start)
	report.CandidatesTotal = len(gen.Candidates)
	report.GenerationTruncated = gen.Truncated
	report.NotDispatched = int(d.Stats.NotDispatched)
	report.Truncated = report.NotDispatched > 0
	return report, nil
}

// sourceFor maps the configured mode to its candidate source.
func (e *Engine) sourceFor() (generate.Source, error) {
	switch e.cfg.Mode {
	case "ports":
		return generate.PortSource{Spec: e.cfg.Ports}, nil
	case "backup":
		return generate.BackupSource{}, nil
	case "oauth":
		return generate.OAuthSource{}, nil
	case "sqli":
		return generate.SQLInjectionSource{}, nil
	case "smuggle":
		return generate.SmugglingSource{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, e.cfg.Mode)
	}
}

// proberFor builds the probe executor for the configured mode. Smuggle
// runs mix raw-socket and header candidates, so the prober dispatches
// on candidate kind.
func (e *Engine) proberFor(target probe.Target) prober.Prober {
	httpCfg := prober.HTTPConfig{
		FollowRedirects: e.cfg.FollowRedirects,
		SkipVerify:      e.cfg.SkipVerify,
		UserAgent:       e.cfg.UserAgent,
		BodySampleCap:   e.cfg.BodySampleCap,
		Timeout:         e.cfg.PerProbeTimeout,
	}

	switch e.cfg.Mode {
	case "ports":
		return prober.NewTCP(target, e.cfg.PerProbeTimeout)
	case "smuggle":
		raw := prober.NewRaw(target, prober.RawConfig{
			UseTLS:      target.Scheme == probe.SchemeHTTPS,
			SkipVerify:  e.cfg.SkipVerify,
			ResponseCap: e.cfg.BodySampleCap,
		})
		return &kindMux{
			byKind:   map[probe.Kind]prober.Prober{probe.KindRaw: raw},
			fallback: prober.NewHTTP(target, httpCfg),
		}
	default:
		return prober.NewHTTP(target, httpCfg)
	}
}

// instrumented keeps the in-flight gauge in step with actual probe
// execution. Skipped candidates never pass through it.
type instrumented struct {
	p         prober.Prober
	collector *metrics.Collector
}

func (i instrumented) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	i.collector.ProbeStarted()
	defer i.collector.ProbeFinished()
	return i.p.Probe(ctx, c)
}

// kindMux routes candidates to a prober by kind, falling back for
// kinds without a dedicated entry.
type kindMux struct {
	byKind   map[probe.Kind]prober.Prober
	fallback prober.Prober
}

func (m *kindMux) Probe(ctx context.Context, c probe.Candidate) probe.Outcome {
	if p, ok := m.byKind[c.Kind]; ok {
		return p.Probe(ctx, c)
	}
	return m.fallback.Probe(ctx, c)
}
