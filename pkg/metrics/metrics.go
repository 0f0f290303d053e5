// Package metrics exposes scan instrumentation for Prometheus
// scraping: probe counts by transport result, probe latency, and
// finding counts by severity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

// Collector registers and updates all scan metrics on its own registry,
// keeping the process-global default registry untouched.
type Collector struct {
	registry *prometheus.Registry

	probesTotal   *prometheus.CounterVec
	findingsTotal *prometheus.CounterVec
	probeSeconds  *prometheus.HistogramVec
	inFlight      prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "probekit_probes_total",
				Help: "Probes executed, labeled by candidate kind and transport result",
			},
			[]string{"kind", "transport"},
		),
		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "probekit_findings_total",
				Help: "Findings emitted, labeled by category and severity",
			},
			[]string{"category", "severity"},
		),
		probeSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "probekit_probe_duration_seconds",
				Help:    "Probe wall-clock duration distribution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "probekit_probes_in_flight",
			Help: "Probes currently executing",
		}),
	}

	registry.MustRegister(c.probesTotal, c.findingsTotal, c.probeSeconds, c.inFlight)
	return c
}

// ProbeStarted marks one probe as in flight.
func (c *Collector) ProbeStarted() { c.inFlight.Inc() }

// ProbeFinished takes one probe out of flight.
func (c *Collector) ProbeFinished() { c.inFlight.Dec() }

// ObserveOutcome records one completed probe.
func (c *Collector) ObserveOutcome(o probe.Outcome) {
	c.probesTotal.WithLabelValues(string(o.Kind), o.Transport.String()).Inc()
	c.probeSeconds.WithLabelValues(string(o.Kind)).Observe(o.Elapsed.Seconds())
}

// ObserveFinding records one emitted finding.
func (c *Collector) ObserveFinding(f finding.Finding) {
	c.findingsTotal.WithLabelValues(f.Category, f.Severity.String()).Inc()
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gather exposes the raw metric families. Test hook.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}
