package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

func TestCollectorCountsOutcomes(t *testing.T) {
	c := NewCollector()
	c.ObserveOutcome(probe.Outcome{Kind: probe.KindPath, Succeeded: true, Elapsed: 120 * time.Millisecond})
	c.ObserveOutcome(probe.Outcome{Kind: probe.KindPath, Transport: probe.TransportTimeout, Elapsed: 5 * time.Second})
	c.ObserveFinding(finding.Finding{Category: "backup-exposure", Severity: finding.High})

	families, err := c.Gather()
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]bool{}
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	for _, want := range []string{
		"probekit_probes_total",
		"probekit_findings_total",
		"probekit_probe_duration_seconds",
	} {
		if !byName[want] {
			t.Errorf("metric %s not gathered (have %v)", want, byName)
		}
	}
}

func TestInFlightGaugePairs(t *testing.T) {
	c := NewCollector()
	c.ProbeStarted()
	c.ProbeStarted()
	c.ProbeFinished()

	families, err := c.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "probekit_probes_in_flight" {
			continue
		}
		if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 1 {
			t.Errorf("in-flight gauge = %v, want 1", got)
		}
		return
	}
	t.Error("in-flight gauge not gathered")
}

func TestCollectorIsolatedRegistries(t *testing.T) {
	// Two collectors must not fight over metric registration.
	a := NewCollector()
	b := NewCollector()
	a.ObserveOutcome(probe.Outcome{Kind: probe.KindPort, Succeeded: true})

	families, err := b.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter().GetValue() != 0 {
				t.Errorf("collector b saw collector a's samples: %s", mf.GetName())
			}
		}
	}
}

func TestCollectorScrapeEndpoint(t *testing.T) {
	c := NewCollector()
	c.ObserveOutcome(probe.Outcome{Kind: probe.KindRaw, Transport: probe.TransportTLS, Elapsed: time.Second})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "probekit_probes_total") {
		t.Errorf("scrape output missing counter:\n%s", body)
	}
	if !strings.Contains(body, `transport="tls_failure"`) {
		t.Errorf("scrape output missing transport label:\n%s", body)
	}
}
