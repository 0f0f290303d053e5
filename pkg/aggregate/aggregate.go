// Package aggregate collects findings from a run into a ScanReport:
// deduplicated findings, severity counts and the weighted risk score.
//
// Aggregation is order-independent: feeding the same finding set in any
// order produces an identical summary.
package aggregate

import (
	"sync"
	"time"

	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

// Summary holds per-severity counts and the weighted risk score,
// riskScore = (4c + 3h + 2m + 1l) / max(findings, 1), always in [0, 4].
type Summary struct {
	Critical  int     `json:"critical"`
	High      int     `json:"high"`
	Medium    int     `json:"medium"`
	Low       int     `json:"low"`
	RiskScore float64 `json:"risk_score"`
}

// Total returns the number of findings counted in the summary.
func (s Summary) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// ScanReport is the run's final result, consumable by any reporter.
type ScanReport struct {
	RunID  string       `json:"run_id"`
	Target probe.Target `json:"target"`
	Mode   string       `json:"mode,omitempty"`

	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`

	CandidatesTotal int `json:"candidates_total"`

	// GenerationTruncated counts candidates cut by the generation cap.
	GenerationTruncated int `json:"generation_truncated,omitempty"`

	// Truncated is set when cancellation cut the run short;
	// NotDispatched counts the candidates never issued.
	Truncated     bool `json:"truncated,omitempty"`
	NotDispatched int  `json:"not_dispatched,omitempty"`

	Outcomes        int `json:"outcomes"`
	TransportErrors int `json:"transport_errors"`

	// Findings in insertion order (= probe completion order).
	Findings []finding.Finding `json:"findings"`

	Summary Summary `json:"summary"`
}

// Aggregator accumulates outcomes and findings for one run. It is safe
// for concurrent writers; each worker may contribute independently.
type Aggregator struct {
	mu              sync.Mutex
	seen            map[finding.Key]struct{}
	findings        []finding.Finding
	outcomes        int
	transportErrors int
}

// New creates an empty aggregator. Each run owns its own instance;
// nothing carries over between runs.
func New() *Aggregator {
	return &Aggregator{seen: make(map[finding.Key]struct{})}
}

// RecordOutcome counts a probe outcome.
func (a *Aggregator) RecordOutcome(o probe.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcomes++
	if o.Failed() {
		a.transportErrors++
	}
}

// Add records findings, dropping duplicates of an already-seen
// (candidateID, category) pair.
func (a *Aggregator) Add(fs ...finding.Finding) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range fs {
		key := f.DedupKey()
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = struct{}{}
		a.findings = append(a.findings, f)
	}
}

// Report finalizes the run into a ScanReport. The caller fills in
// identity fields (RunID, Target, Mode) and truncation flags.
func (a *Aggregator) Report() ScanReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s Summary
	for _, f := range a.findings {
		switch f.Severity {
		case finding.Critical:
			s.Critical++
		case finding.High:
			s.High++
		case finding.Medium:
			s.Medium++
		case finding.Low:
			s.Low++
		}
	}
	total := s.Total()
	weighted := 4*s.Critical + 3*s.High + 2*s.Medium + 1*s.Low
	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	s.RiskScore = float64(weighted) / float64(divisor)

	findings := make([]finding.Finding, len(a.findings))
	copy(findings, a.findings)

	return ScanReport{
		Outcomes:        a.outcomes,
		TransportErrors: a.transportErrors,
		Findings:        findings,
		Summary:         s,
	}
}
