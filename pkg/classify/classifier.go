// Package classify turns probe outcomes into findings by evaluating a
// registry of heuristic rules. Classification is pure: no I/O, no
// hidden state, and the same outcome always yields the same findings.
//
// A rule emits a finding only when the summed weight of its matching
// indicators reaches the rule threshold. Anything below the threshold
// emits nothing: ambiguous cases deliberately favor no finding, trading
// recall for a lower false-positive rate.
package classify

import (
	"fmt"
	"strings"
	"time"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

// Indicator is one weighted signal evaluated against an outcome.
type Indicator struct {
	Name   string
	Weight int
	Match  func(o probe.Outcome) bool
}

// Rule is a named heuristic producing at most one finding per outcome.
// Independent rules may match the same outcome and emit findings with
// different categories.
type Rule struct {
	Name     string
	Category string
	Severity finding.Severity

	// Kinds restricts the rule to candidate kinds; empty means all.
	Kinds []probe.Kind

	// Labels restricts the rule to candidate labels by prefix; empty
	// means all. Matching uses the outcome's originating candidate
	// label carried in CandidateLabel.
	Labels []string

	// Threshold is the minimum summed indicator weight
	// (default defaults.IndicatorThreshold).
	Threshold int

	Indicators []Indicator
}

// Classifier evaluates registered rules against outcomes.
type Classifier struct {
	rules []Rule

	// now is injectable for deterministic tests.
	now func() time.Time
}

// New creates a classifier over the given rules.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules, now: time.Now}
}

// WithClock overrides the timestamp source. Test hook.
func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// Register appends additional rules.
func (c *Classifier) Register(rules ...Rule) {
	c.rules = append(c.rules, rules...)
}

// Classify evaluates every applicable rule against the outcome and
// returns zero or more findings. label is the originating candidate's
// label, used for rule scoping and evidence.
func (c *Classifier) Classify(o probe.Outcome, label string) []finding.Finding {
	var out []finding.Finding
	for _, r := range c.rules {
		if !r.applies(o, label) {
			continue
		}
		score, matched := r.evaluate(o)
		threshold := r.Threshold
		if threshold <= 0 {
			threshold = defaults.IndicatorThreshold
		}
		if score < threshold {
			continue
		}
		out = append(out, finding.Finding{
			CandidateID: o.CandidateID,
			Category:    r.Category,
			Severity:    r.Severity,
			Evidence:    buildEvidence(o, label, matched),
			Timestamp:   c.now(),
		})
	}
	return out
}

func (r Rule) applies(o probe.Outcome, label string) bool {
	if len(r.Kinds) > 0 {
		ok := false
		for _, k := range r.Kinds {
			if o.Kind == k {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(r.Labels) > 0 {
		ok := false
		for _, prefix := range r.Labels {
			if strings.HasPrefix(label, prefix) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (r Rule) evaluate(o probe.Outcome) (score int, matched []string) {
	for _, ind := range r.Indicators {
		if ind.Match(o) {
			score += ind.Weight
			matched = append(matched, ind.Name)
		}
	}
	return score, matched
}

// buildEvidence summarizes what matched, bounded by defaults.EvidenceMax.
func buildEvidence(o probe.Outcome, label string, matched []string) string {
	var sb strings.Builder
	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}
	sb.WriteString(strings.Join(matched, ", "))
	if o.StatusCode != 0 {
		fmt.Fprintf(&sb, " (status %d)", o.StatusCode)
	}
	if o.Transport != probe.TransportNone {
		fmt.Fprintf(&sb, " (%s)", o.Transport)
	}
	s := sb.String()
	if len(s) > defaults.EvidenceMax {
		s = s[:defaults.EvidenceMax]
	}
	return s
}
