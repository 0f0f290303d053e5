// Package generate turns a target into the ordered, deduplicated,
// capped sequence of probe candidates a run will dispatch.
//
// Generation is deterministic: the same target and options always yield
// the same candidates in the same order, and truncation under the cap
// keeps a stable prefix rather than a random subset.
package generate

import (
	"fmt"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/probe"
)

// Source supplies raw, possibly duplicated candidates for one scan
// mode. The engine is agnostic to the payload tables a source carries.
type Source interface {
	// Name identifies the source in reports.
	Name() string

	// Candidates returns raw candidates for the target, in a stable
	// order. IDs are assigned by Generate, not by the source.
	Candidates(t probe.Target) []probe.Candidate
}

// Result is the generated candidate sequence plus what the cap cut off.
type Result struct {
	Candidates []probe.Candidate

	// Truncated counts deduplicated candidates dropped by the cap.
	Truncated int

	// Deduplicated counts raw candidates removed as duplicate
	// network operations.
	Deduplicated int
}

// Generate validates the target, collects candidates from src,
// deduplicates operations, caps the sequence at max and assigns
// deterministic IDs. A zero-candidate outcome is an error, never a
// silent empty run.
func Generate(t probe.Target, src Source, max int) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}
	if max <= 0 {
		max = defaults.MaxCandidates
	}

	raw := src.Candidates(t)
	if len(raw) == 0 {
		return Result{}, fmt.Errorf("%w: source %s", probe.ErrNoCandidates, src.Name())
	}

	var res Result
	seen := make(map[uint64]struct{}, len(raw))
	for _, c := range raw {
		key := c.Key()
		if _, dup := seen[key]; dup {
			res.Deduplicated++
			continue
		}
		seen[key] = struct{}{}
		if len(res.Candidates) >= max {
			res.Truncated++
			continue
		}
		c.ID = fmt.Sprintf("%s-%03d", c.Kind, len(res.Candidates))
		res.Candidates = append(res.Candidates, c)
	}
	return res, nil
}
