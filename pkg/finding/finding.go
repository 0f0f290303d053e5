// Package finding defines the classified conclusions the engine derives
// from probe outcomes, and the severity scale used to weight them.
package finding

import "time"

// Finding is a severity-tagged conclusion about a single candidate.
// A candidate yields zero or one finding per category; the aggregator
// deduplicates on (CandidateID, Category).
type Finding struct {
	CandidateID string    `json:"candidate_id"`
	Category    string    `json:"category"`
	Severity    Severity  `json:"severity"`
	Evidence    string    `json:"evidence"`
	Timestamp   time.Time `json:"timestamp"`
}

// Key identifies a finding for deduplication.
type Key struct {
	CandidateID string
	Category    string
}

// DedupKey returns the aggregator's deduplication key.
func (f Finding) DedupKey() Key {
	return Key{CandidateID: f.CandidateID, Category: f.Category}
}
