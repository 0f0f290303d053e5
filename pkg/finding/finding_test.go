package finding

import "testing"

func TestSeverityWeights(t *testing.T) {
	weights := map[Severity]int{Critical: 4, High: 3, Medium: 2, Low: 1, Severity("bogus"): 0}
	for s, want := range weights {
		if got := s.Weight(); got != want {
			t.Errorf("%s.Weight() = %d, want %d", s, got, want)
		}
	}
}

func TestSeverityIsValid(t *testing.T) {
	for _, s := range []Severity{Critical, High, Medium, Low} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false", s)
		}
	}
	if Severity("info").IsValid() {
		t.Error("unknown severity accepted")
	}
}

func TestDedupKey(t *testing.T) {
	a := Finding{CandidateID: "path-001", Category: "backup-exposure", Severity: High, Evidence: "first"}
	b := Finding{CandidateID: "path-001", Category: "backup-exposure", Severity: Critical, Evidence: "second"}
	if a.DedupKey() != b.DedupKey() {
		t.Error("same (candidate, category) produced different keys")
	}

	c := Finding{CandidateID: "path-001", Category: "oauth-exposure"}
	if a.DedupKey() == c.DedupKey() {
		t.Error("different categories collided")
	}
}
