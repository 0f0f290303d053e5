package finding

// Severity represents the severity level of a security finding.
// All values are lowercase strings, matching the convention used by the
// classifier predicates and report writers.
type Severity string

const (
	// Critical represents immediate exposure (request desync, leaked dumps).
	Critical Severity = "critical"

	// High represents significant impact requiring prompt fix.
	High Severity = "high"

	// Medium represents moderate impact.
	Medium Severity = "medium"

	// Low represents limited impact (open service, minor info leak).
	Low Severity = "low"
)

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case Critical, High, Medium, Low:
		return true
	}
	return false
}

// Weight returns the risk-score weight for this severity.
// Critical=4, High=3, Medium=2, Low=1, unknown=0.
func (s Severity) Weight() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}
