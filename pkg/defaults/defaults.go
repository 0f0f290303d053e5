// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for runtime configuration defaults.
//
// Usage:
//
//	config.Concurrency = defaults.ConcurrencyMedium
//	cap := defaults.MaxCandidates
//
// DO NOT use hardcoded values like `Concurrency: 10` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// ============================================================================
// CONCURRENCY SETTINGS
// ============================================================================
//
// Use these for the dispatcher worker pool and parallel operations.
// Choose based on the aggressiveness of the probe kind.
// ============================================================================

const (
	// ConcurrencyMinimal is for single-probe debugging runs (1)
	ConcurrencyMinimal = 1

	// ConcurrencyLow is for raw-socket and timing-sensitive probes (5)
	ConcurrencyLow = 5

	// ConcurrencyMedium is the standard dispatcher pool size (10)
	ConcurrencyMedium = 10

	// ConcurrencyHigh is for HTTP path discovery (20)
	ConcurrencyHigh = 20

	// ConcurrencyMax is for TCP connect sweeps (100)
	ConcurrencyMax = 100
)

// ============================================================================
// CANDIDATE GENERATION
// ============================================================================

const (
	// MaxCandidates caps the generated candidate sequence per run (100)
	MaxCandidates = 100

	// MaxHostErrors is the consecutive transport failures before a host
	// is skipped for the remainder of the run (5)
	MaxHostErrors = 5
)

// ============================================================================
// BUFFER SIZES
// ============================================================================
//
// Use these for bounded response captures. Outcomes never hold more than
// BodySampleCap bytes of body regardless of actual response size.
// ============================================================================

const (
	// BufferTiny is for small reads (1KB)
	BufferTiny = 1 * 1024

	// BufferSmall is for typical reads (4KB)
	BufferSmall = 4 * 1024

	// BufferMedium is for larger reads (32KB)
	BufferMedium = 32 * 1024

	// BodySampleCap is the maximum body sample stored on an outcome (64KB)
	BodySampleCap = 64 * 1024

	// RawResponseCap bounds the raw-socket response prefix (16KB)
	RawResponseCap = 16 * 1024
)

// ============================================================================
// CLASSIFICATION
// ============================================================================

const (
	// IndicatorThreshold is the minimum weighted indicator score a
	// predicate must reach before it emits a finding (2). Scores below
	// the threshold produce no finding.
	IndicatorThreshold = 2

	// EvidenceMax bounds the evidence excerpt on a finding (500)
	EvidenceMax = 500
)

// ============================================================================
// RATE LIMITING
// ============================================================================

const (
	// RateUnlimited disables the request rate bound (0)
	RateUnlimited = 0

	// RateBurstDivisor derives burst capacity from requests per second (5)
	RateBurstDivisor = 5
)

// UAChrome is the default User-Agent presented by HTTP probers.
const UAChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
