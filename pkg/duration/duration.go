// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.ProbeHTTP)
//	if outcome.Elapsed > duration.SlowResponse {
//
// DO NOT use hardcoded time.Duration values like `5 * time.Second` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// PER-PROBE TIMEOUTS
// ============================================================================
//
// These are the hard upper bounds the dispatcher enforces per probe kind.
// Protocol-level timeouts inside a prober must stay below these.
// ============================================================================

const (
	// ProbeTCP is for plain TCP connect probes (1s)
	ProbeTCP = 1 * time.Second

	// ProbeHTTP is for HTTP request probes (5s)
	ProbeHTTP = 5 * time.Second

	// ProbeRaw is for raw-socket protocol probes (10s). Raw probes read
	// until deadline, so this bound doubles as the response window.
	ProbeRaw = 10 * time.Second
)

// ============================================================================
// NETWORK/TRANSPORT
// ============================================================================

const (
	// DialTimeout is for establishing TCP connections (5s)
	DialTimeout = 5 * time.Second

	// TLSHandshake is for TLS handshake completion (5s)
	TLSHandshake = 5 * time.Second

	// KeepAlive is for TCP keep-alive interval (30s)
	KeepAlive = 30 * time.Second

	// IdleConnTimeout is for idle connection pool timeout (90s)
	IdleConnTimeout = 90 * time.Second
)

// ============================================================================
// RUN-SCOPED TIMEOUTS
// ============================================================================

const (
	// RunShort bounds a quick scan run (30s)
	RunShort = 30 * time.Second

	// RunStd bounds a standard scan run (5min)
	RunStd = 5 * time.Minute

	// RunMax bounds the largest supported run (30min)
	RunMax = 30 * time.Minute
)

// ============================================================================
// RESPONSE TIME THRESHOLDS
// ============================================================================
//
// Use these for timing-differential heuristics (blind injection, desync).
// ============================================================================

const (
	// SlowResponse flags a response as slow (3s)
	SlowResponse = 3 * time.Second

	// TimingDelta is the minimum probe-vs-baseline difference a timing
	// predicate treats as significant (2s)
	TimingDelta = 2 * time.Second
)
