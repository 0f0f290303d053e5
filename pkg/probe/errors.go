package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Sentinel errors for setup-time failure modes. These abort a run before
// any probe is dispatched; callers should use errors.Is() to check them.
var (
	// ErrInvalidTarget indicates an empty or malformed target.
	ErrInvalidTarget = errors.New("probe: invalid target")

	// ErrNoCandidates indicates generation produced zero candidates.
	// Runs never silently proceed with empty work.
	ErrNoCandidates = errors.New("probe: no candidates generated")
)

// TransportKind classifies a per-probe transport failure. Transport
// failures are recorded on the outcome and never abort the run.
type TransportKind int

const (
	// TransportNone indicates the probe completed without transport failure.
	TransportNone TransportKind = iota
	// TransportTimeout indicates the deadline expired before completion.
	TransportTimeout
	// TransportRefused indicates the connection was actively refused.
	TransportRefused
	// TransportUnreachable indicates no route to the host existed.
	TransportUnreachable
	// TransportTLS indicates a TLS handshake or record failure.
	TransportTLS
	// TransportDNS indicates name resolution failed.
	TransportDNS
	// TransportInternal indicates an unexpected prober failure,
	// including a recovered worker panic.
	TransportInternal
)

// String returns a stable wire label for the kind.
func (k TransportKind) String() string {
	switch k {
	case TransportNone:
		return "none"
	case TransportTimeout:
		return "timeout"
	case TransportRefused:
		return "connection_refused"
	case TransportUnreachable:
		return "unreachable"
	case TransportTLS:
		return "tls_failure"
	case TransportDNS:
		return "dns_failure"
	case TransportInternal:
		return "internal_error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes serialize
// kinds as their wire labels.
func (k TransportKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOfError maps a transport-level error to its TransportKind. It is
// the single place error classification happens; probers never surface
// raw errors past their boundary.
func KindOfError(err error) TransportKind {
	if err == nil {
		return TransportNone
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return TransportTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return TransportDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return TransportRefused
	}
	if errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return TransportUnreachable
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return TransportTLS
	}

	// Wrapped errors from foreign TLS stacks don't expose typed values,
	// fall back to message matching as a last resort.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "tls:"), strings.Contains(msg, "handshake"):
		return TransportTLS
	case strings.Contains(msg, "connection refused"):
		return TransportRefused
	case strings.Contains(msg, "no route to host"), strings.Contains(msg, "unreachable"):
		return TransportUnreachable
	}
	return TransportInternal
}
