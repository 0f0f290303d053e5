// Package probe defines the data model shared by the whole engine: the
// scan target, the immutable probe candidates produced by generators, the
// outcomes produced by probers, and the transport-error taxonomy.
package probe

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Scheme selects the transport a target is probed over.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
	SchemeTCP   Scheme = "tcp"
)

// IsValid reports whether s is a recognized scheme.
func (s Scheme) IsValid() bool {
	switch s {
	case SchemeHTTP, SchemeHTTPS, SchemeTCP:
		return true
	}
	return false
}

// Target describes what a scan run probes. It is immutable for the
// duration of a run.
type Target struct {
	Host   string `json:"host"`
	Scheme Scheme `json:"scheme"`

	// Port overrides the scheme default. Zero means the default.
	Port     int    `json:"port,omitempty"`
	BasePath string `json:"base_path,omitempty"`
}

// ParseTarget parses a raw target string such as "example.com",
// "https://example.com/app" or "tcp://10.0.0.1" into a Target.
// The host is normalized to its ASCII (punycode) form. An empty or
// malformed target returns ErrInvalidTarget.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty target", ErrInvalidTarget)
	}

	// Bare hosts default to HTTPS, matching scanner convention.
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	scheme := Scheme(strings.ToLower(u.Scheme))
	if !scheme.IsValid() {
		return Target{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidTarget, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}
	host, err = normalizeHost(host)
	if err != nil {
		return Target{}, err
	}

	var port int
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("%w: bad port %q", ErrInvalidTarget, p)
		}
	}

	return Target{
		Host:     host,
		Scheme:   scheme,
		Port:     port,
		BasePath: strings.TrimSuffix(u.Path, "/"),
	}, nil
}

// Validate checks a hand-built Target the same way ParseTarget does.
func (t Target) Validate() error {
	if strings.TrimSpace(t.Host) == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidTarget)
	}
	if !t.Scheme.IsValid() {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidTarget, t.Scheme)
	}
	_, err := normalizeHost(t.Host)
	return err
}

// BaseURL returns the URL prefix candidates of kind path are resolved
// against. Only meaningful for HTTP(S) targets.
func (t Target) BaseURL() string {
	hostport := t.Host
	if t.Port != 0 {
		hostport = net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
	}
	return string(t.Scheme) + "://" + hostport + t.BasePath
}

// normalizeHost lowercases and punycode-encodes a hostname. IP literals
// pass through unchanged.
func normalizeHost(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("%w: host %q: %v", ErrInvalidTarget, host, err)
	}
	return ascii, nil
}
