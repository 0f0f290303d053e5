// Package hosterrors tracks hosts that keep failing at the transport
// level so a run stops burning its timeout budget on a dead host.
// Inspired by projectdiscovery/httpx and projectdiscovery/nuclei.
//
// Unlike a process-global cache, each scan run owns its own Cache; no
// state leaks between runs.
package hosterrors

import (
	"sync"
	"sync/atomic"

	"github.com/probekit/probekit/pkg/defaults"
	"github.com/probekit/probekit/pkg/probe"
)

// Cache counts consecutive transport failures per host. Once a host
// reaches the threshold, Check reports it as dead and remaining probes
// against it are skipped without touching the network.
type Cache struct {
	maxErrors int32

	mu     sync.Mutex
	counts map[string]int32

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache tripping after maxErrors consecutive
// failures. Non-positive maxErrors uses defaults.MaxHostErrors.
func NewCache(maxErrors int) *Cache {
	if maxErrors <= 0 {
		maxErrors = defaults.MaxHostErrors
	}
	return &Cache{
		maxErrors: int32(maxErrors),
		counts:    make(map[string]int32),
	}
}

// Check reports whether host has exceeded the failure threshold.
func (c *Cache) Check(host string) bool {
	c.mu.Lock()
	n := c.counts[host]
	c.mu.Unlock()
	if n >= c.maxErrors {
		c.hits.Add(1)
		return true
	}
	c.misses.Add(1)
	return false
}

// MarkOutcome records an outcome for host. Connectivity-style failures
// increment the counter; any successful contact resets it. Returns true
// once the host trips the threshold.
func (c *Cache) MarkOutcome(host string, o probe.Outcome) bool {
	switch o.Transport {
	case probe.TransportRefused, probe.TransportUnreachable, probe.TransportDNS, probe.TransportTimeout:
		c.mu.Lock()
		c.counts[host]++
		n := c.counts[host]
		c.mu.Unlock()
		return n >= c.maxErrors
	default:
		c.mu.Lock()
		delete(c.counts, host)
		c.mu.Unlock()
		return false
	}
}

// Stats returns the skip-hit and miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
