package generate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/probekit/probekit/pkg/probe"
)

// serviceNames labels well-known ports in findings and reports.
var serviceNames = map[int]string{
	21: "FTP", 22: "SSH", 23: "Telnet", 25: "SMTP", 53: "DNS",
	80: "HTTP", 110: "POP3", 143: "IMAP", 443: "HTTPS", 993: "IMAPS",
	995: "POP3S", 3306: "MySQL", 3389: "RDP", 5432: "PostgreSQL",
	6379: "Redis", 8080: "HTTP-Alt", 8443: "HTTPS-Alt",
	9200: "Elasticsearch", 27017: "MongoDB",
}

// ServiceName returns the common service label for a port, or "unknown".
func ServiceName(port int) string {
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "unknown"
}

// commonPorts is the default sweep when no port spec is given.
var commonPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 143, 443, 993, 995,
	3306, 3389, 5432, 6379, 8080, 8443, 9200, 27017,
}

// PortSource generates TCP connect candidates from a port spec string:
// a range ("1-1024"), a list ("80,443,8080"), or empty for the common
// port set.
type PortSource struct {
	Spec string
}

func (s PortSource) Name() string { return "ports" }

func (s PortSource) Candidates(t probe.Target) []probe.Candidate {
	ports, err := parsePortSpec(s.Spec)
	if err != nil {
		return nil
	}
	out := make([]probe.Candidate, 0, len(ports))
	for _, p := range ports {
		out = append(out, probe.Candidate{
			Kind:    probe.KindPort,
			Port:    p,
			Service: ServiceName(p),
			Label:   fmt.Sprintf("tcp-%d", p),
		})
	}
	return out
}

// ValidatePortSpec reports whether spec parses. Config validation uses
// it so a bad -p value fails at setup, before any candidate is built.
func ValidatePortSpec(spec string) error {
	_, err := parsePortSpec(spec)
	return err
}

// parsePortSpec expands a port spec into a sorted, in-range port list.
func parsePortSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		out := make([]int, len(commonPorts))
		copy(out, commonPorts)
		return out, nil
	}

	var ports []int
	if strings.Contains(spec, "-") && !strings.Contains(spec, ",") {
		parts := strings.SplitN(spec, "-", 2)
		lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil || lo < 1 || hi > 65535 || lo > hi {
			return nil, fmt.Errorf("bad port range %q", spec)
		}
		for p := lo; p <= hi; p++ {
			ports = append(ports, p)
		}
		return ports, nil
	}

	for _, field := range strings.Split(spec, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("bad port %q", field)
		}
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports, nil
}
