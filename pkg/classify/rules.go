package classify

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/probekit/probekit/pkg/duration"
	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

// DefaultRules returns the built-in heuristics for the shipped
// candidate sources. All of them are heuristic by design: they flag
// likely exposure, they do not prove exploitability.
func DefaultRules() []Rule {
	return []Rule{
		OpenPortRule(),
		BackupExposureRule(),
		OAuthExposureRule(),
		SQLErrorRule(),
		DesyncResponseRule(),
		DesyncTimingRule(),
		ForwardedHeaderRule(),
	}
}

// sqlErrorIndicators are database error fragments that surface when an
// injected quote breaks a query.
var sqlErrorIndicators = []string{
	"mysql_fetch_array",
	"ORA-01756",
	"Microsoft OLE DB Provider",
	"SQLServer JDBC Driver",
	"PostgreSQL query failed",
	"Warning: mysql_",
	"valid MySQL result",
	"MySqlClient.",
	"SQL syntax",
	"mysql_num_rows",
}

// SQLErrorRule flags responses that echo a database error after an
// injection payload. The error text alone meets the threshold; a 500
// without it does not.
func SQLErrorRule() Rule {
	return Rule{
		Name:     "sql-error",
		Category: "sql-injection",
		Severity: finding.Critical,
		Kinds:    []probe.Kind{probe.KindPath},
		Labels:   []string{"sqli"},
		Indicators: []Indicator{
			{Name: "database error text", Weight: 2, Match: bodyContainsAny(sqlErrorIndicators...)},
			{Name: "server error status", Weight: 1, Match: statusIs(500)},
		},
	}
}

// OpenPortRule flags a completed TCP connect. The open port itself is
// the finding.
func OpenPortRule() Rule {
	return Rule{
		Name:     "open-port",
		Category: "open-port",
		Severity: finding.Low,
		Kinds:    []probe.Kind{probe.KindPort},
		Indicators: []Indicator{
			{Name: "connect succeeded", Weight: 2, Match: func(o probe.Outcome) bool {
				return o.Succeeded
			}},
		},
	}
}

// BackupExposureRule flags reachable backup artifacts. A 200 alone is
// not enough; the response must also look like a dump (content type,
// size, or SQL text).
func BackupExposureRule() Rule {
	return Rule{
		Name:     "backup-exposure",
		Category: "backup-exposure",
		Severity: finding.High,
		Kinds:    []probe.Kind{probe.KindPath},
		Labels:   []string{"backup-"},
		Indicators: []Indicator{
			{Name: "status 200", Weight: 1, Match: statusIs(200)},
			{Name: "archive content type", Weight: 1, Match: func(o probe.Outcome) bool {
				ct := strings.ToLower(o.Header("Content-Type"))
				for _, ind := range []string{"sql", "octet-stream", "zip", "x-rar", "x-7z", "x-tar", "gzip"} {
					if strings.Contains(ct, ind) {
						return true
					}
				}
				return false
			}},
			{Name: "large body", Weight: 1, Match: func(o probe.Outcome) bool {
				if n, err := strconv.ParseInt(o.Header("Content-Length"), 10, 64); err == nil {
					return n > 1024
				}
				return len(o.BodySample) > 1024
			}},
			{Name: "sql dump text", Weight: 2, Match: bodyContainsAny("INSERT INTO", "CREATE TABLE", "-- MySQL dump", "PGDMP")},
		},
	}
}

// OAuthExposureRule flags discoverable OAuth/OIDC configuration.
func OAuthExposureRule() Rule {
	return Rule{
		Name:     "oauth-exposure",
		Category: "oauth-exposure",
		Severity: finding.Medium,
		Kinds:    []probe.Kind{probe.KindPath},
		Labels:   []string{"oauth"},
		Indicators: []Indicator{
			{Name: "status 200", Weight: 1, Match: statusIs(200)},
			{Name: "authorization endpoint", Weight: 1, Match: bodyContainsAny("authorization_endpoint")},
			{Name: "token endpoint", Weight: 1, Match: bodyContainsAny("token_endpoint")},
			{Name: "issuer", Weight: 1, Match: bodyContainsAny("\"issuer\"")},
			{Name: "oauth keywords", Weight: 1, Match: bodyContainsAny("oauth", "openid")},
		},
		// One keyword plus a 200 is ambiguous; require a third signal.
		Threshold: 3,
	}
}

// DesyncResponseRule flags raw-socket responses that look like two
// upstream responses to one request.
func DesyncResponseRule() Rule {
	return Rule{
		Name:     "desync-response",
		Category: "request-smuggling",
		Severity: finding.Critical,
		Kinds:    []probe.Kind{probe.KindRaw},
		Indicators: []Indicator{
			{Name: "multiple responses", Weight: 2, Match: func(o probe.Outcome) bool {
				return bytes.Count(o.BodySample, []byte("HTTP/1.")) > 1
			}},
			{Name: "parse rejection", Weight: 1, Match: bodyContainsAny("400 Bad Request", "Malformed", "Invalid request")},
		},
	}
}

// DesyncTimingRule flags raw probes where the back end stalled waiting
// for framing that never came. Grounded on timing-based CL.TE/TE.CL
// detection: the probe deliberately under-delivers its declared body.
func DesyncTimingRule() Rule {
	return Rule{
		Name:     "desync-timing",
		Category: "request-smuggling-timing",
		Severity: finding.High,
		Kinds:    []probe.Kind{probe.KindRaw},
		Labels:   []string{"CL.TE", "TE.CL", "TE.TE"},
		Indicators: []Indicator{
			{Name: "read timeout", Weight: 1, Match: func(o probe.Outcome) bool {
				return o.Transport == probe.TransportTimeout
			}},
			{Name: "stalled past threshold", Weight: 1, Match: func(o probe.Outcome) bool {
				return o.Elapsed >= duration.TimingDelta
			}},
		},
	}
}

// ForwardedHeaderRule flags endpoints that change their answer when
// client-controlled forwarding headers claim a loopback origin.
func ForwardedHeaderRule() Rule {
	return Rule{
		Name:     "forwarded-header",
		Category: "forwarded-header-trust",
		Severity: finding.High,
		Kinds:    []probe.Kind{probe.KindHeader},
		Indicators: []Indicator{
			{Name: "status 200", Weight: 1, Match: statusIs(200)},
			{Name: "privileged content", Weight: 1, Match: bodyContainsAny("admin", "dashboard", "configuration")},
			{Name: "no denial", Weight: 1, Match: func(o probe.Outcome) bool {
				body := strings.ToLower(string(o.BodySample))
				for _, deny := range []string{"unauthorized", "forbidden", "login", "sign in"} {
					if strings.Contains(body, deny) {
						return false
					}
				}
				return len(o.BodySample) > 0
			}},
		},
		Threshold: 3,
	}
}

func statusIs(code int) func(probe.Outcome) bool {
	return func(o probe.Outcome) bool { return o.StatusCode == code }
}

func bodyContainsAny(needles ...string) func(probe.Outcome) bool {
	return func(o probe.Outcome) bool {
		body := strings.ToLower(string(o.BodySample))
		for _, n := range needles {
			if strings.Contains(body, strings.ToLower(n)) {
				return true
			}
		}
		return false
	}
}
