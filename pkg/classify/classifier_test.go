package classify

import (
	"reflect"
	"testing"
	"time"

	"github.com/probekit/probekit/pkg/finding"
	"github.com/probekit/probekit/pkg/probe"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := New(DefaultRules()...).WithClock(fixedClock())
	o := probe.Outcome{
		CandidateID: "port-000",
		Kind:        probe.KindPort,
		Succeeded:   true,
	}

	first := c.Classify(o, "tcp-22")
	second := c.Classify(o, "tcp-22")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same outcome classified differently:\n%+v\n%+v", first, second)
	}
	if len(first) != 1 {
		t.Fatalf("got %d findings, want 1", len(first))
	}
	if first[0].Category != "open-port" || first[0].Severity != finding.Low {
		t.Errorf("finding = %+v", first[0])
	}
}

func TestClassifyBelowThresholdEmitsNothing(t *testing.T) {
	c := New(BackupExposureRule()).WithClock(fixedClock())

	// A bare 200 with a small HTML body matches only one weight-1
	// indicator; ambiguity favors no finding.
	o := probe.Outcome{
		CandidateID: "path-004",
		Kind:        probe.KindPath,
		Succeeded:   true,
		StatusCode:  200,
		Headers:     map[string]string{"Content-Type": "text/html"},
		BodySample:  []byte("<html>ok</html>"),
	}
	if got := c.Classify(o, "backup-sql"); len(got) != 0 {
		t.Errorf("ambiguous outcome produced findings: %+v", got)
	}
}

func TestClassifyBackupExposure(t *testing.T) {
	c := New(BackupExposureRule()).WithClock(fixedClock())
	o := probe.Outcome{
		CandidateID: "path-010",
		Kind:        probe.KindPath,
		Succeeded:   true,
		StatusCode:  200,
		Headers:     map[string]string{"Content-Type": "application/sql", "Content-Length": "524288"},
		BodySample:  []byte("-- MySQL dump 10.13\nCREATE TABLE users (...);\nINSERT INTO users VALUES"),
	}

	got := c.Classify(o, "backup-sql")
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	f := got[0]
	if f.Category != "backup-exposure" || f.Severity != finding.High {
		t.Errorf("finding = %+v", f)
	}
	if f.CandidateID != "path-010" {
		t.Errorf("CandidateID = %q", f.CandidateID)
	}
	if f.Evidence == "" {
		t.Error("evidence empty")
	}
}

func TestClassifyKindScoping(t *testing.T) {
	c := New(BackupExposureRule()).WithClock(fixedClock())

	// A raw outcome can look dump-like; the backup rule must not fire
	// on a kind it was never written for.
	o := probe.Outcome{
		CandidateID: "raw-000",
		Kind:        probe.KindRaw,
		Succeeded:   true,
		StatusCode:  200,
		BodySample:  []byte("CREATE TABLE INSERT INTO"),
	}
	if got := c.Classify(o, "backup-sql"); len(got) != 0 {
		t.Errorf("rule fired outside its kind: %+v", got)
	}
}

func TestClassifyLabelScoping(t *testing.T) {
	c := New(DesyncTimingRule()).WithClock(fixedClock())
	o := probe.Outcome{
		CandidateID: "raw-002",
		Kind:        probe.KindRaw,
		Transport:   probe.TransportTimeout,
		Elapsed:     5 * time.Second,
	}

	if got := c.Classify(o, "CL.TE"); len(got) != 1 {
		t.Errorf("timing rule missed a scoped label: %+v", got)
	}
	// CL.CL is not a timing technique; its timeout means nothing.
	if got := c.Classify(o, "CL.CL"); len(got) != 0 {
		t.Errorf("timing rule fired on unscoped label: %+v", got)
	}
}

func TestClassifyDesyncResponse(t *testing.T) {
	c := New(DesyncResponseRule()).WithClock(fixedClock())
	o := probe.Outcome{
		CandidateID: "raw-001",
		Kind:        probe.KindRaw,
		Succeeded:   true,
		BodySample: []byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n" +
			"HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n"),
	}

	got := c.Classify(o, "TE.CL")
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Severity != finding.Critical || got[0].Category != "request-smuggling" {
		t.Errorf("finding = %+v", got[0])
	}
}

func TestClassifyOAuthNeedsThreeSignals(t *testing.T) {
	c := New(OAuthExposureRule()).WithClock(fixedClock())

	weak := probe.Outcome{
		CandidateID: "path-000",
		Kind:        probe.KindPath,
		Succeeded:   true,
		StatusCode:  200,
		BodySample:  []byte("welcome to oauth land"),
	}
	if got := c.Classify(weak, "oauth"); len(got) != 0 {
		t.Errorf("two signals were enough: %+v", got)
	}

	strong := weak
	strong.BodySample = []byte(`{"issuer":"https://idp.example.com","authorization_endpoint":"https://idp.example.com/authorize","token_endpoint":"https://idp.example.com/token"}`)
	got := c.Classify(strong, "oauth")
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Severity != finding.Medium {
		t.Errorf("severity = %v", got[0].Severity)
	}
}

func TestClassifySQLErrorEcho(t *testing.T) {
	c := New(SQLErrorRule()).WithClock(fixedClock())

	// The echoed driver error alone is decisive, status irrelevant.
	o := probe.Outcome{
		CandidateID: "path-021",
		Kind:        probe.KindPath,
		Succeeded:   true,
		StatusCode:  200,
		BodySample:  []byte("You have an error in your SQL syntax near ''1'='1'"),
	}
	got := c.Classify(o, "sqli")
	if len(got) != 1 {
		t.Fatalf("got %d findings, want 1", len(got))
	}
	if got[0].Category != "sql-injection" || got[0].Severity != finding.Critical {
		t.Errorf("finding = %+v", got[0])
	}

	// A plain 500 without database text stays below threshold.
	plain := probe.Outcome{
		CandidateID: "path-022",
		Kind:        probe.KindPath,
		Succeeded:   true,
		StatusCode:  500,
		BodySample:  []byte("internal server error"),
	}
	if got := c.Classify(plain, "sqli"); len(got) != 0 {
		t.Errorf("bare 500 produced findings: %+v", got)
	}

	// Backup candidates share the kind; the label keeps them apart.
	if got := c.Classify(o, "backup-sql"); len(got) != 0 {
		t.Errorf("rule fired outside its label: %+v", got)
	}
}

func TestClassifyMultipleRulesIndependent(t *testing.T) {
	c := New(DesyncResponseRule(), DesyncTimingRule()).WithClock(fixedClock())

	// A stalled CL.TE probe whose partial bytes also show two statuses
	// trips both raw rules with distinct categories.
	o := probe.Outcome{
		CandidateID: "raw-000",
		Kind:        probe.KindRaw,
		Transport:   probe.TransportTimeout,
		Elapsed:     4 * time.Second,
		BodySample:  []byte("HTTP/1.1 200 OK\r\n\r\nHTTP/1.1 400 Bad Request\r\n\r\n"),
	}

	got := c.Classify(o, "CL.TE")
	if len(got) != 2 {
		t.Fatalf("got %d findings, want 2", len(got))
	}
	cats := map[string]bool{}
	for _, f := range got {
		cats[f.Category] = true
	}
	if !cats["request-smuggling"] || !cats["request-smuggling-timing"] {
		t.Errorf("categories = %v", cats)
	}
}

func TestRegisterAddsCustomRule(t *testing.T) {
	c := New().WithClock(fixedClock())
	c.Register(Rule{
		Name:     "always",
		Category: "custom",
		Severity: finding.Low,
		Indicators: []Indicator{
			{Name: "anything", Weight: 2, Match: func(probe.Outcome) bool { return true }},
		},
	})

	got := c.Classify(probe.Outcome{CandidateID: "x"}, "")
	if len(got) != 1 || got[0].Category != "custom" {
		t.Errorf("custom rule did not fire: %+v", got)
	}
}
