package engine

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/probekit/probekit/pkg/config"
	"github.com/probekit/probekit/pkg/probe"
)

func testConfig(target, mode string) *config.Config {
	cfg := config.Default()
	cfg.Target = target
	cfg.Mode = mode
	cfg.Concurrency = 5
	cfg.PerProbeTimeout = time.Second
	return cfg
}

func TestRunBackupScanAgainstLiveServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/backup/db.sql" {
			w.Header().Set("Content-Type", "application/sql")
			w.Write([]byte("-- MySQL dump 10.13\nCREATE TABLE users;\nINSERT INTO users VALUES (1);"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	eng, err := New(testConfig(srv.URL, "backup"))
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	// The backup tables exceed the cap; the run works the stable prefix.
	require.Equal(t, 100, report.CandidatesTotal)
	require.Greater(t, report.GenerationTruncated, 0)
	require.Equal(t, 100, report.Outcomes)
	require.False(t, report.Truncated)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, "backup", report.Mode)

	var hit bool
	for _, f := range report.Findings {
		if f.Category == "backup-exposure" {
			hit = true
		}
	}
	require.True(t, hit, "exposed dump not reported: %+v", report.Findings)
	require.Greater(t, report.Summary.RiskScore, 0.0)
}

func TestRunPortScan(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	openPort := ln.Addr().(*net.TCPAddr).Port

	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closedLn.Addr().(*net.TCPAddr).Port
	closedLn.Close()

	cfg := testConfig("tcp://127.0.0.1", "ports")
	cfg.Ports = strconv.Itoa(openPort) + "," + strconv.Itoa(closedPort)

	eng, err := New(cfg)
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.CandidatesTotal)
	require.Equal(t, 1, report.TransportErrors)

	require.Len(t, report.Findings, 1)
	require.Equal(t, "open-port", report.Findings[0].Category)
}

func TestRunSQLInjectionScan(t *testing.T) {
	// Echoes a driver error whenever a quoted payload reaches a parameter.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		for _, values := range r.Form {
			for _, v := range values {
				if strings.Contains(v, "'") {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("You have an error in your SQL syntax near '" + v + "'"))
					return
				}
			}
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	eng, err := New(testConfig(srv.URL, "sqli"))
	require.NoError(t, err)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sqli", report.Mode)

	var hit bool
	for _, f := range report.Findings {
		if f.Category == "sql-injection" {
			hit = true
		}
	}
	require.True(t, hit, "echoed SQL error not reported: %+v", report.Findings)
}

func TestRunInvalidTargetFailsSetup(t *testing.T) {
	eng, err := New(testConfig("ftp://example.com", "ports"))
	require.NoError(t, err)

	_, err = eng.Run(context.Background())
	require.ErrorIs(t, err, probe.ErrInvalidTarget)
}

func TestRunCancelledStillReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, "oauth")
	cfg.Concurrency = 1

	eng, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, err := eng.Run(ctx)
	require.NoError(t, err, "a cancelled run must still produce a report")
	require.True(t, report.Truncated)
	require.Greater(t, report.NotDispatched, 0)
	require.Equal(t, report.CandidatesTotal, report.Outcomes+report.NotDispatched)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("example.com", "ports")
	cfg.Concurrency = 0
	_, err := New(cfg)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSmuggleProberRoutesByKind(t *testing.T) {
	cfg := testConfig("http://example.com", "smuggle")
	eng, err := New(cfg)
	require.NoError(t, err)

	p := eng.proberFor(probe.Target{Host: "example.com", Scheme: probe.SchemeHTTP})
	mux, ok := p.(*kindMux)
	require.True(t, ok, "smuggle mode prober is %T", p)
	require.Contains(t, mux.byKind, probe.KindRaw)
	require.NotNil(t, mux.fallback)
}
