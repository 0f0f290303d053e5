package prober

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/probekit/probekit/pkg/probe"
)

func targetFor(t *testing.T, srv *httptest.Server) probe.Target {
	t.Helper()
	tgt, err := probe.ParseTarget(srv.URL)
	if err != nil {
		t.Fatalf("ParseTarget(%q): %v", srv.URL, err)
	}
	return tgt
}

func TestHTTPProbeCapturesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/backup/db.sql" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/sql")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("-- MySQL dump"))
	}))
	defer srv.Close()

	p := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: time.Second})
	o := p.Probe(context.Background(), probe.Candidate{
		ID:     "path-000",
		Kind:   probe.KindPath,
		Method: http.MethodGet,
		Path:   "/backup/db.sql",
	})

	if o.Failed() {
		t.Fatalf("probe failed: %s (%s)", o.Transport, o.Detail)
	}
	if o.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", o.StatusCode)
	}
	if got := o.Header("content-type"); got != "application/sql" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(o.BodySample) != "-- MySQL dump" {
		t.Errorf("BodySample = %q", o.BodySample)
	}
	if o.Elapsed <= 0 {
		t.Error("Elapsed not recorded")
	}
}

func TestHTTPProbeBoundsBodySample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("A", 10_000)))
	}))
	defer srv.Close()

	p := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: time.Second, BodySampleCap: 256})
	o := p.Probe(context.Background(), probe.Candidate{ID: "path-000", Kind: probe.KindPath, Path: "/"})

	if len(o.BodySample) != 256 {
		t.Errorf("BodySample length = %d, want the 256 cap", len(o.BodySample))
	}
}

func TestHTTPProbeSetsHeaders(t *testing.T) {
	var gotUA, gotXFF string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotXFF = r.Header.Get("X-Forwarded-For")
	}))
	defer srv.Close()

	p := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: time.Second, UserAgent: "probekit-test"})
	p.Probe(context.Background(), probe.Candidate{
		ID:          "header-000",
		Kind:        probe.KindHeader,
		Path:        "/admin",
		Header:      "X-Forwarded-For",
		HeaderValue: "127.0.0.1",
	})

	if gotUA != "probekit-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotXFF != "127.0.0.1" {
		t.Errorf("X-Forwarded-For = %q", gotXFF)
	}
}

func TestHTTPProbeRedirectPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	stay := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: time.Second})
	o := stay.Probe(context.Background(), probe.Candidate{ID: "p", Kind: probe.KindPath, Path: "/old"})
	if o.StatusCode != http.StatusFound {
		t.Errorf("without redirects StatusCode = %d, want 302", o.StatusCode)
	}

	follow := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: time.Second, FollowRedirects: true})
	o = follow.Probe(context.Background(), probe.Candidate{ID: "p", Kind: probe.KindPath, Path: "/old"})
	if o.StatusCode != http.StatusOK {
		t.Errorf("with redirects StatusCode = %d, want 200", o.StatusCode)
	}
}

func TestHTTPProbeRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	tgt := targetFor(t, srv)
	srv.Close() // port is now closed

	p := NewHTTP(tgt, HTTPConfig{Timeout: time.Second})
	o := p.Probe(context.Background(), probe.Candidate{ID: "path-000", Kind: probe.KindPath, Path: "/"})

	if !o.Failed() {
		t.Fatal("probe against a closed port succeeded")
	}
	if o.Transport != probe.TransportRefused {
		t.Errorf("Transport = %v, want TransportRefused", o.Transport)
	}
}

func TestHTTPProbeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	p := NewHTTP(targetFor(t, srv), HTTPConfig{Timeout: 50 * time.Millisecond})
	o := p.Probe(context.Background(), probe.Candidate{ID: "path-000", Kind: probe.KindPath, Path: "/"})

	if o.Transport != probe.TransportTimeout {
		t.Errorf("Transport = %v, want TransportTimeout", o.Transport)
	}
}
