package prober

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/probekit/probekit/pkg/probe"
)

func TestTCPProbeOpenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	tgt := probe.Target{Host: "127.0.0.1", Scheme: probe.SchemeTCP}
	p := NewTCP(tgt, time.Second)
	o := p.Probe(context.Background(), probe.Candidate{ID: "port-000", Kind: probe.KindPort, Port: port})

	if o.Failed() {
		t.Fatalf("open port reported %s (%s)", o.Transport, o.Detail)
	}
	if !o.Succeeded || o.StatusCode != 0 {
		t.Errorf("outcome = %+v", o)
	}
}

func TestTCPProbeClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	tgt := probe.Target{Host: "127.0.0.1", Scheme: probe.SchemeTCP}
	p := NewTCP(tgt, time.Second)
	o := p.Probe(context.Background(), probe.Candidate{ID: "port-000", Kind: probe.KindPort, Port: port})

	if !o.Failed() {
		t.Fatal("closed port reported success")
	}
	if o.Transport != probe.TransportRefused {
		t.Errorf("Transport = %v, want TransportRefused", o.Transport)
	}
}
