// Command probekit runs a probe-and-classify scan against a single
// target and renders the resulting report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/probekit/probekit/pkg/config"
	"github.com/probekit/probekit/pkg/dispatch"
	"github.com/probekit/probekit/pkg/engine"
	"github.com/probekit/probekit/pkg/probe"
	"github.com/probekit/probekit/pkg/report"
)

// Exit codes. Setup failures are distinguished from runs that completed
// but were cut short.
const (
	exitOK        = 0
	exitSetupErr  = 1
	exitTruncated = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.ParseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
		return exitSetupErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := engine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
		return exitSetupErr
	}
	if cfg.Verbose {
		eng.OnProgress = func(s *dispatch.Stats, o probe.Outcome) {
			fmt.Fprintf(os.Stderr, "[%5.1f%%] %s %s (%.1f probes/s)\n",
				s.Progress(), o.CandidateID, o.Transport, s.RPS())
		}
	}

	// Run errors are all setup-time: bad target, bad config, or an
	// empty candidate set. Transport failures never surface here.
	result, err := eng.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
		return exitSetupErr
	}

	var out io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
			return exitSetupErr
		}
		defer f.Close()
		out = f
	}

	rep, err := report.New(cfg.OutputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
		return exitSetupErr
	}
	if c, ok := rep.(*report.Console); ok {
		c.NoColor = cfg.NoColor
	}
	if err := rep.Write(out, result); err != nil {
		fmt.Fprintf(os.Stderr, "probekit: %v\n", err)
		return exitSetupErr
	}

	if result.Truncated {
		return exitTruncated
	}
	return exitOK
}
