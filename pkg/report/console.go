package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/probekit/probekit/pkg/aggregate"
)

// Console renders a human-readable summary with lipgloss styling.
// Colors are dropped when the output is not a terminal or NoColor is
// set.
type Console struct {
	NoColor bool
}

const timePrecision = 10 * time.Millisecond

func (c *Console) Write(w io.Writer, r aggregate.ScanReport) error {
	if c.NoColor || !isTerminal(w) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	fmt.Fprintln(w, titleStyle.Render("probekit scan report"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Target:"), r.Target.BaseURL())
	if r.Mode != "" {
		fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Mode:"), r.Mode)
	}
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Run:"), r.RunID)
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Duration:"), r.Duration.Round(timePrecision))
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Probes"))
	fmt.Fprintf(w, "  Candidates: %d", r.CandidatesTotal)
	if r.GenerationTruncated > 0 {
		fmt.Fprintf(w, "  (%d over cap, dropped)", r.GenerationTruncated)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Completed:  %s", okStyle.Render(fmt.Sprintf("%d", r.Outcomes)))
	if r.TransportErrors > 0 {
		fmt.Fprintf(w, "  Errors: %s", failStyle.Render(fmt.Sprintf("%d", r.TransportErrors)))
	}
	fmt.Fprintln(w)
	if r.Truncated {
		fmt.Fprintf(w, "  %s %d candidates were never dispatched\n",
			failStyle.Render("Run cancelled:"), r.NotDispatched)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Findings"))
	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "  %s\n", okStyle.Render("none"))
	}
	for _, f := range r.Findings {
		style, ok := severityStyles[f.Severity.String()]
		if !ok {
			style = mutedStyle
		}
		fmt.Fprintf(w, "  [%s] %s  %s\n",
			style.Render(f.Severity.String()), f.Category, mutedStyle.Render(f.CandidateID))
		if f.Evidence != "" {
			fmt.Fprintf(w, "        %s\n", f.Evidence)
		}
	}
	fmt.Fprintln(w)

	s := r.Summary
	fmt.Fprintln(w, sectionStyle.Render("Summary"))
	fmt.Fprintf(w, "  critical=%d high=%d medium=%d low=%d\n", s.Critical, s.High, s.Medium, s.Low)
	fmt.Fprintf(w, "  Risk score: %.2f / 4.00\n", s.RiskScore)
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
