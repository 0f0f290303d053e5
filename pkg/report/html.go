package report

import (
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"

	"github.com/probekit/probekit/pkg/aggregate"
)

// HTML renders a self-contained single-page report.
type HTML struct{}

var htmlTemplate = template.Must(
	template.New("report").Funcs(sprig.FuncMap()).Parse(htmlPage))

func (h *HTML) Write(w io.Writer, r aggregate.ScanReport) error {
	return htmlTemplate.Execute(w, r)
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>probekit report {{ .RunID }}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2937; }
  h1 { border-bottom: 2px solid #7d56f4; padding-bottom: .3rem; }
  table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
  th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #e5e7eb; }
  th { background: #f3f4f6; }
  .sev { font-weight: 600; text-transform: uppercase; font-size: .8rem; }
  .sev-critical { color: #dc2626; }
  .sev-high { color: #ea580c; }
  .sev-medium { color: #ca8a04; }
  .sev-low { color: #16a34a; }
  .muted { color: #6b7280; }
  .warn { color: #dc2626; }
</style>
</head>
<body>
<h1>probekit scan report</h1>
<p class="muted">Run {{ .RunID }} &middot; {{ .StartTime.Format "2006-01-02 15:04:05 MST" }}</p>

<table>
  <tr><th>Target</th><td>{{ .Target.BaseURL }}</td></tr>
  {{- if .Mode }}
  <tr><th>Mode</th><td>{{ .Mode }}</td></tr>
  {{- end }}
  <tr><th>Duration</th><td>{{ .Duration }}</td></tr>
  <tr><th>Candidates</th><td>{{ .CandidatesTotal }}{{ if gt .GenerationTruncated 0 }} <span class="muted">({{ .GenerationTruncated }} over cap, dropped)</span>{{ end }}</td></tr>
  <tr><th>Outcomes</th><td>{{ .Outcomes }} ({{ .TransportErrors }} transport errors)</td></tr>
  {{- if .Truncated }}
  <tr><th>Cancelled</th><td class="warn">{{ .NotDispatched }} candidates never dispatched</td></tr>
  {{- end }}
  <tr><th>Risk score</th><td>{{ printf "%.2f" .Summary.RiskScore }} / 4.00</td></tr>
</table>

<h2>Findings ({{ len .Findings }})</h2>
{{- if .Findings }}
<table>
  <tr><th>Severity</th><th>Category</th><th>Candidate</th><th>Evidence</th></tr>
  {{- range .Findings }}
  <tr>
    <td class="sev sev-{{ .Severity }}">{{ .Severity }}</td>
    <td>{{ .Category }}</td>
    <td>{{ .CandidateID }}</td>
    <td>{{ .Evidence | trunc 200 }}</td>
  </tr>
  {{- end }}
</table>
{{- else }}
<p>No findings.</p>
{{- end }}

<h2>Severity breakdown</h2>
<table>
  <tr><th>Critical</th><th>High</th><th>Medium</th><th>Low</th></tr>
  <tr>
    <td>{{ .Summary.Critical }}</td>
    <td>{{ .Summary.High }}</td>
    <td>{{ .Summary.Medium }}</td>
    <td>{{ .Summary.Low }}</td>
  </tr>
</table>
</body>
</html>
`
