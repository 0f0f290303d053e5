// Package report renders a finished ScanReport for humans and machines:
// styled console output, indented JSON, and a standalone HTML page.
package report

import (
	"fmt"
	"io"

	"github.com/probekit/probekit/pkg/aggregate"
)

// Reporter renders one ScanReport to a writer.
type Reporter interface {
	Write(w io.Writer, r aggregate.ScanReport) error
}

// New returns the reporter for a format name: "console", "json" or
// "html".
func New(format string) (Reporter, error) {
	switch format {
	case "console", "":
		return &Console{}, nil
	case "json":
		return &JSON{}, nil
	case "html":
		return &HTML{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
