package report

import (
	"io"

	"github.com/probekit/probekit/pkg/aggregate"
	"github.com/probekit/probekit/pkg/jsonutil"
)

// JSON writes the report as indented JSON, one document per run.
type JSON struct{}

func (j *JSON) Write(w io.Writer, r aggregate.ScanReport) error {
	data, err := jsonutil.MarshalIndent(r, "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
