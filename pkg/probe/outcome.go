package probe

import (
	"net/textproto"
	"time"
)

// Outcome is the raw result of executing one probe. Exactly one outcome
// is produced per candidate; it is immutable once returned by a prober.
//
// A transport failure is a valid outcome, not an error: Succeeded is
// false and Transport records the failure kind. BodySample is always
// bounded by the configured cap regardless of actual response size.
type Outcome struct {
	CandidateID string            `json:"candidate_id"`
	Kind        Kind              `json:"kind"`
	Succeeded   bool              `json:"succeeded"`
	StatusCode  int               `json:"status_code,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	BodySample  []byte            `json:"body_sample,omitempty"`
	Elapsed     time.Duration     `json:"elapsed"`
	Transport   TransportKind     `json:"transport_error,omitempty"`

	// Detail keeps the original error text for evidence rendering.
	Detail string `json:"detail,omitempty"`
}

// Failure builds the outcome for a failed probe, classifying err into a
// transport kind. Probers use this on every error exit path.
func Failure(c Candidate, err error, elapsed time.Duration) Outcome {
	o := Outcome{
		CandidateID: c.ID,
		Kind:        c.Kind,
		Transport:   KindOfError(err),
		Elapsed:     elapsed,
	}
	if err != nil {
		o.Detail = err.Error()
	}
	return o
}

// Header returns a response header by name, case-insensitively.
func (o Outcome) Header(name string) string {
	if len(o.Headers) == 0 {
		return ""
	}
	return o.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// Failed reports whether the probe hit a transport failure.
func (o Outcome) Failed() bool {
	return o.Transport != TransportNone
}
