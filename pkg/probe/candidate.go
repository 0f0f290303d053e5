package probe

import (
	"fmt"
	"strings"

	"github.com/spaolacci/murmur3"
)

// Kind tags the variant payload a candidate carries.
type Kind string

const (
	// KindPort is a TCP connect probe against (host, port).
	KindPort Kind = "port"
	// KindPath is an HTTP request against a path below the target base.
	KindPath Kind = "path"
	// KindHeader is an HTTP request distinguished by a crafted header.
	KindHeader Kind = "header"
	// KindRaw is a pre-built literal byte sequence written to a raw socket.
	KindRaw Kind = "raw"
)

// Candidate is one unit of probe work. Candidates are created by
// generators, never mutated afterwards, and consumed exactly once by
// exactly one prober invocation. Only the fields matching Kind are set.
type Candidate struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// KindPort
	Port    int    `json:"port,omitempty"`
	Service string `json:"service,omitempty"`

	// KindPath and KindHeader
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	Body        string `json:"body,omitempty"`
	Header      string `json:"header,omitempty"`
	HeaderValue string `json:"header_value,omitempty"`

	// KindRaw
	Raw []byte `json:"-"`

	// Label names the technique for reporting (e.g. "CL.TE", "backup-sql").
	Label string `json:"label,omitempty"`
}

// Key returns the dedup key for the network operation this candidate
// resolves to. Two candidates with equal keys would perform identical
// I/O, so generators keep only the first.
func (c Candidate) Key() uint64 {
	var sb strings.Builder
	sb.WriteString(string(c.Kind))
	sb.WriteByte('|')
	switch c.Kind {
	case KindPort:
		fmt.Fprintf(&sb, "%d", c.Port)
	case KindPath, KindHeader:
		sb.WriteString(strings.ToUpper(c.Method))
		sb.WriteByte('|')
		sb.WriteString(normalizePath(c.Path))
		sb.WriteByte('|')
		sb.WriteString(strings.ToLower(c.Header))
		sb.WriteByte('|')
		sb.WriteString(c.HeaderValue)
		sb.WriteByte('|')
		sb.WriteString(c.Body)
	case KindRaw:
		sb.Write(c.Raw)
	}
	return murmur3.Sum64([]byte(sb.String()))
}

// normalizePath collapses duplicate slashes and strips a trailing slash
// so "/backup//db.sql/" and "/backup/db.sql" dedup together.
func normalizePath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
