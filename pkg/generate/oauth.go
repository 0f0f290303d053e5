package generate

import (
	"net/http"

	"github.com/probekit/probekit/pkg/probe"
)

// oauthPaths are the discovery endpoints checked for exposed OAuth /
// OpenID Connect configuration.
var oauthPaths = []string{
	"/.well-known/openid-configuration",
	"/.well-known/oauth-authorization-server",
	"/oauth/authorize",
	"/oauth/token",
	"/oauth/userinfo",
	"/api/oauth/authorize",
	"/api/oauth/token",
	"/api/oauth/userinfo",
	"/auth/oauth/authorize",
	"/auth/oauth/token",
	"/v1/oauth/authorize",
	"/v1/oauth/token",
	"/v2/oauth/authorize",
	"/v2/oauth/token",
}

// OAuthSource generates HTTP candidates for OAuth endpoint discovery.
type OAuthSource struct{}

func (OAuthSource) Name() string { return "oauth" }

func (OAuthSource) Candidates(t probe.Target) []probe.Candidate {
	out := make([]probe.Candidate, 0, len(oauthPaths))
	for _, p := range oauthPaths {
		out = append(out, probe.Candidate{
			Kind:   probe.KindPath,
			Method: http.MethodGet,
			Path:   p,
			Label:  "oauth",
		})
	}
	return out
}
