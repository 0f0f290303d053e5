package generate

import (
	"net/http"

	"github.com/probekit/probekit/pkg/probe"
)

// Backup discovery tables. The cross product of paths, names and
// extensions deliberately exceeds the default candidate cap; Generate
// truncates it deterministically and reports the cut.
var (
	backupPaths = []string{
		"/backup/", "/backups/", "/db/", "/database/", "/dump/",
		"/sql/", "/data/", "/files/", "/admin/", "/config/",
		"/temp/", "/tmp/", "/logs/", "/",
	}

	backupNames = []string{
		"backup", "database", "db", "dump", "data", "sql", "site",
	}

	backupExtensions = []string{
		"sql", "db", "sqlite", "sqlite3", "tar.gz", "zip", "7z",
		"rar", "bak", "dump",
	}
)

// BackupSource generates HTTP candidates probing for exposed database
// and site backups.
type BackupSource struct{}

func (BackupSource) Name() string { return "backup" }

func (BackupSource) Candidates(t probe.Target) []probe.Candidate {
	var out []probe.Candidate
	for _, dir := range backupPaths {
		for _, name := range backupNames {
			for _, ext := range backupExtensions {
				out = append(out, probe.Candidate{
					Kind:   probe.KindPath,
					Method: http.MethodGet,
					Path:   dir + name + "." + ext,
					Label:  "backup-" + ext,
				})
			}
		}
	}
	return out
}
