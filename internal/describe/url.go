package describe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var remotePrefixes = []string{
	"http://", "https://", "ssh://", "git://", "git@",
	"svn://", "svn+ssh://", "file://",
}

// scp-like remote notation, e.g. user@host:path.
var scpURL = regexp.MustCompile(`^[\w.-]+@[\w.-]+:`)

// ExpandLocalURL resolves locally-relative repository URL notation against
// the filesystem: environment variables and a leading tilde are expanded
// and the result is made absolute. Remote URLs pass through untouched. The
// external name is accepted for parity with custom expanders that key off
// it; the default expansion does not need it.
func ExpandLocalURL(url, _ string) string {
	if isRemoteURL(url) {
		return url
	}

	expanded := os.ExpandEnv(url)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return url
	}
	return abs
}

func isRemoteURL(url string) bool {
	for _, prefix := range remotePrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return scpURL.MatchString(url)
}
