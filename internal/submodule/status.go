// Package submodule queries a git working tree for live per-submodule
// commit identity. It is the only part of the description core that runs an
// external process; everything else consumes it through the Querier
// interface so tests can substitute a double.
package submodule

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Status is the live state of one submodule at query time.
type Status struct {
	Hash string
	Flag byte   // git status prefix: ' ', '+', '-', 'U'
	Tag  string // empty when the output line carries no describe suffix
}

// StatusMap maps submodule name (as printed by git, usually the path) to
// its live status.
type StatusMap map[string]Status

// Querier obtains the submodule status of a working tree.
type Querier interface {
	SubmoduleStatus(ctx context.Context, repoDir string) (StatusMap, error)
}

// GitQuerier runs the real git client. The target directory is passed to
// git via -C rather than by changing the process working directory, so
// concurrent queries against different trees are safe.
type GitQuerier struct{}

func (GitQuerier) SubmoduleStatus(ctx context.Context, repoDir string) (StatusMap, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", repoDir, "submodule", "status")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git submodule status in %s: %w", repoDir, err)
	}
	return ParseStatus(string(output))
}

// ParseStatus parses the line-oriented output of `git submodule status`.
// Each line has the shape "<flag><hash> <name> [(<tag>)]".
func ParseStatus(output string) (StatusMap, error) {
	statuses := make(StatusMap)
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		flag := line[0]
		fields := strings.Fields(line[1:])
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed submodule status line %q", line)
		}

		st := Status{Hash: fields[0], Flag: flag}
		if len(fields) > 2 {
			st.Tag = strings.Trim(fields[2], "()")
		}
		statuses[fields[1]] = st
	}
	return statuses, nil
}
