package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"externals/internal/submodule"
)

const submodulePrefix = "submodule"

// readGitModules reads a .gitmodules manifest and converts it into a
// canonical document: one section per submodule carrying local_path,
// protocol, repo_url, required and the live commit hash, plus the reserved
// version section declaring schema 1.0.0.
func readGitModules(ctx context.Context, rootDir, fileName string, q submodule.Querier) (*Document, error) {
	filePath := filepath.Join(rootDir, fileName)
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	// Continuation-style lines in .gitmodules are indented; a strict
	// section/key-value parser rejects them, so every line is
	// left-trimmed first.
	f, err := ini.LoadSources(iniOptions, lstripLines(data))
	if err != nil {
		return nil, &FormatError{Path: filePath, Err: err}
	}

	statuses, err := q.SubmoduleStatus(ctx, rootDir)
	if err != nil {
		return nil, err
	}

	doc := New()
	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), submodulePrefix) {
			continue
		}
		name := strings.Trim(sec.Name()[len(submodulePrefix):], ` "`)

		path, url, err := submoduleSection(sec, name, fileName)
		if err != nil {
			return nil, err
		}

		// The section name does not have to match the status key;
		// git keys its status output by path.
		st, ok := statuses[name]
		if !ok {
			st, ok = statuses[path]
		}
		if !ok {
			return nil, fmt.Errorf(
				"submodule status has no entry %q, check section names in %s", name, fileName)
		}

		doc.AddSection(name)
		doc.Set(name, "local_path", path)
		doc.Set(name, "protocol", "git")
		doc.Set(name, "repo_url", url)
		doc.Set(name, "required", "True")
		doc.Set(name, "hash", st.Hash)
	}

	doc.Set(DescriptionSection, VersionItem, "1.0.0")
	return doc, nil
}

// submoduleSection extracts the path and url of one submodule block. The
// branch key is superseded by the resolved hash and deliberately ignored;
// anything else is an error.
func submoduleSection(sec *ini.Section, name, fileName string) (path, url string, err error) {
	for _, key := range sec.Keys() {
		value := strings.TrimSpace(key.Value())
		switch strings.TrimSpace(key.Name()) {
		case "path":
			path = value
		case "url":
			url = value
		case "branch":
			// Ignored: the live hash pins the revision.
		default:
			return "", "", fmt.Errorf(
				"unknown property %q in submodule %q of %s", key.Name(), name, fileName)
		}
	}

	if path == "" {
		return "", "", fmt.Errorf("submodule %q missing path in %s", name, fileName)
	}
	if url == "" {
		return "", "", fmt.Errorf("submodule %q missing url in %s", name, fileName)
	}
	return path, url, nil
}

func lstripLines(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimLeft(line, " \t")
	}
	return bytes.Join(lines, []byte("\n"))
}
