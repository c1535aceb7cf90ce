package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"externals/internal/logging"
	"externals/internal/submodule"
)

// FormatError reports content that matches no accepted input format.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unknown file format: %s", e.Path)
}

func (e *FormatError) Unwrap() error { return e.Err }

// NotFoundError reports a description file that does not exist.
type NotFoundError struct {
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	if strings.EqualFold(e.Name, "none") {
		return fmt.Sprintf(
			"internal error: attempt to read externals file from %s when not configured", e.Path)
	}
	return fmt.Sprintf(
		"externals description file %q does not exist at path %s (did you run from the root of the source tree?)",
		e.Name, e.Path)
}

// Read loads the named description file under rootDir into a normalized
// document. The well-known gitmodules file name always selects the manifest
// reader, which needs the submodule status querier; any other name is read
// as a canonical INI description.
func Read(ctx context.Context, rootDir, fileName string, q submodule.Querier) (*Document, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root dir: %w", err)
	}

	log := logging.New("document")
	log.Info("processing externals description file", "file", fileName, "dir", rootDir)

	filePath := filepath.Join(rootDir, fileName)
	if _, err := os.Stat(filePath); err != nil {
		return nil, &NotFoundError{Name: fileName, Path: filePath}
	}

	if fileName == GitModulesName {
		return readGitModules(ctx, rootDir, fileName, q)
	}
	return readCanonical(filePath)
}

// iniOptions keeps dotted external names as flat section names instead of
// ini's default parent/child nesting.
var iniOptions = ini.LoadOptions{ChildSectionDelimiter: "\n"}

func readCanonical(filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		// Not parseable as a section/key-value file. Treated as an
		// unknown format rather than a parse failure so format
		// detection can fall through.
		return nil, &FormatError{Path: filePath, Err: err}
	}

	return fromINI(f, filePath)
}

func fromINI(f *ini.File, filePath string) (*Document, error) {
	doc := New()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			// Keys before any section header mean this is not a
			// canonical description.
			if len(sec.Keys()) > 0 {
				return nil, &FormatError{Path: filePath}
			}
			continue
		}
		doc.AddSection(sec.Name())
		for _, key := range sec.Keys() {
			doc.Set(sec.Name(), key.Name(), strings.TrimSpace(key.Value()))
		}
	}
	return doc, nil
}
