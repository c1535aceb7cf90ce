// Package externals is the public entry point for loading validated
// externals descriptions.
//
// A project declares its external source-code dependencies in a small
// declarative file (or a native .gitmodules manifest). Load runs the full
// read, version-gate, build, and validate pipeline and returns an immutable
// description the checkout planner can consume without re-validation.
//
//	desc, err := externals.Load(ctx, ".", "Externals.cfg", nil)
//	if err != nil {
//	    return err
//	}
//	for _, name := range desc.Names() {
//	    entry, _ := desc.Get(name)
//	    // plan checkout of entry
//	}
//
// Every error is terminal for the construction of the current description;
// there is no partial result. Callers embedding this package receive
// structured error values — process exit belongs to the top-level CLI.
package externals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"externals/internal/describe"
	"externals/internal/document"
	"externals/internal/submodule"
)

// Re-exported model types so embedders rarely need the internal packages.
type (
	Description = describe.Description
	Entry       = describe.Entry
	RepoSpec    = describe.RepoSpec
	ParentRepo  = describe.ParentRepo
)

// Options configures description loading. The zero value is usable.
type Options struct {
	// Components restricts loading to the named externals when non-empty.
	Components []string

	// Exclude skips the named externals.
	Exclude []string

	// Parent is the repository the description was read from, required
	// only when entries inherit from submodules.
	Parent ParentRepo

	// Querier resolves live submodule status; nil means the real git
	// client.
	Querier submodule.Querier

	// ExpandURL overrides local repository URL expansion.
	ExpandURL func(url, name string) string
}

// Load reads the named description file under rootDir and runs the full
// pipeline. The declared major schema version selects the parser
// implementation; only major version 1 exists today.
func Load(ctx context.Context, rootDir, fileName string, opts *Options) (*Description, error) {
	if opts == nil {
		opts = &Options{}
	}

	doc, err := document.Read(ctx, rootDir, fileName, querier(opts))
	if err != nil {
		return nil, err
	}

	declared, err := doc.SchemaVersion()
	if err != nil {
		return nil, err
	}

	switch declared.Major {
	case 1:
		return describe.FromDocument(ctx, doc, describe.Options{
			Components: opts.Components,
			Exclude:    opts.Exclude,
			Parent:     opts.Parent,
			RootDir:    rootDir,
			Querier:    opts.Querier,
			ExpandURL:  opts.ExpandURL,
		})
	default:
		return nil, fmt.Errorf(
			"externals description file has unsupported schema version %d", declared.Major)
	}
}

// FromRaw builds a description from an already-typed raw entry tree,
// running the same validation phases as Load. See describe.FromRaw.
func FromRaw(ctx context.Context, raw map[string]map[string]any, opts *Options) (*Description, error) {
	if opts == nil {
		opts = &Options{}
	}
	return describe.FromRaw(ctx, raw, describe.Options{
		Components: opts.Components,
		Exclude:    opts.Exclude,
		Parent:     opts.Parent,
		RootDir:    ".",
		Querier:    opts.Querier,
		ExpandURL:  opts.ExpandURL,
	})
}

func querier(opts *Options) submodule.Querier {
	if opts.Querier != nil {
		return opts.Querier
	}
	return submodule.GitQuerier{}
}

// GitParent is a ParentRepo backed by a git working tree that may carry a
// .gitmodules manifest.
type GitParent struct {
	RepoName string
}

func (p GitParent) Name() string     { return p.RepoName }
func (p GitParent) Protocol() string { return describe.ProtocolGit }

// SubmodulesPath reports the manifest name when the working tree has one.
func (p GitParent) SubmodulesPath(repoDir string) string {
	if _, err := os.Stat(filepath.Join(repoDir, document.GitModulesName)); err != nil {
		return ""
	}
	return document.GitModulesName
}
