// Package describe builds and validates the canonical externals
// description model. Raw documents are mapped onto a uniform entry schema,
// checked in three ordered phases, and frozen into an immutable ordered
// Description that downstream checkout planning consumes without
// re-validation.
package describe

import (
	"externals/internal/schema"
)

// Canonical key names shared by the raw input format and the entry schema.
const (
	KeyRequired  = "required"
	KeyPath      = "local_path"
	KeyExternals = "externals"
	KeySubmodule = "from_submodule"
	KeyRepo      = "repo"

	KeyProtocol = "protocol"
	KeyRepoURL  = "repo_url"
	KeyTag      = "tag"
	KeyBranch   = "branch"
	KeyHash     = "hash"
	KeySparse   = "sparse"
)

// Known protocols.
const (
	ProtocolGit           = "git"
	ProtocolSvn           = "svn"
	ProtocolExternalsOnly = "externals_only"
)

// KnownProtocols is the set of accepted protocol values.
var KnownProtocols = []string{ProtocolGit, ProtocolSvn, ProtocolExternalsOnly}

// RepoSpec identifies the repository backing one external.
type RepoSpec struct {
	Protocol string `yaml:"protocol"`
	URL      string `yaml:"repo_url"`
	Tag      string `yaml:"tag"`
	Branch   string `yaml:"branch"`
	Hash     string `yaml:"hash"`
	Sparse   string `yaml:"sparse"`
}

// Entry is one fully validated external. All optional fields are defaulted,
// so consumers never need presence checks.
type Entry struct {
	Required      bool     `yaml:"required"`
	LocalPath     string   `yaml:"local_path"`
	ExternalsFile string   `yaml:"externals"`
	FromSubmodule bool     `yaml:"from_submodule"`
	Repo          RepoSpec `yaml:"repo"`
}

// ParentRepo is the repository a description was read from. It is consulted
// only to resolve from_submodule inheritance; the relation is non-owning.
type ParentRepo interface {
	Name() string
	Protocol() string

	// SubmodulesPath returns the name of the submodules manifest within
	// repoDir, or "" when the repository has no submodules.
	SubmodulesPath(repoDir string) string
}

// Description is the validated set of externals for one project, keyed by
// name and iterated in document order. It is immutable once constructed.
type Description struct {
	names   []string
	entries map[string]Entry
	version schema.Version
	parent  ParentRepo
}

// Names returns the external names in document order.
func (d *Description) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Get returns the named entry.
func (d *Description) Get(name string) (Entry, bool) {
	e, ok := d.entries[name]
	return e, ok
}

// Len returns the number of externals.
func (d *Description) Len() int { return len(d.names) }

// Version returns the schema version the description was parsed under.
func (d *Description) Version() schema.Version { return d.version }

// Parent returns the parent repository, or nil.
func (d *Description) Parent() ParentRepo { return d.parent }
