package describe

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"externals/internal/document"
	"externals/internal/schema"
	"externals/internal/submodule"
)

// SupportedVersion is the highest schema version this parser understands
// for major version 1.
var SupportedVersion = schema.Version{Major: 1, Minor: 1, Patch: 0}

// fieldKind is the declared type of a schema field.
type fieldKind int

const (
	kindBool fieldKind = iota
	kindString
	kindRepo
)

// The entry schema as a static field table. The builder partitions raw keys
// against it and the final validation phase walks it structurally.
var (
	entrySchema = map[string]fieldKind{
		KeyRequired:  kindBool,
		KeyPath:      kindString,
		KeyExternals: kindString,
		KeySubmodule: kindBool,
		KeyRepo:      kindRepo,
	}

	repoSchema = map[string]fieldKind{
		KeyProtocol: kindString,
		KeyRepoURL:  kindString,
		KeyTag:      kindString,
		KeyBranch:   kindString,
		KeyHash:     kindString,
		KeySparse:   kindString,
	}
)

// Options configures description construction.
type Options struct {
	// Components restricts the build to the named sections when non-empty.
	Components []string

	// Exclude skips the named sections.
	Exclude []string

	// Parent is the repository this description was read from, consulted
	// only for from_submodule resolution.
	Parent ParentRepo

	// RootDir is the working-tree directory of the containing repository.
	RootDir string

	// Querier resolves live submodule status. Defaults to the real git
	// client.
	Querier submodule.Querier

	// ExpandURL maps a possibly local repository URL notation plus the
	// external name to an absolute URL. Defaults to ExpandLocalURL.
	ExpandURL func(url, name string) string
}

func (o *Options) fill() {
	if o.Querier == nil {
		o.Querier = submodule.GitQuerier{}
	}
	if o.ExpandURL == nil {
		o.ExpandURL = ExpandLocalURL
	}
}

// FromDocument gates, builds, and validates a normalized document into a
// description. The document must declare major version 1; callers dispatch
// on the major version before selecting this parser.
func FromDocument(ctx context.Context, doc *document.Document, opts Options) (*Description, error) {
	opts.fill()

	declared, err := doc.SchemaVersion()
	if err != nil {
		return nil, err
	}
	if err := schema.Check(SupportedVersion, declared); err != nil {
		return nil, err
	}

	names, entries, err := buildRaw(doc, opts)
	if err != nil {
		return nil, err
	}

	v := &validator{
		names:   names,
		entries: entries,
		opts:    opts,
	}
	if err := v.run(ctx); err != nil {
		return nil, err
	}

	return freeze(names, entries, declared, opts.Parent)
}

// FromRaw builds a description directly from an already-typed raw entry
// tree: entry keys map to bool or string values per the schema, with the
// repository fields nested under "repo" as a map[string]any. The full
// three-phase validation still runs. Primarily used by tests and embedders
// that synthesize descriptions programmatically.
func FromRaw(ctx context.Context, raw map[string]map[string]any, opts Options) (*Description, error) {
	opts.fill()

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make(map[string]map[string]any, len(raw))
	for name, fields := range raw {
		if opts.skip(name) {
			continue
		}
		entry := make(map[string]any, len(fields))
		for k, v := range fields {
			entry[k] = v
		}
		if nested, ok := entry[KeyRepo].(map[string]any); ok {
			repo := make(map[string]any, len(nested))
			for k, v := range nested {
				repo[k] = v
			}
			entry[KeyRepo] = repo
		}
		entries[name] = entry
	}
	names = slices.DeleteFunc(names, func(n string) bool {
		_, ok := entries[n]
		return !ok
	})

	v := &validator{
		names:   names,
		entries: entries,
		opts:    opts,
	}
	if err := v.run(ctx); err != nil {
		return nil, err
	}

	return freeze(names, entries, schema.Version{Major: 1}, opts.Parent)
}

func (o *Options) skip(name string) bool {
	if len(o.Components) > 0 && !slices.Contains(o.Components, name) {
		return true
	}
	return slices.Contains(o.Exclude, name)
}

// buildRaw maps document sections onto the entry schema. Keys are
// case-folded before matching and values are already whitespace-trimmed by
// the reader. Keys outside both schema levels are fatal.
func buildRaw(doc *document.Document, opts Options) ([]string, map[string]map[string]any, error) {
	var names []string
	entries := make(map[string]map[string]any)

	for _, section := range doc.Sections() {
		name := strings.TrimSpace(section)
		if name == document.DescriptionSection || opts.skip(name) {
			continue
		}

		sec, _ := doc.Section(section)
		entry := map[string]any{}
		repo := map[string]any{}

		for _, rawKey := range sortedKeys(sec) {
			key := strings.ToLower(strings.TrimSpace(rawKey))
			value := strings.TrimSpace(sec[rawKey])

			if kind, ok := entrySchema[key]; ok && kind != kindRepo {
				if kind == kindBool {
					b, err := strToBool(value)
					if err != nil {
						return nil, nil, &BooleanFormatError{Section: name, Key: key, Value: value}
					}
					entry[key] = b
				} else {
					entry[key] = value
				}
				continue
			}
			if _, ok := repoSchema[key]; ok {
				repo[key] = value
				continue
			}
			return nil, nil, &UnknownFieldError{Section: name, Key: key}
		}

		entry[KeyRepo] = repo
		entries[name] = entry
		names = append(names, name)
	}

	return names, entries, nil
}

func sortedKeys(sec document.Section) []string {
	keys := make([]string, 0, len(sec))
	for k := range sec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func strToBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", value)
}

// freeze converts validated raw entries into the immutable typed model.
// All shapes have passed the final schema check, so the assertions here
// cannot fail on the normal path.
func freeze(names []string, entries map[string]map[string]any, version schema.Version, parent ParentRepo) (*Description, error) {
	typed := make(map[string]Entry, len(entries))
	for _, name := range names {
		raw := entries[name]
		repo, _ := raw[KeyRepo].(map[string]any)
		typed[name] = Entry{
			Required:      rawBool(raw, KeyRequired),
			LocalPath:     rawString(raw, KeyPath),
			ExternalsFile: rawString(raw, KeyExternals),
			FromSubmodule: rawBool(raw, KeySubmodule),
			Repo: RepoSpec{
				Protocol: rawString(repo, KeyProtocol),
				URL:      rawString(repo, KeyRepoURL),
				Tag:      rawString(repo, KeyTag),
				Branch:   rawString(repo, KeyBranch),
				Hash:     rawString(repo, KeyHash),
				Sparse:   rawString(repo, KeySparse),
			},
		}
	}

	frozen := make([]string, len(names))
	copy(frozen, names)
	return &Description{names: frozen, entries: typed, version: version, parent: parent}, nil
}

func rawString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func rawBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
