package describe

import (
	"context"
	"fmt"
	"sort"

	"externals/internal/document"
)

// validator runs the three ordered validation phases over the raw entry
// map. Order matters: checkOptional fills defaults that validate assumes,
// and checkData must see the raw user input before any defaulting.
type validator struct {
	names   []string
	entries map[string]map[string]any
	opts    Options

	// submodDesc caches the parent's submodules description across
	// entries; it is loaded at most once per validation pass.
	submodDesc *Description
}

func (v *validator) run(ctx context.Context) error {
	if err := v.checkData(); err != nil {
		return err
	}
	if err := v.checkOptional(ctx); err != nil {
		return err
	}
	return v.validate()
}

// checkData verifies structural and semantic correctness of the raw
// required data: protocol membership, protocol/field compatibility, and the
// reference exclusivity rule.
func (v *validator) checkData() error {
	for _, name := range v.names {
		entry := v.entries[name]
		repo, _ := entry[KeyRepo].(map[string]any)

		protocol := rawString(repo, KeyProtocol)
		if !knownProtocol(protocol) {
			return &UnknownProtocolError{Name: name, Protocol: protocol}
		}

		if protocol == ProtocolSvn {
			if _, ok := repo[KeyHash]; ok {
				return &IncompatibleFieldError{
					Name:   name,
					Field:  KeyHash,
					Reason: `svn repositories may not include the "hash" keyword`,
				}
			}
		}

		_, hasSubmodule := entry[KeySubmodule]
		if hasSubmodule && protocol != ProtocolGit {
			return &IncompatibleFieldError{
				Name:   name,
				Field:  KeySubmodule,
				Reason: fmt.Sprintf("from_submodule is only supported with %s protocol, %q is defined as a %s repository", ProtocolGit, name, protocol),
			}
		}

		if protocol == ProtocolExternalsOnly {
			continue
		}

		if err := v.checkRefs(name, entry, repo); err != nil {
			return err
		}

		if url, ok := repo[KeyRepoURL].(string); ok {
			repo[KeyRepoURL] = v.opts.ExpandURL(url, name)
		}
	}
	return nil
}

// checkRefs enforces the exclusivity contract: exactly one of tag, branch,
// hash, or from_submodule=true identifies the revision, and the url/path
// constraints that follow from from_submodule.
func (v *validator) checkRefs(name string, entry, repo map[string]any) error {
	_, hasSubmodule := entry[KeySubmodule]
	fromSubmodule := rawBool(entry, KeySubmodule)

	refCount := 0
	var found []string
	for _, key := range []string{KeyTag, KeyBranch, KeyHash} {
		if val, ok := repo[key]; ok {
			refCount++
			found = append(found, fmt.Sprintf("%s = %q", key, val))
		}
	}
	if fromSubmodule {
		refCount++
		found = append(found, fmt.Sprintf("%s = true", KeySubmodule))
	}

	if refCount > 1 {
		return &OverspecifiedError{Name: name, Conflicts: found, FromSubmodule: hasSubmodule}
	}
	if refCount < 1 {
		return &UnderspecifiedError{
			Name:    name,
			Missing: `one of "tag", "branch", or "hash"`,
		}
	}

	_, hasURL := repo[KeyRepoURL]
	if !hasURL && !fromSubmodule {
		return &UnderspecifiedError{Name: name, Missing: `"repo_url"`}
	}

	if fromSubmodule {
		if hasURL {
			return &OverspecifiedError{Name: name, Field: KeyRepoURL}
		}
		if _, ok := entry[KeyPath]; ok {
			return &OverspecifiedError{Name: name, Field: KeyPath}
		}
	}
	return nil
}

// checkOptional fills defaults for the conditionally optional fields and
// resolves submodule inheritance. Presence of the from_submodule key, even
// with a false value, triggers resolution against the parent manifest.
func (v *validator) checkOptional(ctx context.Context) error {
	for _, name := range v.names {
		entry := v.entries[name]
		repo, _ := entry[KeyRepo].(map[string]any)

		if _, ok := entry[KeyExternals]; !ok {
			entry[KeyExternals] = ""
		}
		for _, key := range []string{KeyTag, KeyBranch, KeyHash, KeyRepoURL, KeySparse} {
			if _, ok := repo[key]; !ok {
				repo[key] = ""
			}
		}

		if _, ok := entry[KeySubmodule]; !ok {
			entry[KeySubmodule] = false
			continue
		}

		if err := v.inheritFromSubmodule(ctx, name, entry, repo); err != nil {
			return err
		}
	}
	return nil
}

// inheritFromSubmodule copies url, hash, and local path from the parent's
// submodules manifest into the entry.
func (v *validator) inheritFromSubmodule(ctx context.Context, name string, entry, repo map[string]any) error {
	parent := v.opts.Parent
	if parent == nil {
		return &NoParentError{Name: name}
	}
	if parent.Protocol() != ProtocolGit {
		return &UnsupportedParentProtocolError{Name: name, Protocol: parent.Protocol()}
	}

	if v.submodDesc == nil {
		manifest := parent.SubmodulesPath(v.opts.RootDir)
		if manifest == "" {
			return fmt.Errorf(
				"cannot resolve %q from submodule information: parent repo %q does not have submodules",
				name, parent.Name())
		}

		doc, err := document.Read(ctx, v.opts.RootDir, manifest, v.opts.Querier)
		if err != nil {
			return err
		}
		sub, err := FromDocument(ctx, doc, Options{
			RootDir: v.opts.RootDir,
			Querier: v.opts.Querier,
		})
		if err != nil {
			return err
		}
		v.submodDesc = sub
	}

	resolved, ok := v.submodDesc.Get(name)
	if !ok {
		return &SubmoduleNotFoundError{Name: name, File: document.GitModulesName}
	}

	repo[KeyRepoURL] = resolved.Repo.URL
	repo[KeyHash] = resolved.Repo.Hash
	entry[KeyPath] = resolved.LocalPath
	return nil
}

// validate is the final defensive shape check: every entry is compared
// against the static field table. Phases A and B already enforce the
// semantics; this exists to catch builder defects.
func (v *validator) validate() error {
	for _, name := range v.names {
		if mismatches := diffSchema(entrySchema, v.entries[name]); len(mismatches) > 0 {
			return &SchemaValidationError{Name: name, Mismatches: mismatches}
		}
	}
	return nil
}

// diffSchema structurally compares a raw entry against a field table and
// returns every mismatch: schema fields missing from the input, input
// fields unknown to the schema, and type disagreements, each with the
// runtime type involved.
func diffSchema(table map[string]fieldKind, data map[string]any) []string {
	var mismatches []string

	for _, key := range sortedSchemaKeys(table) {
		val, ok := data[key]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: required by schema, missing from input", key))
			continue
		}

		switch table[key] {
		case kindBool:
			if _, ok := val.(bool); !ok {
				mismatches = append(mismatches, typeMismatch(key, "bool", val))
			}
		case kindString:
			if _, ok := val.(string); !ok {
				mismatches = append(mismatches, typeMismatch(key, "string", val))
			}
		case kindRepo:
			nested, ok := val.(map[string]any)
			if !ok {
				mismatches = append(mismatches, typeMismatch(key, "map", val))
				continue
			}
			for _, m := range diffSchema(repoSchema, nested) {
				mismatches = append(mismatches, key+"."+m)
			}
		}
	}

	for _, key := range sortedDataKeys(data) {
		if _, ok := table[key]; !ok {
			mismatches = append(mismatches,
				fmt.Sprintf("%s: present in input (%T), unknown to schema", key, data[key]))
		}
	}

	return mismatches
}

func typeMismatch(key, want string, got any) string {
	return fmt.Sprintf("%s: input = %v (%T), schema wants %s", key, got, got, want)
}

func sortedSchemaKeys(table map[string]fieldKind) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDataKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func knownProtocol(protocol string) bool {
	for _, p := range KnownProtocols {
		if protocol == p {
			return true
		}
	}
	return false
}
