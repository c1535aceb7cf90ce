package describe

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"externals/internal/document"
)

// EncodeINI serializes the description back to the canonical INI form.
// Re-running the pipeline on the output reproduces an equivalent entry map:
// defaulted empty fields are omitted, and from_submodule entries keep only
// the inheritance marker since url, hash, and path are re-resolved from the
// parent manifest on the next parse.
func (d *Description) EncodeINI() ([]byte, error) {
	f := ini.Empty()

	desc, err := f.NewSection(document.DescriptionSection)
	if err != nil {
		return nil, err
	}
	if _, err := desc.NewKey(document.VersionItem, d.version.String()); err != nil {
		return nil, err
	}

	for _, name := range d.names {
		e := d.entries[name]
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, fmt.Errorf("encoding section %q: %w", name, err)
		}

		set := func(key, value string) {
			if value != "" {
				_, _ = sec.NewKey(key, value)
			}
		}

		set(KeyRequired, boolStr(e.Required))
		set(KeyProtocol, e.Repo.Protocol)
		if e.FromSubmodule {
			set(KeySubmodule, "True")
		} else {
			if _, err := sec.NewKey(KeyPath, e.LocalPath); err != nil {
				return nil, err
			}
			set(KeyRepoURL, e.Repo.URL)
			set(KeyTag, e.Repo.Tag)
			set(KeyBranch, e.Repo.Branch)
			set(KeyHash, e.Repo.Hash)
		}
		set(KeySparse, e.Repo.Sparse)
		set(KeyExternals, e.ExternalsFile)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func boolStr(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// MarshalYAML renders the description as a mapping from external name to
// entry, in document order.
func (d *Description) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range d.names {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
		var val yaml.Node
		entry := d.entries[name]
		if err := val.Encode(&entry); err != nil {
			return nil, err
		}
		root.Content = append(root.Content, key, &val)
	}
	return root, nil
}
