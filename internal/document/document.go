// Package document loads raw externals description input into a normalized
// section/key-value document. Two readers exist: one for the canonical
// INI-style description format and one for git .gitmodules manifests, which
// are converted into the canonical shape with live submodule hashes
// attached.
package document

import (
	"fmt"

	"externals/internal/schema"
)

// Reserved names in the canonical format.
const (
	DescriptionSection = "externals_description"
	VersionItem        = "schema_version"

	// GitModulesName is the fixed manifest file name that always selects
	// the gitmodules reader.
	GitModulesName = ".gitmodules"
)

// Section is one named block of key-value pairs.
type Section map[string]string

// Document is a normalized configuration document. Sections keep the order
// they were added in, which fixes the iteration order of every downstream
// pass (and therefore diagnostic ordering).
type Document struct {
	names    []string
	sections map[string]Section
}

// New returns an empty document.
func New() *Document {
	return &Document{sections: make(map[string]Section)}
}

// AddSection creates a section if it does not exist yet.
func (d *Document) AddSection(name string) {
	if _, ok := d.sections[name]; ok {
		return
	}
	d.names = append(d.names, name)
	d.sections[name] = make(Section)
}

// Set stores a key in a section, creating the section as needed.
func (d *Document) Set(section, key, value string) {
	d.AddSection(section)
	d.sections[section][key] = value
}

// Section returns the named section.
func (d *Document) Section(name string) (Section, bool) {
	sec, ok := d.sections[name]
	return sec, ok
}

// Sections returns all section names in insertion order.
func (d *Document) Sections() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// SchemaVersion extracts and parses the declared schema version from the
// reserved description section.
func (d *Document) SchemaVersion() (schema.Version, error) {
	sec, ok := d.sections[DescriptionSection]
	if !ok {
		return schema.Version{}, missingVersionErr()
	}
	raw, ok := sec[VersionItem]
	if !ok {
		return schema.Version{}, missingVersionErr()
	}
	return schema.Parse(raw)
}

func missingVersionErr() error {
	return fmt.Errorf(
		"externals description file must have the required section %q and item %q",
		DescriptionSection, VersionItem)
}
