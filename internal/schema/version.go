// Package schema implements the externals description schema version gate.
//
// Description files declare a semantic version for the file format itself.
// A parser implementation declares the highest minor/patch it understands
// for a given major; Check applies the standard semver consumer rule to
// decide whether a declared version can be processed.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-part schema version.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// VersionFormatError reports a schema version string that is not a dotted
// major.minor.patch triple of integers.
type VersionFormatError struct {
	Raw string
}

func (e *VersionFormatError) Error() string {
	return fmt.Sprintf(
		"config file schema version must have integer digits for major, minor and patch versions, received %q",
		e.Raw)
}

// SchemaError reports a declared version that requires a newer parser than
// the supported one.
type SchemaError struct {
	Supported Version
	Declared  Version
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"incompatible schema version: file version %q is too new, can only process version %q files and older",
		e.Declared, e.Supported)
}

// MajorMismatchError reports a declared major version that differs from the
// parser's. Callers are expected to dispatch on the major version before
// checking compatibility, so reaching this indicates a dispatch bug.
type MajorMismatchError struct {
	Supported Version
	Declared  Version
}

func (e *MajorMismatchError) Error() string {
	return fmt.Sprintf(
		"internal error: version %q parser received version %q input",
		e.Supported, e.Declared)
}

// Parse reads a dotted major.minor.patch version string. Anything after a
// "-" or "+" is build/pre-release metadata and is discarded.
func Parse(raw string) (Version, error) {
	core := raw
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, &VersionFormatError{Raw: core}
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Version{}, &VersionFormatError{Raw: core}
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Check verifies that a parser supporting the given version can process a
// document declaring the other. A newer minor is fatal; a newer patch is
// accepted, since patch-level additions must be backward compatible.
func Check(supported, declared Version) error {
	if declared.Major != supported.Major {
		return &MajorMismatchError{Supported: supported, Declared: declared}
	}
	if declared.Minor > supported.Minor {
		return &SchemaError{Supported: supported, Declared: declared}
	}
	// declared.Patch > supported.Patch is fine.
	return nil
}
