package describe

import (
	"fmt"
	"strings"
)

// UnknownFieldError reports a key in a raw section that belongs to neither
// the entry-level nor the repo-level schema.
type UnknownFieldError struct {
	Section string
	Key     string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("invalid input: %q contains unknown item %q", e.Section, e.Key)
}

// BooleanFormatError reports a value that could not be coerced to a bool.
type BooleanFormatError struct {
	Section string
	Key     string
	Value   string
}

func (e *BooleanFormatError) Error() string {
	return fmt.Sprintf("invalid boolean %q for %q in %q (expected true/false, yes/no or 1/0)",
		e.Value, e.Key, e.Section)
}

// UnknownProtocolError reports a protocol outside the known set.
type UnknownProtocolError struct {
	Name     string
	Protocol string
}

func (e *UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown repository protocol %q in %q", e.Protocol, e.Name)
}

// IncompatibleFieldError reports a field that is not allowed for the
// entry's protocol.
type IncompatibleFieldError struct {
	Name   string
	Field  string
	Reason string
}

func (e *IncompatibleFieldError) Error() string {
	return fmt.Sprintf("in repo description for %q: %s", e.Name, e.Reason)
}

// OverspecifiedError reports an entry carrying more than one version
// reference, or a from_submodule entry that also declares a field supplied
// by inheritance. Conflicts enumerates every conflicting field and value
// found.
type OverspecifiedError struct {
	Name          string
	Conflicts     []string
	FromSubmodule bool
	Field         string // set when from_submodule conflicts with one declared field
}

func (e *OverspecifiedError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf(
			"description is over specified: from_submodule is not compatible with the %q keyword for repo description of %q",
			e.Field, e.Name)
	}

	msg := "description is over specified: "
	if e.FromSubmodule {
		msg += `from_submodule is not compatible with "tag", "branch", or "hash" `
	} else {
		msg += `only one of "tag", "branch", or "hash" may be specified `
	}
	msg += fmt.Sprintf("for repo description of %q", e.Name)
	if len(e.Conflicts) > 0 {
		msg += "\nfound: " + strings.Join(e.Conflicts, ", ")
	}
	return msg
}

// UnderspecifiedError reports an entry missing its version reference or
// repository url.
type UnderspecifiedError struct {
	Name    string
	Missing string
}

func (e *UnderspecifiedError) Error() string {
	return fmt.Sprintf(
		"description is under specified: %s must be specified for repo description of %q",
		e.Missing, e.Name)
}

// NoParentError reports a from_submodule entry in a description that has no
// parent repository to inherit from.
type NoParentError struct {
	Name string
}

func (e *NoParentError) Error() string {
	return fmt.Sprintf("no parent submodule for %q", e.Name)
}

// UnsupportedParentProtocolError reports a parent repository whose protocol
// has no submodule concept.
type UnsupportedParentProtocolError struct {
	Name     string
	Protocol string
}

func (e *UnsupportedParentProtocolError) Error() string {
	return fmt.Sprintf("parent protocol %q of %q does not support submodules",
		e.Protocol, e.Name)
}

// SubmoduleNotFoundError reports an entry that could not be resolved from
// the parent's submodules manifest.
type SubmoduleNotFoundError struct {
	Name string
	File string
}

func (e *SubmoduleNotFoundError) Error() string {
	return fmt.Sprintf("cannot resolve %q as a submodule, repo not found in %s file",
		e.Name, e.File)
}

// SchemaValidationError reports an entry whose final shape does not match
// the required-field schema. Mismatches enumerates every field present on
// one side but not the other, with its runtime type.
type SchemaValidationError struct {
	Name       string
	Mismatches []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("source for %q did not validate:\n  %s",
		e.Name, strings.Join(e.Mismatches, "\n  "))
}
