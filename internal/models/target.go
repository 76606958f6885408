// Package models contains the data structures used throughout grisbi.
package models

// DirectiveKind identifies the form of one config file line.
type DirectiveKind int

const (
	// DirectivePath backs up a single directory. Covers the "path" and
	// "directory" keywords as well as bare lines with no keyword.
	DirectivePath DirectiveKind = iota
	// DirectiveFolder expands to one target per immediate child directory.
	DirectiveFolder
	// DirectiveComment is a line starting with '#'.
	DirectiveComment
	// DirectiveBlank is an empty or whitespace-only line.
	DirectiveBlank
)

// Directive is one parsed line of the config file.
type Directive struct {
	Kind DirectiveKind
	Dir  string // expanded directory path; empty for comments and blanks
}

// BackupTarget is one directory resolved for backup. Each target produces
// exactly one archive per run.
type BackupTarget struct {
	Name      string // final path component of SourceDir, used in the archive filename
	SourceDir string // absolute path to the directory to archive
}
