package git

import (
	"errors"
	"time"
)

var (
	ErrNotAGitRepository = errors.New("not a git repository")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrFolderNotFound    = errors.New("folder not found in either tree")
)

// ChangeKind classifies a file touched between two commits.
type ChangeKind int

const (
	// ChangeModified covers edited files and files added in the newer tree.
	ChangeModified ChangeKind = iota
	ChangeDeleted
	ChangeRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "Modified"
	case ChangeDeleted:
		return "Deleted"
	case ChangeRenamed:
		return "Renamed"
	default:
		return "Unknown"
	}
}

// Change is one classified entry of a tree diff.
type Change struct {
	Kind    ChangeKind
	Path    string
	OldPath string // set only for renames

	// ContentChanged reports whether the blob itself differs. Always true
	// for modified entries; false for a pure relocation.
	ContentChanged bool

	Additions int
	Deletions int
}

// CommitDetails carries the commit metadata annotations are built from.
type CommitDetails struct {
	Hash    string
	Author  string
	Date    time.Time
	Message string
}
