package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileAt reads the content of path as stored in the given commit.
func (r *Repository) FileAt(commit *object.Commit, path string) (string, error) {
	f, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q at %s: %w", path, commit.Hash, err)
	}

	content, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %q at %s: %w", path, commit.Hash, err)
	}

	return content, nil
}

// WorkingFilePath maps a repository-relative slash path to the working tree.
func (r *Repository) WorkingFilePath(path string) string {
	return filepath.Join(r.path, filepath.FromSlash(path))
}

// WriteWorkingFile replaces a repository-relative file in the working tree,
// preserving its mode when the file already exists.
func (r *Repository) WriteWorkingFile(path string, content string) error {
	target := r.WorkingFilePath(path)

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(target); err == nil {
		mode = fi.Mode()
	}

	if err := os.WriteFile(target, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write working file %q: %w", path, err)
	}

	return nil
}
