package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Shubham1700/update-headers/internal/logger"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type Repository struct {
	path string
	repo *git.Repository
}

// Open Git repository at the given path
func OpenRepository(path string, depth int) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	repoPath, err := findRepositoryRoot(absPath, depth)
	if err != nil {
		return nil, err
	}

	logger.GlobalLogger.Verbosef("Opening Git repository at: %s", repoPath)

	// Open with go-git
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotAGitRepository
		}
		return nil, err
	}

	return &Repository{
		path: repoPath,
		repo: repo,
	}, nil
}

func findRepositoryRoot(startPath string, depth int) (string, error) {
	current := startPath

	logger.GlobalLogger.Debugf("Searching for Git repository root with maximum depth of %d", depth)

	for i := 0; i < depth; i++ {
		gitPath := filepath.Join(current, ".git")

		logger.GlobalLogger.Debugf("Checking for Git repository at: %s", gitPath)

		// Check if .git exists
		if fi, err := os.Stat(gitPath); err == nil {
			if fi.IsDir() {
				return current, nil
			}

			// Handle git submodules
			if content, err := os.ReadFile(gitPath); err == nil {
				if strings.HasPrefix(string(content), "gitdir: ") {
					return current, nil
				}
			}
		}

		// Move up one directory
		parent := filepath.Dir(current)
		if parent == current {
			break // Reached filesystem root
		}
		current = parent
	}

	return "", ErrNotAGitRepository
}

func (r *Repository) Path() string {
	return r.path
}

// ResolveRef resolves a hash, tag, branch, or HEAD expression to its commit.
func (r *Repository) ResolveRef(ref string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrReferenceNotFound, ref)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %q does not name a commit", ErrReferenceNotFound, ref)
	}

	logger.GlobalLogger.Debugf("Resolved %q to %s", ref, commit.Hash)

	return commit, nil
}
