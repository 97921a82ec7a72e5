package git

import (
	"fmt"

	"github.com/Shubham1700/update-headers/internal/logger"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitsBetween returns the commits reachable from newCommit but not from
// oldCommit that touch folder, oldest first. Side branches merged after
// oldCommit are included regardless of their committer timestamps, so the
// result matches the old..new range rather than a timestamp cutoff.
func (r *Repository) CommitsBetween(oldCommit, newCommit *object.Commit, folder string) ([]*object.Commit, error) {
	folder = NormalizeFolder(folder)

	excluded, err := r.ancestorSet(oldCommit)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  newCommit.Hash,
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %s: %w", newCommit.Hash, err)
	}
	defer iter.Close()

	var commits []*object.Commit

	err = iter.ForEach(func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}

		touches, err := r.commitTouchesFolder(c, folder)
		if err != nil {
			return err
		}
		if touches {
			commits = append(commits, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Log order is newest first; annotations accumulate oldest first.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	logger.GlobalLogger.Verbosef("Found %d commit(s) touching %q between %s and %s",
		len(commits), folder, oldCommit.Hash, newCommit.Hash)

	return commits, nil
}

// ancestorSet collects every commit reachable from c, c included.
func (r *Repository) ancestorSet(c *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)

	iter := object.NewCommitPreorderIter(c, nil, nil)
	defer iter.Close()

	err := iter.ForEach(func(a *object.Commit) error {
		seen[a.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk ancestry of %s: %w", c.Hash, err)
	}

	return seen, nil
}

func (r *Repository) commitTouchesFolder(c *object.Commit, folder string) (bool, error) {
	changes, err := r.CommitChanges(c, folder)
	if err != nil {
		return false, err
	}
	return len(changes) > 0, nil
}

// Details extracts the metadata annotation lines are built from. The date
// comes from the committer timestamp, never the wall clock, so repeated runs
// render identical annotations.
func Details(c *object.Commit) CommitDetails {
	return CommitDetails{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Date:    c.Committer.When,
		Message: c.Message,
	}
}
