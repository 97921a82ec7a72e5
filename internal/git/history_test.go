package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCommitsBetweenIncludesMergedSideBranch builds a history where a side
// branch commit predates the old end of the range but only lands via a merge
// after it:
//
//	c0 --- cOld --- cM   (mainline)
//	  \            /
//	   --- cS ----       (side branch, committed before cOld)
//
// The cOld..cM range must contain cS and cM even though cS carries an
// earlier committer timestamp than cOld.
func TestCommitsBetweenIncludesMergedSideBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	raw, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := raw.Worktree()
	require.NoError(t, err)

	commit := func(msg string, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
		t.Helper()
		require.NoError(t, wt.AddWithOptions(&gogit.AddOptions{All: true}))
		hash, err := wt.Commit(msg, &gogit.CommitOptions{
			Author:  signature(when),
			Parents: parents,
		})
		require.NoError(t, err)
		return hash
	}

	writeFixtureFile(t, dir, "src/base.ads", "package Base is\nend Base;\n")
	c0 := commit("[core] [atvcm000100] Base package",
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	writeFixtureFile(t, dir, "src/side.ads", "package Side is\nend Side;\n")
	cSide := commit("[core] [atvcm000200] Side package",
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))

	// Mainline moves on without the side branch work.
	writeFixtureFile(t, dir, "src/base.ads", "package Base is\n   Rev : Integer := 2;\nend Base;\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "side.ads")))
	cOld := commit("[core] [atvcm000300] Revise base package",
		time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), c0)

	// The merge brings the side branch work back in.
	writeFixtureFile(t, dir, "src/side.ads", "package Side is\nend Side;\n")
	cMerge := commit("[core] [atvcm000400] Merge side branch",
		time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC), cOld, cSide)

	repo, err := OpenRepository(dir, 2)
	require.NoError(t, err)

	oldCommit, err := repo.ResolveRef(cOld.String())
	require.NoError(t, err)

	newCommit, err := repo.ResolveRef(cMerge.String())
	require.NoError(t, err)

	commits, err := repo.CommitsBetween(oldCommit, newCommit, "src")
	require.NoError(t, err)
	require.Len(t, commits, 2)

	// Oldest first, side branch commit included despite its timestamp.
	assert.Equal(t, cSide, commits[0].Hash)
	assert.Equal(t, cMerge, commits[1].Hash)
}

func TestCommitsBetweenExcludesOldAncestry(t *testing.T) {
	t.Parallel()

	f := buildFixture(t)

	commits, err := f.repo.CommitsBetween(f.oldCommit, f.newCommit, "src")
	require.NoError(t, err)

	for _, c := range commits {
		assert.NotEqual(t, f.oldCommit.Hash, c.Hash)
	}
}
