package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shubham1700/update-headers/internal/git"
)

func TestBuildSortsAndClassifies(t *testing.T) {
	t.Parallel()

	changes := []git.Change{
		{Kind: git.ChangeModified, Path: "src/z.ads", ContentChanged: true, Additions: 3, Deletions: 1},
		{Kind: git.ChangeModified, Path: "src/a.ads", ContentChanged: true, Additions: 1},
		{Kind: git.ChangeDeleted, Path: "src/b.ads"},
		{Kind: git.ChangeRenamed, Path: "src/d.ads", OldPath: "src/c.ads"},
	}
	headers := map[string]string{
		"src/a.ads": "-- 12/05/2024 J. SMITH    atvcm012345 : Fix altitude overflow",
	}

	r := Build(changes, headers)

	require.Len(t, r.Modified, 2)
	assert.Equal(t, "src/a.ads", r.Modified[0].Path)
	assert.Equal(t, headers["src/a.ads"], r.Modified[0].Header)
	assert.Equal(t, "src/z.ads", r.Modified[1].Path)
	assert.Equal(t, 3, r.Modified[1].Additions)
	assert.Equal(t, 1, r.Modified[1].Deletions)

	require.Len(t, r.Deleted, 1)
	assert.Equal(t, "src/b.ads", r.Deleted[0].Path)

	require.Len(t, r.Renamed, 1)
	assert.Equal(t, "src/d.ads", r.Renamed[0].Path)
	assert.Equal(t, "src/c.ads", r.Renamed[0].OldPath)
	assert.False(t, r.Renamed[0].Modified)
}

func TestBucketsAreDisjoint(t *testing.T) {
	t.Parallel()

	changes := []git.Change{
		{Kind: git.ChangeModified, Path: "src/a.ads", ContentChanged: true},
		{Kind: git.ChangeDeleted, Path: "src/b.ads"},
		{Kind: git.ChangeRenamed, Path: "src/d.ads", OldPath: "src/c.ads", ContentChanged: true},
	}

	r := Build(changes, nil)

	seen := map[string]int{}
	for _, m := range r.Modified {
		seen[m.Path]++
	}
	for _, d := range r.Deleted {
		seen[d.Path]++
	}
	for _, rn := range r.Renamed {
		seen[rn.Path]++
	}

	for path, count := range seen {
		assert.Equal(t, 1, count, "path %s appears in more than one bucket", path)
	}
}

func TestWriteStableFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "changes.json")

	r := Build([]git.Change{
		{Kind: git.ChangeRenamed, Path: "src/d.ads", OldPath: "src/c.ads", ContentChanged: true},
	}, nil)

	n, err := r.Write(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, n)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "modified")
	require.Contains(t, decoded, "deleted")
	require.Contains(t, decoded, "renamed")

	renamed := decoded["renamed"].([]any)[0].(map[string]any)
	assert.Equal(t, "src/d.ads", renamed["path"])
	assert.Equal(t, "src/c.ads", renamed["oldPath"])
	assert.Equal(t, true, renamed["modified"])
}

func TestEmptyReportMarshalsEmptyArrays(t *testing.T) {
	t.Parallel()

	r := Build(nil, nil)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"modified":[],"deleted":[],"renamed":[]}`, string(data))
}

func TestWriteDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changes := []git.Change{
		{Kind: git.ChangeModified, Path: "src/a.ads", ContentChanged: true, Additions: 2},
		{Kind: git.ChangeDeleted, Path: "src/b.ads"},
	}

	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	_, err := Build(changes, nil).Write(first)
	require.NoError(t, err)
	_, err = Build(changes, nil).Write(second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
