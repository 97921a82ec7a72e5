package git

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Shubham1700/update-headers/internal/logger"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangesBetween diffs the trees of two commits, restricted to folder, and
// classifies every touched path. Renames are detected by blob similarity;
// added files are folded into the modified bucket.
func (r *Repository) ChangesBetween(oldCommit, newCommit *object.Commit, folder string) ([]Change, error) {
	oldTree, err := oldCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", oldCommit.Hash, err)
	}

	newTree, err := newCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", newCommit.Hash, err)
	}

	folder = NormalizeFolder(folder)
	if err := checkFolder(oldTree, newTree, folder); err != nil {
		return nil, err
	}

	return r.diffTrees(oldTree, newTree, folder)
}

// CommitChanges classifies the files a single commit touched under folder,
// relative to its first parent. The initial commit diffs against nothing:
// every file it carries counts as modified.
func (r *Repository) CommitChanges(commit *object.Commit, folder string) ([]Change, error) {
	newTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", commit.Hash, err)
	}

	folder = NormalizeFolder(folder)

	if commit.NumParents() == 0 {
		return initialChanges(newTree, folder)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read parent of %s: %w", commit.Hash, err)
	}

	oldTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", parent.Hash, err)
	}

	return r.diffTrees(oldTree, newTree, folder)
}

func (r *Repository) diffTrees(oldTree, newTree *object.Tree, folder string) ([]Change, error) {
	treeChanges, err := object.DiffTreeWithOptions(context.Background(), oldTree, newTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("tree diff failed: %w", err)
	}

	var changes []Change

	for _, tc := range treeChanges {
		action, err := tc.Action()
		if err != nil {
			return nil, fmt.Errorf("unexpected tree diff entry: %w", err)
		}

		switch action {
		case merkletrie.Insert:
			name := tc.To.Name
			if !underFolder(name, folder) {
				continue
			}

			added, err := blobLineCount(newTree, name)
			if err != nil {
				return nil, err
			}

			changes = append(changes, Change{
				Kind:           ChangeModified,
				Path:           name,
				ContentChanged: true,
				Additions:      added,
			})

		case merkletrie.Delete:
			name := tc.From.Name
			if !underFolder(name, folder) {
				continue
			}

			changes = append(changes, Change{
				Kind: ChangeDeleted,
				Path: name,
			})

		case merkletrie.Modify:
			name := tc.To.Name
			fromIn := underFolder(tc.From.Name, folder)
			toIn := underFolder(name, folder)

			if !fromIn && !toIn {
				continue
			}

			// A move across the folder boundary is not a rename from this
			// folder's point of view: the departing path is gone, the
			// arriving path is fresh content.
			if fromIn && !toIn {
				changes = append(changes, Change{
					Kind: ChangeDeleted,
					Path: tc.From.Name,
				})
				continue
			}

			if !fromIn && toIn {
				added, err := blobLineCount(newTree, name)
				if err != nil {
					return nil, err
				}

				changes = append(changes, Change{
					Kind:           ChangeModified,
					Path:           name,
					ContentChanged: true,
					Additions:      added,
				})
				continue
			}

			contentChanged := tc.From.TreeEntry.Hash != tc.To.TreeEntry.Hash

			if tc.From.Name != tc.To.Name {
				c := Change{
					Kind:           ChangeRenamed,
					Path:           name,
					OldPath:        tc.From.Name,
					ContentChanged: contentChanged,
				}
				if contentChanged {
					c.Additions, c.Deletions, err = lineStats(oldTree, newTree, tc.From.Name, name)
					if err != nil {
						return nil, err
					}
				}
				changes = append(changes, c)
				continue
			}

			adds, dels, err := lineStats(oldTree, newTree, name, name)
			if err != nil {
				return nil, err
			}

			changes = append(changes, Change{
				Kind:           ChangeModified,
				Path:           name,
				ContentChanged: true,
				Additions:      adds,
				Deletions:      dels,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })

	logger.GlobalLogger.Debugf("Tree diff produced %d change(s) under %q", len(changes), folder)

	return changes, nil
}

func initialChanges(tree *object.Tree, folder string) ([]Change, error) {
	var changes []Change

	err := tree.Files().ForEach(func(f *object.File) error {
		if !underFolder(f.Name, folder) {
			return nil
		}

		lines, err := fileLineCount(f)
		if err != nil {
			return err
		}

		changes = append(changes, Change{
			Kind:           ChangeModified,
			Path:           f.Name,
			ContentChanged: true,
			Additions:      lines,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })

	return changes, nil
}

// NormalizeFolder cleans a folder argument into the slash-separated,
// no-trailing-slash form git trees use.
func NormalizeFolder(folder string) string {
	folder = path.Clean(strings.ReplaceAll(folder, "\\", "/"))
	return strings.Trim(folder, "/")
}

func underFolder(name, folder string) bool {
	if folder == "" || folder == "." {
		return true
	}
	return name == folder || strings.HasPrefix(name, folder+"/")
}

func checkFolder(oldTree, newTree *object.Tree, folder string) error {
	if folder == "" || folder == "." {
		return nil
	}

	if _, err := oldTree.Tree(folder); err == nil {
		return nil
	}
	if _, err := newTree.Tree(folder); err == nil {
		return nil
	}

	return fmt.Errorf("%w: %q", ErrFolderNotFound, folder)
}

// lineStats counts added and removed lines between the two blobs using a
// line-granular diff. Binary blobs report zero.
func lineStats(oldTree, newTree *object.Tree, oldName, newName string) (int, int, error) {
	oldText, oldBinary, err := blobText(oldTree, oldName)
	if err != nil {
		return 0, 0, err
	}

	newText, newBinary, err := blobText(newTree, newName)
	if err != nil {
		return 0, 0, err
	}

	if oldBinary || newBinary {
		return 0, 0, nil
	}

	// Line-granular diff: each rune stands for one whole line.
	dmp := diffmatchpatch.New()
	src, dst, _ := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(src, dst, false)

	var adds, dels int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			adds += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			dels += len([]rune(d.Text))
		}
	}

	return adds, dels, nil
}

func blobText(tree *object.Tree, name string) (string, bool, error) {
	f, err := tree.File(name)
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %q: %w", name, err)
	}

	binary, err := f.IsBinary()
	if err != nil {
		return "", false, fmt.Errorf("failed to inspect blob %q: %w", name, err)
	}
	if binary {
		return "", true, nil
	}

	text, err := f.Contents()
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %q: %w", name, err)
	}

	return text, false, nil
}

func blobLineCount(tree *object.Tree, name string) (int, error) {
	f, err := tree.File(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read blob %q: %w", name, err)
	}
	return fileLineCount(f)
}

func fileLineCount(f *object.File) (int, error) {
	binary, err := f.IsBinary()
	if err != nil || binary {
		return 0, err
	}

	text, err := f.Contents()
	if err != nil {
		return 0, err
	}

	return countLines(text), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
