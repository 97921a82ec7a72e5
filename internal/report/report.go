package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Shubham1700/update-headers/internal/git"
)

// ModifiedRecord describes an edited or added file and the header block it
// received.
type ModifiedRecord struct {
	Path      string `json:"path"`
	Header    string `json:"header"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// DeletedRecord describes a file present in the old tree only.
type DeletedRecord struct {
	Path string `json:"path"`
}

// RenamedRecord describes a relocated file. Modified marks renames whose
// content also changed.
type RenamedRecord struct {
	Path     string `json:"path"`
	OldPath  string `json:"oldPath"`
	Modified bool   `json:"modified"`
}

// ChangeReport is the JSON summary of all changes between two references
// within one folder. Field names are part of the output contract.
type ChangeReport struct {
	Modified []ModifiedRecord `json:"modified"`
	Deleted  []DeletedRecord  `json:"deleted"`
	Renamed  []RenamedRecord  `json:"renamed"`
}

// Build assembles a report from classified changes. headers maps a modified
// path to the annotation block written into it. Buckets come out sorted by
// path so identical inputs serialize to identical bytes.
func Build(changes []git.Change, headers map[string]string) *ChangeReport {
	r := &ChangeReport{
		Modified: []ModifiedRecord{},
		Deleted:  []DeletedRecord{},
		Renamed:  []RenamedRecord{},
	}

	for _, c := range changes {
		switch c.Kind {
		case git.ChangeModified:
			r.Modified = append(r.Modified, ModifiedRecord{
				Path:      c.Path,
				Header:    headers[c.Path],
				Additions: c.Additions,
				Deletions: c.Deletions,
			})
		case git.ChangeDeleted:
			r.Deleted = append(r.Deleted, DeletedRecord{Path: c.Path})
		case git.ChangeRenamed:
			r.Renamed = append(r.Renamed, RenamedRecord{
				Path:     c.Path,
				OldPath:  c.OldPath,
				Modified: c.ContentChanged,
			})
		}
	}

	sort.Slice(r.Modified, func(i, j int) bool { return r.Modified[i].Path < r.Modified[j].Path })
	sort.Slice(r.Deleted, func(i, j int) bool { return r.Deleted[i].Path < r.Deleted[j].Path })
	sort.Slice(r.Renamed, func(i, j int) bool { return r.Renamed[i].Path < r.Renamed[j].Path })

	return r
}

// Write serializes the report to path and returns the number of bytes written.
func (r *ChangeReport) Write(path string) (int, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode report: %w", err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write report %q: %w", path, err)
	}

	return len(data), nil
}
