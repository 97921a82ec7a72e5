package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Shubham1700/update-headers/internal/header"
	"github.com/Shubham1700/update-headers/internal/logger"
)

// Ledger is the persistent map of file path to its ordered annotation
// lines, loaded from and saved back to a JSON document so annotations
// accumulate across runs.
type Ledger struct {
	path    string
	entries map[string][]string
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		entries: make(map[string][]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.GlobalLogger.Verbosef("No ledger at %s, starting empty", path)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %q: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("malformed ledger %q: %w", path, err)
	}

	logger.GlobalLogger.Debugf("Loaded ledger with %d file entry(ies)", len(l.entries))

	return l, nil
}

// Lines returns the annotation lines recorded for path, oldest first.
func (l *Ledger) Lines(path string) []string {
	return l.entries[path]
}

// Len returns the number of files the ledger tracks.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Append records line for path after dropping any older line carrying the
// same change id, so a change id appears at most once per file.
func (l *Ledger) Append(path, line, changeID string) {
	kept := l.entries[path][:0]
	for _, existing := range l.entries[path] {
		if !containsChangeID(existing, changeID) {
			kept = append(kept, existing)
		}
	}
	l.entries[path] = append(kept, line)
}

// Rename moves the entry for oldPath to newPath. It reports whether an
// entry existed to move.
func (l *Ledger) Rename(oldPath, newPath string) bool {
	lines, ok := l.entries[oldPath]
	if !ok {
		return false
	}
	delete(l.entries, oldPath)
	l.entries[newPath] = lines
	return true
}

// Delete drops the entry for path, reporting whether one existed.
func (l *Ledger) Delete(path string) bool {
	if _, ok := l.entries[path]; !ok {
		return false
	}
	delete(l.entries, path)
	return true
}

// MissingAuthors collects, per file, the annotation lines whose author
// field is blank.
func (l *Ledger) MissingAuthors(style header.Style) map[string][]string {
	missing := make(map[string][]string)

	for path, lines := range l.entries {
		for _, line := range lines {
			if style.MissingAuthor(line) {
				missing[path] = append(missing[path], line)
			}
		}
	}

	return missing
}

// Save writes the ledger back with 4-space indentation. Map keys marshal
// sorted, so identical content produces identical bytes.
func (l *Ledger) Save() error {
	data, err := json.MarshalIndent(l.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if err := os.WriteFile(l.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write ledger %q: %w", l.path, err)
	}

	return nil
}

// SaveMissingAuthors writes the missing-author collection to path with the
// same formatting as the ledger itself.
func SaveMissingAuthors(path string, missing map[string][]string) error {
	data, err := json.MarshalIndent(missing, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode missing authors: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write missing authors %q: %w", path, err)
	}

	return nil
}

func containsChangeID(line, changeID string) bool {
	// Substring match tolerates hand-edited spacing around the change id.
	return changeID != "" && strings.Contains(line, changeID)
}
