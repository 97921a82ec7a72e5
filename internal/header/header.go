package header

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNoChangeID  = errors.New("commit message carries no change id")
	ErrBadChangeID = errors.New("change id does not match the configured prefix")
)

// Style describes how annotation lines are written and recognized.
type Style struct {
	// CommentLeader opens every annotation line, e.g. "--" for Ada.
	CommentLeader string
	// ChangeIDPrefix is the ticket prefix a change id must carry, e.g. "atvcm".
	ChangeIDPrefix string
}

func DefaultStyle() Style {
	return Style{CommentLeader: "--", ChangeIDPrefix: "atvcm"}
}

// Annotation is one header line recording a commit against a change id.
type Annotation struct {
	Date     time.Time
	Author   string
	ChangeID string
	Message  string
}

// ParseCommitMessage extracts the change id from the second bracket group of
// a commit message and cleans the remainder: the text after the final
// bracket, with any "See merge request" trailer dropped and newlines
// collapsed. Ids that do not match the configured prefix are rejected so
// rendered lines always round-trip through IsAnnotation.
func (s Style) ParseCommitMessage(msg string) (changeID, cleaned string, err error) {
	parts := strings.SplitN(msg, "[", 3)
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: %q", ErrNoChangeID, firstLine(msg))
	}

	end := strings.Index(parts[2], "]")
	if end < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrNoChangeID, firstLine(msg))
	}

	changeID = strings.TrimSpace(parts[2][:end])
	if !s.changeIDPattern().MatchString(changeID) {
		return "", "", fmt.Errorf("%w: %q", ErrBadChangeID, changeID)
	}

	cleaned = msg[strings.LastIndex(msg, "]")+1:]
	if i := strings.Index(cleaned, "\n\nSee merge request"); i >= 0 {
		cleaned = cleaned[:i]
	}

	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.TrimSpace(strings.Join(strings.Split(cleaned, "\n"), " "))

	return changeID, cleaned, nil
}

// Render formats one annotation line, dating it from the commit rather than
// the wall clock.
func (s Style) Render(a Annotation) string {
	return fmt.Sprintf("%s %s %s    %s : %s",
		s.CommentLeader, a.Date.Format("02/01/2006"), a.Author, a.ChangeID, a.Message)
}

// IsAnnotation reports whether line looks like a header annotation in this style.
func (s Style) IsAnnotation(line string) bool {
	return s.linePattern().MatchString(line)
}

// MissingAuthor reports whether an annotation line lacks its author field,
// leaving the run of spaces between date and change id.
func (s Style) MissingAuthor(line string) bool {
	return s.IsAnnotation(line) && s.missingAuthorPattern().MatchString(line)
}

// Strip splits content into its leading annotation block and the remaining
// body. Blank lines separating the block from the body belong to neither.
func (s Style) Strip(content string) (block []string, body string) {
	lines := strings.Split(content, "\n")

	i := 0
	for i < len(lines) && s.IsAnnotation(lines[i]) {
		block = append(block, lines[i])
		i++
	}

	if i == 0 {
		return nil, content
	}

	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	return block, strings.Join(lines[i:], "\n")
}

// Apply replaces the leading annotation block of content with lines,
// separated from the body by one blank line. Applying the same lines twice
// yields the same bytes: prior blocks never stack.
func (s Style) Apply(content string, lines []string) string {
	_, body := s.Strip(content)

	if len(lines) == 0 {
		return body
	}

	return strings.Join(lines, "\n") + "\n\n" + body
}

func (s Style) linePattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s.CommentLeader) +
		`\s\d{2}/\d{2}/\d{4}\s+(?:\S.*?\s+)?` + regexp.QuoteMeta(s.ChangeIDPrefix) + `\d+\s+:\s`)
}

func (s Style) missingAuthorPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s.CommentLeader) + `\s\d{2}/\d{2}/\d{4}\s{5,}`)
}

func (s Style) changeIDPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(s.ChangeIDPrefix) + `\d+$`)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
