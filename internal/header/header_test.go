package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommitMessage(t *testing.T) {
	t.Parallel()

	style := DefaultStyle()

	t.Run("extracts change id from second bracket group", func(t *testing.T) {
		t.Parallel()

		id, msg, err := style.ParseCommitMessage("[core] [atvcm012345] Fix altitude overflow")
		require.NoError(t, err)
		assert.Equal(t, "atvcm012345", id)
		assert.Equal(t, "Fix altitude overflow", msg)
	})

	t.Run("strips merge request trailer", func(t *testing.T) {
		t.Parallel()

		raw := "[core] [atvcm000042] Rework checksum\n\nSee merge request avionics/core!17"
		id, msg, err := style.ParseCommitMessage(raw)
		require.NoError(t, err)
		assert.Equal(t, "atvcm000042", id)
		assert.Equal(t, "Rework checksum", msg)
	})

	t.Run("collapses multiline messages", func(t *testing.T) {
		t.Parallel()

		raw := "[core] [atvcm000042] Rework checksum\nand retune the filter"
		_, msg, err := style.ParseCommitMessage(raw)
		require.NoError(t, err)
		assert.Equal(t, "Rework checksum and retune the filter", msg)
	})

	t.Run("rejects messages without a second bracket group", func(t *testing.T) {
		t.Parallel()

		_, _, err := style.ParseCommitMessage("[core] plain message")
		assert.ErrorIs(t, err, ErrNoChangeID)
	})

	t.Run("rejects ids with the wrong prefix", func(t *testing.T) {
		t.Parallel()

		_, _, err := style.ParseCommitMessage("[core] [JIRA-99] message")
		assert.ErrorIs(t, err, ErrBadChangeID)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	style := DefaultStyle()
	line := style.Render(Annotation{
		Date:     time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC),
		Author:   "J. SMITH",
		ChangeID: "atvcm012345",
		Message:  "Fix altitude overflow",
	})

	assert.Equal(t, "-- 12/05/2024 J. SMITH    atvcm012345 : Fix altitude overflow", line)
	assert.True(t, style.IsAnnotation(line))
	assert.False(t, style.MissingAuthor(line))
}

func TestMissingAuthor(t *testing.T) {
	t.Parallel()

	style := DefaultStyle()
	line := style.Render(Annotation{
		Date:     time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC),
		ChangeID: "atvcm012345",
		Message:  "Fix altitude overflow",
	})

	assert.True(t, style.IsAnnotation(line))
	assert.True(t, style.MissingAuthor(line))
}

func TestStrip(t *testing.T) {
	t.Parallel()

	style := DefaultStyle()
	body := "package Telemetry is\nend Telemetry;\n"

	t.Run("no block", func(t *testing.T) {
		t.Parallel()

		block, rest := style.Strip(body)
		assert.Empty(t, block)
		assert.Equal(t, body, rest)
	})

	t.Run("block and separator removed", func(t *testing.T) {
		t.Parallel()

		line := "-- 12/05/2024 J. SMITH    atvcm012345 : Fix altitude overflow"
		block, rest := style.Strip(line + "\n\n" + body)
		assert.Equal(t, []string{line}, block)
		assert.Equal(t, body, rest)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	style := DefaultStyle()
	body := "package Telemetry is\nend Telemetry;\n"
	lineA := "-- 12/05/2024 J. SMITH    atvcm012345 : Fix altitude overflow"
	lineB := "-- 19/06/2024 A. KUMAR    atvcm012399 : Retune filter gains"

	t.Run("prepends when no block exists", func(t *testing.T) {
		t.Parallel()

		got := style.Apply(body, []string{lineA})
		assert.Equal(t, lineA+"\n\n"+body, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		once := style.Apply(body, []string{lineA, lineB})
		twice := style.Apply(once, []string{lineA, lineB})
		assert.Equal(t, once, twice)
	})

	t.Run("replaces a stale block instead of stacking", func(t *testing.T) {
		t.Parallel()

		stale := style.Apply(body, []string{lineA})
		got := style.Apply(stale, []string{lineA, lineB})
		assert.Equal(t, lineA+"\n"+lineB+"\n\n"+body, got)
	})

	t.Run("empty lines leave only the body", func(t *testing.T) {
		t.Parallel()

		stale := style.Apply(body, []string{lineA})
		assert.Equal(t, body, style.Apply(stale, nil))
	})
}
