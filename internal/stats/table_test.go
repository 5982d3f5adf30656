package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := columns([]string{"Letter", "Accuracy", "Seen"}, 1, 2)
	rows := [][]string{
		{"a", "97.5%", "12"},
		{"<space>", "8.0%", "3"},
	}

	lines := formatTable(cols, rows)
	require.Len(t, lines, 4)
	assert.Equal(t, "Letter   Accuracy  Seen", lines[0])
	assert.Equal(t, "───────  ────────  ────", lines[1])
	assert.Equal(t, "a           97.5%    12", lines[2])
	assert.Equal(t, "<space>      8.0%     3", lines[3])
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable(columns([]string{"", "Name"}), [][]string{{"🔥", "Streak"}, {"ж", "Letter"}})
	require.Len(t, lines, 4)
	assert.Equal(t, "🔥  Streak", lines[2])
	assert.Equal(t, "ж   Letter", lines[3])
}

func TestFormatTableMissingCells(t *testing.T) {
	lines := formatTable(columns([]string{"A", "B"}), [][]string{{"x"}, {"y", "z", "dropped"}})
	require.Len(t, lines, 4)
	assert.Equal(t, "x", lines[2])
	assert.Equal(t, "y  z", lines[3])
	assert.Nil(t, formatTable(nil, nil))
}
