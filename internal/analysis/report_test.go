package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

func TestRenderSections(t *testing.T) {
	d := groupedDataset(t)
	out := Render(d, 2)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "[SCHEMA]")
	assert.Contains(t, out, "[SAMPLE ROWS]")
	assert.Contains(t, out, "region")
	// sample limited to two rows plus the header line
	assert.Equal(t, 3, strings.Count(out[strings.Index(out, "[SAMPLE ROWS]"):], "|\n"))
}

func TestRenderTruncatesLongCellsOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ü", 120)
	rows := rowsFromCells(map[string]dataset.Value{"v": dataset.Text(long)})
	d := dataset.New("uni", "", rows, Columns(rows))

	out := Render(d, 1)
	require.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("ü", 77)+"...")
	assert.NotContains(t, out, strings.Repeat("ü", 78))
}
