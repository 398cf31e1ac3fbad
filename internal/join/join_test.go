package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

func build(t *testing.T, name string, header []string, grid [][]string) *dataset.Dataset {
	t.Helper()
	rows := make([]dataset.Row, len(grid))
	for i, rec := range grid {
		r := dataset.NewRow(i)
		for j, h := range header {
			r.Set(h, dataset.Parse(rec[j]))
		}
		rows[i] = r
	}
	return dataset.New(name, "", rows, analysis.Columns(rows))
}

func TestLeftOuterMergesMatchingRows(t *testing.T) {
	orders := build(t, "orders",
		[]string{"cust", "amount"},
		[][]string{{"a", "10"}, {"b", "20"}, {"c", "30"}})
	people := build(t, "people",
		[]string{"id", "city"},
		[][]string{{"a", "NY"}, {"b", "LA"}})

	out, err := LeftOuter(orders, people, "cust", "id")
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)

	assert.Equal(t, "NY", out.Rows[0].Get("city").String())
	assert.Equal(t, "LA", out.Rows[1].Get("city").String())
	// unmatched primary row passes through without the secondary field
	assert.True(t, out.Rows[2].Get("city").IsMissing())
	assert.NotContains(t, out.Rows[2].Keys, "city")

	assert.Equal(t, orders.ID, out.ParentID)
}

func TestLeftOuterPreservesPrimaryCardinality(t *testing.T) {
	left := build(t, "l", []string{"k", "v"}, [][]string{{"x", "1"}, {"y", "2"}})
	right := build(t, "r", []string{"k", "w"}, [][]string{{"zzz", "9"}})

	out, err := LeftOuter(left, right, "k", "k")
	require.NoError(t, err)
	assert.Len(t, out.Rows, len(left.Rows))
	for i, r := range out.Rows {
		assert.Equal(t, i, r.ID)
	}
}

func TestLeftOuterPrefixesCollidingNames(t *testing.T) {
	left := build(t, "main", []string{"k", "score"}, [][]string{{"a", "1"}})
	right := build(t, "extra", []string{"k", "score"}, [][]string{{"a", "99"}})

	out, err := LeftOuter(left, right, "k", "k")
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, 1.0, out.Rows[0].Get("score").FloatOrZero())
	assert.Equal(t, 99.0, out.Rows[0].Get("extra_score").FloatOrZero())
}

func TestLeftOuterDuplicateSecondaryKeysLastWins(t *testing.T) {
	left := build(t, "l", []string{"k"}, [][]string{{"a"}})
	right := build(t, "r", []string{"k", "v"}, [][]string{{"a", "first"}, {"a", "second"}})

	out, err := LeftOuter(left, right, "k", "k")
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "second", out.Rows[0].Get("v").String())
}

func TestLeftOuterMissingKeyColumn(t *testing.T) {
	left := build(t, "l", []string{"k"}, [][]string{{"a"}})
	right := build(t, "r", []string{"k"}, [][]string{{"a"}})

	var kerr *KeyError
	_, err := LeftOuter(left, right, "nope", "k")
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "l", kerr.Dataset)

	_, err = LeftOuter(left, right, "k", "nope")
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "r", kerr.Dataset)
}

func TestLeftOuterKeysJoinAcrossTypes(t *testing.T) {
	// numeric 7 on one side and textual "7" on the other meet through
	// stringified key values
	left := build(t, "l", []string{"id", "a"}, [][]string{{"7", "x"}})
	right := make([]dataset.Row, 1)
	r := dataset.NewRow(0)
	r.Set("id", dataset.Text("7"))
	r.Set("b", dataset.Text("y"))
	right[0] = r
	rd := dataset.New("r", "", right, analysis.Columns(right))

	out, err := LeftOuter(left, rd, "id", "id")
	require.NoError(t, err)
	assert.Equal(t, "y", out.Rows[0].Get("b").String())
}
