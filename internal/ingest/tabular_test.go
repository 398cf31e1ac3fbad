package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datasculpt/datasculpt/internal/dataset"
)

const bannerCSV = "REPORT,,,\n\nName,Age,City\nAnn,30,NY\nBo,25,LA\nCy,40,SF\n"

func TestTabularRecoversHeaderPastBanner(t *testing.T) {
	d, err := Tabular([]byte(bannerCSV), Options{Name: "people"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age", "City"}, d.ColumnNames())
	assert.Len(t, d.Rows, 3)
	assert.Equal(t, 2, d.Stats.DroppedRows)
	assert.Equal(t, "Ann", d.Rows[0].Get("Name").String())
	assert.Equal(t, 30.0, d.Rows[0].Get("Age").FloatOrZero())
}

func TestTabularCleanFile(t *testing.T) {
	raw := "a,b\n1,2\n3,4\n"
	d, err := Tabular([]byte(raw), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Stats.DroppedRows)
	assert.Len(t, d.Rows, 2)
	assert.Equal(t, dataset.KindNumber, d.Rows[1].Get("b").Kind)
}

func TestTabularEmptyInput(t *testing.T) {
	_, err := Tabular([]byte("   \n  \n"), Options{})
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestTabularDedupesAndNamesBlankHeaders(t *testing.T) {
	raw := "x,,x\n1,2,3\n"
	d, err := Tabular([]byte(raw), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "Column_2", "x_2"}, d.ColumnNames())
}

func TestTabularShortRecordsPadWithMissing(t *testing.T) {
	raw := "a,b,c\n1,2\n"
	d, err := Tabular([]byte(raw), Options{})
	require.NoError(t, err)
	require.Len(t, d.Rows, 1)
	assert.True(t, d.Rows[0].Get("c").IsMissing())
}

func TestTabularMaxRows(t *testing.T) {
	raw := "a\n1\n2\n3\n4\n"
	d, err := Tabular([]byte(raw), Options{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, d.Rows, 2)
}

func TestTabularProgressIsMonotonic(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1200; i++ {
		b.WriteString("1,2,3\n")
	}
	raw := "a,b,c\n" + b.String()

	var calls []int64
	_, err := Tabular([]byte(raw), Options{
		Progress: func(done, total int64) {
			calls = append(calls, done)
			assert.LessOrEqual(t, done, total)
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, calls)
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i], calls[i-1])
	}
	assert.Equal(t, int64(len(raw)), calls[len(calls)-1])
}

func TestTabularAsyncDeliversOneResult(t *testing.T) {
	ch := TabularAsync([]byte(bannerCSV), Options{})
	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Len(t, res.Dataset.Rows, 3)

	_, open := <-ch
	assert.False(t, open)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1;2;3\n")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb\n1\t2\n")))
	assert.Equal(t, ',', sniffDelimiter([]byte("plain text\n")))
}

func TestTabularSemicolonAutoDetected(t *testing.T) {
	d, err := Tabular([]byte("name;score\nann;9\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, d.ColumnNames())
}
