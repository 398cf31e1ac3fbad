package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypesOpportunistically(t *testing.T) {
	assert.Equal(t, Number(42), Parse("42"))
	assert.Equal(t, Number(-3.5), Parse(" -3.5 "))
	assert.Equal(t, Boolean(true), Parse("TRUE"))
	assert.Equal(t, Boolean(false), Parse("false"))
	assert.Equal(t, Text("hello"), Parse("hello"))
	assert.True(t, Parse("").IsMissing())
	assert.True(t, Parse("   ").IsMissing())
}

func TestValueFloat(t *testing.T) {
	f, ok := Number(1.5).Float()
	require.True(t, ok)
	assert.Equal(t, 1.5, f)

	f, ok = Text("2.5").Float()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = Text("bad").Float()
	assert.False(t, ok)
	assert.Equal(t, 0.0, Text("bad").FloatOrZero())
	assert.Equal(t, 0.0, Missing().FloatOrZero())
	assert.Equal(t, 0.0, Boolean(true).FloatOrZero())
}

func TestValueStringDistinguishesMissing(t *testing.T) {
	// missing must stringify distinctly from any real value
	assert.NotEmpty(t, Missing().String())
	assert.NotEqual(t, Missing().String(), Text("x").String())
	assert.Equal(t, "7", Number(7).String())
	assert.Equal(t, "true", Boolean(true).String())
}

func TestFromAny(t *testing.T) {
	assert.Equal(t, Number(3), FromAny(3.0))
	assert.Equal(t, Number(3), FromAny(3))
	assert.Equal(t, Boolean(true), FromAny(true))
	assert.Equal(t, Text("x"), FromAny("x"))
	assert.True(t, FromAny(nil).IsMissing())
	assert.True(t, FromAny("").IsMissing())
}

func TestRowSetPreservesOrder(t *testing.T) {
	r := NewRow(0)
	r.Set("b", Number(1))
	r.Set("a", Number(2))
	r.Set("b", Number(3)) // overwrite does not duplicate the key
	assert.Equal(t, []string{"b", "a"}, r.Keys)
	assert.Equal(t, Number(3), r.Get("b"))
	assert.True(t, r.Get("zzz").IsMissing())
}

func TestDedupeNames(t *testing.T) {
	assert.Equal(t, []string{"Name", "Name_2", "Name_3"}, DedupeNames([]string{"Name", "Name", "Name"}))
	assert.Equal(t, []string{"Name", "Name_2", "Name_3"}, DedupeNames([]string{"Name", "Name_2", "Name"}))
	assert.Equal(t, []string{"A", "B"}, DedupeNames([]string{"A", "B"}))
}

func TestDeriveCarriesCountersAndLineage(t *testing.T) {
	rows := []Row{NewRow(0)}
	d := New("test", "", rows, nil)
	d.Stats.DroppedRows = 2
	d.Hierarchy = []string{"Region"}

	child := d.Derive(rows, nil)
	assert.Equal(t, d.ID, child.ParentID)
	assert.NotEqual(t, d.ID, child.ID)
	assert.Equal(t, 2, child.Stats.DroppedRows)
	assert.Equal(t, []string{"Region"}, child.Hierarchy)
}
