package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, formula string, cols []string, args ...float64) float64 {
	t.Helper()
	prog, err := Compile(formula, cols)
	require.NoError(t, err)
	return prog.Eval(args)
}

func TestCompileArithmetic(t *testing.T) {
	assert.Equal(t, 7.0, eval(t, "1 + 2 * 3", nil))
	assert.Equal(t, 9.0, eval(t, "(1 + 2) * 3", nil))
	assert.Equal(t, 1.0, eval(t, "7 % 3", nil))
	assert.Equal(t, -4.0, eval(t, "-4", nil))
	assert.Equal(t, 2.0, eval(t, "10 / 5", nil))
}

func TestCompileExponentIsRightAssociative(t *testing.T) {
	// 2^(3^2) = 512, not (2^3)^2 = 64
	assert.Equal(t, 512.0, eval(t, "2 ^ 3 ^ 2", nil))
}

func TestCompileColumnReferences(t *testing.T) {
	prog, err := Compile("Price * Quantity", []string{"Price", "Quantity", "Other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Price", "Quantity"}, prog.Vars)
	assert.Equal(t, 20.0, prog.Eval([]float64{4, 5}))
}

func TestCompileRepeatedColumnBindsOnce(t *testing.T) {
	prog, err := Compile("x * x + x", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, prog.Vars)
	assert.Equal(t, 12.0, prog.Eval([]float64{3}))
}

func TestCompileFunctions(t *testing.T) {
	assert.Equal(t, 3.0, eval(t, "sqrt(9)", nil))
	assert.Equal(t, 5.0, eval(t, "max(2, 5)", nil))
	assert.Equal(t, 8.0, eval(t, "pow(2, 3)", nil))
	assert.Equal(t, 4.0, eval(t, "abs(0 - 4)", nil))
	assert.Equal(t, 2.0, eval(t, "round(1.6)", nil))
}

func TestEvalSanitizesNonFinite(t *testing.T) {
	assert.Equal(t, 0.0, eval(t, "1 / 0", nil))
	assert.Equal(t, 0.0, eval(t, "log(0 - 1)", nil))
	assert.Equal(t, 0.0, eval(t, "sqrt(0 - 4)", nil))
}

func TestCompileRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		formula string
	}{
		{"unknown column", "Price * 2"},
		{"unknown function", "frob(1)"},
		{"wrong arity", "pow(1)"},
		{"dangling operator", "1 +"},
		{"unbalanced paren", "(1 + 2"},
		{"empty", "   "},
		{"stray character", "1 $ 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.formula, nil)
			var ferr *FormulaError
			require.True(t, errors.As(err, &ferr), "expected FormulaError, got %v", err)
			assert.Equal(t, tc.formula, ferr.Formula)
		})
	}
}
