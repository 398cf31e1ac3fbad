// Package transform implements the append-only derived-column pipeline: a
// closed set of operations that each add exactly one column to a dataset and
// never remove or overwrite anything, plus a sandboxed formula evaluator for
// free-form calculated columns.
package transform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/datasculpt/datasculpt/internal/analysis"
	"github.com/datasculpt/datasculpt/internal/dataset"
)

// Kind names one operation of the closed set.
type Kind string

const (
	OpSplitCount   Kind = "split_count"
	OpSplitExtract Kind = "split_extract"
	OpRegexExtract Kind = "regex_extract"
	OpUppercase    Kind = "uppercase"
	OpLowercase    Kind = "lowercase"
	OpOffset       Kind = "offset"
	OpNaturalLog   Kind = "natural_log"
	OpCalculated   Kind = "calculated"
)

// Config is the tagged operation variant: which operation, which column it
// reads, and operation-specific parameters.
type Config struct {
	Kind   Kind
	Target string
	Params map[string]string
}

func (c Config) param(key string) string {
	if c.Params == nil {
		return ""
	}
	return c.Params[key]
}

var opSuffix = map[Kind]string{
	OpSplitCount:   "count",
	OpSplitExtract: "part",
	OpRegexExtract: "extract",
	OpUppercase:    "upper",
	OpLowercase:    "lower",
	OpOffset:       "offset",
	OpNaturalLog:   "ln",
}

// Apply derives a new dataset with exactly one additional column, named
// deterministically from the operation and target, and re-runs the column
// analyzer. Row-level oddities are absorbed locally; only unresolvable
// configuration (missing target, bad pattern, bad formula) fails, and it
// fails before any row is processed.
func Apply(d *dataset.Dataset, cfg Config) (*dataset.Dataset, error) {
	if cfg.Kind == OpCalculated {
		return CalculatedColumn(d, cfg.param("name"), cfg.param("formula"))
	}
	if !d.HasColumn(cfg.Target) {
		return nil, fmt.Errorf("transform %s: no such column %q", cfg.Kind, cfg.Target)
	}
	cell, err := cellFunc(cfg)
	if err != nil {
		return nil, err
	}
	name := deriveName(d, cfg.Target+"_"+opSuffix[cfg.Kind])
	out := appendColumn(d, name, func(r dataset.Row) dataset.Value {
		return cell(r.Get(cfg.Target))
	})
	switch cfg.Kind {
	case OpOffset, OpNaturalLog:
		out.Stats.ImputedCells += defaultedCells(d, []string{cfg.Target})
	}
	return out, nil
}

// defaultedCells counts the cells in the given columns that a numeric
// operation substitutes with 0: missing cells and cells that do not coerce to
// a number. The count feeds the dataset's imputed-cells counter.
func defaultedCells(d *dataset.Dataset, cols []string) int {
	n := 0
	for _, r := range d.Rows {
		for _, c := range cols {
			if _, ok := r.Get(c).Float(); !ok {
				n++
			}
		}
	}
	return n
}

// cellFunc resolves the per-cell evaluation for one operation up front, so
// parameter problems surface before any row is touched.
func cellFunc(cfg Config) (func(dataset.Value) dataset.Value, error) {
	switch cfg.Kind {
	case OpSplitCount:
		delim := cfg.param("delimiter")
		if delim == "" {
			delim = ","
		}
		return func(v dataset.Value) dataset.Value {
			if v.IsMissing() {
				return dataset.Number(0)
			}
			return dataset.Number(float64(len(strings.Split(v.String(), delim))))
		}, nil
	case OpSplitExtract:
		delim := cfg.param("delimiter")
		if delim == "" {
			delim = ","
		}
		idx, err := strconv.Atoi(cfg.param("index"))
		if err != nil {
			return nil, fmt.Errorf("transform %s: bad index %q", cfg.Kind, cfg.param("index"))
		}
		return func(v dataset.Value) dataset.Value {
			if v.IsMissing() {
				return dataset.Missing()
			}
			parts := strings.Split(v.String(), delim)
			if idx < 0 || idx >= len(parts) {
				return dataset.Missing()
			}
			return dataset.Parse(strings.TrimSpace(parts[idx]))
		}, nil
	case OpRegexExtract:
		re, err := regexp.Compile(cfg.param("pattern"))
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", cfg.Kind, err)
		}
		return func(v dataset.Value) dataset.Value {
			if v.IsMissing() {
				return dataset.Missing()
			}
			m := re.FindStringSubmatch(v.String())
			switch {
			case m == nil:
				return dataset.Missing()
			case len(m) > 1:
				return dataset.Text(m[1])
			default:
				return dataset.Text(m[0])
			}
		}, nil
	case OpUppercase, OpLowercase:
		upper := cfg.Kind == OpUppercase
		return func(v dataset.Value) dataset.Value {
			if v.IsMissing() {
				return dataset.Missing()
			}
			if upper {
				return dataset.Text(strings.ToUpper(v.String()))
			}
			return dataset.Text(strings.ToLower(v.String()))
		}, nil
	case OpOffset:
		amount, err := strconv.ParseFloat(cfg.param("amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("transform %s: bad amount %q", cfg.Kind, cfg.param("amount"))
		}
		return func(v dataset.Value) dataset.Value {
			return dataset.Number(v.FloatOrZero() + amount)
		}, nil
	case OpNaturalLog:
		return func(v dataset.Value) dataset.Value {
			f := v.FloatOrZero()
			if f <= 0 {
				return dataset.Number(0)
			}
			return dataset.Number(math.Log(f))
		}, nil
	default:
		return nil, fmt.Errorf("transform: unknown operation %q", cfg.Kind)
	}
}

// CalculatedColumn compiles the formula once against the dataset's column
// names and evaluates it per row. Compilation failure raises a FormulaError
// before any row is processed; a row that fails to evaluate gets 0 and the
// batch completes regardless.
func CalculatedColumn(d *dataset.Dataset, name, formula string) (*dataset.Dataset, error) {
	prog, err := Compile(formula, d.ColumnNames())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Calculated"
	}
	name = deriveName(d, name)
	out := appendColumn(d, name, func(r dataset.Row) dataset.Value {
		args := make([]float64, len(prog.Vars))
		for i, col := range prog.Vars {
			args[i] = r.Get(col).FloatOrZero()
		}
		return dataset.Number(prog.Eval(args))
	})
	out.Stats.ImputedCells += defaultedCells(d, prog.Vars)
	return out, nil
}

// appendColumn clones every row, sets the new cell, and derives the successor
// dataset with freshly analyzed columns.
func appendColumn(d *dataset.Dataset, name string, cell func(dataset.Row) dataset.Value) *dataset.Dataset {
	rows := make([]dataset.Row, len(d.Rows))
	for i, r := range d.Rows {
		nr := r.Clone()
		nr.Set(name, cell(r))
		rows[i] = nr
	}
	out := d.Derive(rows, d.Columns)
	out.Columns = analysis.Refresh(out)
	out.Stats.TotalCells = len(rows) * len(out.Columns)
	return out
}

// deriveName keeps column names unique by suffixing repeats.
func deriveName(d *dataset.Dataset, base string) string {
	if !d.HasColumn(base) {
		return base
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s_%d", base, i)
		if !d.HasColumn(cand) {
			return cand
		}
	}
}
