package dataset

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Kind discriminates the scalar variants a cell can hold.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindBool
)

// Value is a tagged scalar cell. The zero Value is Missing.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

func Missing() Value         { return Value{} }
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Text(s string) Value    { return Value{Kind: KindText, Str: s} }
func Boolean(b bool) Value   { return Value{Kind: KindBool, Bool: b} }

// IsMissing reports whether the cell holds no value. Empty text counts as
// missing so that sparse exports and explicit nulls behave the same.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing || (v.Kind == KindText && strings.TrimSpace(v.Str) == "")
}

// Float returns the cell as a float64 and whether the conversion is exact.
// Text cells are parsed; booleans and missing cells do not convert.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindText:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOrZero coerces the cell to a number, defaulting anything
// non-numeric (including missing) to 0.
func (v Value) FloatOrZero() float64 {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return f
}

// String renders the cell for display and for unique-value counting.
// Missing cells render as a distinct sentinel so they count once.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindText:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "∅"
	}
}

// Parse types a raw textual cell opportunistically: number, then boolean,
// else text. Empty input becomes Missing.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return Boolean(strings.ToLower(s) == "true")
	}
	return Text(s)
}

// FromAny converts an arbitrary decoded value (e.g. a JSON property) into a
// tagged cell. Unhandled shapes are rendered through cast as text.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Missing()
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case bool:
		return Boolean(t)
	case string:
		if strings.TrimSpace(t) == "" {
			return Missing()
		}
		return Text(t)
	default:
		s, err := cast.ToStringE(x)
		if err != nil || strings.TrimSpace(s) == "" {
			return Missing()
		}
		return Text(s)
	}
}
