package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FormulaError indicates an invalid calculated-column expression. It is
// raised at compile time, before any row is mutated.
type FormulaError struct {
	Formula string
	Reason  string
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("invalid formula %q: %s", e.Formula, e.Reason)
}

// Program is a compiled formula: a restricted arithmetic AST whose
// identifiers resolve to column names and whose function calls are limited to
// a whitelisted math table. No host-language code is ever generated from the
// user's text.
type Program struct {
	Vars []string // referenced columns, in positional argument order
	root node
	idx  map[string]int
}

// Eval evaluates the program against the coerced numeric values of the
// referenced columns, in Vars order. A result that is not a finite number
// collapses to 0 so a single bad row never aborts a batch.
func (p *Program) Eval(args []float64) float64 {
	v := p.root.eval(p, args)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Compile tokenizes and parses the formula. Every bare identifier must be one
// of the given column names; every call target must be a whitelisted function
// with the right arity.
func Compile(formula string, columns []string) (*Program, error) {
	toks, err := tokenize(formula)
	if err != nil {
		return nil, &FormulaError{Formula: formula, Reason: err.Error()}
	}
	if len(toks) == 0 {
		return nil, &FormulaError{Formula: formula, Reason: "empty expression"}
	}
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}
	p := &parser{toks: toks, known: known, prog: &Program{idx: map[string]int{}}}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, &FormulaError{Formula: formula, Reason: err.Error()}
	}
	if p.pos != len(p.toks) {
		return nil, &FormulaError{Formula: formula, Reason: fmt.Sprintf("unexpected %q", p.toks[p.pos].text)}
	}
	p.prog.root = root
	return p.prog, nil
}

type tokKind uint8

const (
	tokNum tokKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		case strings.ContainsRune("+-*/%^", r):
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			f, err := strconv.ParseFloat(string(rs[i:j]), 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", string(rs[i:j]))
			}
			toks = append(toks, token{kind: tokNum, num: f, text: string(rs[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
	return toks, nil
}

// node is one AST vertex. eval never fails: domain errors surface as NaN and
// are sanitized at the Program boundary.
type node interface {
	eval(p *Program, args []float64) float64
}

type numNode float64

func (n numNode) eval(*Program, []float64) float64 { return float64(n) }

type varNode int

func (n varNode) eval(_ *Program, args []float64) float64 { return args[int(n)] }

type unaryNode struct{ operand node }

func (n unaryNode) eval(p *Program, args []float64) float64 { return -n.operand.eval(p, args) }

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(p *Program, args []float64) float64 {
	l, r := n.l.eval(p, args), n.r.eval(p, args)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '%':
		return math.Mod(l, r)
	default: // '^'
		return math.Pow(l, r)
	}
}

type callNode struct {
	fn   func(...float64) float64
	args []node
}

func (n callNode) eval(p *Program, args []float64) float64 {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		vals[i] = a.eval(p, args)
	}
	return n.fn(vals...)
}

type mathFn struct {
	arity int
	fn    func(...float64) float64
}

var mathTable = map[string]mathFn{
	"abs":   {1, func(a ...float64) float64 { return math.Abs(a[0]) }},
	"sqrt":  {1, func(a ...float64) float64 { return math.Sqrt(a[0]) }},
	"log":   {1, func(a ...float64) float64 { return math.Log(a[0]) }},
	"log10": {1, func(a ...float64) float64 { return math.Log10(a[0]) }},
	"exp":   {1, func(a ...float64) float64 { return math.Exp(a[0]) }},
	"floor": {1, func(a ...float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a ...float64) float64 { return math.Ceil(a[0]) }},
	"round": {1, func(a ...float64) float64 { return math.Round(a[0]) }},
	"sin":   {1, func(a ...float64) float64 { return math.Sin(a[0]) }},
	"cos":   {1, func(a ...float64) float64 { return math.Cos(a[0]) }},
	"tan":   {1, func(a ...float64) float64 { return math.Tan(a[0]) }},
	"pow":   {2, func(a ...float64) float64 { return math.Pow(a[0], a[1]) }},
	"min":   {2, func(a ...float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a ...float64) float64 { return math.Max(a[0], a[1]) }},
}

type parser struct {
	toks  []token
	pos   int
	known map[string]struct{}
	prog  *Program
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/", "%":
		return 2
	case "^":
		return 3
	}
	return 0
}

// parseExpr is a standard precedence-climbing parser over binary operators.
func (p *parser) parseExpr(minPrec int) (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp {
			return left, nil
		}
		prec := precedence(t.text)
		if prec < minPrec {
			return left, nil
		}
		p.pos++
		// right-associative exponent
		nextMin := prec + 1
		if t.text == "^" {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parsePrimary() (node, error) {
	t, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch t.kind {
	case tokNum:
		return numNode(t.num), nil
	case tokOp:
		if t.text == "-" {
			operand, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return unaryNode{operand: operand}, nil
		}
		return nil, fmt.Errorf("unexpected operator %q", t.text)
	case tokLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		if nxt, ok := p.peek(); ok && nxt.kind == tokLParen {
			return p.parseCall(t.text)
		}
		if _, ok := p.known[t.text]; !ok {
			return nil, fmt.Errorf("unknown column %q", t.text)
		}
		idx, seen := p.prog.idx[t.text]
		if !seen {
			idx = len(p.prog.Vars)
			p.prog.idx[t.text] = idx
			p.prog.Vars = append(p.prog.Vars, t.text)
		}
		return varNode(idx), nil
	default:
		return nil, fmt.Errorf("unexpected %q", t.text)
	}
}

func (p *parser) parseCall(name string) (node, error) {
	fn, ok := mathTable[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	p.pos++ // consume '('
	var args []node
	if t, ok := p.peek(); ok && t.kind == tokRParen {
		p.pos++
	} else {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			t, ok := p.next()
			if !ok {
				return nil, fmt.Errorf("unterminated call to %q", name)
			}
			if t.kind == tokRParen {
				break
			}
			if t.kind != tokComma {
				return nil, fmt.Errorf("unexpected %q in call to %q", t.text, name)
			}
		}
	}
	if len(args) != fn.arity {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, fn.arity, len(args))
	}
	return callNode{fn: fn.fn, args: args}, nil
}

func (p *parser) expect(kind tokKind, what string) error {
	t, ok := p.next()
	if !ok || t.kind != kind {
		return fmt.Errorf("expected %q", what)
	}
	return nil
}
