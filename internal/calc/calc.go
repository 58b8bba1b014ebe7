// Package calc recognizes and evaluates the simple arithmetic expressions
// learners type into chat ("what is 2+2*3?").
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrMalformed is returned for expressions that do not parse.
	ErrMalformed = errors.New("malformed expression")
	// ErrNotArithmetic is returned when an utterance holds no candidate expression.
	ErrNotArithmetic = errors.New("not an arithmetic expression")
)

// maxDepth bounds parenthesis and unary nesting.
const maxDepth = 64

// Extract strips an utterance down to its arithmetic characters. Commas survive the
// strip so that "1,000+1" is rejected instead of silently read as "1000+1".
// The candidate must contain at least one digit and one operator.
func Extract(utterance string) (string, error) {
	var b strings.Builder
	hasDigit, hasOperator := false, false
	for _, r := range utterance {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteRune(r)
		case r == '+' || r == '-' || r == '*' || r == '/':
			hasOperator = true
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '(' || r == ')':
			b.WriteRune(r)
		}
	}
	if !hasDigit || !hasOperator {
		return "", ErrNotArithmetic
	}
	expr := b.String()
	if strings.ContainsRune(expr, ',') {
		return "", fmt.Errorf("%w: unexpected ','", ErrMalformed)
	}
	return expr, nil
}

// TryEvaluate extracts and evaluates the arithmetic expression in utterance.
// It reports false for anything that is not a finite result.
func TryEvaluate(utterance string) (float64, bool) {
	expr, err := Extract(utterance)
	if err != nil {
		return 0, false
	}
	v, err := Eval(expr)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Eval evaluates expr using standard precedence: parentheses, unary sign,
// multiplication and division, then addition and subtraction, all left-associative.
func Eval(expr string) (float64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrMalformed)
	}
	p := &parser{toks: toks}
	v, err := p.expr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected %q at token %d", ErrMalformed, p.toks[p.pos].text, p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: result is not finite", ErrMalformed)
	}
	return v, nil
}

// Format renders v the way a learner expects to read it: integers without a
// fraction, shortest round-trip digits otherwise, exponent form only for very
// large or very small magnitudes.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'g', -1, 64)
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func tokenize(expr string) ([]token, error) {
	var toks []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			start := i
			dots := 0
			for i < len(expr) && (expr[i] >= '0' && expr[i] <= '9' || expr[i] == '.') {
				if expr[i] == '.' {
					dots++
				}
				i++
			}
			text := expr[start:i]
			if dots > 1 || text == "." {
				return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, text)
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, value: v})
			continue
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: tokOp, text: string(c)})
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
		case c == ' ' || c == '\t':
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrMalformed, c)
		}
		i++
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expr(depth int) (float64, error) {
	left, err := p.term(depth)
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.term(depth)
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term(depth int) (float64, error) {
	left, err := p.unary(depth)
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.unary(depth)
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

func (p *parser) unary(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, fmt.Errorf("%w: nesting too deep", ErrMalformed)
	}
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.text == "+" || t.text == "-") {
		p.pos++
		v, err := p.unary(depth + 1)
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.primary(depth)
}

func (p *parser) primary(depth int) (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrMalformed)
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return t.value, nil
	case tokLParen:
		p.pos++
		v, err := p.expr(depth + 1)
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return 0, fmt.Errorf("%w: missing ')'", ErrMalformed)
		}
		p.pos++
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrMalformed, t.text)
	}
}
