package mathml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidFormula is returned when a Level 1 formula cannot be parsed.
var ErrInvalidFormula = errors.New("invalid formula")

// formulaFunctions maps infix formula function names to MathML names.
var formulaFunctions = map[string]string{
	"abs":   "abs",
	"acos":  "arccos",
	"asin":  "arcsin",
	"atan":  "arctan",
	"ceil":  "ceiling",
	"cos":   "cos",
	"cosh":  "cosh",
	"exp":   "exp",
	"floor": "floor",
	"log":   "ln",
	"pow":   "power",
	"sin":   "sin",
	"sinh":  "sinh",
	"tan":   "tan",
	"tanh":  "tanh",
}

// formulaConstantNames maps bare identifiers that denote constants.
var formulaConstantNames = map[string]string{
	"true":         "true",
	"false":        "false",
	"pi":           "pi",
	"exponentiale": "exponentiale",
	"INF":          "infinity",
	"NaN":          "notanumber",
}

// ParseFormula parses a Level 1 infix formula such as "k1 * S1 / (Km + S1)".
//
// Grammar, lowest to highest precedence:
//
//	expr    := term (("+" | "-") term)*
//	term    := unary (("*" | "/") unary)*
//	unary   := "-" unary | power
//	power   := primary ("^" unary)?
//	primary := number | name | name "(" args ")" | "(" expr ")"
func ParseFormula(s string) (*Node, error) {
	p := &formulaParser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, fmt.Errorf("%w: empty formula", ErrInvalidFormula)
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, p.tokens[p.pos].text, s)
	}
	return n, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokSymbol
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(s string) []token {
	var tokens []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					i = j
					for i < len(rs) && unicode.IsDigit(rs[i]) {
						i++
					}
				}
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(rs[start:i])})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokName, text: string(rs[start:i])})
		case strings.ContainsRune("+-*/^(),", r):
			tokens = append(tokens, token{kind: tokSymbol, text: string(r)})
			i++
		default:
			tokens = append(tokens, token{kind: tokInvalid, text: string(r)})
			i++
		}
	}
	return tokens
}

type formulaParser struct {
	tokens []token
	pos    int
}

func (p *formulaParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *formulaParser) acceptSymbol(sym string) bool {
	if t, ok := p.peek(); ok && t.kind == tokSymbol && t.text == sym {
		p.pos++
		return true
	}
	return false
}

func (p *formulaParser) expr() (*Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.acceptSymbol("+"):
			op = "plus"
		case p.acceptSymbol("-"):
			op = "minus"
		default:
			return left, nil
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = NewApply(op, left, right)
	}
}

func (p *formulaParser) term() (*Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case p.acceptSymbol("*"):
			op = "times"
		case p.acceptSymbol("/"):
			op = "divide"
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = NewApply(op, left, right)
	}
}

func (p *formulaParser) unary() (*Node, error) {
	if p.acceptSymbol("-") {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return NewApply("minus", operand), nil
	}
	return p.power()
}

func (p *formulaParser) power() (*Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.acceptSymbol("^") {
		exponent, err := p.unary()
		if err != nil {
			return nil, err
		}
		return NewApply("power", base, exponent), nil
	}
	return base, nil
}

func (p *formulaParser) primary() (*Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of formula", ErrInvalidFormula)
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return parseFormulaNumber(t.text)
	case tokName:
		p.pos++
		if p.acceptSymbol("(") {
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			return formulaCall(t.text, args), nil
		}
		if c, ok := formulaConstantNames[t.text]; ok {
			return &Node{Type: NodeConstant, Name: c}, nil
		}
		return NewName(t.text), nil
	case tokSymbol:
		if p.acceptSymbol("(") {
			inner, err := p.expr()
			if err != nil {
				return nil, err
			}
			if !p.acceptSymbol(")") {
				return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidFormula)
			}
			return inner, nil
		}
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, t.text)
}

func (p *formulaParser) args() ([]*Node, error) {
	var args []*Node
	if p.acceptSymbol(")") {
		return args, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.acceptSymbol(")") {
			return args, nil
		}
		if !p.acceptSymbol(",") {
			return nil, fmt.Errorf("%w: expected ',' or ')' in argument list", ErrInvalidFormula)
		}
	}
}

func parseFormulaNumber(text string) (*Node, error) {
	if !strings.ContainsAny(text, ".eE") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return NewInteger(v), nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad number %q", ErrInvalidFormula, text)
	}
	return NewReal(v), nil
}

// formulaCall builds the node for a function call in a formula.
func formulaCall(name string, args []*Node) *Node {
	switch name {
	case "sqrt":
		return &Node{Type: NodeFunction, Name: "root", Children: args}
	case "log10":
		return &Node{Type: NodeFunction, Name: "log", Qualifier: NewInteger(10), Children: args}
	case "sqr":
		if len(args) == 1 {
			return NewApply("power", args[0], NewInteger(2))
		}
	case "root", "log":
		if len(args) == 2 {
			return &Node{Type: NodeFunction, Name: name, Qualifier: args[0], Children: args[1:]}
		}
	case "piecewise":
		return &Node{Type: NodePiecewise, Name: "piecewise", Children: args}
	case "delay":
		return &Node{Type: NodeDelay, Name: "delay", Children: args}
	case "lambda":
		return &Node{Type: NodeLambda, Name: "lambda", Children: args}
	}
	if mathName, ok := formulaFunctions[name]; ok {
		return NewApply(mathName, args...)
	}
	return NewApply(name, args...)
}
