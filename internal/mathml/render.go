package mathml

import (
	"math"
	"strconv"
	"strings"
)

// Operator precedence used to decide where parentheses are needed.
const (
	precAdditive       = 2
	precMultiplicative = 3
	precUnary          = 4
	precAtom           = 6
)

// formulaNames maps MathML function names to their infix formula spelling
// where the two differ.
var formulaNames = map[string]string{
	"ln":      "log",
	"ceiling": "ceil",
	"arcsin":  "asin",
	"arccos":  "acos",
	"arctan":  "atan",
	"power":   "pow",
}

// formulaConstants maps MathML constant elements to their formula spelling.
var formulaConstants = map[string]string{
	"true":         "true",
	"false":        "false",
	"pi":           "pi",
	"exponentiale": "exponentiale",
	"infinity":     "INF",
	"notanumber":   "NaN",
}

// FormulaToString renders an expression tree as an infix formula string.
// A nil tree renders as the empty string.
func FormulaToString(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	writeFormula(&sb, n)
	return sb.String()
}

func writeFormula(sb *strings.Builder, n *Node) {
	switch n.Type {
	case NodeInteger:
		sb.WriteString(strconv.FormatInt(int64(n.Value), 10))
	case NodeReal:
		sb.WriteString(FormatReal(n.Value))
	case NodeRational:
		sb.WriteString("(")
		sb.WriteString(strconv.FormatInt(n.Numerator, 10))
		sb.WriteString("/")
		sb.WriteString(strconv.FormatInt(n.Denominator, 10))
		sb.WriteString(")")
	case NodeName, NodeTime, NodeAvogadro:
		sb.WriteString(n.Name)
	case NodeConstant:
		sb.WriteString(formulaConstants[n.Name])
	case NodeOperator:
		writeOperator(sb, n)
	case NodeFunction:
		writeFunction(sb, n)
	case NodeDelay, NodeRateOf, NodeRelational, NodeLogical, NodePiecewise, NodeLambda, NodeCall:
		writeCall(sb, n.Name, n.Children)
	}
}

// FormatReal renders a real number the way the formula syntax expects:
// shortest round-trip form, INF/-INF and NaN for the special values.
func FormatReal(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeOperator(sb *strings.Builder, n *Node) {
	switch n.Name {
	case "power":
		writeCall(sb, "pow", n.Children)
	case "plus":
		writeInfix(sb, n, " + ", precAdditive, "0")
	case "times":
		writeInfix(sb, n, " * ", precMultiplicative, "1")
	case "minus":
		if len(n.Children) == 1 {
			sb.WriteString("-")
			writeOperand(sb, n.Children[0], precUnary, true)
			return
		}
		writeInfix(sb, n, " - ", precAdditive, "0")
	case "divide":
		writeInfix(sb, n, " / ", precMultiplicative, "1")
	}
}

// writeInfix writes a left-associative infix chain. Operands after the first
// are parenthesized at equal precedence for the non-associative operators.
func writeInfix(sb *strings.Builder, n *Node, op string, prec int, empty string) {
	if len(n.Children) == 0 {
		sb.WriteString(empty)
		return
	}
	strictRight := n.Name == "minus" || n.Name == "divide"
	for i, child := range n.Children {
		if i > 0 {
			sb.WriteString(op)
		}
		writeOperand(sb, child, prec, i > 0 && strictRight)
	}
}

func writeOperand(sb *strings.Builder, child *Node, parent int, strict bool) {
	p := precedence(child)
	if p < parent || (strict && p == parent) {
		sb.WriteString("(")
		writeFormula(sb, child)
		sb.WriteString(")")
		return
	}
	writeFormula(sb, child)
}

func writeFunction(sb *strings.Builder, n *Node) {
	switch n.Name {
	case "root":
		if n.Qualifier == nil || (n.Qualifier.IsNumber() && n.Qualifier.NumericValue() == 2) {
			writeCall(sb, "sqrt", n.Children)
			return
		}
		writeCall(sb, "root", append([]*Node{n.Qualifier}, n.Children...))
		return
	case "log":
		if n.Qualifier == nil || (n.Qualifier.IsNumber() && n.Qualifier.NumericValue() == 10) {
			writeCall(sb, "log10", n.Children)
			return
		}
		writeCall(sb, "log", append([]*Node{n.Qualifier}, n.Children...))
		return
	}
	name := n.Name
	if alt, ok := formulaNames[name]; ok {
		name = alt
	}
	writeCall(sb, name, n.Children)
}

func writeCall(sb *strings.Builder, name string, args []*Node) {
	sb.WriteString(name)
	sb.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeFormula(sb, arg)
	}
	sb.WriteString(")")
}

// precedence returns the binding strength of a node when used as an operand.
func precedence(n *Node) int {
	switch n.Type {
	case NodeOperator:
		switch n.Name {
		case "plus":
			if len(n.Children) > 1 {
				return precAdditive
			}
		case "minus":
			if len(n.Children) == 1 {
				return precUnary
			}
			return precAdditive
		case "times", "divide":
			if len(n.Children) > 1 {
				return precMultiplicative
			}
		}
	case NodeInteger, NodeReal:
		if n.Value < 0 {
			return precUnary
		}
	}
	return precAtom
}
