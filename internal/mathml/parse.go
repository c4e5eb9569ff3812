package mathml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Namespace is the MathML namespace URI.
const Namespace = "http://www.w3.org/1998/Math/MathML"

// ErrEmptyMath is returned when a <math> element has no expression.
var ErrEmptyMath = errors.New("math element is empty")

// FromElement converts a <math> element, or any content MathML element,
// into an expression tree.
func FromElement(el *etree.Element) (*Node, error) {
	if el == nil {
		return nil, ErrEmptyMath
	}
	if el.Tag == "math" {
		children := el.ChildElements()
		if len(children) == 0 {
			return nil, ErrEmptyMath
		}
		return parseElement(children[0])
	}
	return parseElement(el)
}

// parseElement converts one content MathML element.
func parseElement(el *etree.Element) (*Node, error) {
	switch el.Tag {
	case "cn":
		return parseNumber(el)
	case "ci":
		return &Node{Type: NodeName, Name: strings.TrimSpace(el.Text())}, nil
	case "csymbol":
		return parseCSymbol(el)
	case "apply":
		return parseApply(el)
	case "piecewise":
		return parsePiecewise(el)
	case "lambda":
		return parseLambda(el)
	case "semantics":
		children := el.ChildElements()
		if len(children) == 0 {
			return nil, ErrEmptyMath
		}
		return parseElement(children[0])
	}
	if constants[el.Tag] {
		return &Node{Type: NodeConstant, Name: el.Tag}, nil
	}
	return nil, fmt.Errorf("unsupported MathML element <%s>", el.Tag)
}

// parseNumber converts a <cn> element.
func parseNumber(el *etree.Element) (*Node, error) {
	units := unitsAttr(el)
	parts := textParts(el)
	kind := el.SelectAttrValue("type", "real")

	switch kind {
	case "integer":
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", parts[0], err)
		}
		n := NewInteger(v)
		n.Units = units
		return n, nil
	case "real":
		v, err := parseReal(parts[0])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeReal, Value: v, Units: units}, nil
	case "e-notation":
		if len(parts) != 2 {
			return nil, fmt.Errorf("e-notation needs two parts, got %d", len(parts))
		}
		v, err := strconv.ParseFloat(parts[0]+"e"+parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid e-notation %q: %w", parts[0]+"e"+parts[1], err)
		}
		return &Node{Type: NodeReal, Value: v, Units: units}, nil
	case "rational":
		if len(parts) != 2 {
			return nil, fmt.Errorf("rational needs two parts, got %d", len(parts))
		}
		num, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numerator %q: %w", parts[0], err)
		}
		den, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid denominator %q: %w", parts[1], err)
		}
		return &Node{Type: NodeRational, Numerator: num, Denominator: den, Units: units}, nil
	}
	return nil, fmt.Errorf("unsupported cn type %q", kind)
}

// parseReal parses a real literal including the MathML spellings of
// infinity and not-a-number.
func parseReal(s string) (float64, error) {
	switch s {
	case "INF", "inf", "Infinity":
		s = "+Inf"
	case "-INF", "-inf", "-Infinity":
		s = "-Inf"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid real %q: %w", s, err)
	}
	return v, nil
}

// parseCSymbol converts a <csymbol> used as a value.
func parseCSymbol(el *etree.Element) (*Node, error) {
	name := strings.TrimSpace(el.Text())
	switch el.SelectAttrValue("definitionURL", "") {
	case URLTime:
		return &Node{Type: NodeTime, Name: name}, nil
	case URLAvogadro:
		return &Node{Type: NodeAvogadro, Name: name}, nil
	case URLDelay:
		return &Node{Type: NodeDelay, Name: name}, nil
	case URLRateOf:
		return &Node{Type: NodeRateOf, Name: name}, nil
	}
	return nil, fmt.Errorf("unsupported csymbol %q", el.SelectAttrValue("definitionURL", ""))
}

// parseApply converts an <apply> element.
func parseApply(el *etree.Element) (*Node, error) {
	children := el.ChildElements()
	if len(children) == 0 {
		return nil, errors.New("empty apply element")
	}
	head := children[0]

	var node *Node
	switch head.Tag {
	case "ci":
		node = &Node{Type: NodeCall, Name: strings.TrimSpace(head.Text())}
	case "csymbol":
		sym, err := parseCSymbol(head)
		if err != nil {
			return nil, err
		}
		if sym.Type != NodeDelay && sym.Type != NodeRateOf {
			return nil, fmt.Errorf("csymbol %q cannot be applied", sym.Name)
		}
		node = sym
	default:
		t := applyType(head.Tag)
		if t == NodeCall {
			return nil, fmt.Errorf("unsupported MathML operator <%s>", head.Tag)
		}
		node = &Node{Type: t, Name: head.Tag}
	}

	for _, child := range children[1:] {
		switch child.Tag {
		case "degree", "logbase":
			inner := child.ChildElements()
			if len(inner) == 0 {
				return nil, fmt.Errorf("empty <%s> element", child.Tag)
			}
			q, err := parseElement(inner[0])
			if err != nil {
				return nil, err
			}
			node.Qualifier = q
		default:
			arg, err := parseElement(child)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, arg)
		}
	}
	return node, nil
}

// parsePiecewise converts a <piecewise> element.
func parsePiecewise(el *etree.Element) (*Node, error) {
	node := &Node{Type: NodePiecewise, Name: "piecewise"}
	var otherwise *Node
	for _, child := range el.ChildElements() {
		parts := child.ChildElements()
		switch child.Tag {
		case "piece":
			if len(parts) != 2 {
				return nil, fmt.Errorf("piece needs two children, got %d", len(parts))
			}
			value, err := parseElement(parts[0])
			if err != nil {
				return nil, err
			}
			cond, err := parseElement(parts[1])
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, value, cond)
		case "otherwise":
			if len(parts) != 1 {
				return nil, fmt.Errorf("otherwise needs one child, got %d", len(parts))
			}
			value, err := parseElement(parts[0])
			if err != nil {
				return nil, err
			}
			otherwise = value
		default:
			return nil, fmt.Errorf("unexpected <%s> in piecewise", child.Tag)
		}
	}
	if otherwise != nil {
		node.Children = append(node.Children, otherwise)
	}
	return node, nil
}

// parseLambda converts a <lambda> element.
func parseLambda(el *etree.Element) (*Node, error) {
	node := &Node{Type: NodeLambda, Name: "lambda"}
	for _, child := range el.ChildElements() {
		if child.Tag == "bvar" {
			inner := child.ChildElements()
			if len(inner) != 1 || inner[0].Tag != "ci" {
				return nil, errors.New("bvar must contain a single ci")
			}
			node.Children = append(node.Children, NewName(strings.TrimSpace(inner[0].Text())))
			continue
		}
		body, err := parseElement(child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, body)
	}
	if len(node.Children) == 0 {
		return nil, errors.New("lambda has no body")
	}
	return node, nil
}

// textParts returns the trimmed character data of el split at <sep/>.
func textParts(el *etree.Element) []string {
	parts := []string{""}
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			parts[len(parts)-1] += t.Data
		case *etree.Element:
			if t.Tag == "sep" {
				parts = append(parts, "")
			}
		}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// unitsAttr returns the value of an sbml:units attribute, whatever prefix
// the document bound the SBML namespace to.
func unitsAttr(el *etree.Element) string {
	for _, a := range el.Attr {
		if a.Key == "units" && a.Space != "" {
			return a.Value
		}
	}
	return ""
}
