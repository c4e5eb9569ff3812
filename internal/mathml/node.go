package mathml

// NodeType identifies the kind of an expression node.
type NodeType int

const (
	// NodeUnknown is the zero value and never produced by the parsers.
	NodeUnknown NodeType = iota

	// NodeInteger is an integer literal (<cn type="integer">).
	NodeInteger

	// NodeReal is a real literal (<cn>, <cn type="real">, e-notation).
	NodeReal

	// NodeRational is a rational literal (<cn type="rational">).
	NodeRational

	// NodeName is an identifier reference (<ci>).
	NodeName

	// NodeConstant is a MathML constant such as pi or true.
	// Name holds the MathML element name.
	NodeConstant

	// NodeTime is the simulation time csymbol.
	NodeTime

	// NodeAvogadro is the Avogadro constant csymbol (Level 3).
	NodeAvogadro

	// NodeDelay is the delay csymbol function.
	NodeDelay

	// NodeRateOf is the rateOf csymbol function (Level 3 Version 2).
	NodeRateOf

	// NodeOperator is an arithmetic operator: plus, minus, times, divide, power.
	NodeOperator

	// NodeFunction is a builtin MathML function such as sin or ln.
	NodeFunction

	// NodeRelational is a relational operator: eq, neq, gt, lt, geq, leq.
	NodeRelational

	// NodeLogical is a logical operator: and, or, xor, not, implies.
	NodeLogical

	// NodePiecewise is a piecewise expression. Children hold value/condition
	// pairs followed by an optional otherwise value.
	NodePiecewise

	// NodeLambda is a function definition body. Children hold the bound
	// variables (NodeName) followed by the body expression.
	NodeLambda

	// NodeCall is a call to a user-defined function. Name holds the function id.
	NodeCall
)

// String returns a readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case NodeInteger:
		return "integer"
	case NodeReal:
		return "real"
	case NodeRational:
		return "rational"
	case NodeName:
		return "name"
	case NodeConstant:
		return "constant"
	case NodeTime:
		return "time"
	case NodeAvogadro:
		return "avogadro"
	case NodeDelay:
		return "delay"
	case NodeRateOf:
		return "rateOf"
	case NodeOperator:
		return "operator"
	case NodeFunction:
		return "function"
	case NodeRelational:
		return "relational"
	case NodeLogical:
		return "logical"
	case NodePiecewise:
		return "piecewise"
	case NodeLambda:
		return "lambda"
	case NodeCall:
		return "call"
	default:
		return "unknown"
	}
}

// csymbol definition URLs.
const (
	URLTime     = "http://www.sbml.org/sbml/symbols/time"
	URLDelay    = "http://www.sbml.org/sbml/symbols/delay"
	URLAvogadro = "http://www.sbml.org/sbml/symbols/avogadro"
	URLRateOf   = "http://www.sbml.org/sbml/symbols/rateOf"
)

// Node is one node of an expression tree.
type Node struct {
	// Type is the kind of node.
	Type NodeType

	// Name is the identifier (NodeName, NodeCall), the MathML element name
	// (NodeConstant, NodeOperator, NodeFunction, NodeRelational, NodeLogical)
	// or the csymbol text (NodeTime, NodeDelay, NodeAvogadro, NodeRateOf).
	Name string

	// Value is the numeric value of NodeReal and NodeInteger literals.
	Value float64

	// Numerator and Denominator hold a NodeRational literal.
	Numerator   int64
	Denominator int64

	// Units is the sbml:units annotation on a numeric literal (Level 3).
	Units string

	// Qualifier holds the <degree> of a root or the <logbase> of a log.
	Qualifier *Node

	// Children are the operands in document order.
	Children []*Node
}

// NewName returns an identifier node.
func NewName(name string) *Node {
	return &Node{Type: NodeName, Name: name}
}

// NewReal returns a real literal node.
func NewReal(v float64) *Node {
	return &Node{Type: NodeReal, Value: v}
}

// NewInteger returns an integer literal node.
func NewInteger(v int64) *Node {
	return &Node{Type: NodeInteger, Value: float64(v), Numerator: v}
}

// NewApply returns an operator, function, relational or logical node.
// The node type is derived from name.
func NewApply(name string, children ...*Node) *Node {
	return &Node{Type: applyType(name), Name: name, Children: children}
}

// IsNumber reports whether the node is a numeric literal.
func (n *Node) IsNumber() bool {
	if n == nil {
		return false
	}
	return n.Type == NodeInteger || n.Type == NodeReal || n.Type == NodeRational
}

// NumericValue returns the value of a numeric literal.
func (n *Node) NumericValue() float64 {
	if n == nil {
		return 0
	}
	if n.Type == NodeRational && n.Denominator != 0 {
		return float64(n.Numerator) / float64(n.Denominator)
	}
	return n.Value
}

// LeftChild returns the first child, or nil.
func (n *Node) LeftChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// RightChild returns the last child, or nil.
// For a lambda this is the function body.
func (n *Node) RightChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Qualifier = n.Qualifier.Clone()
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Walk visits n and its descendants in pre-order.
// If fn returns false the children of that node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	if n.Qualifier != nil {
		Walk(n.Qualifier, fn)
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Contains reports whether any node in the tree has the given type.
func Contains(n *Node, t NodeType) bool {
	found := false
	Walk(n, func(node *Node) bool {
		if node.Type == t {
			found = true
		}
		return !found
	})
	return found
}

// References returns the identifiers referenced by <ci> elements and
// user-function calls, in first-seen order without duplicates.
// Bound variables of a lambda are not reported.
func References(n *Node) []string {
	seen := make(map[string]bool)
	var refs []string
	var visit func(node *Node, bound map[string]bool)
	visit = func(node *Node, bound map[string]bool) {
		if node == nil {
			return
		}
		switch node.Type {
		case NodeName:
			if !bound[node.Name] && !seen[node.Name] {
				seen[node.Name] = true
				refs = append(refs, node.Name)
			}
			return
		case NodeCall:
			if !seen[node.Name] {
				seen[node.Name] = true
				refs = append(refs, node.Name)
			}
		case NodeLambda:
			inner := make(map[string]bool, len(bound)+len(node.Children))
			for k := range bound {
				inner[k] = true
			}
			for _, bv := range node.Children[:max(len(node.Children)-1, 0)] {
				inner[bv.Name] = true
			}
			visit(node.RightChild(), inner)
			return
		}
		visit(node.Qualifier, bound)
		for _, child := range node.Children {
			visit(child, bound)
		}
	}
	visit(n, map[string]bool{})
	return refs
}

// applyType maps an apply operator name to its node type.
func applyType(name string) NodeType {
	switch name {
	case "plus", "minus", "times", "divide", "power":
		return NodeOperator
	case "eq", "neq", "gt", "lt", "geq", "leq":
		return NodeRelational
	case "and", "or", "xor", "not", "implies":
		return NodeLogical
	}
	if builtinFunctions[name] {
		return NodeFunction
	}
	return NodeCall
}

// builtinFunctions lists the MathML function elements understood by SBML.
var builtinFunctions = map[string]bool{
	"abs": true, "exp": true, "ln": true, "log": true, "floor": true,
	"ceiling": true, "factorial": true, "root": true,
	"sin": true, "cos": true, "tan": true, "sec": true, "csc": true, "cot": true,
	"sinh": true, "cosh": true, "tanh": true, "sech": true, "csch": true, "coth": true,
	"arcsin": true, "arccos": true, "arctan": true, "arcsec": true, "arccsc": true, "arccot": true,
	"arcsinh": true, "arccosh": true, "arctanh": true, "arcsech": true, "arccsch": true, "arccoth": true,
	"max": true, "min": true, "rem": true, "quotient": true,
}

// constants lists the MathML constant elements understood by SBML.
var constants = map[string]bool{
	"true": true, "false": true, "pi": true, "exponentiale": true,
	"infinity": true, "notanumber": true,
}

// Level3Version2Only lists the apply names that first appeared in
// SBML Level 3 Version 2.
var Level3Version2Only = map[string]bool{
	"max": true, "min": true, "rem": true, "quotient": true, "implies": true,
}
