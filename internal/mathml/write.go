package mathml

import (
	"strconv"

	"github.com/beevik/etree"
)

// ToElement builds a <math> element for the tree rooted at n.
// When sbmlNS is not empty, literal units are written as sbml:units
// attributes bound to that namespace.
func ToElement(n *Node, sbmlNS string) *etree.Element {
	math := etree.NewElement("math")
	math.CreateAttr("xmlns", Namespace)
	if sbmlNS != "" && hasUnits(n) {
		math.CreateAttr("xmlns:sbml", sbmlNS)
	}
	if n != nil {
		math.AddChild(nodeElement(n, sbmlNS != ""))
	}
	return math
}

func hasUnits(n *Node) bool {
	found := false
	Walk(n, func(node *Node) bool {
		if node.Units != "" {
			found = true
		}
		return !found
	})
	return found
}

func nodeElement(n *Node, withUnits bool) *etree.Element {
	switch n.Type {
	case NodeInteger:
		el := numberElement("integer", withUnits, n.Units)
		el.SetText(" " + strconv.FormatInt(int64(n.Value), 10) + " ")
		return el
	case NodeReal:
		el := numberElement("", withUnits, n.Units)
		el.SetText(" " + FormatReal(n.Value) + " ")
		return el
	case NodeRational:
		el := numberElement("rational", withUnits, n.Units)
		el.SetText(" " + strconv.FormatInt(n.Numerator, 10) + " ")
		el.CreateElement("sep")
		el.CreateText(" " + strconv.FormatInt(n.Denominator, 10) + " ")
		return el
	case NodeName:
		el := etree.NewElement("ci")
		el.SetText(" " + n.Name + " ")
		return el
	case NodeConstant:
		return etree.NewElement(n.Name)
	case NodeTime:
		return csymbolElement(URLTime, n.Name)
	case NodeAvogadro:
		return csymbolElement(URLAvogadro, n.Name)
	case NodeDelay:
		return applyElement(csymbolElement(URLDelay, n.Name), n, withUnits)
	case NodeRateOf:
		return applyElement(csymbolElement(URLRateOf, n.Name), n, withUnits)
	case NodeCall:
		head := etree.NewElement("ci")
		head.SetText(" " + n.Name + " ")
		return applyElement(head, n, withUnits)
	case NodePiecewise:
		return piecewiseElement(n, withUnits)
	case NodeLambda:
		el := etree.NewElement("lambda")
		for i, child := range n.Children {
			if i == len(n.Children)-1 {
				el.AddChild(nodeElement(child, withUnits))
				break
			}
			bvar := el.CreateElement("bvar")
			bvar.AddChild(nodeElement(child, withUnits))
		}
		return el
	}
	return applyElement(etree.NewElement(n.Name), n, withUnits)
}

func numberElement(kind string, withUnits bool, units string) *etree.Element {
	el := etree.NewElement("cn")
	if kind != "" {
		el.CreateAttr("type", kind)
	}
	if withUnits && units != "" {
		el.CreateAttr("sbml:units", units)
	}
	return el
}

func csymbolElement(url, name string) *etree.Element {
	el := etree.NewElement("csymbol")
	el.CreateAttr("encoding", "text")
	el.CreateAttr("definitionURL", url)
	el.SetText(" " + name + " ")
	return el
}

func applyElement(head *etree.Element, n *Node, withUnits bool) *etree.Element {
	el := etree.NewElement("apply")
	el.AddChild(head)
	if n.Qualifier != nil {
		tag := "degree"
		if n.Name == "log" {
			tag = "logbase"
		}
		q := el.CreateElement(tag)
		q.AddChild(nodeElement(n.Qualifier, withUnits))
	}
	for _, child := range n.Children {
		el.AddChild(nodeElement(child, withUnits))
	}
	return el
}

func piecewiseElement(n *Node, withUnits bool) *etree.Element {
	el := etree.NewElement("piecewise")
	i := 0
	for ; i+1 < len(n.Children); i += 2 {
		piece := el.CreateElement("piece")
		piece.AddChild(nodeElement(n.Children[i], withUnits))
		piece.AddChild(nodeElement(n.Children[i+1], withUnits))
	}
	if i < len(n.Children) {
		otherwise := el.CreateElement("otherwise")
		otherwise.AddChild(nodeElement(n.Children[i], withUnits))
	}
	return el
}
