package sbml

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// reader converts an etree document into the object model, recording
// syntax problems as diagnostics.
type reader struct {
	doc     *Document
	level   int
	version int
}

func (r *reader) errorf(format string, args ...any) {
	r.doc.addDiagnostic(SeverityError, CategorySyntax, format, args...)
}

func (r *reader) warnf(format string, args ...any) {
	r.doc.addDiagnostic(SeverityWarning, CategorySyntax, format, args...)
}

func (r *reader) readDocument(root *etree.Element) {
	if root == nil || root.Tag != "sbml" {
		r.doc.addDiagnostic(SeverityFatal, CategoryXML, "document root is not an <sbml> element")
		return
	}
	level, errL := strconv.Atoi(root.SelectAttrValue("level", ""))
	version, errV := strconv.Atoi(root.SelectAttrValue("version", ""))
	if errL != nil || errV != nil {
		r.doc.addDiagnostic(SeverityFatal, CategorySyntax, "the <sbml> element must declare integer level and version attributes")
		return
	}
	ns, err := Namespace(level, version)
	if err != nil {
		r.doc.addDiagnostic(SeverityFatal, CategorySyntax, "%v", err)
		return
	}
	r.level, r.version = level, version
	r.doc.Level, r.doc.Version = level, version
	if got := root.NamespaceURI(); got != ns {
		r.errorf("namespace %q does not match level %d version %d (expected %q)", got, level, version, ns)
	}
	r.doc.Annotated = r.annotated(root)

	if el := root.SelectElement("model"); el != nil {
		r.doc.Model = r.readModel(el)
	}
}

// annotated reads the attributes shared by all elements.
func (r *reader) annotated(el *etree.Element) Annotated {
	a := Annotated{MetaID: el.SelectAttrValue("metaid", "")}
	if r.level > 1 {
		a.Name = el.SelectAttrValue("name", "")
	}
	if notes := el.SelectElement("notes"); notes != nil {
		a.Notes = notes.Copy()
	}
	if ann := el.SelectElement("annotation"); ann != nil {
		a.Annotation = ann.Copy()
	}
	return a
}

// id returns the identifier of el. Level 1 has no id attribute and uses name.
func (r *reader) id(el *etree.Element) string {
	if r.level == 1 {
		return el.SelectAttrValue("name", "")
	}
	return el.SelectAttrValue("id", "")
}

func (r *reader) required(el *etree.Element, keys ...string) {
	for _, key := range keys {
		if el.SelectAttr(key) == nil {
			r.errorf("<%s> is missing the required attribute %q", el.Tag, key)
		}
	}
}

func (r *reader) boolAttr(el *etree.Element, key string) *bool {
	a := el.SelectAttr(key)
	if a == nil {
		return nil
	}
	var v bool
	switch strings.TrimSpace(a.Value) {
	case "true", "1":
		v = true
	case "false", "0":
		v = false
	default:
		r.errorf("attribute %q of <%s> is not a boolean: %q", key, el.Tag, a.Value)
		return nil
	}
	return &v
}

func (r *reader) floatAttr(el *etree.Element, key string) *float64 {
	a := el.SelectAttr(key)
	if a == nil {
		return nil
	}
	v, err := parseDouble(a.Value)
	if err != nil {
		r.errorf("attribute %q of <%s> is not a number: %q", key, el.Tag, a.Value)
		return nil
	}
	return &v
}

func (r *reader) intAttr(el *etree.Element, key string) *int {
	a := el.SelectAttr(key)
	if a == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(a.Value))
	if err != nil {
		r.errorf("attribute %q of <%s> is not an integer: %q", key, el.Tag, a.Value)
		return nil
	}
	return &v
}

func parseDouble(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "INF":
		s = "+Inf"
	case "-INF":
		s = "-Inf"
	}
	return strconv.ParseFloat(s, 64)
}

// math reads the <math> child of el.
func (r *reader) math(el *etree.Element) *mathml.Node {
	m := el.SelectElement("math")
	if m == nil {
		return nil
	}
	n, err := mathml.FromElement(m)
	if err != nil {
		r.errorf("invalid math in <%s>: %v", el.Tag, err)
		return nil
	}
	return n
}

// formula reads a Level 1 formula attribute.
func (r *reader) formula(el *etree.Element, key string) *mathml.Node {
	text := el.SelectAttrValue(key, "")
	if text == "" {
		return nil
	}
	n, err := mathml.ParseFormula(text)
	if err != nil {
		r.errorf("invalid formula in <%s>: %v", el.Tag, err)
		return nil
	}
	return n
}

// expression reads the math of el in the form the current level uses.
func (r *reader) expression(el *etree.Element) *mathml.Node {
	if r.level == 1 {
		return r.formula(el, "formula")
	}
	return r.math(el)
}

// items returns the child elements of a listOf element with one of the given tags.
func (r *reader) items(list *etree.Element, tags ...string) []*etree.Element {
	var out []*etree.Element
	for _, child := range list.ChildElements() {
		switch {
		case child.Tag == "notes" || child.Tag == "annotation":
		case slices.Contains(tags, child.Tag):
			out = append(out, child)
		default:
			r.warnf("unexpected <%s> in <%s> ignored", child.Tag, list.Tag)
		}
	}
	return out
}

func (r *reader) readModel(el *etree.Element) *Model {
	m := &Model{Annotated: r.annotated(el), ID: r.id(el)}
	if r.level == 3 {
		m.SubstanceUnits = el.SelectAttrValue("substanceUnits", "")
		m.TimeUnits = el.SelectAttrValue("timeUnits", "")
		m.VolumeUnits = el.SelectAttrValue("volumeUnits", "")
		m.AreaUnits = el.SelectAttrValue("areaUnits", "")
		m.LengthUnits = el.SelectAttrValue("lengthUnits", "")
		m.ExtentUnits = el.SelectAttrValue("extentUnits", "")
		m.ConversionFactor = el.SelectAttrValue("conversionFactor", "")
	}

	for _, list := range el.ChildElements() {
		switch list.Tag {
		case "notes", "annotation":
		case "listOfFunctionDefinitions":
			for _, c := range r.items(list, "functionDefinition") {
				m.FunctionDefinitions = append(m.FunctionDefinitions, r.readFunctionDefinition(c))
			}
		case "listOfUnitDefinitions":
			for _, c := range r.items(list, "unitDefinition") {
				m.UnitDefinitions = append(m.UnitDefinitions, r.readUnitDefinition(c))
			}
		case "listOfCompartments":
			for _, c := range r.items(list, "compartment") {
				m.Compartments = append(m.Compartments, r.readCompartment(c))
			}
		case "listOfSpecies":
			for _, c := range r.items(list, "species", "specie") {
				m.Species = append(m.Species, r.readSpecies(c))
			}
		case "listOfParameters":
			for _, c := range r.items(list, "parameter") {
				m.Parameters = append(m.Parameters, r.readParameter(c))
			}
		case "listOfInitialAssignments":
			for _, c := range r.items(list, "initialAssignment") {
				m.InitialAssignments = append(m.InitialAssignments, &InitialAssignment{
					Annotated: r.annotated(c),
					Symbol:    c.SelectAttrValue("symbol", ""),
					Math:      r.math(c),
				})
			}
		case "listOfRules":
			for _, c := range r.items(list, ruleTags...) {
				m.Rules = append(m.Rules, r.readRule(c))
			}
		case "listOfConstraints":
			for _, c := range r.items(list, "constraint") {
				con := &Constraint{Annotated: r.annotated(c), Math: r.math(c)}
				if msg := c.SelectElement("message"); msg != nil {
					con.Message = msg.Copy()
				}
				m.Constraints = append(m.Constraints, con)
			}
		case "listOfReactions":
			for _, c := range r.items(list, "reaction") {
				m.Reactions = append(m.Reactions, r.readReaction(c))
			}
		case "listOfEvents":
			for _, c := range r.items(list, "event") {
				m.Events = append(m.Events, r.readEvent(c))
			}
		case "listOfCompartmentTypes", "listOfSpeciesTypes":
			r.warnf("<%s> is not supported and was dropped", list.Tag)
		default:
			r.warnf("unexpected <%s> in <model> ignored", list.Tag)
		}
	}
	return m
}

func (r *reader) readFunctionDefinition(el *etree.Element) *FunctionDefinition {
	fd := &FunctionDefinition{Annotated: r.annotated(el), ID: r.id(el), Math: r.math(el)}
	if fd.Math != nil && fd.Math.Type != mathml.NodeLambda {
		r.errorf("function definition %q does not contain a lambda expression", fd.ID)
	}
	return fd
}

func (r *reader) readUnitDefinition(el *etree.Element) *UnitDefinition {
	ud := &UnitDefinition{Annotated: r.annotated(el), ID: r.id(el)}
	for _, list := range el.ChildElements() {
		if list.Tag != "listOfUnits" {
			continue
		}
		for _, c := range r.items(list, "unit") {
			if r.level == 3 {
				r.required(c, "kind", "exponent", "scale", "multiplier")
			}
			ud.Units = append(ud.Units, &Unit{
				Annotated:  r.annotated(c),
				Kind:       c.SelectAttrValue("kind", ""),
				Exponent:   r.floatAttr(c, "exponent"),
				Scale:      r.intAttr(c, "scale"),
				Multiplier: r.floatAttr(c, "multiplier"),
				Offset:     r.floatAttr(c, "offset"),
			})
		}
	}
	return ud
}

func (r *reader) readCompartment(el *etree.Element) *Compartment {
	c := &Compartment{
		Annotated:         r.annotated(el),
		ID:                r.id(el),
		SpatialDimensions: r.floatAttr(el, "spatialDimensions"),
		Units:             el.SelectAttrValue("units", ""),
		Outside:           el.SelectAttrValue("outside", ""),
	}
	if r.level == 1 {
		// Level 1 volumes default to 1 and are always considered set.
		c.Size = r.floatAttr(el, "volume")
		if c.Size == nil {
			c.Size = floatPtr(1)
		}
	} else {
		c.Size = r.floatAttr(el, "size")
		c.Constant = r.boolAttr(el, "constant")
	}
	if r.level == 3 {
		r.required(el, "constant")
	}
	return c
}

func (r *reader) readSpecies(el *etree.Element) *Species {
	r.required(el, "compartment")
	s := &Species{
		Annotated:         r.annotated(el),
		ID:                r.id(el),
		Compartment:       el.SelectAttrValue("compartment", ""),
		InitialAmount:     r.floatAttr(el, "initialAmount"),
		BoundaryCondition: r.boolAttr(el, "boundaryCondition"),
	}
	if r.level == 1 {
		s.SubstanceUnits = el.SelectAttrValue("units", "")
	} else {
		s.InitialConcentration = r.floatAttr(el, "initialConcentration")
		s.SubstanceUnits = el.SelectAttrValue("substanceUnits", "")
		s.HasOnlySubstanceUnits = r.boolAttr(el, "hasOnlySubstanceUnits")
		s.Constant = r.boolAttr(el, "constant")
	}
	if r.level < 3 {
		s.Charge = r.intAttr(el, "charge")
	} else {
		s.ConversionFactor = el.SelectAttrValue("conversionFactor", "")
		r.required(el, "hasOnlySubstanceUnits", "boundaryCondition", "constant")
	}
	if s.InitialAmount != nil && s.InitialConcentration != nil {
		r.errorf("species %q sets both initialAmount and initialConcentration", s.ID)
	}
	return s
}

func (r *reader) readParameter(el *etree.Element) *Parameter {
	p := &Parameter{
		Annotated: r.annotated(el),
		ID:        r.id(el),
		Value:     r.floatAttr(el, "value"),
		Units:     el.SelectAttrValue("units", ""),
	}
	if r.level > 1 {
		p.Constant = r.boolAttr(el, "constant")
	}
	if r.level == 3 {
		r.required(el, "constant")
	}
	return p
}

var ruleTags = []string{
	"algebraicRule", "assignmentRule", "rateRule",
	"compartmentVolumeRule", "speciesConcentrationRule", "specieConcentrationRule", "parameterRule",
}

func (r *reader) readRule(el *etree.Element) *Rule {
	rule := &Rule{Annotated: r.annotated(el), Math: r.expression(el)}
	switch el.Tag {
	case "algebraicRule":
		rule.Type = RuleAlgebraic
	case "assignmentRule":
		rule.Type = RuleAssignment
		rule.Variable = el.SelectAttrValue("variable", "")
	case "rateRule":
		rule.Type = RuleRate
		rule.Variable = el.SelectAttrValue("variable", "")
	default:
		rule.Type = RuleAssignment
		if el.SelectAttrValue("type", "scalar") == "rate" {
			rule.Type = RuleRate
		}
		switch el.Tag {
		case "compartmentVolumeRule":
			rule.Variable = el.SelectAttrValue("compartment", "")
		case "speciesConcentrationRule":
			rule.Variable = el.SelectAttrValue("species", "")
		case "specieConcentrationRule":
			rule.Variable = el.SelectAttrValue("specie", "")
		case "parameterRule":
			rule.Variable = el.SelectAttrValue("name", "")
		}
	}
	if r.level > 1 && !slices.Contains(ruleTags[:3], el.Tag) {
		r.errorf("<%s> is only valid in SBML Level 1", el.Tag)
	}
	if rule.Type != RuleAlgebraic && rule.Variable == "" {
		r.errorf("<%s> does not name a variable", el.Tag)
	}
	return rule
}

func (r *reader) readReaction(el *etree.Element) *Reaction {
	rxn := &Reaction{
		Annotated:  r.annotated(el),
		ID:         r.id(el),
		Reversible: r.boolAttr(el, "reversible"),
		Fast:       r.boolAttr(el, "fast"),
	}
	if r.level == 3 {
		rxn.Compartment = el.SelectAttrValue("compartment", "")
		r.required(el, "reversible")
		if r.version == 1 {
			r.required(el, "fast")
		}
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "listOfReactants":
			for _, c := range r.items(child, "speciesReference", "specieReference") {
				rxn.Reactants = append(rxn.Reactants, r.readSpeciesReference(c))
			}
		case "listOfProducts":
			for _, c := range r.items(child, "speciesReference", "specieReference") {
				rxn.Products = append(rxn.Products, r.readSpeciesReference(c))
			}
		case "listOfModifiers":
			for _, c := range r.items(child, "modifierSpeciesReference") {
				rxn.Modifiers = append(rxn.Modifiers, &ModifierSpeciesReference{
					Annotated: r.annotated(c),
					ID:        c.SelectAttrValue("id", ""),
					Species:   c.SelectAttrValue("species", ""),
				})
			}
		case "kineticLaw":
			rxn.KineticLaw = r.readKineticLaw(child)
		}
	}
	return rxn
}

func (r *reader) readSpeciesReference(el *etree.Element) *SpeciesReference {
	sr := &SpeciesReference{
		Annotated:     r.annotated(el),
		Stoichiometry: r.floatAttr(el, "stoichiometry"),
	}
	if el.Tag == "specieReference" {
		sr.Species = el.SelectAttrValue("specie", "")
	} else {
		sr.Species = el.SelectAttrValue("species", "")
	}
	if sr.Species == "" {
		r.errorf("<%s> does not name a species", el.Tag)
	}
	switch r.level {
	case 1:
		if den := r.intAttr(el, "denominator"); den != nil && *den != 0 && sr.Stoichiometry != nil {
			v := *sr.Stoichiometry / float64(*den)
			sr.Stoichiometry = &v
		}
	case 2:
		sr.ID = el.SelectAttrValue("id", "")
		if sm := el.SelectElement("stoichiometryMath"); sm != nil {
			sr.StoichiometryMath = r.math(sm)
		}
	case 3:
		sr.ID = el.SelectAttrValue("id", "")
		sr.Constant = r.boolAttr(el, "constant")
		r.required(el, "constant")
	}
	return sr
}

func (r *reader) readKineticLaw(el *etree.Element) *KineticLaw {
	kl := &KineticLaw{
		Annotated:      r.annotated(el),
		Math:           r.expression(el),
		TimeUnits:      el.SelectAttrValue("timeUnits", ""),
		SubstanceUnits: el.SelectAttrValue("substanceUnits", ""),
	}
	for _, list := range el.ChildElements() {
		var tag string
		switch list.Tag {
		case "listOfParameters":
			tag = "parameter"
		case "listOfLocalParameters":
			tag = "localParameter"
		default:
			continue
		}
		for _, c := range r.items(list, tag) {
			kl.LocalParameters = append(kl.LocalParameters, &LocalParameter{
				Annotated: r.annotated(c),
				ID:        r.id(c),
				Value:     r.floatAttr(c, "value"),
				Units:     c.SelectAttrValue("units", ""),
			})
		}
	}
	return kl
}

func (r *reader) readEvent(el *etree.Element) *Event {
	e := &Event{
		Annotated: r.annotated(el),
		ID:        r.id(el),
		TimeUnits: el.SelectAttrValue("timeUnits", ""),
	}
	if r.level == 3 || (r.level == 2 && r.version >= 4) {
		e.UseValuesFromTriggerTime = r.boolAttr(el, "useValuesFromTriggerTime")
		if r.level == 3 {
			r.required(el, "useValuesFromTriggerTime")
		} else if e.UseValuesFromTriggerTime == nil {
			v := true
			e.UseValuesFromTriggerTime = &v
		}
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "trigger":
			t := &Trigger{Annotated: r.annotated(child), Math: r.math(child)}
			if r.level == 3 {
				t.Persistent = r.boolAttr(child, "persistent")
				t.InitialValue = r.boolAttr(child, "initialValue")
				if r.version == 1 {
					r.required(child, "persistent", "initialValue")
				}
			}
			e.Trigger = t
		case "delay":
			e.Delay = &Expression{Annotated: r.annotated(child), Math: r.math(child)}
		case "priority":
			e.Priority = &Expression{Annotated: r.annotated(child), Math: r.math(child)}
		case "listOfEventAssignments":
			for _, c := range r.items(child, "eventAssignment") {
				e.Assignments = append(e.Assignments, &EventAssignment{
					Annotated: r.annotated(c),
					Variable:  c.SelectAttrValue("variable", ""),
					Math:      r.math(c),
				})
			}
		}
	}
	if e.Trigger == nil {
		r.errorf("event %q has no trigger", e.ID)
	}
	return e
}
