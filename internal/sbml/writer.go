package sbml

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// writer builds the XML form of a document in its current level and version.
type writer struct {
	level     int
	version   int
	namespace string
}

func (d *Document) toXML() (*etree.Document, error) {
	ns, err := Namespace(d.Level, d.Version)
	if err != nil {
		return nil, err
	}
	w := &writer{level: d.Level, version: d.Version, namespace: ns}

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := x.CreateElement("sbml")
	root.CreateAttr("xmlns", ns)
	root.CreateAttr("level", strconv.Itoa(d.Level))
	root.CreateAttr("version", strconv.Itoa(d.Version))
	if d.MetaID != "" && d.Level > 1 {
		root.CreateAttr("metaid", d.MetaID)
	}
	w.content(root, d.Annotated)
	if d.Model != nil {
		w.model(root, d.Model)
	}
	x.Indent(2)
	return x, nil
}

// child creates a child element carrying the shared attributes, notes and annotation.
func (w *writer) child(parent *etree.Element, tag string, a Annotated) *etree.Element {
	el := parent.CreateElement(tag)
	if a.MetaID != "" && w.level > 1 {
		el.CreateAttr("metaid", a.MetaID)
	}
	w.content(el, a)
	return el
}

func (w *writer) content(el *etree.Element, a Annotated) {
	if a.Notes != nil {
		el.AddChild(a.Notes.Copy())
	}
	if a.Annotation != nil {
		el.AddChild(a.Annotation.Copy())
	}
}

// setID writes the identifier and display name of an element.
func (w *writer) setID(el *etree.Element, id string, a Annotated) {
	if w.level == 1 {
		if id != "" {
			el.CreateAttr("name", id)
		}
		return
	}
	if id != "" {
		el.CreateAttr("id", id)
	}
	if a.Name != "" {
		el.CreateAttr("name", a.Name)
	}
}

func setString(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

func setFloat(el *etree.Element, key string, v *float64) {
	if v != nil {
		el.CreateAttr(key, mathml.FormatReal(*v))
	}
}

func setInt(el *etree.Element, key string, v *int) {
	if v != nil {
		el.CreateAttr(key, strconv.Itoa(*v))
	}
}

func setBool(el *etree.Element, key string, v *bool) {
	if v != nil {
		el.CreateAttr(key, strconv.FormatBool(*v))
	}
}

// setMath attaches an expression in the form the level uses.
func (w *writer) setMath(el *etree.Element, n *mathml.Node) {
	if n == nil {
		return
	}
	if w.level == 1 {
		el.CreateAttr("formula", mathml.FormulaToString(n))
		return
	}
	unitsNS := ""
	if w.level == 3 {
		unitsNS = w.namespace
	}
	el.AddChild(mathml.ToElement(n, unitsNS))
}

func (w *writer) model(root *etree.Element, m *Model) {
	el := w.child(root, "model", m.Annotated)
	w.setID(el, m.ID, m.Annotated)
	if w.level == 3 {
		setString(el, "substanceUnits", m.SubstanceUnits)
		setString(el, "timeUnits", m.TimeUnits)
		setString(el, "volumeUnits", m.VolumeUnits)
		setString(el, "areaUnits", m.AreaUnits)
		setString(el, "lengthUnits", m.LengthUnits)
		setString(el, "extentUnits", m.ExtentUnits)
		setString(el, "conversionFactor", m.ConversionFactor)
	}

	if len(m.FunctionDefinitions) > 0 {
		list := el.CreateElement("listOfFunctionDefinitions")
		for _, fd := range m.FunctionDefinitions {
			c := w.child(list, "functionDefinition", fd.Annotated)
			w.setID(c, fd.ID, fd.Annotated)
			w.setMath(c, fd.Math)
		}
	}
	if len(m.UnitDefinitions) > 0 {
		list := el.CreateElement("listOfUnitDefinitions")
		for _, ud := range m.UnitDefinitions {
			w.unitDefinition(list, ud)
		}
	}
	if len(m.Compartments) > 0 {
		list := el.CreateElement("listOfCompartments")
		for _, c := range m.Compartments {
			w.compartment(list, c)
		}
	}
	if len(m.Species) > 0 {
		list := el.CreateElement("listOfSpecies")
		for _, s := range m.Species {
			w.species(list, s)
		}
	}
	if len(m.Parameters) > 0 {
		list := el.CreateElement("listOfParameters")
		for _, p := range m.Parameters {
			c := w.child(list, "parameter", p.Annotated)
			w.setID(c, p.ID, p.Annotated)
			setFloat(c, "value", p.Value)
			setString(c, "units", p.Units)
			if w.level > 1 {
				setBool(c, "constant", p.Constant)
			}
		}
	}
	if len(m.InitialAssignments) > 0 {
		list := el.CreateElement("listOfInitialAssignments")
		for _, ia := range m.InitialAssignments {
			c := w.child(list, "initialAssignment", ia.Annotated)
			c.CreateAttr("symbol", ia.Symbol)
			w.setMath(c, ia.Math)
		}
	}
	if len(m.Rules) > 0 {
		list := el.CreateElement("listOfRules")
		for _, r := range m.Rules {
			w.rule(list, m, r)
		}
	}
	if len(m.Constraints) > 0 {
		list := el.CreateElement("listOfConstraints")
		for _, con := range m.Constraints {
			c := w.child(list, "constraint", con.Annotated)
			w.setMath(c, con.Math)
			if con.Message != nil {
				c.AddChild(con.Message.Copy())
			}
		}
	}
	if len(m.Reactions) > 0 {
		list := el.CreateElement("listOfReactions")
		for _, r := range m.Reactions {
			w.reaction(list, r)
		}
	}
	if len(m.Events) > 0 {
		list := el.CreateElement("listOfEvents")
		for _, e := range m.Events {
			w.event(list, e)
		}
	}
}

func (w *writer) unitDefinition(list *etree.Element, ud *UnitDefinition) {
	el := w.child(list, "unitDefinition", ud.Annotated)
	w.setID(el, ud.ID, ud.Annotated)
	if len(ud.Units) == 0 {
		return
	}
	units := el.CreateElement("listOfUnits")
	for _, u := range ud.Units {
		c := w.child(units, "unit", u.Annotated)
		setString(c, "kind", u.Kind)
		setFloat(c, "exponent", u.Exponent)
		setInt(c, "scale", u.Scale)
		setFloat(c, "multiplier", u.Multiplier)
		setFloat(c, "offset", u.Offset)
	}
}

func (w *writer) compartment(list *etree.Element, c *Compartment) {
	el := w.child(list, "compartment", c.Annotated)
	w.setID(el, c.ID, c.Annotated)
	if w.level == 1 {
		setFloat(el, "volume", c.Size)
	} else {
		setFloat(el, "spatialDimensions", c.SpatialDimensions)
		setFloat(el, "size", c.Size)
	}
	setString(el, "units", c.Units)
	setString(el, "outside", c.Outside)
	if w.level > 1 {
		setBool(el, "constant", c.Constant)
	}
}

func (w *writer) species(list *etree.Element, s *Species) {
	tag := "species"
	if w.level == 1 && w.version == 1 {
		tag = "specie"
	}
	el := w.child(list, tag, s.Annotated)
	w.setID(el, s.ID, s.Annotated)
	setString(el, "compartment", s.Compartment)
	setFloat(el, "initialAmount", s.InitialAmount)
	if w.level == 1 {
		setString(el, "units", s.SubstanceUnits)
		setBool(el, "boundaryCondition", s.BoundaryCondition)
		setInt(el, "charge", s.Charge)
		return
	}
	setFloat(el, "initialConcentration", s.InitialConcentration)
	setString(el, "substanceUnits", s.SubstanceUnits)
	setBool(el, "hasOnlySubstanceUnits", s.HasOnlySubstanceUnits)
	setBool(el, "boundaryCondition", s.BoundaryCondition)
	if w.level == 2 {
		setInt(el, "charge", s.Charge)
	}
	setBool(el, "constant", s.Constant)
	if w.level == 3 {
		setString(el, "conversionFactor", s.ConversionFactor)
	}
}

func (w *writer) rule(list *etree.Element, m *Model, r *Rule) {
	if w.level > 1 {
		var tag string
		switch r.Type {
		case RuleAlgebraic:
			tag = "algebraicRule"
		case RuleAssignment:
			tag = "assignmentRule"
		case RuleRate:
			tag = "rateRule"
		}
		el := w.child(list, tag, r.Annotated)
		setString(el, "variable", r.Variable)
		w.setMath(el, r.Math)
		return
	}

	var el *etree.Element
	switch {
	case r.Type == RuleAlgebraic:
		el = w.child(list, "algebraicRule", r.Annotated)
	case m.CompartmentByID(r.Variable) != nil:
		el = w.child(list, "compartmentVolumeRule", r.Annotated)
		el.CreateAttr("compartment", r.Variable)
	case m.SpeciesByID(r.Variable) != nil:
		if w.version == 1 {
			el = w.child(list, "specieConcentrationRule", r.Annotated)
			el.CreateAttr("specie", r.Variable)
		} else {
			el = w.child(list, "speciesConcentrationRule", r.Annotated)
			el.CreateAttr("species", r.Variable)
		}
	default:
		el = w.child(list, "parameterRule", r.Annotated)
		el.CreateAttr("name", r.Variable)
	}
	if r.Type == RuleRate {
		el.CreateAttr("type", "rate")
	}
	w.setMath(el, r.Math)
}

func (w *writer) reaction(list *etree.Element, r *Reaction) {
	el := w.child(list, "reaction", r.Annotated)
	w.setID(el, r.ID, r.Annotated)
	setBool(el, "reversible", r.Reversible)
	setBool(el, "fast", r.Fast)
	if w.level == 3 {
		setString(el, "compartment", r.Compartment)
	}
	w.speciesReferences(el, "listOfReactants", r.Reactants)
	w.speciesReferences(el, "listOfProducts", r.Products)
	if len(r.Modifiers) > 0 && w.level > 1 {
		mods := el.CreateElement("listOfModifiers")
		for _, mod := range r.Modifiers {
			c := w.child(mods, "modifierSpeciesReference", mod.Annotated)
			setString(c, "id", mod.ID)
			c.CreateAttr("species", mod.Species)
		}
	}
	if r.KineticLaw != nil {
		w.kineticLaw(el, r.KineticLaw)
	}
}

func (w *writer) speciesReferences(parent *etree.Element, tag string, refs []*SpeciesReference) {
	if len(refs) == 0 {
		return
	}
	list := parent.CreateElement(tag)
	for _, sr := range refs {
		if w.level == 1 && w.version == 1 {
			el := w.child(list, "specieReference", sr.Annotated)
			el.CreateAttr("specie", sr.Species)
			setFloat(el, "stoichiometry", sr.Stoichiometry)
			continue
		}
		el := w.child(list, "speciesReference", sr.Annotated)
		if w.level > 1 {
			setString(el, "id", sr.ID)
		}
		el.CreateAttr("species", sr.Species)
		setFloat(el, "stoichiometry", sr.Stoichiometry)
		if w.level == 3 {
			setBool(el, "constant", sr.Constant)
		}
		if w.level == 2 && sr.StoichiometryMath != nil {
			sm := el.CreateElement("stoichiometryMath")
			w.setMath(sm, sr.StoichiometryMath)
		}
	}
}

func (w *writer) kineticLaw(parent *etree.Element, kl *KineticLaw) {
	el := w.child(parent, "kineticLaw", kl.Annotated)
	w.setMath(el, kl.Math)
	if w.level < 3 {
		setString(el, "timeUnits", kl.TimeUnits)
		setString(el, "substanceUnits", kl.SubstanceUnits)
	}
	if len(kl.LocalParameters) == 0 {
		return
	}
	listTag, tag := "listOfParameters", "parameter"
	if w.level == 3 {
		listTag, tag = "listOfLocalParameters", "localParameter"
	}
	list := el.CreateElement(listTag)
	for _, lp := range kl.LocalParameters {
		c := w.child(list, tag, lp.Annotated)
		w.setID(c, lp.ID, lp.Annotated)
		setFloat(c, "value", lp.Value)
		setString(c, "units", lp.Units)
	}
}

func (w *writer) event(list *etree.Element, e *Event) {
	el := w.child(list, "event", e.Annotated)
	w.setID(el, e.ID, e.Annotated)
	setBool(el, "useValuesFromTriggerTime", e.UseValuesFromTriggerTime)
	setString(el, "timeUnits", e.TimeUnits)
	if t := e.Trigger; t != nil {
		c := w.child(el, "trigger", t.Annotated)
		setBool(c, "initialValue", t.InitialValue)
		setBool(c, "persistent", t.Persistent)
		w.setMath(c, t.Math)
	}
	if e.Priority != nil {
		c := w.child(el, "priority", e.Priority.Annotated)
		w.setMath(c, e.Priority.Math)
	}
	if e.Delay != nil {
		c := w.child(el, "delay", e.Delay.Annotated)
		w.setMath(c, e.Delay.Math)
	}
	if len(e.Assignments) > 0 {
		eas := el.CreateElement("listOfEventAssignments")
		for _, ea := range e.Assignments {
			c := w.child(eas, "eventAssignment", ea.Annotated)
			c.CreateAttr("variable", ea.Variable)
			w.setMath(c, ea.Math)
		}
	}
}
