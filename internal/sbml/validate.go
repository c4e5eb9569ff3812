package sbml

import (
	"strconv"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// validate records consistency problems of a freshly read document.
func validate(doc *Document) {
	v := &validator{doc: doc, m: doc.Model, ids: make(map[string]string)}
	v.collectIDs()
	v.checkReferences()
	v.checkAssignments()
	v.checkMath()
	for _, is := range compatibility(doc.Model, doc.Level, doc.Version) {
		if is.severity >= SeverityError {
			doc.addDiagnostic(is.severity, CategoryConsistency, "%s", is.message)
		}
	}
}

type validator struct {
	doc *Document
	m   *Model
	// ids maps every identifier in the global namespace to its element kind.
	ids map[string]string
}

func (v *validator) errorf(format string, args ...any) {
	v.doc.addDiagnostic(SeverityError, CategoryConsistency, format, args...)
}

func (v *validator) declare(id, kind string) {
	if id == "" {
		if kind != "event" && kind != "species reference" {
			v.errorf("a %s has no identifier", kind)
		}
		return
	}
	if prev, ok := v.ids[id]; ok {
		v.errorf("identifier %q of %s is already used by a %s", id, kind, prev)
		return
	}
	v.ids[id] = kind
}

func (v *validator) collectIDs() {
	m := v.m
	for _, fd := range m.FunctionDefinitions {
		v.declare(fd.ID, "function definition")
	}
	for _, c := range m.Compartments {
		v.declare(c.ID, "compartment")
	}
	for _, s := range m.Species {
		v.declare(s.ID, "species")
	}
	for _, p := range m.Parameters {
		v.declare(p.ID, "parameter")
	}
	for _, r := range m.Reactions {
		v.declare(r.ID, "reaction")
		for _, sr := range r.Reactants {
			v.declare(sr.ID, "species reference")
		}
		for _, sr := range r.Products {
			v.declare(sr.ID, "species reference")
		}
	}
	for _, e := range m.Events {
		v.declare(e.ID, "event")
	}
}

// isVariable reports whether id names something a rule or assignment may set.
func (v *validator) isVariable(id string) bool {
	switch v.ids[id] {
	case "compartment", "species", "parameter", "species reference":
		return true
	}
	return false
}

func (v *validator) checkReferences() {
	m := v.m
	for _, c := range m.Compartments {
		if c.Outside != "" && m.CompartmentByID(c.Outside) == nil {
			v.errorf("compartment %q is outside the undefined compartment %q", c.ID, c.Outside)
		}
	}
	for _, s := range m.Species {
		if s.Compartment != "" && m.CompartmentByID(s.Compartment) == nil {
			v.errorf("species %q is located in the undefined compartment %q", s.ID, s.Compartment)
		}
		if s.ConversionFactor != "" && m.ParameterByID(s.ConversionFactor) == nil {
			v.errorf("conversion factor %q of species %q is not a parameter", s.ConversionFactor, s.ID)
		}
	}
	if m.ConversionFactor != "" && m.ParameterByID(m.ConversionFactor) == nil {
		v.errorf("model conversion factor %q is not a parameter", m.ConversionFactor)
	}
	for _, r := range m.Reactions {
		for _, sr := range r.Reactants {
			v.checkSpecies(r, sr.Species)
		}
		for _, sr := range r.Products {
			v.checkSpecies(r, sr.Species)
		}
		for _, mod := range r.Modifiers {
			v.checkSpecies(r, mod.Species)
		}
	}
}

func (v *validator) checkSpecies(r *Reaction, id string) {
	if id != "" && v.m.SpeciesByID(id) == nil {
		v.errorf("reaction %q refers to the undefined species %q", r.ID, id)
	}
}

func (v *validator) checkAssignments() {
	m := v.m
	ruled := make(map[string]RuleType)
	for _, r := range m.Rules {
		if r.Type == RuleAlgebraic {
			continue
		}
		if !v.isVariable(r.Variable) {
			v.errorf("rule variable %q is not a compartment, species, parameter or species reference", r.Variable)
			continue
		}
		if _, dup := ruled[r.Variable]; dup {
			v.errorf("more than one rule sets %q", r.Variable)
		}
		ruled[r.Variable] = r.Type
	}
	assigned := make(map[string]bool)
	for _, ia := range m.InitialAssignments {
		if !v.isVariable(ia.Symbol) {
			v.errorf("initial assignment symbol %q is not a compartment, species, parameter or species reference", ia.Symbol)
			continue
		}
		if assigned[ia.Symbol] {
			v.errorf("more than one initial assignment sets %q", ia.Symbol)
		}
		assigned[ia.Symbol] = true
		if t, ok := ruled[ia.Symbol]; ok && t == RuleAssignment {
			v.errorf("%q is set by both an assignment rule and an initial assignment", ia.Symbol)
		}
	}
	for _, e := range m.Events {
		for _, ea := range e.Assignments {
			if !v.isVariable(ea.Variable) {
				v.errorf("event assignment variable %q is not a compartment, species, parameter or species reference", ea.Variable)
				continue
			}
			if t, ok := ruled[ea.Variable]; ok && t == RuleAssignment {
				v.errorf("event assignment to %q conflicts with its assignment rule", ea.Variable)
			}
		}
	}
}

// checkMath reports identifiers used in expressions that are never declared.
func (v *validator) checkMath() {
	m := v.m
	check := func(where string, n *mathml.Node, local map[string]bool) {
		for _, ref := range mathml.References(n) {
			if _, ok := v.ids[ref]; ok || local[ref] {
				continue
			}
			v.errorf("%s refers to the undefined identifier %q", where, ref)
		}
	}
	for _, fd := range m.FunctionDefinitions {
		check("function definition "+strconv.Quote(fd.ID), fd.Math, nil)
	}
	for _, ia := range m.InitialAssignments {
		check("initial assignment to "+strconv.Quote(ia.Symbol), ia.Math, nil)
	}
	for _, r := range m.Rules {
		check("rule for "+strconv.Quote(r.Variable), r.Math, nil)
	}
	for _, c := range m.Constraints {
		check("a constraint", c.Math, nil)
	}
	for _, r := range m.Reactions {
		for _, sr := range r.Reactants {
			check("stoichiometry of "+strconv.Quote(sr.Species), sr.StoichiometryMath, nil)
		}
		for _, sr := range r.Products {
			check("stoichiometry of "+strconv.Quote(sr.Species), sr.StoichiometryMath, nil)
		}
		if r.KineticLaw == nil {
			continue
		}
		local := make(map[string]bool, len(r.KineticLaw.LocalParameters))
		for _, lp := range r.KineticLaw.LocalParameters {
			local[lp.ID] = true
		}
		check("kinetic law of reaction "+strconv.Quote(r.ID), r.KineticLaw.Math, local)
	}
	for _, e := range m.Events {
		where := "event " + strconv.Quote(e.ID)
		if e.Trigger != nil {
			check(where, e.Trigger.Math, nil)
		}
		if e.Delay != nil {
			check(where, e.Delay.Math, nil)
		}
		if e.Priority != nil {
			check(where, e.Priority.Math, nil)
		}
		for _, ea := range e.Assignments {
			check(where, ea.Math, nil)
		}
	}
}
