package sbml

import (
	"github.com/beevik/etree"
)

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneElement(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	return el.Copy()
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := &Model{
		Annotated:        m.Annotated.clone(),
		ID:               m.ID,
		SubstanceUnits:   m.SubstanceUnits,
		TimeUnits:        m.TimeUnits,
		VolumeUnits:      m.VolumeUnits,
		AreaUnits:        m.AreaUnits,
		LengthUnits:      m.LengthUnits,
		ExtentUnits:      m.ExtentUnits,
		ConversionFactor: m.ConversionFactor,
	}
	for _, fd := range m.FunctionDefinitions {
		c.FunctionDefinitions = append(c.FunctionDefinitions, &FunctionDefinition{
			Annotated: fd.Annotated.clone(), ID: fd.ID, Math: fd.Math.Clone(),
		})
	}
	for _, ud := range m.UnitDefinitions {
		nud := &UnitDefinition{Annotated: ud.Annotated.clone(), ID: ud.ID}
		for _, u := range ud.Units {
			nud.Units = append(nud.Units, &Unit{
				Annotated:  u.Annotated.clone(),
				Kind:       u.Kind,
				Exponent:   cloneFloat(u.Exponent),
				Scale:      cloneInt(u.Scale),
				Multiplier: cloneFloat(u.Multiplier),
				Offset:     cloneFloat(u.Offset),
			})
		}
		c.UnitDefinitions = append(c.UnitDefinitions, nud)
	}
	for _, comp := range m.Compartments {
		c.Compartments = append(c.Compartments, &Compartment{
			Annotated:         comp.Annotated.clone(),
			ID:                comp.ID,
			SpatialDimensions: cloneFloat(comp.SpatialDimensions),
			Size:              cloneFloat(comp.Size),
			Units:             comp.Units,
			Outside:           comp.Outside,
			Constant:          cloneBool(comp.Constant),
		})
	}
	for _, s := range m.Species {
		c.Species = append(c.Species, &Species{
			Annotated:             s.Annotated.clone(),
			ID:                    s.ID,
			Compartment:           s.Compartment,
			InitialAmount:         cloneFloat(s.InitialAmount),
			InitialConcentration:  cloneFloat(s.InitialConcentration),
			SubstanceUnits:        s.SubstanceUnits,
			HasOnlySubstanceUnits: cloneBool(s.HasOnlySubstanceUnits),
			BoundaryCondition:     cloneBool(s.BoundaryCondition),
			Constant:              cloneBool(s.Constant),
			Charge:                cloneInt(s.Charge),
			ConversionFactor:      s.ConversionFactor,
		})
	}
	for _, p := range m.Parameters {
		c.Parameters = append(c.Parameters, &Parameter{
			Annotated: p.Annotated.clone(),
			ID:        p.ID,
			Value:     cloneFloat(p.Value),
			Units:     p.Units,
			Constant:  cloneBool(p.Constant),
		})
	}
	for _, ia := range m.InitialAssignments {
		c.InitialAssignments = append(c.InitialAssignments, &InitialAssignment{
			Annotated: ia.Annotated.clone(), Symbol: ia.Symbol, Math: ia.Math.Clone(),
		})
	}
	for _, r := range m.Rules {
		c.Rules = append(c.Rules, &Rule{
			Annotated: r.Annotated.clone(), Type: r.Type, Variable: r.Variable, Math: r.Math.Clone(),
		})
	}
	for _, con := range m.Constraints {
		c.Constraints = append(c.Constraints, &Constraint{
			Annotated: con.Annotated.clone(), Math: con.Math.Clone(), Message: cloneElement(con.Message),
		})
	}
	for _, r := range m.Reactions {
		c.Reactions = append(c.Reactions, r.clone())
	}
	for _, e := range m.Events {
		c.Events = append(c.Events, e.clone())
	}
	return c
}

func (r *Reaction) clone() *Reaction {
	c := &Reaction{
		Annotated:   r.Annotated.clone(),
		ID:          r.ID,
		Reversible:  cloneBool(r.Reversible),
		Fast:        cloneBool(r.Fast),
		Compartment: r.Compartment,
	}
	for _, sr := range r.Reactants {
		c.Reactants = append(c.Reactants, sr.clone())
	}
	for _, sr := range r.Products {
		c.Products = append(c.Products, sr.clone())
	}
	for _, mod := range r.Modifiers {
		c.Modifiers = append(c.Modifiers, &ModifierSpeciesReference{
			Annotated: mod.Annotated.clone(), ID: mod.ID, Species: mod.Species,
		})
	}
	if kl := r.KineticLaw; kl != nil {
		nkl := &KineticLaw{
			Annotated:      kl.Annotated.clone(),
			Math:           kl.Math.Clone(),
			TimeUnits:      kl.TimeUnits,
			SubstanceUnits: kl.SubstanceUnits,
		}
		for _, lp := range kl.LocalParameters {
			nkl.LocalParameters = append(nkl.LocalParameters, &LocalParameter{
				Annotated: lp.Annotated.clone(), ID: lp.ID, Value: cloneFloat(lp.Value), Units: lp.Units,
			})
		}
		c.KineticLaw = nkl
	}
	return c
}

func (sr *SpeciesReference) clone() *SpeciesReference {
	return &SpeciesReference{
		Annotated:         sr.Annotated.clone(),
		ID:                sr.ID,
		Species:           sr.Species,
		Stoichiometry:     cloneFloat(sr.Stoichiometry),
		StoichiometryMath: sr.StoichiometryMath.Clone(),
		Constant:          cloneBool(sr.Constant),
	}
}

func (e *Event) clone() *Event {
	c := &Event{
		Annotated:                e.Annotated.clone(),
		ID:                       e.ID,
		UseValuesFromTriggerTime: cloneBool(e.UseValuesFromTriggerTime),
		TimeUnits:                e.TimeUnits,
	}
	if e.Trigger != nil {
		c.Trigger = &Trigger{
			Annotated:    e.Trigger.Annotated.clone(),
			Math:         e.Trigger.Math.Clone(),
			Persistent:   cloneBool(e.Trigger.Persistent),
			InitialValue: cloneBool(e.Trigger.InitialValue),
		}
	}
	c.Delay = e.Delay.clone()
	c.Priority = e.Priority.clone()
	for _, ea := range e.Assignments {
		c.Assignments = append(c.Assignments, &EventAssignment{
			Annotated: ea.Annotated.clone(), Variable: ea.Variable, Math: ea.Math.Clone(),
		})
	}
	return c
}

func (x *Expression) clone() *Expression {
	if x == nil {
		return nil
	}
	return &Expression{Annotated: x.Annotated.clone(), Math: x.Math.Clone()}
}
