package sbml

import (
	"github.com/beevik/etree"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// Annotated holds the attributes and free-form content every SBML element
// can carry. Notes and Annotation are kept verbatim.
type Annotated struct {
	MetaID     string
	Name       string
	Notes      *etree.Element
	Annotation *etree.Element
}

func (a Annotated) clone() Annotated {
	c := a
	if a.Notes != nil {
		c.Notes = a.Notes.Copy()
	}
	if a.Annotation != nil {
		c.Annotation = a.Annotation.Copy()
	}
	return c
}

// Model is the root container of an SBML model.
// Optional attributes are pointers; nil means "not set".
type Model struct {
	Annotated
	ID string

	SubstanceUnits   string
	TimeUnits        string
	VolumeUnits      string
	AreaUnits        string
	LengthUnits      string
	ExtentUnits      string
	ConversionFactor string

	FunctionDefinitions []*FunctionDefinition
	UnitDefinitions     []*UnitDefinition
	Compartments        []*Compartment
	Species             []*Species
	Parameters          []*Parameter
	InitialAssignments  []*InitialAssignment
	Rules               []*Rule
	Constraints         []*Constraint
	Reactions           []*Reaction
	Events              []*Event
}

// FunctionDefinition is a named lambda expression.
type FunctionDefinition struct {
	Annotated
	ID   string
	Math *mathml.Node
}

// UnitDefinition is a named compound unit.
type UnitDefinition struct {
	Annotated
	ID    string
	Units []*Unit
}

// Unit is one factor of a unit definition.
type Unit struct {
	Annotated
	Kind       string
	Exponent   *float64
	Scale      *int
	Multiplier *float64
	Offset     *float64
}

// Compartment is a bounded container for species.
type Compartment struct {
	Annotated
	ID                string
	SpatialDimensions *float64
	Size              *float64
	Units             string
	Outside           string
	Constant          *bool
}

// IsSetVolume reports whether the compartment declares a size.
func (c *Compartment) IsSetVolume() bool { return c.Size != nil }

// Volume returns the declared size, or 1 when none is set.
func (c *Compartment) Volume() float64 {
	if c.Size == nil {
		return 1
	}
	return *c.Size
}

// IsConstant returns the effective constant flag (default true).
func (c *Compartment) IsConstant() bool { return c.Constant == nil || *c.Constant }

// Dimensions returns the effective spatial dimensions (default 3).
func (c *Compartment) Dimensions() float64 {
	if c.SpatialDimensions == nil {
		return 3
	}
	return *c.SpatialDimensions
}

// Species is a pool of entities located in a compartment.
type Species struct {
	Annotated
	ID                    string
	Compartment           string
	InitialAmount         *float64
	InitialConcentration  *float64
	SubstanceUnits        string
	HasOnlySubstanceUnits *bool
	BoundaryCondition     *bool
	Constant              *bool
	Charge                *int
	ConversionFactor      string
}

// IsHasOnlySubstanceUnits returns the effective flag (default false).
func (s *Species) IsHasOnlySubstanceUnits() bool {
	return s.HasOnlySubstanceUnits != nil && *s.HasOnlySubstanceUnits
}

// IsBoundaryCondition returns the effective flag (default false).
func (s *Species) IsBoundaryCondition() bool {
	return s.BoundaryCondition != nil && *s.BoundaryCondition
}

// IsConstant returns the effective flag (default false).
func (s *Species) IsConstant() bool { return s.Constant != nil && *s.Constant }

// Parameter is a named global quantity.
type Parameter struct {
	Annotated
	ID       string
	Value    *float64
	Units    string
	Constant *bool
}

// IsConstant returns the effective flag (default true).
func (p *Parameter) IsConstant() bool { return p.Constant == nil || *p.Constant }

// LocalParameter is a quantity scoped to one kinetic law.
type LocalParameter struct {
	Annotated
	ID    string
	Value *float64
	Units string
}

// InitialAssignment sets the value of a symbol at time zero.
type InitialAssignment struct {
	Annotated
	Symbol string
	Math   *mathml.Node
}

// RuleType distinguishes the three kinds of rules.
type RuleType int

const (
	// RuleAlgebraic constrains 0 = f(x).
	RuleAlgebraic RuleType = iota
	// RuleAssignment sets x = f(x) at all times.
	RuleAssignment
	// RuleRate sets dx/dt = f(x).
	RuleRate
)

// String returns the rule type as used in report tables.
func (t RuleType) String() string {
	switch t {
	case RuleAlgebraic:
		return "Algebraic"
	case RuleAssignment:
		return "Assignment"
	case RuleRate:
		return "Rate"
	default:
		return "Unknown"
	}
}

// Rule is an algebraic, assignment or rate rule.
// Variable is empty for algebraic rules.
type Rule struct {
	Annotated
	Type     RuleType
	Variable string
	Math     *mathml.Node
}

// Constraint is a condition that must hold during simulation.
type Constraint struct {
	Annotated
	Math    *mathml.Node
	Message *etree.Element
}

// Reaction is a transformation of reactants into products.
type Reaction struct {
	Annotated
	ID          string
	Reversible  *bool
	Fast        *bool
	Compartment string
	Reactants   []*SpeciesReference
	Products    []*SpeciesReference
	Modifiers   []*ModifierSpeciesReference
	KineticLaw  *KineticLaw
}

// IsFast returns the effective fast flag (default false).
func (r *Reaction) IsFast() bool { return r.Fast != nil && *r.Fast }

// IsReversible returns the effective reversible flag (default true).
func (r *Reaction) IsReversible() bool { return r.Reversible == nil || *r.Reversible }

// SpeciesReferences returns the reactants followed by the products.
func (r *Reaction) SpeciesReferences() []*SpeciesReference {
	refs := make([]*SpeciesReference, 0, len(r.Reactants)+len(r.Products))
	refs = append(refs, r.Reactants...)
	return append(refs, r.Products...)
}

// SpeciesReference is a reactant or product of a reaction.
type SpeciesReference struct {
	Annotated
	ID                string
	Species           string
	Stoichiometry     *float64
	StoichiometryMath *mathml.Node
	Constant          *bool
}

// IsConstant returns the effective constant flag (default false).
func (sr *SpeciesReference) IsConstant() bool { return sr.Constant != nil && *sr.Constant }

// StoichiometryValue returns the declared stoichiometry, or 1 when none is set.
func (sr *SpeciesReference) StoichiometryValue() float64 {
	if sr.Stoichiometry == nil {
		return 1
	}
	return *sr.Stoichiometry
}

// ModifierSpeciesReference names a species that affects a rate without being consumed.
type ModifierSpeciesReference struct {
	Annotated
	ID      string
	Species string
}

// KineticLaw is the rate expression of a reaction.
type KineticLaw struct {
	Annotated
	Math            *mathml.Node
	LocalParameters []*LocalParameter
	TimeUnits       string
	SubstanceUnits  string
}

// Event is a discontinuous change triggered by a condition.
type Event struct {
	Annotated
	ID                       string
	UseValuesFromTriggerTime *bool
	TimeUnits                string
	Trigger                  *Trigger
	Delay                    *Expression
	Priority                 *Expression
	Assignments              []*EventAssignment
}

// UsesValuesFromTriggerTime returns the effective flag (default true).
func (e *Event) UsesValuesFromTriggerTime() bool {
	return e.UseValuesFromTriggerTime == nil || *e.UseValuesFromTriggerTime
}

// Trigger is the condition of an event.
type Trigger struct {
	Annotated
	Math         *mathml.Node
	Persistent   *bool
	InitialValue *bool
}

// IsPersistent returns the effective flag (default true).
func (t *Trigger) IsPersistent() bool { return t.Persistent == nil || *t.Persistent }

// InitialValueTrue returns the effective initial value (default true).
func (t *Trigger) InitialValueTrue() bool { return t.InitialValue == nil || *t.InitialValue }

// Expression is an element whose only content is a math expression,
// such as an event delay or priority.
type Expression struct {
	Annotated
	Math *mathml.Node
}

// EventAssignment changes a variable when its event fires.
type EventAssignment struct {
	Annotated
	Variable string
	Math     *mathml.Node
}

// CompartmentByID returns the compartment with the given id, or nil.
func (m *Model) CompartmentByID(id string) *Compartment {
	for _, c := range m.Compartments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// SpeciesByID returns the species with the given id, or nil.
func (m *Model) SpeciesByID(id string) *Species {
	for _, s := range m.Species {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ParameterByID returns the parameter with the given id, or nil.
func (m *Model) ParameterByID(id string) *Parameter {
	for _, p := range m.Parameters {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FunctionDefinitionByID returns the function definition with the given id, or nil.
func (m *Model) FunctionDefinitionByID(id string) *FunctionDefinition {
	for _, fd := range m.FunctionDefinitions {
		if fd.ID == id {
			return fd
		}
	}
	return nil
}

// SpeciesReferenceByID returns the reactant or product with the given id, or nil.
func (m *Model) SpeciesReferenceByID(id string) *SpeciesReference {
	if id == "" {
		return nil
	}
	for _, r := range m.Reactions {
		for _, sr := range r.SpeciesReferences() {
			if sr.ID == id {
				return sr
			}
		}
	}
	return nil
}

// Rule returns the assignment or rate rule whose variable is id, or nil.
// Algebraic rules have no variable and are never returned.
func (m *Model) Rule(id string) *Rule {
	if id == "" {
		return nil
	}
	for _, r := range m.Rules {
		if r.Type != RuleAlgebraic && r.Variable == id {
			return r
		}
	}
	return nil
}

// InitialAssignment returns the initial assignment for symbol, or nil.
func (m *Model) InitialAssignment(symbol string) *InitialAssignment {
	if symbol == "" {
		return nil
	}
	for _, ia := range m.InitialAssignments {
		if ia.Symbol == symbol {
			return ia
		}
	}
	return nil
}

// MathTrees returns every expression held by the model, in document order.
func (m *Model) MathTrees() []*mathml.Node {
	var trees []*mathml.Node
	add := func(n *mathml.Node) {
		if n != nil {
			trees = append(trees, n)
		}
	}
	for _, fd := range m.FunctionDefinitions {
		add(fd.Math)
	}
	for _, ia := range m.InitialAssignments {
		add(ia.Math)
	}
	for _, r := range m.Rules {
		add(r.Math)
	}
	for _, c := range m.Constraints {
		add(c.Math)
	}
	for _, r := range m.Reactions {
		for _, sr := range r.SpeciesReferences() {
			add(sr.StoichiometryMath)
		}
		if r.KineticLaw != nil {
			add(r.KineticLaw.Math)
		}
	}
	for _, e := range m.Events {
		if e.Trigger != nil {
			add(e.Trigger.Math)
		}
		if e.Delay != nil {
			add(e.Delay.Math)
		}
		if e.Priority != nil {
			add(e.Priority.Math)
		}
		for _, ea := range e.Assignments {
			add(ea.Math)
		}
	}
	return trees
}

// Varies reports whether id is the target of a rule or of any event
// assignment, that is whether its value can change after time zero.
func (m *Model) Varies(id string) bool {
	if m.Rule(id) != nil {
		return true
	}
	for _, e := range m.Events {
		for _, ea := range e.Assignments {
			if ea.Variable == id {
				return true
			}
		}
	}
	return false
}

// InitialOverridden reports whether the declared initial value of id is
// replaced by an initial assignment or an assignment rule.
func (m *Model) InitialOverridden(id string) bool {
	if m.InitialAssignment(id) != nil {
		return true
	}
	r := m.Rule(id)
	return r != nil && r.Type == RuleAssignment
}
