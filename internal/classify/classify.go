package classify

import (
	"github.com/nao1215/sbmltestgen/internal/mathml"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/sbml"
)

// Component tags.
const (
	TagAlgebraicRule      = "AlgebraicRule"
	TagAssignmentRule     = "AssignmentRule"
	TagRateRule           = "RateRule"
	TagCompartment        = "Compartment"
	TagEventDelay         = "EventDelay"
	TagEventNoDelay       = "EventNoDelay"
	TagEventPriority      = "EventPriority"
	TagFunctionDefinition = "FunctionDefinition"
	TagInitialAssignment  = "InitialAssignment"
	TagParameter          = "Parameter"
	TagReaction           = "Reaction"
	TagSpecies            = "Species"
	TagCSymbolAvogadro    = "CSymbolAvogadro"
	TagCSymbolDelay       = "CSymbolDelay"
	TagCSymbolTime        = "CSymbolTime"
)

// Test tags. The trigger-related tags carry a " [?]" suffix: the generated
// header marks them for a human to confirm.
const (
	TagMultiCompartment              = "MultiCompartment"
	TagNonConstantCompartment        = "NonConstantCompartment"
	TagNonUnityCompartment           = "NonUnityCompartment"
	TagEventIsPersistent             = "EventIsPersistent [?]"
	TagEventIsNotPersistent          = "EventIsNotPersistent [?]"
	TagEventUsesTriggerTimeValues    = "EventUsesTriggerTimeValues [?]"
	TagEventUsesAssignmentTimeValues = "EventUsesAssignmentTimeValues [?]"
	TagEventT0Firing                 = "EventT0Firing [?]"
	TagInitialValueReassigned        = "InitialValueReassigned"
	TagNonConstantParameter          = "NonConstantParameter"
	TagFastReaction                  = "FastReaction"
	TagAssignedConstantStoichiometry = "AssignedConstantStoichiometry"
	TagAssignedVariableStoichiometry = "AssignedVariableStoichiometry"
	TagLocalParameters               = "LocalParameters"
	TagAmountOrConcentration         = "Amount||Concentration"
	TagBoundaryCondition             = "BoundaryCondition"
	TagConstantSpecies               = "ConstantSpecies"
	TagConversionFactors             = "ConversionFactors"
	TagHasOnlySubstanceUnits         = "HasOnlySubstanceUnits"
)

// manyEvents is the event count above which trigger tags are reported
// even for events without a delay.
const manyEvents = 2

// pass adds the tags found in one part of a model.
type pass struct {
	name  string
	check func(c *classification)
}

// classification is the state shared by the passes of one Classify call.
type classification struct {
	m     *sbml.Model
	level int
	fs    *model.FeatureSet
}

// passes is the fixed classification order.
var passes = []pass{
	{"rules", checkRules},
	{"compartments", checkCompartments},
	{"events", checkEvents},
	{"model_components", checkModelComponents},
	{"parameters", checkParameters},
	{"reactions", checkReactions},
	{"species", checkSpecies},
	{"model_conversion_factor", checkModelConversionFactor},
	{"csymbols", checkCSymbols},
}

// PassNames returns the names of the classification passes in the order
// they run.
func PassNames() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// Classify returns the feature set of m. level is the SBML level of the
// document m was read from; some tests only apply to Level 3.
// A nil model yields an empty set.
func Classify(m *sbml.Model, level int) *model.FeatureSet {
	fs := model.NewFeatureSet()
	if m == nil {
		return fs
	}
	c := &classification{m: m, level: level, fs: fs}
	for _, p := range passes {
		p.check(c)
	}
	return fs
}

// ClassifyDocument classifies the model of doc using the document's level.
func ClassifyDocument(doc *sbml.Document) *model.FeatureSet {
	if doc == nil {
		return model.NewFeatureSet()
	}
	return Classify(doc.Model, doc.Level)
}

func (c *classification) component(tag string) { c.fs.Components.Add(tag) }

func (c *classification) test(tag string) { c.fs.Tests.Add(tag) }

func checkRules(c *classification) {
	for _, r := range c.m.Rules {
		switch r.Type {
		case sbml.RuleAlgebraic:
			c.component(TagAlgebraicRule)
		case sbml.RuleAssignment:
			c.component(TagAssignmentRule)
		case sbml.RuleRate:
			c.component(TagRateRule)
		}
	}
}

func checkCompartments(c *classification) {
	if len(c.m.Compartments) == 0 {
		return
	}
	c.component(TagCompartment)
	if len(c.m.Compartments) > 1 {
		c.test(TagMultiCompartment)
	}
	for _, comp := range c.m.Compartments {
		switch {
		case comp.ID != "" && c.m.Varies(comp.ID):
			c.test(TagNonConstantCompartment)
			c.test(TagNonUnityCompartment)
		case comp.IsSetVolume() && comp.Volume() != 1.0:
			c.test(TagNonUnityCompartment)
		}
	}
}

func checkEvents(c *classification) {
	for _, e := range c.m.Events {
		if e.Delay != nil {
			c.component(TagEventDelay)
		} else {
			c.component(TagEventNoDelay)
		}
		if e.Priority != nil {
			c.component(TagEventPriority)
		}
		if e.Trigger == nil {
			continue
		}
		if e.Delay != nil || len(c.m.Events) > manyEvents {
			if p := e.Trigger.Persistent; p != nil {
				if *p {
					c.test(TagEventIsPersistent)
				} else {
					c.test(TagEventIsNotPersistent)
				}
			}
			if u := e.UseValuesFromTriggerTime; u != nil {
				if *u {
					c.test(TagEventUsesTriggerTimeValues)
				} else {
					c.test(TagEventUsesAssignmentTimeValues)
				}
			}
		}
		if iv := e.Trigger.InitialValue; iv != nil && !*iv {
			c.test(TagEventT0Firing)
		}
	}
}

func checkModelComponents(c *classification) {
	if len(c.m.FunctionDefinitions) > 0 {
		c.component(TagFunctionDefinition)
	}
	if len(c.m.InitialAssignments) > 0 {
		c.component(TagInitialAssignment)
	}
}

func checkParameters(c *classification) {
	if len(c.m.Parameters) == 0 {
		return
	}
	c.component(TagParameter)
	for _, p := range c.m.Parameters {
		if p.ID == "" {
			continue
		}
		if p.Value != nil && c.m.InitialOverridden(p.ID) {
			c.test(TagInitialValueReassigned)
		}
		if c.m.Varies(p.ID) {
			c.test(TagNonConstantParameter)
		}
	}
}

func checkReactions(c *classification) {
	if len(c.m.Reactions) == 0 {
		return
	}
	c.component(TagReaction)
	for _, r := range c.m.Reactions {
		if r.IsFast() {
			c.test(TagFastReaction)
		}
		for _, sr := range r.SpeciesReferences() {
			if !c.assignedStoichiometry(sr) {
				continue
			}
			if sr.IsConstant() {
				c.test(TagAssignedConstantStoichiometry)
			} else {
				c.test(TagAssignedVariableStoichiometry)
			}
		}
		if r.KineticLaw != nil && len(r.KineticLaw.LocalParameters) > 0 {
			c.test(TagLocalParameters)
		}
	}
}

// assignedStoichiometry reports whether the stoichiometry of sr is computed
// rather than declared.
func (c *classification) assignedStoichiometry(sr *sbml.SpeciesReference) bool {
	if sr.StoichiometryMath != nil {
		return true
	}
	return c.level == 3 && sr.ID != "" && c.m.Varies(sr.ID)
}

func checkSpecies(c *classification) {
	if len(c.m.Species) == 0 {
		return
	}
	c.component(TagSpecies)
	c.test(TagAmountOrConcentration)
	for _, s := range c.m.Species {
		if s.IsBoundaryCondition() {
			c.test(TagBoundaryCondition)
		}
		if s.IsConstant() {
			c.test(TagConstantSpecies)
		}
		if s.ConversionFactor != "" {
			c.test(TagConversionFactors)
		}
		if s.IsHasOnlySubstanceUnits() && c.fs.Tests.Has(TagNonUnityCompartment) {
			c.test(TagHasOnlySubstanceUnits)
		}
		hasInitial := s.InitialAmount != nil || s.InitialConcentration != nil
		if hasInitial && s.ID != "" && c.m.Varies(s.ID) {
			c.test(TagInitialValueReassigned)
		}
	}
}

func checkModelConversionFactor(c *classification) {
	if c.m.ConversionFactor != "" {
		c.test(TagConversionFactors)
	}
}

func checkCSymbols(c *classification) {
	for _, tree := range c.m.MathTrees() {
		mathml.Walk(tree, func(n *mathml.Node) bool {
			switch n.Type {
			case mathml.NodeAvogadro:
				c.component(TagCSymbolAvogadro)
			case mathml.NodeDelay:
				c.component(TagCSymbolDelay)
			case mathml.NodeTime:
				c.component(TagCSymbolTime)
			}
			return true
		})
	}
}
