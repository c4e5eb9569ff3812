package sbml

import (
	"fmt"
	"math"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// issue is one compatibility finding for a target level/version.
type issue struct {
	severity Severity
	message  string
}

// compatibility lists the constructs of m that the target level/version
// cannot express. Findings with SeverityError make a conversion fail.
func compatibility(m *Model, level, version int) []issue {
	c := &checker{m: m, level: level, version: version}
	switch level {
	case 1:
		c.checkLevel1()
	case 2:
		c.checkLevel2()
	case 3:
		c.checkLevel3()
	}
	return c.issues
}

type checker struct {
	m       *Model
	level   int
	version int
	issues  []issue
}

func (c *checker) errorf(format string, args ...any) {
	c.issues = append(c.issues, issue{
		severity: SeverityError,
		message:  fmt.Sprintf(format, args...) + fmt.Sprintf(" in SBML Level %d Version %d", c.level, c.version),
	})
}

func (c *checker) warnf(format string, args ...any) {
	c.issues = append(c.issues, issue{severity: SeverityWarning, message: fmt.Sprintf(format, args...)})
}

func (c *checker) checkLevel1() {
	m := c.m
	if len(m.FunctionDefinitions) > 0 {
		c.errorf("function definitions are not supported")
	}
	if len(m.InitialAssignments) > 0 {
		c.errorf("initial assignments are not supported")
	}
	if len(m.Constraints) > 0 {
		c.errorf("constraints are not supported")
	}
	if len(m.Events) > 0 {
		c.errorf("events are not supported")
	}
	c.checkNoConversionFactors()
	for _, comp := range m.Compartments {
		if comp.Dimensions() != 3 {
			c.errorf("compartment %q has %g spatial dimensions; only three-dimensional compartments are supported", comp.ID, comp.Dimensions())
		}
	}
	for _, s := range m.Species {
		if s.IsHasOnlySubstanceUnits() {
			c.errorf("species %q uses hasOnlySubstanceUnits, which is not supported", s.ID)
		}
		if s.IsConstant() {
			c.errorf("constant species %q is not supported", s.ID)
		}
		if s.InitialAmount == nil {
			c.errorf("species %q has no initialAmount, which is required", s.ID)
		}
	}
	for _, r := range m.Reactions {
		for _, sr := range r.SpeciesReferences() {
			if sr.StoichiometryMath != nil {
				c.errorf("stoichiometryMath on species reference to %q is not supported", sr.Species)
			}
			if v := sr.StoichiometryValue(); v != math.Trunc(v) {
				c.errorf("non-integral stoichiometry %g of species %q is not supported", v, sr.Species)
			}
		}
		if len(r.Modifiers) > 0 {
			c.warnf("modifiers of reaction %q are dropped in SBML Level 1", r.ID)
		}
	}
	for _, rule := range m.Rules {
		if rule.Type != RuleAlgebraic && m.CompartmentByID(rule.Variable) == nil &&
			m.SpeciesByID(rule.Variable) == nil && m.ParameterByID(rule.Variable) == nil {
			c.errorf("rule for %q does not target a compartment, species or parameter", rule.Variable)
		}
	}
	for _, tree := range m.MathTrees() {
		if name, ok := level1Unsupported(tree); !ok {
			c.errorf("the math construct %q is not supported", name)
		}
	}
}

// level1Unsupported reports the first construct in n that a Level 1
// formula cannot express.
func level1Unsupported(n *mathml.Node) (string, bool) {
	bad := ""
	mathml.Walk(n, func(node *mathml.Node) bool {
		if bad != "" {
			return false
		}
		switch node.Type {
		case mathml.NodeRelational, mathml.NodeLogical, mathml.NodePiecewise, mathml.NodeLambda,
			mathml.NodeDelay, mathml.NodeRateOf, mathml.NodeAvogadro, mathml.NodeTime, mathml.NodeCall:
			bad = node.Name
		case mathml.NodeConstant:
			if node.Name != "pi" && node.Name != "exponentiale" {
				bad = node.Name
			}
		case mathml.NodeFunction:
			if !level1Functions[node.Name] {
				bad = node.Name
			}
			if node.Name == "root" && node.Qualifier != nil && node.Qualifier.NumericValue() != 2 {
				bad = "root"
			}
			if node.Name == "log" && node.Qualifier != nil && node.Qualifier.NumericValue() != 10 {
				bad = "log"
			}
		}
		return bad == ""
	})
	return bad, bad == ""
}

var level1Functions = map[string]bool{
	"abs": true, "exp": true, "ln": true, "log": true, "floor": true, "ceiling": true, "root": true,
	"sin": true, "cos": true, "tan": true, "arcsin": true, "arccos": true, "arctan": true,
	"sinh": true, "cosh": true, "tanh": true,
}

func (c *checker) checkNoConversionFactors() {
	if c.m.ConversionFactor != "" {
		c.errorf("the model conversion factor %q is not supported", c.m.ConversionFactor)
	}
	for _, s := range c.m.Species {
		if s.ConversionFactor != "" {
			c.errorf("the conversion factor of species %q is not supported", s.ID)
		}
	}
}

func (c *checker) checkLevel2() {
	m := c.m
	c.checkNoConversionFactors()
	c.checkNoLevel3Version2Math()
	for _, comp := range m.Compartments {
		if d := comp.Dimensions(); d != math.Trunc(d) || d < 0 || d > 3 {
			c.errorf("compartment %q has %g spatial dimensions; only 0 to 3 are supported", comp.ID, d)
		}
	}
	for _, e := range m.Events {
		if e.Priority != nil {
			c.errorf("event priorities are not supported")
		}
		if e.Trigger != nil && !e.Trigger.IsPersistent() {
			c.errorf("non-persistent event triggers are not supported")
		}
		if e.Trigger != nil && !e.Trigger.InitialValueTrue() {
			c.errorf("event triggers with initialValue false are not supported")
		}
		if c.version < 4 && !e.UsesValuesFromTriggerTime() {
			c.errorf("useValuesFromTriggerTime false is not supported")
		}
	}
	for _, tree := range m.MathTrees() {
		if mathml.Contains(tree, mathml.NodeAvogadro) {
			c.errorf("the avogadro csymbol is not supported")
			break
		}
	}
	for _, target := range c.assignmentTargets() {
		if m.SpeciesReferenceByID(target) != nil {
			c.errorf("assigning to the species reference %q is not supported", target)
		}
	}
	if c.version == 1 {
		if len(m.InitialAssignments) > 0 {
			c.errorf("initial assignments are not supported")
		}
		if len(m.Constraints) > 0 {
			c.errorf("constraints are not supported")
		}
		for _, r := range m.Reactions {
			for _, sr := range r.SpeciesReferences() {
				if sr.ID != "" {
					c.errorf("species reference identifiers (%q) are not supported", sr.ID)
				}
			}
		}
	}
}

func (c *checker) checkLevel3() {
	if c.version < 2 {
		c.checkNoLevel3Version2Math()
	}
	for _, r := range c.m.Reactions {
		for _, sr := range r.SpeciesReferences() {
			if sr.StoichiometryMath != nil {
				c.errorf("stoichiometryMath on species reference to %q is not supported", sr.Species)
			}
		}
		if c.version >= 2 && r.IsFast() {
			c.errorf("fast reaction %q is not supported", r.ID)
		}
	}
}

func (c *checker) checkNoLevel3Version2Math() {
	for _, tree := range c.m.MathTrees() {
		found := ""
		mathml.Walk(tree, func(n *mathml.Node) bool {
			if n.Type == mathml.NodeRateOf || ((n.Type == mathml.NodeFunction || n.Type == mathml.NodeLogical) && mathml.Level3Version2Only[n.Name]) {
				found = n.Name
			}
			return found == ""
		})
		if found != "" {
			c.errorf("the math construct %q is not supported", found)
		}
	}
}

// assignmentTargets returns the symbols set by rules, initial assignments
// and event assignments.
func (c *checker) assignmentTargets() []string {
	var targets []string
	for _, r := range c.m.Rules {
		if r.Variable != "" {
			targets = append(targets, r.Variable)
		}
	}
	for _, ia := range c.m.InitialAssignments {
		targets = append(targets, ia.Symbol)
	}
	for _, e := range c.m.Events {
		for _, ea := range e.Assignments {
			targets = append(targets, ea.Variable)
		}
	}
	return targets
}

// SetLevelAndVersion converts the document in place.
// Constructs the target cannot express are recorded as Error diagnostics,
// the document is left unchanged and false is returned.
func (d *Document) SetLevelAndVersion(level, version int) bool {
	if !IsSupported(level, version) {
		d.addDiagnostic(SeverityError, CategoryConversion, "cannot convert to unknown SBML Level %d Version %d", level, version)
		return false
	}
	if level == d.Level && version == d.Version {
		return true
	}
	if d.Model != nil {
		failed := false
		for _, is := range compatibility(d.Model, level, version) {
			d.addDiagnostic(is.severity, CategoryConversion, "%s", is.message)
			if is.severity >= SeverityError {
				failed = true
			}
		}
		if failed {
			return false
		}
		convertModel(d.Model, level, version)
	}
	d.Level, d.Version = level, version
	if level == 1 {
		d.MetaID = ""
	}
	return true
}

// convertModel rewrites attributes for the target level and version.
// It assumes compatibility reported no errors.
func convertModel(m *Model, level, version int) {
	setVaried := variedSymbols(m)
	if level == 1 {
		dropLevel1Attributes(m)
	}
	if level < 3 {
		m.SubstanceUnits, m.TimeUnits, m.VolumeUnits = "", "", ""
		m.AreaUnits, m.LengthUnits, m.ExtentUnits = "", "", ""
	}
	for _, comp := range m.Compartments {
		if level > 1 && comp.Constant == nil && setVaried[comp.ID] {
			comp.Constant = boolPtr(false)
		}
		switch level {
		case 1:
			comp.Constant, comp.SpatialDimensions = nil, nil
		case 3:
			comp.Constant = boolPtr(comp.IsConstant())
			comp.SpatialDimensions = floatPtr(comp.Dimensions())
		}
	}
	for _, s := range m.Species {
		switch level {
		case 1:
			s.HasOnlySubstanceUnits, s.Constant, s.InitialConcentration = nil, nil, nil
		case 3:
			s.HasOnlySubstanceUnits = boolPtr(s.IsHasOnlySubstanceUnits())
			s.BoundaryCondition = boolPtr(s.IsBoundaryCondition())
			s.Constant = boolPtr(s.IsConstant())
			s.Charge = nil
		}
	}
	for _, p := range m.Parameters {
		if level > 1 && p.Constant == nil && setVaried[p.ID] {
			p.Constant = boolPtr(false)
		}
		switch level {
		case 1:
			p.Constant = nil
		case 3:
			p.Constant = boolPtr(p.IsConstant())
		}
	}
	for _, r := range m.Reactions {
		if level < 3 {
			r.Compartment = ""
		}
		if level == 3 {
			r.Reversible = boolPtr(r.IsReversible())
			if version == 1 {
				r.Fast = boolPtr(r.IsFast())
			} else {
				r.Fast = nil
			}
		}
		if level == 1 {
			r.Modifiers = nil
		}
		for _, sr := range r.SpeciesReferences() {
			switch level {
			case 1:
				sr.ID, sr.Constant = "", nil
			case 2:
				sr.Constant = nil
			case 3:
				if sr.Stoichiometry == nil {
					sr.Stoichiometry = floatPtr(1)
				}
				sr.Constant = boolPtr(sr.ID == "" || !setVaried[sr.ID])
			}
		}
	}
	for _, e := range m.Events {
		if e.Trigger != nil {
			if level == 3 {
				e.Trigger.Persistent = boolPtr(e.Trigger.IsPersistent())
				e.Trigger.InitialValue = boolPtr(e.Trigger.InitialValueTrue())
			} else {
				e.Trigger.Persistent, e.Trigger.InitialValue = nil, nil
			}
		}
		if level == 3 || (level == 2 && version >= 4) {
			e.UseValuesFromTriggerTime = boolPtr(e.UsesValuesFromTriggerTime())
		} else {
			e.UseValuesFromTriggerTime = nil
		}
		if level == 3 || (level == 2 && version > 2) {
			e.TimeUnits = ""
		}
	}
	for _, ud := range m.UnitDefinitions {
		for _, u := range ud.Units {
			if level == 3 {
				if u.Exponent == nil {
					u.Exponent = floatPtr(1)
				}
				if u.Scale == nil {
					zero := 0
					u.Scale = &zero
				}
				if u.Multiplier == nil {
					u.Multiplier = floatPtr(1)
				}
			}
			if level != 2 || version != 1 {
				u.Offset = nil
			}
		}
	}
}

func dropLevel1Attributes(m *Model) {
	m.MetaID, m.Name = "", ""
	for _, c := range m.Compartments {
		c.MetaID, c.Name = "", ""
	}
	for _, s := range m.Species {
		s.MetaID, s.Name = "", ""
	}
	for _, p := range m.Parameters {
		p.MetaID, p.Name = "", ""
	}
	for _, r := range m.Reactions {
		r.MetaID, r.Name = "", ""
	}
}

// variedSymbols returns the symbols that change over time: targets of
// rules and event assignments.
func variedSymbols(m *Model) map[string]bool {
	set := make(map[string]bool)
	for _, r := range m.Rules {
		if r.Variable != "" {
			set[r.Variable] = true
		}
	}
	for _, e := range m.Events {
		for _, ea := range e.Assignments {
			set[ea.Variable] = true
		}
	}
	return set
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
