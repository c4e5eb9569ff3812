package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/sbmltestgen/internal/mathml"
	"github.com/nao1215/sbmltestgen/internal/sbml"
)

func writeInventory(sb *strings.Builder, m *sbml.Model) {
	if n := len(m.Species); n > 0 {
		ids := make([]string, n)
		for i, s := range m.Species {
			ids[i] = s.ID
		}
		fmt.Fprintf(sb, "* %d species (%s)\n", n, strings.Join(ids, ", "))
	}
	if n := len(m.Parameters); n > 0 {
		ids := make([]string, n)
		for i, p := range m.Parameters {
			ids[i] = p.ID
		}
		fmt.Fprintf(sb, "* %d parameter%s (%s)\n", n, plural(n), strings.Join(ids, ", "))
	}
	if n := len(m.Compartments); n > 0 {
		ids := make([]string, n)
		for i, c := range m.Compartments {
			ids[i] = c.ID
		}
		fmt.Fprintf(sb, "* %d compartment%s (%s)\n", n, plural(n), strings.Join(ids, ", "))
	}
}

func writeConstraintsAndFunctions(sb *strings.Builder, m *sbml.Model) {
	nc, nf := len(m.Constraints), len(m.FunctionDefinitions)
	if nc == 0 && nf == 0 {
		return
	}
	sb.WriteString("\nIt also contains ")
	if nc > 0 {
		formulas := make([]string, nc)
		for i, c := range m.Constraints {
			formulas[i] = mathml.FormulaToString(c.Math)
		}
		fmt.Fprintf(sb, "%d constraints (%s) ", nc, strings.Join(formulas, ", "))
		if nf > 0 {
			sb.WriteString("and ")
		}
	}
	if nf > 0 {
		fmt.Fprintf(sb, "%d function definition(s):\n", nf)
		for _, fd := range m.FunctionDefinitions {
			fmt.Fprintf(sb, "; %s: $%s$\n", fd.ID, mathml.FormulaToString(fd.Math.RightChild()))
		}
	}
}

// thereAre returns the sentence that introduces a table of n items.
func thereAre(n int, noun string) string {
	if n > 1 {
		return fmt.Sprintf("\nThere are %d %ss:\n\n", n, noun)
	}
	return "\nThere is one " + noun + ":\n\n"
}

func reactionTable(m *sbml.Model) string {
	if len(m.Reactions) == 0 {
		return ""
	}
	anyFast := false
	for _, r := range m.Reactions {
		if r.IsFast() {
			anyFast = true
		}
	}

	var sb strings.Builder
	sb.WriteString(thereAre(len(m.Reactions), "reaction"))
	sb.WriteString("[{width:30em,margin-left:5em}|  *Reaction*  |  *Rate*  |")
	if anyFast {
		sb.WriteString("  *Fast*  |")
	}

	var assigned []string
	for _, r := range m.Reactions {
		sb.WriteString("\n| ")
		sb.WriteString(halfReaction(m, r.Reactants, &assigned))
		sb.WriteString("-> ")
		sb.WriteString(halfReaction(m, r.Products, &assigned))
		sb.WriteString("| ")
		if r.KineticLaw != nil {
			sb.WriteString("$" + mathml.FormulaToString(r.KineticLaw.Math) + "$")
		} else {
			sb.WriteString("$(not set)$")
		}
		sb.WriteString(" |")
		if anyFast {
			if r.IsFast() {
				sb.WriteString(" fast |")
			} else {
				sb.WriteString(" slow |")
			}
		}
	}
	sb.WriteString("]\n")
	if len(assigned) > 0 {
		sb.WriteString("Note:  the following stoichiometries are set separately:  " + strings.Join(assigned, ", ") + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// halfReaction renders one side of a reaction. Stoichiometries that are
// computed elsewhere are shown by name and appended to assigned.
func halfReaction(m *sbml.Model, refs []*sbml.SpeciesReference, assigned *[]string) string {
	var sb strings.Builder
	for i, sr := range refs {
		if i > 0 {
			sb.WriteString("+ ")
		}
		switch {
		case sr.StoichiometryMath != nil:
			name := sr.ID
			if name == "" {
				name = sr.Species + "_ext"
			}
			sb.WriteString(name + " ")
			*assigned = append(*assigned, name)
		case sr.ID != "" && (m.InitialOverridden(sr.ID) || m.Varies(sr.ID)):
			sb.WriteString(sr.ID + " ")
			*assigned = append(*assigned, sr.ID)
		case sr.Stoichiometry != nil && *sr.Stoichiometry != 1.0:
			sb.WriteString(formatNumber(*sr.Stoichiometry))
		}
		sb.WriteString(sr.Species + " ")
	}
	return sb.String()
}

// eventColumns records which optional columns the event table needs.
type eventColumns struct {
	priority       bool
	persistent     bool
	initialValue   bool
	assignmentTime bool
	delay          bool
}

func newEventColumns(events []*sbml.Event) eventColumns {
	var c eventColumns
	for _, e := range events {
		if e.Priority != nil {
			c.priority = true
		}
		if e.Delay != nil {
			c.delay = true
		}
		if u := e.UseValuesFromTriggerTime; u != nil && !*u {
			c.assignmentTime = true
		}
		if e.Trigger == nil {
			continue
		}
		if iv := e.Trigger.InitialValue; iv != nil && !*iv {
			c.initialValue = true
		}
		if p := e.Trigger.Persistent; p != nil && !*p {
			c.persistent = true
		}
	}
	return c
}

func (c eventColumns) count() int {
	n := 0
	for _, on := range []bool{c.priority, c.persistent, c.initialValue, c.assignmentTime, c.delay} {
		if on {
			n++
		}
	}
	return n
}

func eventTable(m *sbml.Model) string {
	if len(m.Events) == 0 {
		return ""
	}
	cols := newEventColumns(m.Events)
	extras := cols.count()

	var sb strings.Builder
	sb.WriteString(thereAre(len(m.Events), "event"))
	fmt.Fprintf(&sb, "[{width:%dem,margin-left:5em}|  *Event*  |  *Trigger*  |", 30+extras*5)
	if cols.priority {
		sb.WriteString("  *Priority*  |")
	}
	if cols.persistent {
		sb.WriteString("  *Persistent*  |")
	}
	if cols.initialValue {
		sb.WriteString("  *initialValue*  |")
	}
	if cols.assignmentTime {
		sb.WriteString("  *Use values from:*  |")
	}
	if cols.delay {
		sb.WriteString("  *Delay*  |")
	}
	sb.WriteString(" *Event Assignments* |")

	for _, e := range m.Events {
		trigger := e.Trigger
		if trigger == nil {
			trigger = &sbml.Trigger{}
		}
		sb.WriteString("\n| " + e.ID + " | ")
		sb.WriteString("$" + mathml.FormulaToString(trigger.Math) + "$ | ")
		if cols.priority {
			if e.Priority != nil {
				sb.WriteString("$" + mathml.FormulaToString(e.Priority.Math) + "$")
			} else {
				sb.WriteString("(unset)")
			}
			sb.WriteString(" | ")
		}
		if cols.persistent {
			sb.WriteString(strconv.FormatBool(trigger.IsPersistent()) + " | ")
		}
		if cols.initialValue {
			sb.WriteString(strconv.FormatBool(trigger.InitialValueTrue()) + " | ")
		}
		if cols.assignmentTime {
			if e.UsesValuesFromTriggerTime() {
				sb.WriteString("Trigger time | ")
			} else {
				sb.WriteString("Assignment time | ")
			}
		}
		if cols.delay {
			if e.Delay != nil {
				sb.WriteString("$" + mathml.FormulaToString(e.Delay.Math) + "$ | ")
			} else {
				sb.WriteString("$0$ | ")
			}
		}
		if len(e.Assignments) == 0 {
			sb.WriteString(" |")
			continue
		}
		for i, ea := range e.Assignments {
			if i > 0 {
				sb.WriteString("\n|  |  | " + strings.Repeat(" | ", extras))
			}
			sb.WriteString("$" + ea.Variable + " = " + mathml.FormulaToString(ea.Math) + "$ |")
		}
	}
	sb.WriteString("]\n\n")
	return sb.String()
}

func ruleTable(m *sbml.Model) string {
	if len(m.Rules) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(thereAre(len(m.Rules), "rule"))
	sb.WriteString("[{width:30em,margin-left:5em}|  *Type*  |  *Variable*  |  *Formula*  |")
	for _, r := range m.Rules {
		variable := r.Variable
		if r.Type == sbml.RuleAlgebraic {
			variable = "$0$"
		}
		fmt.Fprintf(&sb, "\n| %s | %s | $%s$ |", r.Type, variable, mathml.FormulaToString(r.Math))
	}
	sb.WriteString("]\n\n")
	return sb.String()
}

func initialConditionsTable(m *sbml.Model) string {
	if len(m.Parameters)+len(m.Species)+len(m.Compartments) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("The initial conditions are as follows:\n\n")
	sb.WriteString("[{width:35em,margin-left:5em}|       | *Value* | *Constant* |")
	for _, constant := range []bool{true, false} {
		writeSpeciesLevels(&sb, m, constant)
	}
	for _, constant := range []bool{true, false} {
		writeParameterLevels(&sb, m, constant)
	}
	for _, constant := range []bool{true, false} {
		writeCompartmentLevels(&sb, m, constant)
	}
	sb.WriteString("]\n")
	return sb.String()
}

// governingMath returns the rule or initial assignment that fixes the
// initial value of id, preferring the rule.
func governingMath(m *sbml.Model, id string) (*mathml.Node, bool) {
	if r := m.Rule(id); r != nil {
		return r.Math, true
	}
	if ia := m.InitialAssignment(id); ia != nil {
		return ia.Math, true
	}
	return nil, false
}

func constancy(constant bool) string {
	if constant {
		return " constant |"
	}
	return " variable |"
}

func writeSpeciesLevels(sb *strings.Builder, m *sbml.Model, constant bool) {
	for _, s := range m.Species {
		if s.IsConstant() != constant {
			continue
		}
		sb.WriteString("\n| ")
		switch expr, ok := governingMath(m, s.ID); {
		case ok:
			if s.IsHasOnlySubstanceUnits() {
				sb.WriteString("Initial amount of species ")
			} else {
				sb.WriteString("Initial concentration of species ")
			}
			sb.WriteString(s.ID + " | $" + mathml.FormulaToString(expr) + "$ |")
		case s.InitialAmount != nil:
			sb.WriteString("Initial amount of species " + s.ID + " | $" + formatNumber(*s.InitialAmount) + "$ |")
		case s.InitialConcentration != nil:
			sb.WriteString("Initial concentration of species " + s.ID + " | $" + formatNumber(*s.InitialConcentration) + "$ |")
		default:
			sb.WriteString("Initial level of species " + s.ID + " | $unknown$ |")
		}
		sb.WriteString(constancy(constant))
	}
}

func writeParameterLevels(sb *strings.Builder, m *sbml.Model, constant bool) {
	for _, p := range m.Parameters {
		if p.IsConstant() != constant {
			continue
		}
		sb.WriteString("\n| Initial value of parameter " + p.ID + " | $")
		writeInitialValue(sb, m, p.ID, p.Value)
		sb.WriteString(constancy(constant))
	}
}

func writeCompartmentLevels(sb *strings.Builder, m *sbml.Model, constant bool) {
	for _, c := range m.Compartments {
		if c.IsConstant() != constant {
			continue
		}
		sb.WriteString("\n| Initial volume of compartment '" + c.ID + "' | $")
		writeInitialValue(sb, m, c.ID, c.Size)
		sb.WriteString(constancy(constant))
	}
}

// writeInitialValue completes a "$...$ |" cell for id.
func writeInitialValue(sb *strings.Builder, m *sbml.Model, id string, literal *float64) {
	switch expr, ok := governingMath(m, id); {
	case ok:
		sb.WriteString(mathml.FormulaToString(expr))
	case literal != nil:
		sb.WriteString(formatNumber(*literal))
	default:
		sb.WriteString("unknown")
	}
	sb.WriteString("$ |")
}
