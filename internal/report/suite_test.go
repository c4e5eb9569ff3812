package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sbmltestgen/internal/mathml"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/sbml"
)

func ptr[T any](v T) *T { return &v }

func loadModel(t *testing.T, name string) *sbml.Model {
	t.Helper()
	doc, err := sbml.ReadFile(filepath.Join("..", "sbml", "testdata", name))
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", name, err)
	}
	if doc.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", doc.Errors())
	}
	return doc.Model
}

func formula(t *testing.T, s string) *mathml.Node {
	t.Helper()
	n, err := mathml.ParseFormula(s)
	if err != nil {
		t.Fatalf("ParseFormula(%q) error = %v", s, err)
	}
	return n
}

// TestSuiteFormatterFormat tests the complete description of a simple model.
func TestSuiteFormatterFormat(t *testing.T) {
	t.Parallel()

	m := loadModel(t, "case00001-sbml-l2v4.xml")
	fs := model.NewFeatureSet()
	for _, tag := range []string{"Species", "Reaction", "Compartment", "Parameter"} {
		fs.Components.Add(tag)
	}
	fs.Tests.Add("Amount||Concentration")

	got := NewSuiteFormatter().Format(m, fs, []string{"1.2", "2.1", "2.2", "2.3", "2.4", "3.1"})

	want := `(*

category:      Test
synopsis:      [[Write description here.]]
componentTags: Compartment, Parameter, Reaction, Species
testTags:      Amount||Concentration
testType:      TimeCourse
levels:        1.2, 2.1, 2.2, 2.3, 2.4, 3.1
generatedBy:   Analytic||Numeric

{Write general description of why you have created the model here.}

The model contains:
* 2 species (S1, S2)
* 1 parameter (k1)
* 1 compartment (compartment)

There is one reaction:

[{width:30em,margin-left:5em}|  *Reaction*  |  *Rate*  |
| S1 -> S2 | $compartment * k1 * S1$ |]

The initial conditions are as follows:

[{width:35em,margin-left:5em}|       | *Value* | *Constant* |
| Initial amount of species S1 | $0.00015$ | variable |
| Initial amount of species S2 | $0$ | variable |
| Initial value of parameter k1 | $1$ | constant |
| Initial volume of compartment 'compartment' | $1$ | constant |]

The species' initial quantities are given in terms of substance units to
make it easier to use the model in a discrete stochastic simulator, but
their symbols represent their values in concentration units where they
appear in expressions.

{Keep this next line if 'generatedBy' is 'Analytic':}
Note: The test data for this model was generated from an analytical
solution of the system of equations.

*)`
	if got != want {
		t.Errorf("Format() mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// TestSuiteFormatterHeader tests configurable header placeholders.
func TestSuiteFormatterHeader(t *testing.T) {
	t.Parallel()

	t.Run("custom values", func(t *testing.T) {
		t.Parallel()
		f := NewSuiteFormatter(WithHeader(HeaderDefaults{
			Category:    "Model",
			GeneratedBy: "Numeric",
		}))
		got := f.Header(nil, nil)
		for _, want := range []string{
			"category:      Model\n",
			"synopsis:      [[Write description here.]]\n",
			"componentTags: \n",
			"testTags:      \n",
			"levels:        \n",
			"generatedBy:   Numeric\n",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("header does not contain %q:\n%s", want, got)
			}
		}
	})

	t.Run("ends with the description block", func(t *testing.T) {
		t.Parallel()
		got := NewSuiteFormatter().Header(model.NewFeatureSet(), []string{"3.1"})
		if !strings.HasSuffix(got, "\n\n"+DefaultDescription+"\n\n") {
			t.Errorf("unexpected header ending:\n%q", got)
		}
	})
}

// TestEventTable tests the event table with every optional column.
func TestEventTable(t *testing.T) {
	t.Parallel()

	t.Run("all columns", func(t *testing.T) {
		t.Parallel()
		m := loadModel(t, "case00002-sbml-l3v1.xml")
		want := "\nThere is one event:\n\n" +
			"[{width:55em,margin-left:5em}|  *Event*  |  *Trigger*  |  *Priority*  |  *Persistent*  |" +
			"  *initialValue*  |  *Use values from:*  |  *Delay*  | *Event Assignments* |" +
			"\n| E0 | $gt(t, 1)$ | $1$ | false | false | Assignment time | $0.5$ | $p = 2$ |]\n\n"
		if got := eventTable(m); got != want {
			t.Errorf("eventTable() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("several assignments and events", func(t *testing.T) {
		t.Parallel()
		trigger := &sbml.Trigger{Math: formula(t, "gt(x, 1)")}
		m := &sbml.Model{Events: []*sbml.Event{
			{
				ID:      "A",
				Trigger: trigger,
				Delay:   &sbml.Expression{Math: mathml.NewReal(2)},
				Assignments: []*sbml.EventAssignment{
					{Variable: "a", Math: mathml.NewReal(1)},
					{Variable: "b", Math: formula(t, "a + 1")},
				},
			},
			{ID: "B", Trigger: trigger},
		}}
		want := "\nThere are 2 events:\n\n" +
			"[{width:35em,margin-left:5em}|  *Event*  |  *Trigger*  |  *Delay*  | *Event Assignments* |" +
			"\n| A | $gt(x, 1)$ | $2$ | $a = 1$ |" +
			"\n|  |  |  | $b = a + 1$ |" +
			"\n| B | $gt(x, 1)$ | $0$ |  |]\n\n"
		if got := eventTable(m); got != want {
			t.Errorf("eventTable() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("no events", func(t *testing.T) {
		t.Parallel()
		if got := eventTable(&sbml.Model{}); got != "" {
			t.Errorf("got %q", got)
		}
	})
}

// TestReactionTable tests stoichiometry annotations and the fast column.
func TestReactionTable(t *testing.T) {
	t.Parallel()

	m := &sbml.Model{
		Parameters: []*sbml.Parameter{{ID: "k", Value: ptr(1.0)}},
		Rules: []*sbml.Rule{
			{Type: sbml.RuleAssignment, Variable: "nB", Math: mathml.NewReal(3)},
		},
		Reactions: []*sbml.Reaction{
			{
				ID:   "R1",
				Fast: ptr(true),
				Reactants: []*sbml.SpeciesReference{
					{Species: "A", Stoichiometry: ptr(2.0)},
					{ID: "nB", Species: "B"},
				},
				Products: []*sbml.SpeciesReference{
					{Species: "C", StoichiometryMath: mathml.NewName("k")},
				},
				KineticLaw: &sbml.KineticLaw{Math: formula(t, "k * A")},
			},
			{
				ID:       "R2",
				Products: []*sbml.SpeciesReference{{Species: "A", Stoichiometry: ptr(1.0)}},
			},
		},
	}

	want := "\nThere are 2 reactions:\n\n" +
		"[{width:30em,margin-left:5em}|  *Reaction*  |  *Rate*  |  *Fast*  |" +
		"\n| 2A + nB B -> C_ext C | $k * A$ | fast |" +
		"\n| -> A | $(not set)$ | slow |]\n" +
		"Note:  the following stoichiometries are set separately:  nB, C_ext\n\n"
	if got := reactionTable(m); got != want {
		t.Errorf("reactionTable() =\n%q\nwant\n%q", got, want)
	}
}

// TestRuleTable tests rule rows.
func TestRuleTable(t *testing.T) {
	t.Parallel()

	m := &sbml.Model{Rules: []*sbml.Rule{
		{Type: sbml.RuleAssignment, Variable: "p", Math: formula(t, "x + 1")},
		{Type: sbml.RuleAlgebraic, Math: formula(t, "x - 1")},
		{Type: sbml.RuleRate, Variable: "x", Math: mathml.NewReal(0.5)},
	}}
	want := "\nThere are 3 rules:\n\n" +
		"[{width:30em,margin-left:5em}|  *Type*  |  *Variable*  |  *Formula*  |" +
		"\n| Assignment | p | $x + 1$ |" +
		"\n| Algebraic | $0$ | $x - 1$ |" +
		"\n| Rate | x | $0.5$ |]\n\n"
	if got := ruleTable(m); got != want {
		t.Errorf("ruleTable() =\n%q\nwant\n%q", got, want)
	}
}

// TestInitialConditionsTable tests value precedence and row order.
func TestInitialConditionsTable(t *testing.T) {
	t.Parallel()

	m := &sbml.Model{
		Compartments: []*sbml.Compartment{
			{ID: "v", Constant: ptr(false)},
			{ID: "c", Size: ptr(2.5)},
		},
		Species: []*sbml.Species{
			{ID: "X", Compartment: "c", InitialConcentration: ptr(0.1)},
			{ID: "Y", Compartment: "c", HasOnlySubstanceUnits: ptr(true)},
			{ID: "Z", Compartment: "c", Constant: ptr(true)},
		},
		Parameters: []*sbml.Parameter{
			{ID: "p", Value: ptr(1.0), Constant: ptr(false)},
			{ID: "q"},
		},
		InitialAssignments: []*sbml.InitialAssignment{
			{Symbol: "Y", Math: formula(t, "2 * p")},
			{Symbol: "p", Math: mathml.NewReal(7)},
		},
		Rules: []*sbml.Rule{
			{Type: sbml.RuleAssignment, Variable: "p", Math: formula(t, "X * 3")},
		},
	}

	want := "The initial conditions are as follows:\n\n" +
		"[{width:35em,margin-left:5em}|       | *Value* | *Constant* |" +
		"\n| Initial level of species Z | $unknown$ | constant |" +
		"\n| Initial concentration of species X | $0.1$ | variable |" +
		"\n| Initial amount of species Y | $2 * p$ | variable |" +
		"\n| Initial value of parameter q | $unknown$ | constant |" +
		"\n| Initial value of parameter p | $X * 3$ | variable |" +
		"\n| Initial volume of compartment 'c' | $2.5$ | constant |" +
		"\n| Initial volume of compartment 'v' | $unknown$ | variable |]\n"
	if got := initialConditionsTable(m); got != want {
		t.Errorf("initialConditionsTable() =\n%q\nwant\n%q", got, want)
	}

	if got := initialConditionsTable(&sbml.Model{}); got != "" {
		t.Errorf("empty model gave %q", got)
	}
}

// TestInitialConditionsLevel1Volume tests that a Level 1 compartment without
// a volume is reported with its default of 1.
func TestInitialConditionsLevel1Volume(t *testing.T) {
	t.Parallel()

	doc := sbml.Parse([]byte(`<sbml xmlns="http://www.sbml.org/sbml/level1" level="1" version="2">
  <model name="m"><listOfCompartments><compartment name="cell"/></listOfCompartments></model>
</sbml>`))
	if doc.HasErrors() || doc.Model == nil {
		t.Fatalf("unexpected diagnostics: %v", doc.Errors())
	}

	got := initialConditionsTable(doc.Model)
	if !strings.Contains(got, "| Initial volume of compartment 'cell' | $1$ | constant |") {
		t.Errorf("initialConditionsTable() =\n%q", got)
	}
}

// TestSummaryConstraintsAndFunctions tests the "It also contains" block.
func TestSummaryConstraintsAndFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model *sbml.Model
		want  string
	}{
		{
			name: "constraints and functions",
			model: &sbml.Model{
				Constraints: []*sbml.Constraint{
					{Math: formula(t, "gt(x, 0)")},
					{Math: formula(t, "lt(y, 1)")},
				},
				FunctionDefinitions: []*sbml.FunctionDefinition{
					{ID: "f", Math: formula(t, "lambda(x, x * 2)")},
				},
			},
			want: "\nIt also contains 2 constraints (gt(x, 0), lt(y, 1)) and 1 function definition(s):\n; f: $x * 2$\n",
		},
		{
			name: "constraints only",
			model: &sbml.Model{Constraints: []*sbml.Constraint{
				{Math: formula(t, "gt(x, 0)")},
			}},
			want: "\nIt also contains 1 constraints (gt(x, 0)) ",
		},
		{
			name:  "neither",
			model: &sbml.Model{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var sb strings.Builder
			writeConstraintsAndFunctions(&sb, tt.model)
			if sb.String() != tt.want {
				t.Errorf("got %q, want %q", sb.String(), tt.want)
			}
		})
	}
}

// TestSummaryAmountNote tests when the substance-units note is added.
func TestSummaryAmountNote(t *testing.T) {
	t.Parallel()

	const note = "The species' initial quantities are given in terms of substance units"
	tests := []struct {
		name    string
		species []*sbml.Species
		want    bool
	}{
		{"all amounts", []*sbml.Species{{ID: "a", InitialAmount: ptr(1.0)}}, true},
		{"a concentration", []*sbml.Species{{ID: "a", InitialAmount: ptr(1.0)}, {ID: "b", InitialConcentration: ptr(1.0)}}, false},
		{"substance units only", []*sbml.Species{{ID: "a", InitialAmount: ptr(1.0), HasOnlySubstanceUnits: ptr(true)}}, false},
		{"no species", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewSuiteFormatter().Summary(&sbml.Model{Species: tt.species})
			if strings.Contains(got, note) != tt.want {
				t.Errorf("note present = %v, want %v:\n%s", !tt.want, tt.want, got)
			}
			if !strings.HasSuffix(got, "solution of the system of equations.\n") {
				t.Error("summary must end with the analytic solution note")
			}
		})
	}
}

// TestFormatNumber tests six-significant-digit formatting.
func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{0.00015, "0.00015"},
		{0.1, "0.1"},
		{1e-05, "1e-05"},
		{123456789, "1.23457e+08"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := formatNumber(tt.in); got != tt.want {
				t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
