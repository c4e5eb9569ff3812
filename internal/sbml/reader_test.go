package sbml

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sbmltestgen/internal/mathml"
)

// readTestdata loads a fixture and fails the test on any error diagnostic.
func readTestdata(t *testing.T, name string) *Document {
	t.Helper()
	doc, err := ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", name, err)
	}
	if doc.HasErrors() {
		t.Fatalf("unexpected diagnostics in %s: %v", name, doc.Errors())
	}
	return doc
}

func TestReadFileLevel2(t *testing.T) {
	t.Parallel()

	doc := readTestdata(t, "case00001-sbml-l2v4.xml")

	if doc.Level != 2 || doc.Version != 4 {
		t.Fatalf("level/version = %d/%d, want 2/4", doc.Level, doc.Version)
	}
	m := doc.Model
	if m == nil {
		t.Fatal("expected a model")
	}

	t.Run("collections", func(t *testing.T) {
		t.Parallel()
		if len(m.Compartments) != 1 || len(m.Species) != 2 || len(m.Parameters) != 1 || len(m.Reactions) != 1 {
			t.Errorf("got %d compartments, %d species, %d parameters, %d reactions",
				len(m.Compartments), len(m.Species), len(m.Parameters), len(m.Reactions))
		}
	})

	t.Run("species order and attributes", func(t *testing.T) {
		t.Parallel()
		if m.Species[0].ID != "S1" || m.Species[1].ID != "S2" {
			t.Errorf("species ids = %q, %q", m.Species[0].ID, m.Species[1].ID)
		}
		if m.Species[0].InitialAmount == nil || *m.Species[0].InitialAmount != 0.00015 {
			t.Errorf("S1 initial amount = %v", m.Species[0].InitialAmount)
		}
		if m.Species[0].Constant != nil {
			t.Error("constant should be unset")
		}
	})

	t.Run("kinetic law", func(t *testing.T) {
		t.Parallel()
		kl := m.Reactions[0].KineticLaw
		if kl == nil {
			t.Fatal("expected a kinetic law")
		}
		if got := mathml.FormulaToString(kl.Math); got != "compartment * k1 * S1" {
			t.Errorf("kinetic law = %q", got)
		}
	})

	t.Run("notes are kept", func(t *testing.T) {
		t.Parallel()
		if m.Notes == nil {
			t.Fatal("expected notes")
		}
	})

	t.Run("parameter constant defaults to true", func(t *testing.T) {
		t.Parallel()
		if !m.Parameters[0].IsConstant() {
			t.Error("expected parameter to be constant")
		}
	})
}

func TestReadFileLevel3Events(t *testing.T) {
	t.Parallel()

	doc := readTestdata(t, "case00002-sbml-l3v1.xml")
	m := doc.Model
	if len(m.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(m.Events))
	}
	e := m.Events[0]

	if e.Trigger == nil || e.Trigger.Persistent == nil || *e.Trigger.Persistent {
		t.Error("expected persistent=false")
	}
	if e.Trigger.InitialValue == nil || *e.Trigger.InitialValue {
		t.Error("expected initialValue=false")
	}
	if e.UsesValuesFromTriggerTime() {
		t.Error("expected useValuesFromTriggerTime=false")
	}
	if e.Priority == nil || e.Delay == nil {
		t.Fatal("expected priority and delay")
	}
	if got := mathml.FormulaToString(e.Trigger.Math); got != "gt(t, 1)" {
		t.Errorf("trigger = %q", got)
	}
	if !mathml.Contains(e.Trigger.Math, mathml.NodeTime) {
		t.Error("expected time csymbol in trigger")
	}
}

func TestReadFileLevel1(t *testing.T) {
	t.Parallel()

	doc := readTestdata(t, "case00003-sbml-l1v2.xml")
	m := doc.Model

	if m.ID != "case00003" {
		t.Errorf("model id = %q", m.ID)
	}
	if c := m.CompartmentByID("cell"); c == nil || c.Volume() != 2 {
		t.Errorf("compartment cell = %+v", c)
	}
	rule := m.Rule("total")
	if rule == nil || rule.Type != RuleAssignment {
		t.Fatalf("rule for total = %+v", rule)
	}
	if got := mathml.FormulaToString(rule.Math); got != "X + Y" {
		t.Errorf("rule formula = %q", got)
	}
	r := m.Reactions[0]
	if got := mathml.FormulaToString(r.KineticLaw.Math); got != "k * pow(X, 2) / cell" {
		t.Errorf("kinetic law = %q", got)
	}
	if len(r.KineticLaw.LocalParameters) != 1 {
		t.Errorf("got %d local parameters, want 1", len(r.KineticLaw.LocalParameters))
	}
	if r.Reactants[0].StoichiometryValue() != 2 {
		t.Errorf("stoichiometry = %v, want 2", r.Reactants[0].StoichiometryValue())
	}
}

func TestParseDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		xml     string
		want    string
		wantSev Severity
	}{
		{
			name:    "not xml",
			xml:     "this is not xml <",
			want:    "not well-formed",
			wantSev: SeverityFatal,
		},
		{
			name:    "wrong root",
			xml:     `<model/>`,
			want:    "not an <sbml> element",
			wantSev: SeverityFatal,
		},
		{
			name:    "unknown level",
			xml:     `<sbml xmlns="http://www.sbml.org/sbml/level4" level="4" version="1"/>`,
			want:    "unsupported SBML level",
			wantSev: SeverityFatal,
		},
		{
			name: "namespace mismatch",
			xml:  `<sbml xmlns="http://www.sbml.org/sbml/level2/version3" level="2" version="4"><model/></sbml>`,
			want: "does not match level 2 version 4",
		},
		{
			name: "duplicate identifier",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"><model>
<listOfCompartments><compartment id="c"/></listOfCompartments>
<listOfParameters><parameter id="c" value="1"/></listOfParameters>
</model></sbml>`,
			want: `identifier "c" of parameter is already used by a compartment`,
		},
		{
			name: "undefined compartment",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"><model>
<listOfSpecies><species id="s" compartment="nowhere" initialAmount="1"/></listOfSpecies>
</model></sbml>`,
			want: "undefined compartment",
		},
		{
			name: "bad boolean",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"><model>
<listOfCompartments><compartment id="c" constant="maybe"/></listOfCompartments>
</model></sbml>`,
			want: "is not a boolean",
		},
		{
			name: "undefined identifier in math",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"><model>
<listOfParameters><parameter id="p" value="1" constant="false"/></listOfParameters>
<listOfRules><assignmentRule variable="p"><math xmlns="http://www.w3.org/1998/Math/MathML"><ci> q </ci></math></assignmentRule></listOfRules>
</model></sbml>`,
			want: `undefined identifier "q"`,
		},
		{
			name: "two rules for one variable",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"><model>
<listOfParameters><parameter id="p" value="1" constant="false"/></listOfParameters>
<listOfRules>
<assignmentRule variable="p"><math xmlns="http://www.w3.org/1998/Math/MathML"><cn> 1 </cn></math></assignmentRule>
<rateRule variable="p"><math xmlns="http://www.w3.org/1998/Math/MathML"><cn> 1 </cn></math></rateRule>
</listOfRules>
</model></sbml>`,
			want: `more than one rule sets "p"`,
		},
		{
			name: "missing level 3 attribute",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level3/version1/core" level="3" version="1"><model>
<listOfParameters><parameter id="p" value="1"/></listOfParameters>
</model></sbml>`,
			want: `missing the required attribute "constant"`,
		},
		{
			name: "construct outside its level",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2" level="2" version="1"><model>
<listOfParameters><parameter id="p" value="1"/></listOfParameters>
<listOfInitialAssignments><initialAssignment symbol="p"><math xmlns="http://www.w3.org/1998/Math/MathML"><cn> 2 </cn></math></initialAssignment></listOfInitialAssignments>
</model></sbml>`,
			want: "initial assignments are not supported in SBML Level 2 Version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := Parse([]byte(tt.xml))
			if !doc.HasErrors() {
				t.Fatal("expected error diagnostics")
			}
			found := false
			for _, d := range doc.Errors() {
				if strings.Contains(d.Message, tt.want) {
					found = true
					if tt.wantSev != 0 && d.Severity != tt.wantSev {
						t.Errorf("severity = %v, want %v", d.Severity, tt.wantSev)
					}
				}
			}
			if !found {
				t.Errorf("no diagnostic containing %q in %v", tt.want, doc.Errors())
			}
		})
	}
}

func TestParseWithoutModel(t *testing.T) {
	t.Parallel()

	doc := Parse([]byte(`<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4"/>`))
	if doc.HasErrors() {
		t.Fatalf("unexpected errors: %v", doc.Errors())
	}
	if doc.Model != nil {
		t.Error("expected no model")
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// TestReadCompartmentDefaultVolume tests the Level 1 volume default.
func TestReadCompartmentDefaultVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		xml     string
		wantSet bool
	}{
		{
			name: "level 1 without volume",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level1" level="1" version="2">
  <model name="m"><listOfCompartments><compartment name="cell"/></listOfCompartments></model>
</sbml>`,
			wantSet: true,
		},
		{
			name: "level 2 without size",
			xml: `<sbml xmlns="http://www.sbml.org/sbml/level2/version4" level="2" version="4">
  <model id="m"><listOfCompartments><compartment id="cell"/></listOfCompartments></model>
</sbml>`,
			wantSet: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := Parse([]byte(tt.xml))
			if doc.HasErrors() || doc.Model == nil {
				t.Fatalf("unexpected diagnostics: %v", doc.Errors())
			}
			c := doc.Model.CompartmentByID("cell")
			if c == nil {
				t.Fatal("expected compartment cell")
			}
			if c.IsSetVolume() != tt.wantSet {
				t.Errorf("IsSetVolume() = %v, want %v", c.IsSetVolume(), tt.wantSet)
			}
			if c.Volume() != 1 {
				t.Errorf("Volume() = %v, want 1", c.Volume())
			}
		})
	}

	t.Run("level 1 default survives translation", func(t *testing.T) {
		t.Parallel()
		doc := Parse([]byte(tests[0].xml))
		translated := doc.Clone()
		translated.SetLevelAndVersion(2, 4)
		if translated.HasErrors() {
			t.Fatalf("unexpected diagnostics: %v", translated.Errors())
		}
		var buf strings.Builder
		if _, err := translated.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), `size="1"`) {
			t.Errorf("expected the default volume as size:\n%s", buf.String())
		}
	})
}
