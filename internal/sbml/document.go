package sbml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/beevik/etree"
)

// ErrUnsupportedLevel is returned when a level/version pair is not a known SBML dialect.
var ErrUnsupportedLevel = errors.New("unsupported SBML level and version")

// dialect is one (level, version) pair together with its XML namespace.
type dialect struct {
	level     int
	version   int
	namespace string
}

var dialects = []dialect{
	{1, 1, "http://www.sbml.org/sbml/level1"},
	{1, 2, "http://www.sbml.org/sbml/level1"},
	{2, 1, "http://www.sbml.org/sbml/level2"},
	{2, 2, "http://www.sbml.org/sbml/level2/version2"},
	{2, 3, "http://www.sbml.org/sbml/level2/version3"},
	{2, 4, "http://www.sbml.org/sbml/level2/version4"},
	{2, 5, "http://www.sbml.org/sbml/level2/version5"},
	{3, 1, "http://www.sbml.org/sbml/level3/version1/core"},
	{3, 2, "http://www.sbml.org/sbml/level3/version2/core"},
}

// Namespace returns the XML namespace of the given level and version.
func Namespace(level, version int) (string, error) {
	for _, d := range dialects {
		if d.level == level && d.version == version {
			return d.namespace, nil
		}
	}
	return "", fmt.Errorf("%w: level %d version %d", ErrUnsupportedLevel, level, version)
}

// IsSupported reports whether level and version name a known SBML dialect.
func IsSupported(level, version int) bool {
	_, err := Namespace(level, version)
	return err == nil
}

// Document is an SBML document: a level/version declaration, an optional
// model and the diagnostics collected while reading or converting it.
type Document struct {
	Annotated
	Level   int
	Version int
	Model   *Model

	diagnostics []Diagnostic
}

// NewDocument returns an empty document of the given level and version.
func NewDocument(level, version int) (*Document, error) {
	if !IsSupported(level, version) {
		return nil, fmt.Errorf("%w: level %d version %d", ErrUnsupportedLevel, level, version)
	}
	return &Document{Level: level, Version: version}, nil
}

// Diagnostics returns all messages recorded on the document.
func (d *Document) Diagnostics() []Diagnostic {
	return slices.Clone(d.diagnostics)
}

// Errors returns the diagnostics with severity Error or above.
func (d *Document) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, diag := range d.diagnostics {
		if diag.IsError() {
			errs = append(errs, diag)
		}
	}
	return errs
}

// HasErrors reports whether any diagnostic has severity Error or above.
func (d *Document) HasErrors() bool {
	for _, diag := range d.diagnostics {
		if diag.IsError() {
			return true
		}
	}
	return false
}

// PrintErrors writes every diagnostic, one per line.
func (d *Document) PrintErrors(w io.Writer) error {
	for _, diag := range d.diagnostics {
		if _, err := fmt.Fprintln(w, diag.String()); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) addDiagnostic(sev Severity, cat Category, format string, args ...any) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Severity: sev,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Clone returns a deep copy of the document, diagnostics included.
func (d *Document) Clone() *Document {
	return &Document{
		Annotated:   d.Annotated.clone(),
		Level:       d.Level,
		Version:     d.Version,
		Model:       d.Model.Clone(),
		diagnostics: slices.Clone(d.diagnostics),
	}
}

// ReadFile reads and validates the SBML document at path.
// Only I/O failures are returned as errors; problems with the content are
// recorded as diagnostics on the returned document.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data), nil
}

// Parse reads and validates an SBML document from memory.
func Parse(data []byte) *Document {
	doc := &Document{}
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		doc.addDiagnostic(SeverityFatal, CategoryXML, "XML content is not well-formed: %v", err)
		return doc
	}
	r := &reader{doc: doc}
	r.readDocument(x.Root())
	if doc.Model != nil && !doc.HasErrors() {
		validate(doc)
	}
	return doc
}

// WriteFile writes the document to path in its current level and version.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // derived from the input file name
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := d.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// WriteTo serialises the document as indented XML. It implements
// io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	x, err := d.toXML()
	if err != nil {
		return 0, err
	}
	n, err := x.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write SBML: %w", err)
	}
	return n, nil
}

// String returns the serialised document, or the empty string if it cannot
// be serialised.
func (d *Document) String() string {
	x, err := d.toXML()
	if err != nil {
		return ""
	}
	s, err := x.WriteToString()
	if err != nil {
		return ""
	}
	return s
}
