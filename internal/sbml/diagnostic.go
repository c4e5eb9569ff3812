package sbml

import "fmt"

// Severity is the seriousness of a diagnostic.
type Severity int

const (
	// SeverityInfo is an informational message.
	SeverityInfo Severity = iota
	// SeverityWarning flags a construct that may not mean what the author intended.
	SeverityWarning
	// SeverityError marks a document as unusable for further processing.
	SeverityError
	// SeverityFatal means the document could not be read at all.
	SeverityFatal
)

// String returns the display name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Category groups diagnostics by the stage that produced them.
type Category string

const (
	// CategoryXML covers documents that are not well-formed XML.
	CategoryXML Category = "xml"
	// CategorySyntax covers malformed SBML elements and attribute values.
	CategorySyntax Category = "syntax"
	// CategoryConsistency covers identifier and reference problems.
	CategoryConsistency Category = "consistency"
	// CategoryConversion covers constructs a target level/version cannot express.
	CategoryConversion Category = "conversion"
)

// Diagnostic is one message recorded against a document.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("(%s [%s]) %s", d.Category, d.Severity, d.Message)
}

// IsError reports whether the diagnostic blocks further processing.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SeverityError
}
