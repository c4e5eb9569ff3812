package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingSBMLToken is returned when a model file name has no "-sbml-l"
// token to derive the description file name from.
var ErrMissingSBMLToken = errors.New("missing -sbml-l token in filename")

// MissingSBMLTokenError reports the file name that lacked the token.
type MissingSBMLTokenError struct {
	Filename string
}

// Error returns the message shown to the user.
func (e *MissingSBMLTokenError) Error() string {
	return fmt.Sprintf("the filename '%s' doesn't have the substring '%s' in it.  Can't write .m file",
		e.Filename, sbmlToken)
}

// Unwrap makes errors.Is match ErrMissingSBMLToken.
func (e *MissingSBMLTokenError) Unwrap() error {
	return ErrMissingSBMLToken
}

const (
	// sbmlToken marks the start of the "-sbml-lXvY.xml" suffix.
	sbmlToken = "-sbml-l"

	// suffixWidth is the length of "-sbml-lXvY.xml".
	suffixWidth = 14

	modelSuffix = "-model.m"
)

// ModelFileName derives the description file name from a model file name:
// "00001-sbml-l2v4.xml" becomes "00001-model.m".
func ModelFileName(modelFile string) (string, error) {
	place := strings.Index(modelFile, sbmlToken)
	if place < 0 {
		return "", &MissingSBMLTokenError{Filename: modelFile}
	}
	end := min(place+suffixWidth, len(modelFile))
	return modelFile[:place] + modelSuffix + modelFile[end:], nil
}

// WriteModelFile writes contents to the description file of modelFile and
// prints a confirmation to out. It returns the path written.
//
// If the description file already exists its old text is kept below the
// new one inside a "/* ... */" block, so earlier edits are never lost.
// New files are world-readable; an existing file keeps its mode.
func WriteModelFile(contents, modelFile string, out io.Writer) (string, error) {
	path, err := ModelFileName(modelFile)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(contents + "\n")
	if previous := readPrevious(path); previous != "" {
		sb.WriteString("/*\nPrevious version of this file:  \n")
		sb.WriteString(previous + "\n")
		sb.WriteString("*/\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil { //nolint:gosec // descriptions are shared test-suite files
		return "", fmt.Errorf("failed to write model description file: %w", err)
	}
	fmt.Fprintf(out, "Successfully wrote model description file %s\n", path)
	return path, nil
}

// readPrevious returns the existing file at path with every line
// terminated by a newline, or "" if it cannot be read.
func readPrevious(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // derived from the input file name
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for line := range strings.SplitSeq(string(data), "\n") {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
