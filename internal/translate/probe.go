package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/sbmltestgen/internal/sbml"
)

// ErrMissingLevelToken is returned when the input file name does not contain
// the level and version token of the document.
var ErrMissingLevelToken = errors.New("missing level and version token in filename")

// MissingTokenError reports the file name and the token that was looked for.
type MissingTokenError struct {
	Filename string
	Token    string
}

// Error returns the message shown to the user.
func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("the filename '%s' doesn't have the substring '%s' in it.", e.Filename, e.Token)
}

// Unwrap makes errors.Is match ErrMissingLevelToken.
func (e *MissingTokenError) Unwrap() error {
	return ErrMissingLevelToken
}

// Target is an SBML level and version to probe.
type Target struct {
	Level   int
	Version int
}

// String returns the target as listed in the report, e.g. "2.4".
func (t Target) String() string {
	return fmt.Sprintf("%d.%d", t.Level, t.Version)
}

// Token returns the file name token of the target, e.g. "l2v4".
func (t Target) Token() string {
	return fmt.Sprintf("l%dv%d", t.Level, t.Version)
}

// Targets is the probing order.
var Targets = []Target{
	{Level: 1, Version: 2},
	{Level: 2, Version: 1},
	{Level: 2, Version: 2},
	{Level: 2, Version: 3},
	{Level: 2, Version: 4},
	{Level: 3, Version: 1},
}

// Result is the outcome of probing one document.
type Result struct {
	// Levels lists the targets the model converts to, in probing order.
	Levels []string

	// Written holds the files created for the translations.
	Written []string
}

// PersistFunc writes a converted document to path.
type PersistFunc func(doc *sbml.Document, path string) error

// Prober converts a document to every target and persists the clean results.
type Prober struct {
	// out receives one confirmation line per written translation.
	out io.Writer

	// persist writes translations. Defaults to (*sbml.Document).WriteFile.
	persist PersistFunc

	logger *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithOutput sets where confirmation lines are printed. Default is stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Prober) {
		p.out = w
	}
}

// WithPersist replaces the function that writes translated documents.
func WithPersist(fn PersistFunc) Option {
	return func(p *Prober) {
		p.persist = fn
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a Prober with the given options.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		out: os.Stdout,
		persist: func(doc *sbml.Document, path string) error {
			return doc.WriteFile(path)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Probe tries every target against doc, which was read from filename.
//
// The document's own level and version is always recorded without writing.
// Any other target is converted on a clone; if the clone has no errors it is
// written to the file name with the token replaced and recorded. doc itself
// is never modified.
//
// If filename lacks the document's token, Probe returns an empty result and
// a *MissingTokenError.
func (p *Prober) Probe(ctx context.Context, doc *sbml.Document, filename string) (*Result, error) {
	result := &Result{
		Levels:  make([]string, 0, len(Targets)),
		Written: make([]string, 0, len(Targets)),
	}

	current := Target{Level: doc.Level, Version: doc.Version}
	token := current.Token()
	place := strings.Index(filename, token)
	if place < 0 {
		return result, &MissingTokenError{Filename: filename, Token: token}
	}

	for _, target := range Targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if target == current {
			result.Levels = append(result.Levels, target.String())
			continue
		}

		translated := doc.Clone()
		translated.SetLevelAndVersion(target.Level, target.Version)
		if translated.HasErrors() {
			p.logger.Debug("model cannot be translated",
				"target", target.String(),
				"errors", len(translated.Errors()),
			)
			continue
		}

		newName := filename[:place] + target.Token() + filename[place+len(token):]
		if newName == filename {
			result.Levels = append(result.Levels, target.String())
			continue
		}

		if err := p.persist(translated, newName); err != nil {
			p.logger.Warn("failed to write translation",
				"target", target.String(),
				"file", newName,
				"error", err,
			)
			continue
		}

		fmt.Fprintf(p.out, "Successfully wrote translation of model to level %d version %d\n",
			target.Level, target.Version)
		result.Levels = append(result.Levels, target.String())
		result.Written = append(result.Written, newName)
	}

	return result, nil
}
