package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sbmltestgen/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for pasting into issues and pull requests that
// add a test case.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary of run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	return w.WriteSummary(model.NewRunSummary(run))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(s *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeInventory(md, s)
	w.writeTags(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table and the outcome alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("sbmltestgen Summary")
	md.PlainText("")

	rows := [][]string{
		{"Model File", "`" + s.ModelFile + "`"},
	}
	if s.Level > 0 {
		rows = append(rows, []string{"SBML", "Level " + strconv.Itoa(s.Level) + " Version " + strconv.Itoa(s.Version)})
	}
	if s.ReportFile != "" {
		rows = append(rows, []string{"Report File", "`" + s.ReportFile + "`"})
	}
	rows = append(rows,
		[]string{"Levels", levelsText(s.Levels)},
		[]string{"Date", s.Date.Format("2006-01-02 15:04:05 MST")},
		[]string{"Status", w.statusText(s)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
	w.writeAlert(md, s)
}

// statusText returns the status with an indicator.
func (w *MarkdownWriter) statusText(s *model.RunSummary) string {
	if s.Error != "" {
		return "❌ Error - " + s.Error
	}
	return "✅ Complete"
}

// writeAlert points out runs the test suite cannot use as they are.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.RunSummary) {
	switch {
	case s.Error != "":
		md.Cautionf("The run failed: %s", s.Error)
	case len(s.Levels) == 0:
		md.Warningf("No SBML level and version was recorded for this model. Check the file name contains its lXvY token.")
	case len(s.Levels) == 1:
		md.Importantf("The model can only be expressed in SBML %s.", s.Levels[0])
	default:
		md.Tip("Translations were written for every other level listed above.")
	}
	md.PlainText("")
}

// writeInventory writes the entity counts and their distribution.
func (w *MarkdownWriter) writeInventory(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Model Contents")
	md.PlainText("")

	all := countRows(s.Counts)
	rows := make([][]string, 0, len(all)+1)
	for _, row := range all {
		rows = append(rows, []string{row.label, strconv.Itoa(row.count)})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(s.Counts.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Element", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Counts.Total() > 0 {
		w.writePieChart(md, all)
	}
}

// writePieChart writes a mermaid pie chart of the non-zero counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, rows []countRow) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Model Elements"),
		piechart.WithShowData(true),
	)

	for _, row := range rows {
		if row.count > 0 {
			chart.LabelAndIntValue(row.label, uint64(row.count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTags writes the tag lists.
func (w *MarkdownWriter) writeTags(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Component Tags")
	md.PlainText("")
	writeMarkdownList(md, s.ComponentTags)

	md.H2("Test Tags")
	md.PlainText("")
	writeMarkdownList(md, s.TestTags)

	if len(s.Translations) > 0 {
		md.H2("Translations")
		md.PlainText("")
		md.BulletList(s.Translations...)
		md.PlainText("")
	}
}

func writeMarkdownList(md *markdown.Markdown, items []string) {
	if len(items) == 0 {
		md.PlainText("None.")
		md.PlainText("")
		return
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Summary generated by [sbmltestgen](https://github.com/nao1215/sbmltestgen)*")
}
