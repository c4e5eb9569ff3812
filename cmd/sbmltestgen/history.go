package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sbmltestgen/internal/database"
	"github.com/nao1215/sbmltestgen/internal/model"
	"github.com/nao1215/sbmltestgen/internal/report"
)

// noHistoryMessage is printed when nothing was recorded yet.
const noHistoryMessage = "No runs recorded yet."

// NewHistoryCmd creates the history command.
// This command shows the runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [model-file]",
		Short: "Show previous runs",
		Long: `History lists the runs recorded in the history database, newest first.

Given a model file, only runs of that file are listed. The file is matched
as it was given on the command line when the run was made.

Examples:
  # List all recorded runs
  sbmltestgen history

  # List runs of one model with their full summaries
  sbmltestgen history --full 00001-sbml-l2v4.xml

  # List every model in the history
  sbmltestgen history --list-models

  # Show one run by the ID printed with --json or --full
  sbmltestgen history --id 6f1c2d3e-...

  # Output runs in JSON format
  sbmltestgen history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-models", "L", false,
		"List all models in the history")
	cmd.Flags().BoolP("json", "j", false,
		"Output runs in JSON format")
	cmd.Flags().BoolP("full", "F", false,
		"Print the full summary of each run")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().String("id", "",
		"Show the run with this ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listModels, err := cmd.Flags().GetBool("list-models")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(cfg.HistoryDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		if _, statErr := os.Stat(cfg.HistoryPath()); errors.Is(statErr, os.ErrNotExist) {
			fmt.Fprintln(out, noHistoryMessage)
			return nil
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listModels {
		return printModels(ctx, out, db)
	}
	if runID != "" {
		return printRun(ctx, out, db, runID, jsonOut)
	}

	var modelFile string
	if len(args) > 0 {
		modelFile = args[0]
	}

	runs, err := db.ListRuns(ctx, modelFile, limit)
	if err != nil {
		return err
	}

	switch {
	case jsonOut:
		_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteSummaries(runs)
		return err
	case len(runs) == 0:
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	case full:
		w := report.NewSimpleWriter(out, report.WithVerbose(true))
		for _, run := range runs {
			if _, err := w.WriteSummary(run); err != nil {
				return err
			}
		}
		return nil
	default:
		printRuns(out, runs)
		return nil
	}
}

// printRun prints the full summary of one run.
func printRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id string, jsonOut bool) error {
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with ID %s", id)
	}

	var w report.Writer = report.NewSimpleWriter(out, report.WithVerbose(true))
	if jsonOut {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err = w.WriteSummary(run)
	return err
}

// printModels lists the models in the history.
func printModels(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	models, err := db.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Fprintln(out, noHistoryMessage)
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-19s  %s\n", "RUNS", "LAST RUN", "MODEL")
	for _, m := range models {
		fmt.Fprintf(out, "%-5d  %-19s  %s\n", m.Runs, m.LastRun.Local().Format("2006-01-02 15:04:05"), m.ModelFile)
	}
	return nil
}

// printRuns lists runs one per line.
func printRuns(out io.Writer, runs []*model.RunSummary) {
	fmt.Fprintf(out, "%-8s  %-19s  %-5s  %-25s  %s\n", "ID", "DATE", "SBML", "LEVELS", "MODEL")
	for _, run := range runs {
		fmt.Fprintf(out, "%-8s  %-19s  %-5s  %-25s  %s\n",
			shortID(run.ID),
			run.Date.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d.%d", run.Level, run.Version),
			strings.Join(run.Levels, ","),
			run.ModelFile,
		)
	}
}

// shortID returns the first eight characters of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
