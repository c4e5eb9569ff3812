package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/sbmltestgen/internal/config"
)

//go:embed templates/sbmltestgen.yaml
var configTemplate embed.FS

// configTemplatePath is the template's path inside configTemplate.
const configTemplatePath = "templates/sbmltestgen.yaml"

// configFileName is the file init writes by default.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Init writes a commented .sbmltestgen configuration file.

The file sets the header text of new description files, per-model header
text, the default summary format, the batch size and where the run history
is kept. sbmltestgen finds it in the current directory or your home
directory, or reads the file given with -c.

Examples:
  # Create .sbmltestgen in the current directory
  sbmltestgen init

  # Write the configuration somewhere else
  sbmltestgen init -o suite/sbmltestgen.yaml

  # Replace an existing file
  sbmltestgen init -f

  # Print the template instead of writing it
  sbmltestgen init --print`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().BoolP("print", "p", false,
		"Print the template to stdout instead of writing a file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	printOnly, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	out := cmd.OutOrStdout()
	if printOnly {
		_, err := out.Write(content)
		return err
	}

	if err := writeConfigFile(outputPath, content, force); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "Edit the header section to set the text of new description files.")
	return nil
}

// writeConfigFile writes content to path with owner-only permissions,
// creating parent directories. An existing file is kept unless force is set.
func writeConfigFile(path string, content []byte, force bool) error {
	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
