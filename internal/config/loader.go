package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the name looked up in the current and home directories.
const DefaultConfigFile = ".sbmltestgen"

// xdgConfigFile is the name looked up in the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads and decodes the configuration file at path.
// Unknown keys are rejected so that a misspelt header field does not
// silently fall back to its placeholder. An empty file is a valid,
// empty configuration.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user or the search list
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cf := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cf.Models == nil {
		cf.Models = make(map[string]HeaderConfig)
	}
	return cf, nil
}

// searchPaths returns the locations FindConfigFile tries, in order.
// Directories that cannot be determined are left out.
func searchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
}

// FindConfigFile returns the configuration file to load, or "" if there
// is none. An explicit configPath is returned only if it exists; otherwise
// .sbmltestgen is looked up in the current directory, then the home
// directory, then config.yaml in the XDG config directory.
func FindConfigFile(configPath string) string {
	candidates := searchPaths()
	if configPath != "" {
		candidates = []string{configPath}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
