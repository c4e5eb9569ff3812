package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional: these tests fail otherwise.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BatchSize is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 10 {
			t.Errorf("expected BatchSize to be 10, got %d", cfg.BatchSize)
		}
	})

	t.Run("history is enabled in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveHistory {
			t.Error("expected SaveHistory to be true")
		}
		if cfg.HistoryDir != XDGDataDir() {
			t.Errorf("expected HistoryDir %q, got %q", XDGDataDir(), cfg.HistoryDir)
		}
		if filepath.Base(cfg.HistoryPath()) != "history.db" {
			t.Errorf("unexpected history path %q", cfg.HistoryPath())
		}
	})

	t.Run("no summary and translations enabled", func(t *testing.T) {
		t.Parallel()
		if cfg.SummaryFormat != "" {
			t.Errorf("expected empty summary format, got %q", cfg.SummaryFormat)
		}
		if cfg.SkipTranslations {
			t.Error("expected SkipTranslations to be false")
		}
	})

	t.Run("File is never nil", func(t *testing.T) {
		t.Parallel()
		if cfg.File == nil || cfg.File.Models == nil {
			t.Error("expected an empty configuration file")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.ModelFiles = []string{"00001-sbml-l2v4.xml"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config returns nil",
			modify:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "no model file",
			modify:  func(c *Config) { c.ModelFiles = nil },
			wantErr: ErrNoModelFile,
		},
		{
			name:    "zero batch size",
			modify:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative batch size",
			modify:  func(c *Config) { c.BatchSize = -1 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "unknown summary format",
			modify:  func(c *Config) { c.SummaryFormat = "html" },
			wantErr: ErrUnknownSummaryFormat,
		},
		{
			name:    "unknown format in a summary list",
			modify:  func(c *Config) { c.SummaryFormat = "text,html" },
			wantErr: ErrUnknownSummaryFormat,
		},
		{
			name:    "summary list",
			modify:  func(c *Config) { c.SummaryFormat = "text, json" },
			wantErr: nil,
		},
		{
			name:    "markdown summary",
			modify:  func(c *Config) { c.SummaryFormat = "markdown" },
			wantErr: nil,
		},
		{
			name:    "history without directory",
			modify:  func(c *Config) { c.HistoryDir = "" },
			wantErr: ErrNoHistoryDir,
		},
		{
			name: "history disabled without directory",
			modify: func(c *Config) {
				c.HistoryDir = ""
				c.SaveHistory = false
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestApplyFile tests merging the configuration file into flags.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	none := func(string) bool { return false }

	t.Run("file values fill unset flags", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{Summary: "json", Batch: 3, HistoryDir: "/tmp/h"}, none)

		if cfg.SummaryFormat != "json" {
			t.Errorf("expected summary json, got %q", cfg.SummaryFormat)
		}
		if cfg.BatchSize != 3 {
			t.Errorf("expected batch 3, got %d", cfg.BatchSize)
		}
		if cfg.HistoryDir != "/tmp/h" {
			t.Errorf("expected history dir /tmp/h, got %q", cfg.HistoryDir)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.SummaryFormat = "text"
		cfg.BatchSize = 2
		cfg.ApplyFile(&File{Summary: "json", Batch: 3}, func(string) bool { return true })

		if cfg.SummaryFormat != "text" || cfg.BatchSize != 2 {
			t.Errorf("flags overridden: %q %d", cfg.SummaryFormat, cfg.BatchSize)
		}
	})

	t.Run("nil file is ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil, none)
		if cfg.File == nil {
			t.Error("expected File to stay set")
		}
	})
}

// TestHeaderFor tests merging of global and model-specific header values.
func TestHeaderFor(t *testing.T) {
	t.Parallel()

	file := &File{
		Header: HeaderConfig{
			Category:    "Domain",
			Synopsis:    "Basic reactions.",
			GeneratedBy: "Analytic",
		},
		Models: map[string]HeaderConfig{
			"00001-sbml-l2v4.xml": {
				Synopsis: "Single reaction.",
			},
			"cases/00002/00002-sbml-l3v1.xml": {
				TestType:    "SteadyState",
				Description: "Event with delay.",
			},
		},
	}

	tests := []struct {
		name      string
		modelFile string
		want      HeaderConfig
	}{
		{
			name:      "global values only",
			modelFile: "00003-sbml-l1v2.xml",
			want:      file.Header,
		},
		{
			name:      "base name match",
			modelFile: "cases/00001/00001-sbml-l2v4.xml",
			want: HeaderConfig{
				Category:    "Domain",
				Synopsis:    "Single reaction.",
				GeneratedBy: "Analytic",
			},
		},
		{
			name:      "full path match",
			modelFile: "cases/00002/00002-sbml-l3v1.xml",
			want: HeaderConfig{
				Category:    "Domain",
				Synopsis:    "Basic reactions.",
				TestType:    "SteadyState",
				GeneratedBy: "Analytic",
				Description: "Event with delay.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := file.HeaderFor(tt.modelFile); got != tt.want {
				t.Errorf("HeaderFor(%q) = %+v, want %+v", tt.modelFile, got, tt.want)
			}
		})
	}

	t.Run("nil models map", func(t *testing.T) {
		t.Parallel()
		f := &File{Header: HeaderConfig{Category: "Test"}}
		if got := f.HeaderFor("x.xml"); got.Category != "Test" {
			t.Errorf("expected global header, got %+v", got)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.sbmltestgen")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `header:
  category: Domain
  synopsis: "Basic single forward reaction."
  testType: TimeCourse
  generatedBy: Analytic
  description: |
    Two species and one reaction.
models:
  00001-sbml-l2v4.xml:
    synopsis: "First case."
summary: markdown
batch: 4
historyDir: /var/lib/sbmltestgen
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Header.Category != "Domain" {
			t.Errorf("expected category Domain, got %q", cfg.Header.Category)
		}
		if cfg.Header.GeneratedBy != "Analytic" {
			t.Errorf("expected generatedBy Analytic, got %q", cfg.Header.GeneratedBy)
		}
		if strings.TrimSpace(cfg.Header.Description) != "Two species and one reaction." {
			t.Errorf("unexpected description %q", cfg.Header.Description)
		}
		if cfg.Models["00001-sbml-l2v4.xml"].Synopsis != "First case." {
			t.Errorf("expected model override, got %+v", cfg.Models)
		}
		if cfg.Summary != "markdown" || cfg.Batch != 4 || cfg.HistoryDir != "/var/lib/sbmltestgen" {
			t.Errorf("unexpected settings %+v", cfg)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("header:\n  categroy: Domain\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for a misspelt key")
		}
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Header.Category != "" || len(cfg.Models) != 0 {
			t.Errorf("expected an empty configuration, got %+v", cfg)
		}
	})

	t.Run("initializes nil Models map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("summary: text\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Models == nil {
			t.Error("expected Models map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("header: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds the file in the current directory", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("summary: text\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})
}

// TestSummaryFormatList tests splitting of the summary setting.
func TestSummaryFormatList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{"", nil},
		{"json", []string{"json"}},
		{"text,json", []string{"text", "json"}},
		{" markdown , ,json ", []string{"markdown", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			cfg.SummaryFormat = tt.format
			if got := cfg.SummaryFormatList(); !slices.Equal(got, tt.want) {
				t.Errorf("SummaryFormatList() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with the app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("unexpected XDG data dir %q", XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with the app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("unexpected XDG config dir %q", XDGConfigDir())
		}
	})
}
