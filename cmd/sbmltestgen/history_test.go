package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"list-models", "L", "false"},
		{"json", "j", "false"},
		{"full", "F", "false"},
		{"limit", "n", "20"},
		{"id", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestHistoryEmpty tests the history command before any run.
func TestHistoryEmpty(t *testing.T) {
	t.Parallel()

	cfgPath := writeTestConfig(t, t.TempDir(), "")

	var stdout, stderr bytes.Buffer
	if code := Execute([]string{"history", "-c", cfgPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if got := stdout.String(); got != noHistoryMessage+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

// TestHistory tests listing recorded runs.
func TestHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")
	first := copyFixture(t, dir, "case00001-sbml-l2v4.xml")
	second := copyFixture(t, dir, "case00002-sbml-l3v1.xml")

	for _, modelFile := range []string{first, second, second} {
		var stdout, stderr bytes.Buffer
		if code := Execute([]string{"-c", cfgPath, "--no-translations", modelFile}, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
	}

	// Subtests share one database file and run sequentially.
	history := func(t *testing.T, args ...string) string {
		t.Helper()
		var stdout, stderr bytes.Buffer
		args = append([]string{"history", "-c", cfgPath}, args...)
		if code := Execute(args, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		return stdout.String()
	}

	t.Run("lists all runs", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(history(t)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected a header and 3 runs, got:\n%s", strings.Join(lines, "\n"))
		}
		if !strings.HasPrefix(lines[0], "ID") {
			t.Errorf("unexpected header %q", lines[0])
		}
	})

	t.Run("filters by model", func(t *testing.T) {
		out := history(t, first)
		if strings.Count(out, "case00001-sbml-l2v4.xml") != 1 || strings.Contains(out, "case00002") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("limits the listing", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(history(t, "-n", "1")), "\n")
		if len(lines) != 2 {
			t.Errorf("expected one run, got:\n%s", strings.Join(lines, "\n"))
		}
	})

	t.Run("lists models", func(t *testing.T) {
		out := history(t, "-L")
		if !strings.Contains(out, "RUNS") {
			t.Errorf("expected header, got:\n%s", out)
		}
		for _, line := range strings.Split(out, "\n") {
			if strings.HasSuffix(line, second) && !strings.HasPrefix(line, "2 ") {
				t.Errorf("expected 2 runs of %s, got %q", second, line)
			}
		}
	})

	t.Run("outputs JSON", func(t *testing.T) {
		var runs []struct {
			ModelFile string `json:"model_file"`
		}
		if err := json.Unmarshal([]byte(history(t, "--json")), &runs); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[2].ModelFile != first {
			t.Errorf("oldest run = %q, want %q", runs[2].ModelFile, first)
		}
	})

	t.Run("shows one run", func(t *testing.T) {
		var runs []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(history(t, "--json", "-n", "1")), &runs); err != nil || len(runs) != 1 {
			t.Fatalf("failed to list the latest run: %v", err)
		}

		var got struct {
			ID        string `json:"id"`
			ModelFile string `json:"model_file"`
		}
		if err := json.Unmarshal([]byte(history(t, "--json", "--id", runs[0].ID)), &got); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if got.ID != runs[0].ID || got.ModelFile != second {
			t.Errorf("unexpected run %+v", got)
		}

		var stdout, stderr bytes.Buffer
		if code := Execute([]string{"history", "-c", cfgPath, "--id", "missing"}, &stdout, &stderr); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(stderr.String(), "no run with ID missing") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("prints full summaries", func(t *testing.T) {
		out := history(t, "--full", second)
		if strings.Count(out, second) < 2 {
			t.Errorf("expected two summaries of %s:\n%s", second, out)
		}
	})
}

// TestShortID tests run ID shortening.
func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{"0123456789abcdef", "01234567"},
		{"0123", "0123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
