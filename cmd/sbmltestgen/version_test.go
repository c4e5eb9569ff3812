package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionInfo tests that every field has a value without ldflags.
func TestVersionInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		get  func() string
	}{
		{"version", getVersion},
		{"commit", getCommit},
		{"date", getDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.get() == "" {
				t.Errorf("%s is empty", tt.name)
			}
		})
	}

	if got := getCommit(); len(got) > 7 && got != "unknown" {
		t.Errorf("commit %q is not shortened", got)
	}
}

// TestBuildSettingUnknownKey tests lookup of a key the toolchain never sets.
func TestBuildSettingUnknownKey(t *testing.T) {
	t.Parallel()

	if got := buildSetting("sbmltestgen.none"); got != "" {
		t.Errorf("buildSetting() = %q, want empty", got)
	}
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if code := Execute([]string{"version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"sbmltestgen version ", "  commit: ", "  built:  ", "  go:     go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		if code := Execute([]string{"version", "extra"}, &stdout, &stderr); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	})
}
