package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestModelFileName tests description file name derivation.
func TestModelFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"00001-sbml-l2v4.xml", "00001-model.m"},
		{"cases/00001/00001-sbml-l3v1.xml", "cases/00001/00001-model.m"},
		{"x-sbml-l2", "x-model.m"},
		{"abc-sbml-l2v4.xml.bak", "abc-model.m.bak"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ModelFileName(tt.in)
			if err != nil {
				t.Fatalf("ModelFileName(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ModelFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestModelFileNameMissingToken tests the error for unsuitable names.
func TestModelFileNameMissingToken(t *testing.T) {
	t.Parallel()

	_, err := ModelFileName("model-l2v4.xml")
	if !errors.Is(err, ErrMissingSBMLToken) {
		t.Fatalf("error = %v, want ErrMissingSBMLToken", err)
	}
	want := "the filename 'model-l2v4.xml' doesn't have the substring '-sbml-l' in it.  Can't write .m file"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

// TestWriteModelFile tests writing and preserving earlier versions.
func TestWriteModelFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelFile := filepath.Join(dir, "00001-sbml-l2v4.xml")
	wantPath := filepath.Join(dir, "00001-model.m")

	t.Run("first write", func(t *testing.T) {
		var out bytes.Buffer
		path, err := WriteModelFile("(*\nfirst\n*)", modelFile, &out)
		if err != nil {
			t.Fatalf("WriteModelFile() error = %v", err)
		}
		if path != wantPath {
			t.Errorf("path = %q, want %q", path, wantPath)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "(*\nfirst\n*)\n" {
			t.Errorf("content = %q", data)
		}
		if out.String() != "Successfully wrote model description file "+wantPath+"\n" {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("second write keeps the previous version", func(t *testing.T) {
		if _, err := WriteModelFile("(*\nsecond\n*)", modelFile, &bytes.Buffer{}); err != nil {
			t.Fatalf("WriteModelFile() error = %v", err)
		}
		data, err := os.ReadFile(wantPath)
		if err != nil {
			t.Fatal(err)
		}
		want := "(*\nsecond\n*)\n" +
			"/*\nPrevious version of this file:  \n" +
			"(*\nfirst\n*)\n\n" +
			"\n*/\n"
		if string(data) != want {
			t.Errorf("content =\n%q\nwant\n%q", data, want)
		}
	})
}

// TestWriteModelFileMode tests the permissions of the description file.
func TestWriteModelFileMode(t *testing.T) {
	t.Parallel()
	// Skip on Windows as it doesn't support Unix-style file permissions
	if runtime.GOOS == "windows" {
		t.Skip("skipping permission test on Windows")
	}

	t.Run("new file is readable by others", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path, err := WriteModelFile("(*\n*)", filepath.Join(dir, "00002-sbml-l1v2.xml"), &bytes.Buffer{})
		if err != nil {
			t.Fatalf("WriteModelFile() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o044 != 0o044 {
			t.Errorf("mode = %v, want group and other read bits", info.Mode().Perm())
		}
	})

	t.Run("existing file keeps its mode", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "00003-model.m")
		if err := os.WriteFile(path, []byte("(*\nold\n*)\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(path, 0o640); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteModelFile("(*\nnew\n*)", filepath.Join(dir, "00003-sbml-l3v1.xml"), &bytes.Buffer{}); err != nil {
			t.Fatalf("WriteModelFile() error = %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o640 {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0o640))
		}
	})
}

// TestWriteModelFileErrors tests failures that must not write anything.
func TestWriteModelFileErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		if _, err := WriteModelFile("x", filepath.Join(t.TempDir(), "model.xml"), &out); !errors.Is(err, ErrMissingSBMLToken) {
			t.Errorf("error = %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()
		modelFile := filepath.Join(t.TempDir(), "missing", "00001-sbml-l2v4.xml")
		if _, err := WriteModelFile("x", modelFile, &bytes.Buffer{}); err == nil {
			t.Error("expected an error")
		}
	})
}
