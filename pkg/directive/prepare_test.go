package directive

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
)

func testResolver() *config.Resolver {
	return config.NewResolver(map[string]config.Profile{
		"dot": {Program: config.Command{Args: []string{"dot", "-Tsvg"}}},
		"pic": {
			Program: config.Command{Line: "m4 | dpic -v"},
			Shell:   true,
			Prolog:  ".PS\n",
			Epilog:  "\n.PE\n",
		},
		"noprog": {},
	})
}

func TestPrepareInline(t *testing.T) {
	d := &Directive{Language: "pic", Content: "\n  box \"A\"; arrow; box \"B\"  \n\n", Line: 4}

	diag, err := Prepare(d, testResolver(), "")
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	want := ".PS\n\n  box \"A\"; arrow; box \"B\"  \n\n\n.PE"
	if diag.Code != want {
		t.Errorf("Code = %q, want %q", diag.Code, want)
	}
	if diag.Options.Language != "pic" || !diag.Options.Shell {
		t.Errorf("Options = %+v", diag.Options)
	}
	if diag.Line != 4 || len(diag.Dependencies) != 0 {
		t.Errorf("Diagram = %+v", diag)
	}
}

func TestPrepareLocalPrologOverride(t *testing.T) {
	d := &Directive{
		Language: "pic",
		Content:  "box",
		Options:  map[string]string{"prolog": "[", "epilog": "]"},
	}

	diag, err := Prepare(d, testResolver(), "")
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if diag.Code != "[box]" {
		t.Errorf("Code = %q, want %q", diag.Code, "[box]")
	}
}

func TestPrepareFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "graphs"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "graphs", "a.dot")
	if err := os.WriteFile(src, []byte("digraph { a -> b }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Directive{
		Language: "dot",
		File:     "graphs/a.dot",
		Options:  map[string]string{"depends": "graphs/common.m4", "cwd": "graphs"},
	}
	diag, err := Prepare(d, testResolver(), dir)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if diag.Code != "digraph { a -> b }" {
		t.Errorf("Code = %q", diag.Code)
	}
	wantDeps := []string{src, filepath.Join(dir, "graphs", "common.m4")}
	if !reflect.DeepEqual(diag.Dependencies, wantDeps) {
		t.Errorf("Dependencies = %q, want %q", diag.Dependencies, wantDeps)
	}
	if diag.Options.Cwd != filepath.Join(dir, "graphs") {
		t.Errorf("Cwd = %q", diag.Options.Cwd)
	}
	if diag.Options.Depends != filepath.Join(dir, "graphs", "common.m4") {
		t.Errorf("Depends = %q, want it resolved against the document", diag.Options.Depends)
	}
}

func TestPrepareErrors(t *testing.T) {
	tests := []struct {
		name string
		d    *Directive
		code errors.Code
		msg  string
	}{
		{
			name: "unknown language",
			d:    &Directive{Language: "dott", Content: "A"},
			code: errors.ErrCodeUnknownLanguage,
			msg:  `unknown language "dott" in directive`,
		},
		{
			name: "missing program",
			d:    &Directive{Language: "noprog", Content: "A"},
			code: errors.ErrCodeMissingOption,
			msg:  ":program: option required",
		},
		{
			name: "empty content",
			d:    &Directive{Language: "dot", Content: " \n\t\n"},
			code: errors.ErrCodeEmptyContent,
			msg:  "without content",
		},
		{
			name: "missing file",
			d:    &Directive{Language: "dot", File: "nope.dot"},
			code: errors.ErrCodeFileNotFound,
			msg:  "nope.dot",
		},
		{
			name: "invalid option value",
			d:    &Directive{Language: "dot", Content: "A", Options: map[string]string{"align": "middle"}},
			code: errors.ErrCodeInvalidOption,
			msg:  ":align:",
		},
		{
			name: "unknown option",
			d:    &Directive{Language: "dot", Content: "A", Options: map[string]string{"program": "rm"}},
			code: errors.ErrCodeInvalidOption,
			msg:  "unknown option :program:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.d, testResolver(), t.TempDir())
			if !errors.Is(err, tt.code) {
				t.Fatalf("Prepare() = %v, want %s", err, tt.code)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q should contain %q", err, tt.msg)
			}
		})
	}
}

func TestPrepareConflictBeforeAnything(t *testing.T) {
	// Neither the language nor the file exist: the conflict must still win.
	d := &Directive{Language: "unknown", File: "missing.dot", Content: "digraph {}"}

	_, err := Prepare(d, testResolver(), t.TempDir())
	if !errors.Is(err, errors.ErrCodeConflictingSource) {
		t.Errorf("Prepare() = %v, want CONFLICTING_SOURCE", err)
	}
}

func TestPrepareFileWithBlankContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.dot"), []byte("digraph {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Directive{Language: "dot", File: "a.dot", Content: "\n\n"}
	if _, err := Prepare(d, testResolver(), dir); err != nil {
		t.Errorf("blank content next to a file argument should be allowed: %v", err)
	}
}
