package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/pic/pkg/errors"
)

func TestParseExample(t *testing.T) {
	c, err := Parse([]byte(Example()))
	if err != nil {
		t.Fatalf("Parse(Example()) error: %v", err)
	}

	if c.Render.Timeout != 15*time.Second {
		t.Errorf("Render.Timeout = %v, want 15s", c.Render.Timeout)
	}
	if c.Cache.TTL != 168*time.Hour {
		t.Errorf("Cache.TTL = %v, want 168h", c.Cache.TTL)
	}

	want := []string{"dot", "gv", "pic", "tree", "uml"}
	if got := c.LanguageKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("LanguageKeys() = %v, want %v", got, want)
	}

	dot := c.Languages["dot"]
	if !reflect.DeepEqual(dot.Program.Args, []string{"dot", "-Tsvg"}) {
		t.Errorf("dot program = %#v", dot.Program)
	}

	pic := c.Languages["pic"]
	if pic.Program.Line != "m4 | dpic -v" || !pic.Shell {
		t.Errorf("pic program = %#v shell %v", pic.Program, pic.Shell)
	}
	if pic.Prolog != ".PS\n" || pic.Epilog != "\n.PE\n" {
		t.Errorf("pic prolog/epilog = %q/%q", pic.Prolog, pic.Epilog)
	}

	if c.Languages["gv"].Engine != EngineGraphviz {
		t.Errorf("gv engine = %q", c.Languages["gv"].Engine)
	}
	if c.Languages["tree"].Format != FormatText {
		t.Errorf("tree format = %q", c.Languages["tree"].Format)
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if c.Render.Timeout != DefaultTimeout {
		t.Errorf("Render.Timeout = %v, want %v", c.Render.Timeout, DefaultTimeout)
	}
	if c.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want %q", c.Cache.Backend, CacheFile)
	}
	if c.Build.Jobs != DefaultJobs || c.Build.Directive != DefaultDirective {
		t.Errorf("Build = %+v", c.Build)
	}
	if c.Languages == nil {
		t.Error("Languages should be an empty map, not nil")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[languages.dot`},
		{"unknown key", "[languages.dot]\nprogramm = \"dot\""},
		{"bad format", "[languages.dot]\nprogram = \"dot\"\nformat = \"svg\""},
		{"bad align", "[languages.dot]\nprogram = \"dot\"\nalign = \"middle\""},
		{"bad engine", "[languages.dot]\nengine = \"wasm\""},
		{"bad language key", "[languages.\"my lang\"]\nprogram = \"x\""},
		{"bad program type", "[languages.dot]\nprogram = 3"},
		{"bad program element", "[languages.dot]\nprogram = [\"dot\", 3]"},
		{"bad classes", "[languages.dot]\nprogram = \"dot\"\nhtml-classes = \"a\\\"b\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"negative timeout", "[render]\ntimeout = \"-1s\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() code = %v, want %v (%v)", errors.GetCode(err), errors.ErrCodeInvalidConfig, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(Example()), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Path != path {
		t.Errorf("Path = %q, want %q", c.Path, path)
	}
	if c.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		cmd       Command
		argv      []string
		shellLine string
		zero      bool
	}{
		{"list", Command{Args: []string{"dot", "-Tsvg"}}, []string{"dot", "-Tsvg"}, "dot -Tsvg", false},
		{"string", Command{Line: "plantuml -tsvg -p"}, []string{"plantuml", "-tsvg", "-p"}, "plantuml -tsvg -p", false},
		{"pipeline", Command{Line: "m4 | dpic -v"}, []string{"m4", "|", "dpic", "-v"}, "m4 | dpic -v", false},
		{"empty", Command{}, nil, "", true},
		{"blank", Command{Line: "  "}, nil, "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Argv(); len(got) != len(tt.argv) || (len(got) > 0 && !reflect.DeepEqual(got, tt.argv)) {
				t.Errorf("Argv() = %#v, want %#v", got, tt.argv)
			}
			if got := tt.cmd.ShellLine(); got != tt.shellLine {
				t.Errorf("ShellLine() = %q, want %q", got, tt.shellLine)
			}
			if got := tt.cmd.IsZero(); got != tt.zero {
				t.Errorf("IsZero() = %v, want %v", got, tt.zero)
			}
		})
	}
}
