package markdown

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/present"
	"github.com/matzehuels/pic/pkg/render"
)

func testResolver() *config.Resolver {
	return config.NewResolver(map[string]config.Profile{
		"echo": {Program: config.Command{Args: []string{"cat"}}, Format: config.FormatText},
		"loud": {Program: config.Command{Line: "echo broken >&2"}, Shell: true, Format: config.FormatText},
		"gone": {Program: config.Command{Args: []string{"pic-test-no-such-renderer"}}, Alt: "missing renderer"},
		"gv":   {Engine: config.EngineGraphviz},
	})
}

func convert(t *testing.T, src string, opts ...Option) (string, *Collector) {
	t.Helper()
	c := &Collector{}
	opts = append([]Option{WithReporter(c)}, opts...)
	md := goldmark.New(goldmark.WithExtensions(New(testResolver(), render.NewInvoker(nil, nil), opts...)))

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	return buf.String(), c
}

func TestConvertLeavesOtherFencesAlone(t *testing.T) {
	got, c := convert(t, "```go\nfmt.Println(1)\n```\n")

	if !strings.Contains(got, `<code class="language-go">`) {
		t.Errorf("ordinary fenced code should render as code: %s", got)
	}
	if c.Diagrams() != 0 {
		t.Errorf("Diagrams() = %d, want 0", c.Diagrams())
	}
}

func TestConvertUnknownLanguage(t *testing.T) {
	src := "# Title\n\n```{pic} dott\ndigraph {}\n```\n\nafter\n"
	got, c := convert(t, src)

	diags := c.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("Diagnostics() = %v, want one", diags)
	}
	if diags[0].Line != 3 {
		t.Errorf("Line = %d, want 3", diags[0].Line)
	}
	if !errors.Is(diags[0].Err, errors.ErrCodeUnknownLanguage) {
		t.Errorf("Err = %v, want UNKNOWN_LANGUAGE", diags[0].Err)
	}
	if !strings.Contains(got, `class="pic pic-error"`) {
		t.Errorf("failed diagram should leave an error marker: %s", got)
	}
	if !strings.Contains(got, "<h1>Title</h1>") || !strings.Contains(got, "<p>after</p>") {
		t.Errorf("rest of the document should still render: %s", got)
	}
}

func TestConvertConflictingSource(t *testing.T) {
	_, c := convert(t, "```{pic} echo a.txt\ninline\n```\n")

	diags := c.Diagnostics()
	if len(diags) != 1 || !errors.Is(diags[0].Err, errors.ErrCodeConflictingSource) {
		t.Errorf("Diagnostics() = %v, want CONFLICTING_SOURCE", diags)
	}
}

func TestConvertTextTargetNeverRenders(t *testing.T) {
	// The program does not exist, so rendering would fail.
	src := "```pic gone\nA\n```\n\n```pic echo\n:alt: an echo\n\nB\n```\n"
	got, c := convert(t, src, WithTarget(present.TargetText))

	if diags := c.Diagnostics(); len(diags) != 0 {
		t.Errorf("text target should not run renderers, got %v", diags)
	}
	if !strings.Contains(got, "[graph: missing renderer]") || !strings.Contains(got, "[graph: an echo]") {
		t.Errorf("placeholders missing: %s", got)
	}
	if c.Diagrams() != 2 {
		t.Errorf("Diagrams() = %d, want 2", c.Diagrams())
	}
}

func TestConvertDependencies(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.dot"), []byte("digraph { a -> b }"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := "```{pic} echo a.dot\n:depends: shared.m4\n```\n"
	_, c := convert(t, src, WithBaseDir(dir), WithTarget(present.TargetText))

	want := []string{filepath.Join(dir, "a.dot"), filepath.Join(dir, "shared.m4")}
	got := c.Dependencies()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Dependencies() = %q, want %q", got, want)
	}
}

func TestConvertDirectiveName(t *testing.T) {
	src := "```{diagram} echo\nA\n```\n\n```{pic} echo\nB\n```\n"
	got, c := convert(t, src, WithDirectiveName("diagram"), WithTarget(present.TargetText))

	if c.Diagrams() != 1 {
		t.Errorf("Diagrams() = %d, want 1", c.Diagrams())
	}
	if !strings.Contains(got, `<code class="language-{pic}">`) {
		t.Errorf("{pic} fence should stay code under another directive name: %s", got)
	}
}

func TestConvertGraphviz(t *testing.T) {
	src := "```{pic} gv\n:caption: Flow\n:name: fig-flow\n\ndigraph { a -> b }\n```\n"
	got, c := convert(t, src)

	if diags := c.Diagnostics(); len(diags) != 0 {
		t.Fatalf("Diagnostics() = %v", diags)
	}
	for _, want := range []string{
		`<figure class="pic-figure" id="fig-flow">`,
		`<div class="pic pic-format-text-xml pic-language-gv">`,
		"<svg",
		"<figcaption><p>Flow</p></figcaption>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCollectorDedupesDependencies(t *testing.T) {
	c := &Collector{}
	c.ReportDependency("a")
	c.ReportDependency("b")
	c.ReportDependency("a")

	if got := c.Dependencies(); len(got) != 2 {
		t.Errorf("Dependencies() = %q", got)
	}
}
