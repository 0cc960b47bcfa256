package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/pic/pkg/errors"
)

func testProfiles() map[string]Profile {
	return map[string]Profile{
		"dot": {
			Program:     Command{Args: []string{"dot", "-Tsvg"}},
			Cwd:         "/profile",
			Format:      FormatMarkup,
			Align:       AlignCenter,
			Alt:         "profile alt",
			Prolog:      "profile prolog",
			Epilog:      "profile epilog",
			HTMLClasses: "profile-a profile-b",
			HTMLProlog:  "<p>",
			HTMLEpilog:  "</p>",
			Depends:     "profile.m4",
		},
		"bare":   {},
		"gv":     {Engine: EngineGraphviz},
		"string": {Program: Command{Line: "m4 | dpic"}, Shell: true},
	}
}

func TestResolveUnknownLanguage(t *testing.T) {
	r := NewResolver(testProfiles())

	for _, lang := range []string{"dott", "", "DOT", "uml"} {
		_, err := r.Resolve(lang, Overrides{})
		if !errors.Is(err, errors.ErrCodeUnknownLanguage) {
			t.Errorf("Resolve(%q) = %v, want UNKNOWN_LANGUAGE", lang, err)
			continue
		}
		if !strings.Contains(err.Error(), `"`+lang+`"`) {
			t.Errorf("Resolve(%q) error should name the key: %v", lang, err)
		}
	}
}

func TestResolveMissingRequired(t *testing.T) {
	r := NewResolver(testProfiles())

	_, err := r.Resolve("bare", Overrides{Align: AlignLeft})
	if !errors.Is(err, errors.ErrCodeMissingOption) {
		t.Fatalf("Resolve(bare) = %v, want MISSING_OPTION", err)
	}
	msg := errors.UserMessage(err)
	for _, want := range []string{":program:", "languages.bare.program", DefaultFile} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should mention %q", msg, want)
		}
	}
}

func TestResolveGraphvizNeedsNoProgram(t *testing.T) {
	r := NewResolver(testProfiles())

	o, err := r.Resolve("gv", Overrides{})
	if err != nil {
		t.Fatalf("Resolve(gv) error: %v", err)
	}
	if o.Engine != EngineGraphviz {
		t.Errorf("Engine = %q, want graphviz", o.Engine)
	}
}

func TestResolveProfileValues(t *testing.T) {
	r := NewResolver(testProfiles())

	o, err := r.Resolve("dot", Overrides{})
	if err != nil {
		t.Fatalf("Resolve(dot) error: %v", err)
	}

	want := &Options{
		Language:    "dot",
		Engine:      EngineExec,
		Program:     Command{Args: []string{"dot", "-Tsvg"}},
		Cwd:         "/profile",
		Format:      FormatMarkup,
		Align:       AlignCenter,
		Alt:         "profile alt",
		Prolog:      "profile prolog",
		Epilog:      "profile epilog",
		HTMLClasses: []string{"profile-a", "profile-b"},
		HTMLProlog:  "<p>",
		HTMLEpilog:  "</p>",
		Depends:     "profile.m4",
	}
	if !reflect.DeepEqual(o, want) {
		t.Errorf("Resolve(dot) =\n%+v\nwant\n%+v", o, want)
	}
}

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(testProfiles())

	o, err := r.Resolve("string", Overrides{})
	if err != nil {
		t.Fatalf("Resolve(string) error: %v", err)
	}
	if o.Format != FormatMarkup {
		t.Errorf("Format = %q, want default %q", o.Format, FormatMarkup)
	}
	if o.Engine != EngineExec {
		t.Errorf("Engine = %q, want default %q", o.Engine, EngineExec)
	}
	if !o.Shell || o.Program.Line != "m4 | dpic" {
		t.Errorf("Program = %#v shell %v", o.Program, o.Shell)
	}
	if o.HTMLClasses != nil {
		t.Errorf("HTMLClasses = %#v, want nil", o.HTMLClasses)
	}
}

// Every local option must win over the profile value of the same option.
func TestResolveLocalWins(t *testing.T) {
	r := NewResolver(testProfiles())

	tests := []struct {
		option string
		local  Overrides
		check  func(*Options) bool
	}{
		{OptAlign, Overrides{Align: AlignRight}, func(o *Options) bool { return o.Align == AlignRight }},
		{OptFormat, Overrides{Format: FormatPNG}, func(o *Options) bool { return o.Format == FormatPNG }},
		{OptAlt, Overrides{Alt: "local alt"}, func(o *Options) bool { return o.Alt == "local alt" }},
		{OptCwd, Overrides{Cwd: "/local"}, func(o *Options) bool { return o.Cwd == "/local" }},
		{OptProlog, Overrides{Prolog: "lp"}, func(o *Options) bool { return o.Prolog == "lp" }},
		{OptEpilog, Overrides{Epilog: "le"}, func(o *Options) bool { return o.Epilog == "le" }},
		{OptHTMLClasses, Overrides{HTMLClasses: "wide"}, func(o *Options) bool { return reflect.DeepEqual(o.HTMLClasses, []string{"wide"}) }},
		{OptHTMLProlog, Overrides{HTMLProlog: "<section>"}, func(o *Options) bool { return o.HTMLProlog == "<section>" }},
		{OptHTMLEpilog, Overrides{HTMLEpilog: "</section>"}, func(o *Options) bool { return o.HTMLEpilog == "</section>" }},
		{OptDepends, Overrides{Depends: "local.m4"}, func(o *Options) bool { return o.Depends == "local.m4" }},
		{OptCaption, Overrides{Caption: "Figure"}, func(o *Options) bool { return o.Caption == "Figure" }},
		{OptName, Overrides{Name: "fig-1"}, func(o *Options) bool { return o.Name == "fig-1" }},
	}

	covered := map[string]bool{}
	for _, tt := range tests {
		covered[tt.option] = true
		t.Run(tt.option, func(t *testing.T) {
			o, err := r.Resolve("dot", tt.local)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if !tt.check(o) {
				t.Errorf("local %s did not win: %+v", tt.option, o)
			}
		})
	}

	for _, name := range LocalOptions {
		if !covered[name] {
			t.Errorf("option %q has no precedence case", name)
		}
	}
}

func TestResolverCopiesProfiles(t *testing.T) {
	profiles := testProfiles()
	r := NewResolver(profiles)
	delete(profiles, "dot")

	if _, err := r.Resolve("dot", Overrides{}); err != nil {
		t.Errorf("resolver should not observe later map changes: %v", err)
	}
	if got := r.Languages(); !reflect.DeepEqual(got, []string{"bare", "dot", "gv", "string"}) {
		t.Errorf("Languages() = %v", got)
	}
}

func TestParseOverrides(t *testing.T) {
	o, err := ParseOverrides(map[string]string{
		"align":        "left",
		"format":       "image/png",
		"caption":      "A graph",
		"html-classes": "wide dark",
		"depends":      "macros.m4",
	})
	if err != nil {
		t.Fatalf("ParseOverrides error: %v", err)
	}
	if o.Align != AlignLeft || o.Format != FormatPNG || o.Caption != "A graph" {
		t.Errorf("ParseOverrides = %+v", o)
	}
	if o.HTMLClasses != "wide dark" || o.Depends != "macros.m4" {
		t.Errorf("ParseOverrides = %+v", o)
	}
}

func TestEmptyCaptionIsPresent(t *testing.T) {
	o, err := ParseOverrides(map[string]string{"caption": ""})
	if err != nil {
		t.Fatalf("ParseOverrides error: %v", err)
	}
	if !o.CaptionSet {
		t.Fatal("an empty :caption: should still be recorded")
	}

	r := NewResolver(testProfiles())
	opts, err := r.Resolve("dot", o)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !opts.Captioned() {
		t.Error("Captioned() = false for an empty caption")
	}

	opts, err = r.Resolve("dot", Overrides{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if opts.Captioned() {
		t.Error("Captioned() = true without a caption option")
	}
}

func TestParseOverridesErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{"unknown option", map[string]string{"colour": "red"}},
		{"program is config only", map[string]string{"program": "rm -rf /"}},
		{"bad align", map[string]string{"align": "justify"}},
		{"bad format", map[string]string{"format": "image/gif"}},
		{"bad classes", map[string]string{"html-classes": "<script>"}},
		{"bad depends", map[string]string{"depends": "a\x00b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverrides(tt.raw)
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("ParseOverrides(%v) = %v, want INVALID_OPTION", tt.raw, err)
			}
		})
	}
}
