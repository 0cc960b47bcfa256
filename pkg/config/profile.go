package config

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pic/pkg/errors"
)

// Format is the MIME-like tag describing what a renderer writes to stdout.
type Format string

const (
	// FormatMarkup is SVG or other XML, inlined after sanitizing.
	FormatMarkup Format = "text/xml"
	// FormatText is plain text, inlined HTML-escaped.
	FormatText Format = "text/plain"
	// FormatPNG is a raster image, embedded as a base64 data URI.
	FormatPNG Format = "image/png"
)

// Formats lists the accepted output formats.
var Formats = []Format{FormatMarkup, FormatText, FormatPNG}

// IsBinary reports whether output in this format is kept as raw bytes.
func (f Format) IsBinary() bool {
	return f == FormatPNG
}

// Align is the horizontal placement hint of a diagram.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Aligns lists the accepted alignments.
var Aligns = []Align{AlignLeft, AlignCenter, AlignRight}

// Engine selects how a profile renders.
type Engine string

const (
	// EngineExec spawns the configured program.
	EngineExec Engine = "exec"
	// EngineGraphviz renders DOT in-process without an external binary.
	EngineGraphviz Engine = "graphviz"
)

// Engines lists the accepted engines.
var Engines = []Engine{EngineExec, EngineGraphviz}

// Command is the program a profile runs. In TOML it is either an argv
// list or a single string:
//
//	program = ["dot", "-Tsvg"]
//	program = "m4 | dpic -v"
type Command struct {
	Args []string
	Line string
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Command) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*c = Command{Line: v}
	case []any:
		args := make([]string, 0, len(v))
		for _, a := range v {
			s, ok := a.(string)
			if !ok {
				return fmt.Errorf("program: list elements must be strings, got %T", a)
			}
			args = append(args, s)
		}
		*c = Command{Args: args}
	default:
		return fmt.Errorf("program: expected string or list of strings, got %T", v)
	}
	return nil
}

// IsZero reports whether no program is configured.
func (c Command) IsZero() bool {
	return len(c.Args) == 0 && strings.TrimSpace(c.Line) == ""
}

// Argv returns the argument vector for a direct (non-shell) invocation.
// A string command is split on whitespace.
func (c Command) Argv() []string {
	if len(c.Args) > 0 {
		return c.Args
	}
	return strings.Fields(c.Line)
}

// ShellLine returns the command line handed to the shell.
func (c Command) ShellLine() string {
	if c.Line != "" {
		return c.Line
	}
	return strings.Join(c.Args, " ")
}

// String returns a human-readable rendering for messages.
func (c Command) String() string {
	if c.Line != "" {
		return c.Line
	}
	return strings.Join(c.Args, " ")
}

// Profile describes how to render one little language.
type Profile struct {
	Program     Command `toml:"program"`
	Shell       bool    `toml:"shell"`
	Cwd         string  `toml:"cwd"`
	Engine      Engine  `toml:"engine"`
	Format      Format  `toml:"format"`
	Align       Align   `toml:"align"`
	Alt         string  `toml:"alt"`
	Prolog      string  `toml:"prolog"`
	Epilog      string  `toml:"epilog"`
	HTMLClasses string  `toml:"html-classes"`
	HTMLProlog  string  `toml:"html-prolog"`
	HTMLEpilog  string  `toml:"html-epilog"`
	Depends     string  `toml:"depends"`
}

// Validate checks the enumerated fields of a profile.
func (p Profile) Validate(language string) error {
	if err := errors.ValidateLanguageKey(language); err != nil {
		return err
	}
	if p.Engine != "" && !oneOf(p.Engine, Engines) {
		return errors.New(errors.ErrCodeInvalidConfig, "languages.%s.engine: %q is not one of %s", language, p.Engine, join(Engines))
	}
	if p.Format != "" && !oneOf(p.Format, Formats) {
		return errors.New(errors.ErrCodeInvalidConfig, "languages.%s.format: %q is not one of %s", language, p.Format, join(Formats))
	}
	if p.Align != "" && !oneOf(p.Align, Aligns) {
		return errors.New(errors.ErrCodeInvalidConfig, "languages.%s.align: %q is not one of %s", language, p.Align, join(Aligns))
	}
	if err := errors.ValidateClassNames(p.HTMLClasses); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "languages.%s.html-classes", language)
	}
	return nil
}

func oneOf[T comparable](v T, choices []T) bool {
	for _, c := range choices {
		if v == c {
			return true
		}
	}
	return false
}

func join[T ~string](choices []T) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
