package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/pic/pkg/errors"
)

// Option names accepted on a directive.
const (
	OptAlign       = "align"
	OptFormat      = "format"
	OptCaption     = "caption"
	OptName        = "name"
	OptAlt         = "alt"
	OptCwd         = "cwd"
	OptProlog      = "prolog"
	OptEpilog      = "epilog"
	OptHTMLClasses = "html-classes"
	OptHTMLProlog  = "html-prolog"
	OptHTMLEpilog  = "html-epilog"
	OptDepends     = "depends"

	// OptProgram is only settable in the configuration file.
	OptProgram = "program"
)

// LocalOptions lists the option names a directive may set.
var LocalOptions = []string{
	OptAlign, OptFormat, OptCaption, OptName, OptAlt, OptCwd,
	OptProlog, OptEpilog, OptHTMLClasses, OptHTMLProlog, OptHTMLEpilog, OptDepends,
}

// Overrides are the options given on a single directive. An empty field
// means the option was not given, except for CaptionSet which records an
// empty :caption:.
type Overrides struct {
	Align       Align
	Format      Format
	Caption     string
	CaptionSet  bool
	Name        string
	Alt         string
	Cwd         string
	Prolog      string
	Epilog      string
	HTMLClasses string
	HTMLProlog  string
	HTMLEpilog  string
	Depends     string
}

// ParseOverrides converts raw directive options into Overrides, rejecting
// unknown names and invalid choices.
func ParseOverrides(raw map[string]string) (Overrides, error) {
	var o Overrides
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := raw[name]
		switch name {
		case OptAlign:
			o.Align = Align(strings.TrimSpace(v))
			if o.Align != "" && !oneOf(o.Align, Aligns) {
				return o, errors.New(errors.ErrCodeInvalidOption, ":align: %q is not one of %s", v, join(Aligns))
			}
		case OptFormat:
			o.Format = Format(strings.TrimSpace(v))
			if o.Format != "" && !oneOf(o.Format, Formats) {
				return o, errors.New(errors.ErrCodeInvalidOption, ":format: %q is not one of %s", v, join(Formats))
			}
		case OptCaption:
			o.Caption = v
			o.CaptionSet = true
		case OptName:
			o.Name = strings.TrimSpace(v)
		case OptAlt:
			o.Alt = v
		case OptCwd:
			o.Cwd = strings.TrimSpace(v)
		case OptProlog:
			o.Prolog = v
		case OptEpilog:
			o.Epilog = v
		case OptHTMLClasses:
			if err := errors.ValidateClassNames(v); err != nil {
				return o, err
			}
			o.HTMLClasses = v
		case OptHTMLProlog:
			o.HTMLProlog = v
		case OptHTMLEpilog:
			o.HTMLEpilog = v
		case OptDepends:
			o.Depends = strings.TrimSpace(v)
			if o.Depends != "" {
				if err := errors.ValidateSourcePath(o.Depends); err != nil {
					return o, err
				}
			}
		default:
			return o, errors.New(errors.ErrCodeInvalidOption, "unknown option :%s: (expected one of %s)", name, strings.Join(LocalOptions, ", "))
		}
	}
	return o, nil
}

// Options is the fully merged configuration of one diagram instance. Once
// built it holds no reference back to the configuration.
type Options struct {
	Language    string
	Engine      Engine
	Program     Command
	Shell       bool
	Cwd         string
	Format      Format
	Align       Align
	Alt         string
	Caption     string
	CaptionSet  bool
	Name        string
	Prolog      string
	Epilog      string
	HTMLClasses []string
	HTMLProlog  string
	HTMLEpilog  string
	Depends     string
}

// Resolver merges language profiles with directive overrides.
// It is safe for concurrent use.
type Resolver struct {
	profiles map[string]Profile
}

// NewResolver creates a resolver over a private copy of profiles.
func NewResolver(profiles map[string]Profile) *Resolver {
	cp := make(map[string]Profile, len(profiles))
	for k, v := range profiles {
		cp[k] = v
	}
	return &Resolver{profiles: cp}
}

// Languages returns the known language keys, sorted.
func (r *Resolver) Languages() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve builds the effective options for one diagram. A non-empty local
// value wins over the profile value; caption and name exist only locally.
//
// Fails with UNKNOWN_LANGUAGE when the key has no profile and with
// MISSING_OPTION when a required option is still empty after the merge.
func (r *Resolver) Resolve(language string, local Overrides) (*Options, error) {
	p, ok := r.profiles[language]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownLanguage, "unknown language %q in directive", language)
	}

	o := &Options{
		Language:    language,
		Engine:      p.Engine,
		Program:     p.Program,
		Shell:       p.Shell,
		Cwd:         pick(local.Cwd, p.Cwd),
		Format:      pick(local.Format, p.Format),
		Align:       pick(local.Align, p.Align),
		Alt:         pick(local.Alt, p.Alt),
		Caption:     local.Caption,
		CaptionSet:  local.CaptionSet,
		Name:        local.Name,
		Prolog:      pick(local.Prolog, p.Prolog),
		Epilog:      pick(local.Epilog, p.Epilog),
		HTMLClasses: strings.Fields(pick(local.HTMLClasses, p.HTMLClasses)),
		HTMLProlog:  pick(local.HTMLProlog, p.HTMLProlog),
		HTMLEpilog:  pick(local.HTMLEpilog, p.HTMLEpilog),
		Depends:     pick(local.Depends, p.Depends),
	}
	if o.Engine == "" {
		o.Engine = EngineExec
	}
	if o.Format == "" {
		o.Format = FormatMarkup
	}

	for _, name := range o.requiredOptions() {
		if o.isEmpty(name) {
			return nil, errors.New(errors.ErrCodeMissingOption,
				":%s: option required in directive (or set languages.%s.%s in %s)", name, language, name, DefaultFile)
		}
	}
	return o, nil
}

// Captioned reports whether the diagram was given a caption, possibly
// an empty one.
func (o *Options) Captioned() bool {
	return o.CaptionSet || o.Caption != ""
}

// requiredOptions lists options that must be non-empty after the merge.
func (o *Options) requiredOptions() []string {
	if o.Engine == EngineExec {
		return []string{OptProgram}
	}
	return nil
}

func (o *Options) isEmpty(name string) bool {
	switch name {
	case OptProgram:
		return o.Program.IsZero()
	default:
		panic(fmt.Sprintf("config: no emptiness check for required option %q", name))
	}
}

// pick returns local unless it is empty.
func pick[T ~string](local, profile T) T {
	if local != "" {
		return local
	}
	return profile
}
