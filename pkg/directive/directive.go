// Package directive parses diagram directives out of fenced code blocks
// and prepares them for rendering.
//
// A directive looks like this:
//
//	```{pic} dot [path/to/file.dot]
//	:caption: A graphviz dot graph
//	:align: left
//
//	digraph G { client -> server }
//	```
//
// The first argument is the language key, the optional second argument
// names a file holding the code. Leading ":name: value" lines are options.
package directive

import (
	"regexp"
	"strings"

	"github.com/matzehuels/pic/pkg/errors"
)

// DefaultName is the directive name recognized when none is configured.
const DefaultName = "pic"

// Directive is a parsed directive before option resolution.
type Directive struct {
	Language string
	File     string
	Content  string
	Options  map[string]string
	// Line is the 1-based source line of the opening fence, 0 if unknown.
	Line int
}

var optionRe = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_-]*):(?:\s+(.*))?$`)

// ParseInfo reports whether a fence info string opens a directive called
// name, returning the arguments that follow it. Both "{name}" and the
// bare "name" are accepted.
func ParseInfo(info, name string) ([]string, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return nil, false
	}
	if fields[0] != name && fields[0] != "{"+name+"}" {
		return nil, false
	}
	return fields[1:], true
}

// Parse parses a directive named DefaultName.
func Parse(info, body string, line int) (*Directive, error) {
	return ParseNamed(DefaultName, info, body, line)
}

// ParseNamed parses the fence info string and body of a directive called
// name. Option values are kept raw; they are validated when the directive
// is prepared.
func ParseNamed(name, info, body string, line int) (*Directive, error) {
	args, ok := ParseInfo(info, name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "%q is not a %s directive", info, name)
	}
	switch {
	case len(args) == 0:
		return nil, errors.New(errors.ErrCodeInvalidOption, "%s directive requires a language argument", name)
	case len(args) > 2:
		return nil, errors.New(errors.ErrCodeInvalidOption,
			"%s directive takes at most 2 arguments (language and file), got %d", name, len(args))
	}

	d := &Directive{
		Language: args[0],
		Options:  map[string]string{},
		Line:     line,
	}
	if len(args) == 2 {
		d.File = args[1]
	}

	lines := strings.Split(body, "\n")
	i := 0
	for ; i < len(lines); i++ {
		m := optionRe.FindStringSubmatch(strings.TrimRight(lines[i], "\r"))
		if m == nil {
			break
		}
		if _, dup := d.Options[m[1]]; dup {
			return nil, errors.New(errors.ErrCodeInvalidOption, "duplicate option :%s:", m[1])
		}
		d.Options[m[1]] = strings.TrimSpace(m[2])
	}
	if i > 0 && i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	d.Content = strings.Join(lines[i:], "\n")
	return d, nil
}
