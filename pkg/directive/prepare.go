package directive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
)

// Diagram is one directive instance ready to render.
type Diagram struct {
	// Code is the renderer input: prolog, content and epilog, trimmed.
	Code    string
	Options *config.Options
	// Dependencies are files whose change invalidates the rendered page.
	Dependencies []string
	Line         int
}

// Prepare resolves the options of d and loads its code. Relative paths
// are taken against baseDir, the directory of the document.
//
// Checks run in a fixed order: a file argument combined with inline
// content fails with CONFLICTING_SOURCE before anything is read, then the
// options are resolved, then the code is loaded.
func Prepare(d *Directive, r *config.Resolver, baseDir string) (*Diagram, error) {
	if d.File != "" && strings.TrimSpace(d.Content) != "" {
		return nil, errors.New(errors.ErrCodeConflictingSource,
			"the %s directive cannot have both content and a file argument", d.Language)
	}

	local, err := config.ParseOverrides(d.Options)
	if err != nil {
		return nil, err
	}
	opts, err := r.Resolve(d.Language, local)
	if err != nil {
		return nil, err
	}

	diag := &Diagram{Options: opts, Line: d.Line}

	code := d.Content
	if d.File != "" {
		if err := errors.ValidateSourcePath(d.File); err != nil {
			return nil, err
		}
		path := resolvePath(baseDir, d.File)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err,
				"external %s file %q not found or reading it failed", d.Language, d.File)
		}
		code = string(data)
		diag.Dependencies = append(diag.Dependencies, path)
	} else if strings.TrimSpace(code) == "" {
		return nil, errors.New(errors.ErrCodeEmptyContent, "found %s directive without content", d.Language)
	}

	if opts.Depends != "" {
		opts.Depends = resolvePath(baseDir, opts.Depends)
		diag.Dependencies = append(diag.Dependencies, opts.Depends)
	}
	if opts.Cwd != "" {
		opts.Cwd = resolvePath(baseDir, opts.Cwd)
	}

	diag.Code = strings.TrimSpace(opts.Prolog + code + opts.Epilog)
	return diag, nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}
