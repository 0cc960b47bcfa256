package site

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/markdown"
	"github.com/matzehuels/pic/pkg/observability"
	"github.com/matzehuels/pic/pkg/present"
	"github.com/matzehuels/pic/pkg/render"
)

// Builder converts a source tree into a site.
type Builder struct {
	// Jobs limits how many pages convert at once.
	Jobs int
	// Force rebuilds every page regardless of the manifest.
	Force bool
	// Target selects HTML output or text placeholders.
	Target present.Target
	// Progress, if set, is called after each page with the number of
	// pages finished so far. Calls may come from several goroutines.
	Progress func(done, total int)

	cfg      *config.Config
	resolver *config.Resolver
	invoker  *render.Invoker
	logger   *log.Logger
}

// NewBuilder creates a builder. A nil logger falls back to log.Default().
func NewBuilder(cfg *config.Config, resolver *config.Resolver, invoker *render.Invoker, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		Jobs:     cfg.Build.Jobs,
		Target:   present.TargetHTML,
		cfg:      cfg,
		resolver: resolver,
		invoker:  invoker,
		logger:   logger,
	}
}

// PageResult describes one page of a build.
type PageResult struct {
	// Source is the page path relative to the source directory.
	Source      string
	Output      string
	Title       string
	Skipped     bool
	Diagrams    int
	Diagnostics []markdown.Diagnostic
}

// Result summarizes a build.
type Result struct {
	Pages  []PageResult
	Copied int
}

// Built returns how many pages were converted.
func (r *Result) Built() int {
	n := 0
	for _, p := range r.Pages {
		if !p.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns how many pages were up to date.
func (r *Result) Skipped() int {
	return len(r.Pages) - r.Built()
}

// Failures returns how many diagrams failed across all pages.
func (r *Result) Failures() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Diagnostics)
	}
	return n
}

// Build converts every Markdown page under src into out and copies the
// remaining files. It fails only on I/O errors or cancellation.
func (b *Builder) Build(ctx context.Context, src, out string) (*Result, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolving %s", src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source directory %s", src)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "source %s is not a directory", src)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating %s", out)
	}

	pages, assets, err := scan(src, out)
	if err != nil {
		return nil, err
	}

	m := loadManifest(out, string(b.Target))
	if b.Force {
		m.Pages = map[string]manifestEntry{}
	}

	results := make([]PageResult, len(pages))
	deps := make([][]string, len(pages))

	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs())
	for i, rel := range pages {
		g.Go(func() error {
			res, pageDeps, err := b.buildPage(gctx, m, src, out, rel)
			if err != nil {
				return err
			}
			results[i], deps[i] = res, pageDeps
			if b.Progress != nil {
				b.Progress(int(finished.Add(1)), len(pages))
			}
			return nil
		})
	}
	copied := make([]bool, len(assets))
	for i, rel := range assets {
		g.Go(func() error {
			ok, err := copyIfNewer(filepath.Join(src, rel), filepath.Join(out, rel))
			copied[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := &manifest{Generator: m.Generator, Target: m.Target, Pages: make(map[string]manifestEntry, len(pages))}
	for i, res := range results {
		if res.Skipped {
			next.Pages[res.Source] = m.Pages[res.Source]
			continue
		}
		next.Pages[res.Source] = manifestEntry{Dependencies: deps[i], Failures: len(res.Diagnostics)}
	}
	if err := next.save(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing build manifest")
	}

	r := &Result{Pages: results}
	for _, ok := range copied {
		if ok {
			r.Copied++
		}
	}
	return r, nil
}

func (b *Builder) buildPage(ctx context.Context, m *manifest, src, out, rel string) (PageResult, []string, error) {
	srcPath := filepath.Join(src, rel)
	outRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	outPath := filepath.Join(out, outRel)
	res := PageResult{Source: rel, Output: outRel}

	if m.upToDate(rel, srcPath, outPath, b.cfg.ModTime) {
		b.logger.Debug("page up to date", "page", rel)
		res.Skipped = true
		return res, nil, nil
	}

	observability.Build().OnPageStart(ctx, rel)
	start := time.Now()
	page, err := b.convert(ctx, srcPath, outPath)
	if err != nil {
		observability.Build().OnPageComplete(ctx, rel, 0, 0, time.Since(start), err)
		return res, nil, err
	}
	observability.Build().OnPageComplete(ctx, rel, page.Diagrams, len(page.Diagnostics), time.Since(start), nil)

	res.Title = page.Title
	res.Diagrams = page.Diagrams
	res.Diagnostics = page.Diagnostics
	b.logger.Debug("page built", "page", rel, "diagrams", page.Diagrams, "failures", len(page.Diagnostics))
	return res, page.Dependencies, nil
}

func (b *Builder) convert(ctx context.Context, srcPath, outPath string) (*Page, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", srcPath)
	}
	page, err := b.RenderPage(ctx, srcPath, data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating %s", filepath.Dir(outPath))
	}
	if err := os.WriteFile(outPath, page.HTML, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing %s", outPath)
	}
	return page, nil
}

func (b *Builder) jobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	return config.DefaultJobs
}

// scan lists Markdown pages and other files under src, relative to it.
// Hidden entries and the output directory are skipped.
func scan(src, out string) (pages, assets []string, err error) {
	absOut, _ := filepath.Abs(out)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			pages = append(pages, rel)
		} else {
			assets = append(assets, rel)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "scanning %s", src)
	}
	return pages, assets, nil
}

// copyIfNewer copies src to dst unless dst is at least as new and the
// same size. It reports whether a copy happened.
func copyIfNewer(src, dst string) (bool, error) {
	si, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if di, err := os.Stat(dst); err == nil && di.Size() == si.Size() && !si.ModTime().After(di.ModTime()) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	outFile, err := os.Create(dst)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		return false, err
	}
	return true, outFile.Close()
}
