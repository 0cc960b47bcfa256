// Package markdown is a goldmark extension that renders diagram
// directives found in fenced code blocks.
//
//	md := goldmark.New(goldmark.WithExtensions(
//	    markdown.New(resolver, invoker, markdown.WithBaseDir("docs")),
//	))
//
// Failures never stop the conversion. A failed diagram is replaced by an
// error marker and reported as a Diagnostic; the rest of the page renders.
package markdown

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/directive"
	"github.com/matzehuels/pic/pkg/present"
	"github.com/matzehuels/pic/pkg/render"
)

// Extension renders diagram directives.
type Extension struct {
	resolver *config.Resolver
	invoker  *render.Invoker

	baseDir  string
	target   present.Target
	name     string
	ctx      context.Context
	reporter Reporter
	logger   *log.Logger
}

// Option configures an Extension.
type Option func(*Extension)

// WithBaseDir sets the directory relative file arguments resolve against.
func WithBaseDir(dir string) Option { return func(e *Extension) { e.baseDir = dir } }

// WithTarget sets the output target. TargetText emits placeholders and
// never runs a renderer.
func WithTarget(t present.Target) Option { return func(e *Extension) { e.target = t } }

// WithDirectiveName changes the directive name matched in fence info strings.
func WithDirectiveName(name string) Option { return func(e *Extension) { e.name = name } }

// WithContext sets the context renders run under.
func WithContext(ctx context.Context) Option { return func(e *Extension) { e.ctx = ctx } }

// WithReporter receives diagrams, diagnostics and dependencies.
func WithReporter(r Reporter) Option { return func(e *Extension) { e.reporter = r } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(e *Extension) { e.logger = l } }

// New creates the extension.
func New(resolver *config.Resolver, invoker *render.Invoker, opts ...Option) *Extension {
	e := &Extension{
		resolver: resolver,
		invoker:  invoker,
		target:   present.TargetHTML,
		name:     directive.DefaultName,
		ctx:      context.Background(),
		reporter: nopReporter{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&transformer{ext: e}, 100),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{ext: e}, 100),
		),
	)
}
