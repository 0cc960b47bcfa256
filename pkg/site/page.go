package site

import (
	"bytes"
	"context"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/matzehuels/pic/pkg/buildinfo"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/markdown"
)

// Page is one converted Markdown document.
type Page struct {
	Title        string
	HTML         []byte
	Diagrams     int
	Diagnostics  []markdown.Diagnostic
	Dependencies []string
}

// RenderPage converts the Markdown in src, read from path, into a full
// HTML page. Relative diagram files resolve against path's directory.
func (b *Builder) RenderPage(ctx context.Context, path string, src []byte) (*Page, error) {
	collector := &markdown.Collector{}
	md := goldmark.New(
		goldmark.WithExtensions(
			meta.Meta,
			extension.GFM,
			markdown.New(b.resolver, b.invoker,
				markdown.WithBaseDir(filepath.Dir(path)),
				markdown.WithTarget(b.Target),
				markdown.WithDirectiveName(b.cfg.Build.Directive),
				markdown.WithContext(ctx),
				markdown.WithReporter(collector),
				markdown.WithLogger(b.logger.With("page", path)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)

	var body bytes.Buffer
	pc := parser.NewContext()
	if err := md.Convert(src, &body, parser.WithContext(pc)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "converting %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := pageTitle(meta.Get(pc), path)
	var out bytes.Buffer
	err := pageTemplate.Execute(&out, pageData{
		Title:     title,
		SiteTitle: b.cfg.Build.Title,
		Generator: buildinfo.Generator(),
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing page %s", path)
	}

	return &Page{
		Title:        title,
		HTML:         out.Bytes(),
		Diagrams:     collector.Diagrams(),
		Diagnostics:  collector.Diagnostics(),
		Dependencies: collector.Dependencies(),
	}, nil
}

// pageTitle takes the front matter title, falling back to the file name.
func pageTitle(metadata map[string]any, path string) string {
	if t, ok := metadata["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

type pageData struct {
	Title     string
	SiteTitle string
	Generator string
	Body      template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="{{.Generator}}">
<title>{{.Title}}{{with .SiteTitle}} - {{.}}{{end}}</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.5; }
pre { overflow-x: auto; }
.pic { margin: 1rem 0; }
.pic svg, .pic img { max-width: 100%; height: auto; }
.pic.align-left, .pic-figure.align-left { text-align: left; }
.pic.align-center, .pic-figure.align-center { text-align: center; }
.pic.align-right, .pic-figure.align-right { text-align: right; }
.pic-figure figcaption { font-size: 0.9em; color: #555; }
.pic-error { border-left: 4px solid #c0392b; background: #fdf0ef; padding: 0.5rem 1rem; }
.pic-error pre { white-space: pre-wrap; margin: 0; }
</style>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))
