package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/pic/pkg/directive"
)

// transformer replaces directive fences with Diagram or DiagramError nodes.
type transformer struct {
	ext *Extension
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	var blocks []*ast.FencedCodeBlock

	// Collect first, the tree must not change while walking it.
	_ = ast.Walk(doc, func(node ast.Node, enter bool) (ast.WalkStatus, error) {
		if !enter {
			return ast.WalkContinue, nil
		}
		fb, ok := node.(*ast.FencedCodeBlock)
		if !ok || fb.Info == nil {
			return ast.WalkContinue, nil
		}
		if _, ok := directive.ParseInfo(string(fb.Info.Segment.Value(src)), t.ext.name); ok {
			blocks = append(blocks, fb)
		}
		return ast.WalkContinue, nil
	})

	for _, fb := range blocks {
		parent := fb.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, fb, t.convert(fb, src))
	}
}

func (t *transformer) convert(fb *ast.FencedCodeBlock, src []byte) ast.Node {
	ext := t.ext
	line := fenceLine(fb, src)
	ext.reporter.ReportDiagram(line)

	d, err := directive.ParseNamed(ext.name, string(fb.Info.Segment.Value(src)), rawContent(fb, src), line)
	if err == nil {
		var diag *directive.Diagram
		if diag, err = directive.Prepare(d, ext.resolver, ext.baseDir); err == nil {
			for _, dep := range diag.Dependencies {
				ext.reporter.ReportDependency(dep)
			}
			n := &Diagram{Instance: diag}
			n.SetLines(fb.Lines())
			return n
		}
	}

	ext.logger.Warn("diagram skipped", "line", line, "err", err)
	ext.reporter.ReportDiagnostic(Diagnostic{Line: line, Err: err})
	n := &DiagramError{Err: err, Line: line}
	n.SetLines(fb.Lines())
	return n
}

func rawContent(fb *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := fb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// fenceLine returns the 1-based line of the opening fence.
func fenceLine(fb *ast.FencedCodeBlock, src []byte) int {
	start := fb.Info.Segment.Start
	if start > len(src) {
		return 0
	}
	return bytes.Count(src[:start], []byte("\n")) + 1
}
