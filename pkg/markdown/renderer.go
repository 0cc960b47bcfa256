package markdown

import (
	"html"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/present"
)

// nodeRenderer writes Diagram and DiagramError nodes.
type nodeRenderer struct {
	ext *Extension
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDiagram, r.renderDiagram)
	reg.Register(KindDiagramError, r.renderError)
}

func (r *nodeRenderer) renderDiagram(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	ext := r.ext
	diag := node.(*Diagram).Instance

	if ext.target == present.TargetText {
		_, _ = w.WriteString(`<p class="pic-placeholder">` + html.EscapeString(present.Placeholder(diag.Options.Alt)) + "</p>\n")
		return ast.WalkSkipChildren, nil
	}

	out, err := ext.invoker.Render(ext.ctx, diag.Options, diag.Code)
	if err != nil {
		if errors.IsDiagram(err) {
			ext.logger.Warn("diagram failed", "line", diag.Line, "language", diag.Options.Language, "err", err)
		} else {
			ext.logger.Error("diagram failed", "line", diag.Line, "language", diag.Options.Language, "err", err)
		}
		ext.reporter.ReportDiagnostic(Diagnostic{Line: diag.Line, Err: err})
		_, _ = w.Write(present.Error(err))
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.Write(present.HTML(out, diag.Options))
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderError(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(present.Error(node.(*DiagramError).Err))
	}
	return ast.WalkSkipChildren, nil
}
