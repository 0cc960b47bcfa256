package markdown

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/matzehuels/pic/pkg/directive"
)

// KindDiagram and KindDiagramError are the node kinds added by the extension.
var (
	KindDiagram      = ast.NewNodeKind("PicDiagram")
	KindDiagramError = ast.NewNodeKind("PicDiagramError")
)

// Diagram is a directive ready to render.
type Diagram struct {
	ast.BaseBlock
	Instance *directive.Diagram
}

func (n *Diagram) Kind() ast.NodeKind { return KindDiagram }
func (n *Diagram) IsRaw() bool        { return true }

func (n *Diagram) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Language": n.Instance.Options.Language,
		"Line":     fmt.Sprint(n.Instance.Line),
	}, nil)
}

// DiagramError is a directive that failed before rendering.
type DiagramError struct {
	ast.BaseBlock
	Err  error
	Line int
}

func (n *DiagramError) Kind() ast.NodeKind { return KindDiagramError }
func (n *DiagramError) IsRaw() bool        { return true }

func (n *DiagramError) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Error": n.Err.Error(),
		"Line":  fmt.Sprint(n.Line),
	}, nil)
}
