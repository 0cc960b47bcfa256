package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
)

const graphvizProgram = "graphviz (in-process)"

// graphvizFormats maps output formats to go-graphviz renderers.
var graphvizFormats = map[config.Format]graphviz.Format{
	config.FormatMarkup: graphviz.SVG,
	config.FormatPNG:    graphviz.PNG,
	config.FormatText:   graphviz.XDOT,
}

// renderGraphviz lays out DOT source with the embedded Graphviz build.
// Failures map onto the same error kinds as an external dot process.
func (i *Invoker) renderGraphviz(ctx context.Context, opts *config.Options, code string) ([]byte, error) {
	format, ok := graphvizFormats[opts.Format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOption, "graphviz engine cannot produce %s", opts.Format)
	}

	runCtx, cancel := context.WithTimeout(ctx, i.timeout())
	defer cancel()

	gv, err := graphviz.New(runCtx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCannotRun, err, "the %s renderer cannot be started", opts.Language)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(code))
	if err != nil || g == nil {
		return nil, errors.Wrap(errors.ErrCodeRendererStderr, graphvizError(err),
			"the %s renderer produced errors", opts.Language)
	}
	defer g.Close()

	var buf bytes.Buffer
	err = gv.Render(runCtx, g, format, &buf)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, errors.Wrap(errors.ErrCodeTimeout, &ProcessError{Program: graphvizProgram, Stdout: buf.Bytes()},
			"the %s renderer timed out after %s", opts.Language, i.timeout())
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererStderr, graphvizError(err),
			"the %s renderer produced errors", opts.Language)
	}
	return buf.Bytes(), nil
}

func graphvizError(err error) *ProcessError {
	pe := &ProcessError{Program: graphvizProgram, Err: err}
	if err != nil {
		pe.Stderr = []byte(err.Error())
	} else {
		pe.Stderr = []byte("invalid DOT source")
	}
	return pe
}
