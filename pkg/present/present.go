// Package present turns renderer output into the fragment spliced into a
// built page.
//
// For HTML targets the output is wrapped in a div carrying the computed
// classes, and in a figure when a caption was given. Text targets cannot
// show a diagram, so they get a placeholder naming it by its alt text.
package present

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/errors"
	"github.com/matzehuels/pic/pkg/render"
)

// Target is the medium a page is built for.
type Target string

const (
	TargetHTML Target = "html"
	TargetText Target = "text"
)

// Targets lists the supported targets.
var Targets = []Target{TargetHTML, TargetText}

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown target %q (expected html or text)", s)
}

// Classes returns the CSS classes of the diagram container: the base
// class, the alignment class unless a figure carries it, the format and
// language tags, then any extra classes.
func Classes(opts *config.Options) []string {
	classes := []string{"pic"}
	if opts.Align != "" && !opts.Captioned() {
		classes = append(classes, "align-"+string(opts.Align))
	}
	classes = append(classes,
		"pic-format-"+strings.ReplaceAll(string(opts.Format), "/", "-"),
		"pic-language-"+opts.Language,
	)
	return append(classes, opts.HTMLClasses...)
}

// HTML wraps out in its container.
func HTML(out *render.Output, opts *config.Options) []byte {
	var buf bytes.Buffer
	figure := opts.Captioned()

	if figure {
		buf.WriteString(`<figure class="pic-figure`)
		if opts.Align != "" {
			buf.WriteString(" align-" + string(opts.Align))
		}
		buf.WriteString(`"`)
		writeAttr(&buf, "id", opts.Name)
		buf.WriteString(">\n")
	}

	fmt.Fprintf(&buf, `<div class="%s"`, escape(strings.Join(Classes(opts), " ")))
	if !figure {
		writeAttr(&buf, "align", string(opts.Align))
		writeAttr(&buf, "id", opts.Name)
	}
	buf.WriteString(">\n")

	buf.WriteString(opts.HTMLProlog)
	writeBody(&buf, out, opts)
	buf.WriteString(opts.HTMLEpilog)
	buf.WriteString("</div>\n")

	if figure {
		fmt.Fprintf(&buf, "<figcaption><p>%s</p></figcaption>\n</figure>\n", escape(opts.Caption))
	}
	return buf.Bytes()
}

func writeBody(buf *bytes.Buffer, out *render.Output, opts *config.Options) {
	switch out.Format {
	case config.FormatPNG:
		fmt.Fprintf(buf, `<img src="data:image/png;base64,%s"`, base64.StdEncoding.EncodeToString(out.Data))
		writeAttr(buf, "alt", opts.Alt)
		buf.WriteString(" />\n")
	case config.FormatText:
		buf.WriteString(escape(out.Text()))
	default:
		buf.Write(out.Data)
	}
}

// Placeholder stands in for a diagram on targets that cannot show it.
func Placeholder(alt string) string {
	if alt == "" {
		return "[graph]"
	}
	return "[graph: " + alt + "]"
}

// Error renders a visible marker for a diagram that failed.
func Error(err error) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<div class="pic pic-error"`)
	writeAttr(&buf, "data-code", string(errors.GetCode(err)))
	fmt.Fprintf(&buf, "><pre>%s</pre></div>\n", escape(err.Error()))
	return buf.Bytes()
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, escape(value))
}

func escape(s string) string {
	return html.EscapeString(s)
}
