package render

import (
	"bytes"
	"regexp"
)

var (
	xmlDeclRe  = regexp.MustCompile(`(?s)<\?xml\s.*?\?>`)
	doctypeRe  = regexp.MustCompile(`(?si)<!DOCTYPE\s.*?>`)
	svgStartRe = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	styleRe    = regexp.MustCompile(`\sstyle\s*=\s*("[^"]*"|'[^']*')`)
)

// Sanitize prepares standalone SVG for inlining: it removes the XML
// declaration and the DOCTYPE, and drops inline style attributes from
// <svg> start tags (plantuml pins the dimensions there, which defeats
// page CSS). Nested elements keep their styles. Sanitize is idempotent:
// it repeats until a pass changes nothing, since a removal can join the
// surrounding bytes into a new match.
func Sanitize(markup []byte) []byte {
	for {
		out := sanitizeOnce(markup)
		if bytes.Equal(out, markup) {
			return out
		}
		markup = out
	}
}

func sanitizeOnce(markup []byte) []byte {
	out := xmlDeclRe.ReplaceAll(markup, nil)
	out = doctypeRe.ReplaceAll(out, nil)
	return svgStartRe.ReplaceAllFunc(out, func(tag []byte) []byte {
		return styleRe.ReplaceAll(tag, nil)
	})
}
