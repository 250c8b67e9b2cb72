package index

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New()

// stripMarkdown renders a CommonMark description (OpenAPI `description`
// fields are CommonMark) down to its plain-text content before
// tokenization, so headings/links/code-fence punctuation don't pollute the
// searchable-text tokens (spec §4.4's description field is weighted as
// plain text, not markup).
func stripMarkdown(s string) string {
	if s == "" {
		return ""
	}
	source := []byte(s)
	reader := text.NewReader(source)
	doc := mdParser.Parser().Parse(reader)

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if textNode, ok := n.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(reader.Source()))
			buf.WriteString(" ")
		}
		return ast.WalkContinue, nil
	})
	if buf.Len() == 0 {
		return s
	}
	return strings.TrimSpace(buf.String())
}
