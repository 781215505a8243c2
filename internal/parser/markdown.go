package parser

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser reduces Markdown to its paragraph prose using goldmark.
//
// Headings, block quotes, lists, code blocks, raw HTML and thematic breaks
// are dropped. Inline markup keeps only its text: emphasis, link text,
// image alt text and code spans. Soft and hard line breaks become "\n".
type MarkdownParser struct{}

func (p *MarkdownParser) Extract(r io.Reader) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var paras []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			var buf bytes.Buffer
			writeInline(&buf, n, src)
			paras = append(paras, buf.String())
		}
	}

	return joinParagraphs(paras), nil
}

// writeInline writes the visible text of n's inline children to buf.
func writeInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// Inline HTML is dropped.
		default:
			writeInline(buf, c, src)
		}
	}
}
