package parser

import (
	"io"

	"github.com/docpin/docpin/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The source text is already in the
// conventions the chunker expects, so it is kept verbatim (modulo line
// ending normalization); goldmark is used to pull the document title out of
// the first heading.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fullText := cleanText(string(src))

	title := titleFromFilename(filename)
	if t := firstHeading(src); t != "" {
		title = t
	}

	return &document.Document{
		Title:    title,
		FullText: fullText,
		Pages:    singlePage(fullText),
	}, nil
}

// firstHeading parses the markdown AST and returns the text of the first
// heading, or "".
func firstHeading(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			return string(h.Text(src))
		}
	}
	return ""
}
