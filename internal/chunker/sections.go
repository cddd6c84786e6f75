package chunker

import (
	"regexp"
	"strings"

	"github.com/docpin/docpin/internal/document"
)

var (
	headerPattern   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	listItemPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	blankLine       = regexp.MustCompile(`\n\s*\n`)
)

// header is a markdown header found in the document text.
type header struct {
	title string
	level int
	start int
	end   int
}

// extractHeaders scans the text line by line and records every markdown
// header with its offsets, in document order.
func extractHeaders(text string) []header {
	var headers []header
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			headers = append(headers, header{
				title: strings.TrimSpace(m[2]),
				level: len(m[1]),
				start: offset,
				end:   offset + len(line),
			})
		}
		offset += len(line) + 1
	}
	return headers
}

// section is a blank-line-delimited region of the document with its
// absolute start offset and a coarse content classification.
type section struct {
	text  string
	start int
	kind  document.ChunkType
}

// splitSections splits the document on blank-line boundaries and classifies
// each piece.
func splitSections(text string) []section {
	var sections []section

	pos := 0
	seps := blankLine.FindAllStringIndex(text, -1)
	bounds := make([][2]int, 0, len(seps)+1)
	for _, sep := range seps {
		bounds = append(bounds, [2]int{pos, sep[0]})
		pos = sep[1]
	}
	bounds = append(bounds, [2]int{pos, len(text)})

	for _, b := range bounds {
		start, end := trimRange(text, b[0], b[1])
		if end-start == 0 {
			continue
		}
		body := text[start:end]
		sections = append(sections, section{
			text:  body,
			start: start,
			kind:  classifySection(body),
		})
	}

	return sections
}

// classifySection tags a section by its dominant structure. The tag is
// informational only.
func classifySection(text string) document.ChunkType {
	lines := strings.Split(text, "\n")

	if headerPattern.MatchString(lines[0]) {
		return document.TypeSectionHeader
	}

	pipeLines := 0
	listLines := 0
	for _, line := range lines {
		if strings.Contains(line, "|") {
			pipeLines++
		}
		if listItemPattern.MatchString(line) {
			listLines++
		}
	}
	if pipeLines >= 2 {
		return document.TypeTable
	}
	if listLines > 0 && listLines >= (len(lines)+1)/2 {
		return document.TypeListItem
	}
	return document.TypeParagraph
}
