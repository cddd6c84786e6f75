package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docpin/docpin/internal/document"
)

// CSVParser handles CSV files by rendering them as a markdown pipe table,
// so downstream chunking and citation matching see standard table
// conventions.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	var text strings.Builder
	writeRow(&text, records[0])
	text.WriteString("|")
	for range records[0] {
		text.WriteString(" --- |")
	}
	text.WriteString("\n")
	for _, row := range records[1:] {
		writeRow(&text, row)
	}

	fullText := cleanText(text.String())
	doc.FullText = fullText
	doc.Pages = singlePage(fullText)
	return doc, nil
}

func writeRow(b *strings.Builder, row []string) {
	b.WriteString("|")
	for _, cell := range row {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
