package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_RendersPipeTable(t *testing.T) {
	input := "Item,Cost\nLicense,\"$2,000\"\nSupport,$500\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "fees.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(doc.FullText, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 table lines, got %d: %q", len(lines), doc.FullText)
	}
	if lines[0] != "| Item | Cost |" {
		t.Errorf("expected header row, got %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("expected separator row, got %q", lines[1])
	}
	if lines[2] != "| License | $2,000 |" {
		t.Errorf("expected data row, got %q", lines[2])
	}
}

func TestCSVParser_EscapesPipesInCells(t *testing.T) {
	input := "Name\na|b\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "pipes.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.FullText, `a\|b`) {
		t.Errorf("expected escaped pipe in cell, got %q", doc.FullText)
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FullText != "" {
		t.Errorf("expected empty full text, got %q", doc.FullText)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	input := "a,b,c\nd,e\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "ragged.csv")
	if err != nil {
		t.Fatalf("unexpected error for ragged rows: %v", err)
	}
	if !strings.Contains(doc.FullText, "| d | e |") {
		t.Errorf("expected short row rendered, got %q", doc.FullText)
	}
}
