package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if doc.FullText != want {
		t.Errorf("expected full text %q, got %q", want, doc.FullText)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[0].Text != doc.FullText {
		t.Errorf("expected single page covering the full text")
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FullText != "" {
		t.Errorf("expected empty full text, got %q", doc.FullText)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("expected no pages for empty input, got %d", len(doc.Pages))
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FullText != "Para one.\n\nPara two." {
		t.Errorf("expected blank line runs collapsed, got %q", doc.FullText)
	}
}

func TestTextParser_WhitespaceOnlyLinesAreBlank(t *testing.T) {
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FullText != "Para one.\n\nPara two." {
		t.Errorf("expected whitespace-only line treated as blank, got %q", doc.FullText)
	}
}

func TestTextParser_CRLFNormalized(t *testing.T) {
	input := "Line one.\r\n\r\nLine two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "crlf.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.FullText, "\r") {
		t.Errorf("expected CRLF normalized away, got %q", doc.FullText)
	}
}

func TestForFile_SupportedExtensions(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.csv", "d.html", "e.htm", "f.pdf", "g.docx", "H.TXT"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("expected parser for %q, got error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("expected %q to be supported", name)
		}
	}
	if _, err := ForFile("image.png"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
}
