package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsBecomeMarkdown(t *testing.T) {
	input := `<html><head><title>Policy Manual</title></head><body>
<h1>Overview</h1>
<p>Intro paragraph.</p>
<h2>Scope</h2>
<p>Scope paragraph.</p>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "manual.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Policy Manual" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if !strings.Contains(doc.FullText, "# Overview") {
		t.Errorf("expected h1 rendered as markdown header, got %q", doc.FullText)
	}
	if !strings.Contains(doc.FullText, "## Scope") {
		t.Errorf("expected h2 rendered as markdown header, got %q", doc.FullText)
	}
	if !strings.Contains(doc.FullText, "Intro paragraph.") {
		t.Errorf("expected paragraph text, got %q", doc.FullText)
	}
}

func TestHTMLParser_ListItemsPrefixed(t *testing.T) {
	input := "<html><body><ul><li>first</li><li>second</li></ul></body></html>"
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "list.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.FullText, "- first") || !strings.Contains(doc.FullText, "- second") {
		t.Errorf("expected list items with markdown prefixes, got %q", doc.FullText)
	}
}

func TestHTMLParser_SkipsScriptAndNav(t *testing.T) {
	input := `<html><body>
<nav>navigation junk</nav>
<script>var x = "code";</script>
<p>Real content.</p>
<footer>footer junk</footer>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.FullText, "navigation junk") {
		t.Errorf("expected nav skipped, got %q", doc.FullText)
	}
	if strings.Contains(doc.FullText, "var x") {
		t.Errorf("expected script skipped, got %q", doc.FullText)
	}
	if strings.Contains(doc.FullText, "footer junk") {
		t.Errorf("expected footer skipped, got %q", doc.FullText)
	}
	if !strings.Contains(doc.FullText, "Real content.") {
		t.Errorf("expected body paragraph kept, got %q", doc.FullText)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	input := "<html><body><p>No title element.</p></body></html>"
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "untitled.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "untitled" {
		t.Errorf("expected filename-derived title, got %q", doc.Title)
	}
}
