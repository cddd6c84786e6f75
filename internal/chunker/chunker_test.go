package chunker

import (
	"strings"
	"testing"

	"github.com/docpin/docpin/internal/document"
)

func smallOpts() Options {
	return Options{
		ChunkSize:          800,
		ContextRadius:      300,
		PreserveSentences:  true,
		PreserveParagraphs: true,
		MinChunkSize:       100,
		MaxChunkSize:       1200,
	}
}

func TestCreateChunks_EmptyDocument(t *testing.T) {
	chunks := CreateChunks(document.Document{FullText: ""}, DefaultOptions())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty document, got %d", len(chunks))
	}

	chunks = CreateChunks(document.Document{FullText: "   \n\n  "}, DefaultOptions())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace-only document, got %d", len(chunks))
	}
}

func TestCreateChunks_SmallSectionsEmittedWhole(t *testing.T) {
	text := "# Intro\n\nFirst paragraph of content.\n\nSecond paragraph of content."
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	want := []string{"# Intro", "First paragraph of content.", "Second paragraph of content."}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Text)
		}
		if chunks[i].Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, chunks[i].Index)
		}
	}
}

func TestCreateChunks_OffsetsSliceBackToSource(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog near the river bank. "
	text := "# Report\n\n" + strings.Repeat(sentence, 60)
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	prevStart := -1
	for i, c := range chunks {
		if text[c.StartChar:c.EndChar] != c.Text {
			t.Errorf("chunk %d: text does not match [StartChar,EndChar) slice of source", i)
		}
		if c.StartChar <= prevStart {
			t.Errorf("chunk %d: start %d not after previous start %d", i, c.StartChar, prevStart)
		}
		prevStart = c.StartChar
	}
}

func TestCreateChunks_LargeSectionRespectsBounds(t *testing.T) {
	sentence := "Regulatory filings must be submitted before the quarterly deadline. "
	text := strings.Repeat(sentence, 50) // ~3400 chars, one section
	doc := document.Document{FullText: text}

	opts := smallOpts()
	chunks := CreateChunks(doc, opts)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for oversized section, got %d", len(chunks))
	}

	for i, c := range chunks {
		n := len(c.Text)
		if n > opts.MaxChunkSize {
			t.Errorf("chunk %d: length %d exceeds MaxChunkSize %d", i, n, opts.MaxChunkSize)
		}
		if n < opts.MinChunkSize {
			t.Errorf("chunk %d: length %d below MinChunkSize %d", i, n, opts.MinChunkSize)
		}
		if c.Type != document.TypeMixed {
			t.Errorf("chunk %d: expected type %q for split sub-chunk, got %q", i, document.TypeMixed, c.Type)
		}
	}
}

func TestCreateChunks_SentenceBoundarySnapping(t *testing.T) {
	sentence := "Each clause in this agreement stands on its own terms entirely. "
	text := strings.Repeat(sentence, 60)
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		last := c.Text[len(c.Text)-1]
		if last != '.' && last != '!' && last != '?' {
			t.Errorf("chunk %d: expected sentence-final boundary, text ends with %q", i, last)
		}
	}
}

func TestCreateChunks_ForcedProgressOnUnbreakableText(t *testing.T) {
	// No sentence ends, no whitespace; the chunker must still terminate.
	text := strings.Repeat("x", 5000)
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) == 0 {
		t.Fatal("expected chunks for unbreakable text")
	}
	total := 0
	for i, c := range chunks {
		if len(c.Text) > 1200 {
			t.Errorf("chunk %d: length %d exceeds ceiling", i, len(c.Text))
		}
		total += len(c.Text)
	}
	if total != len(text) {
		t.Errorf("expected full coverage of %d chars, got %d", len(text), total)
	}
}

func TestCreateChunks_ContextWindows(t *testing.T) {
	text := "# Intro\n\nAlpha paragraph with enough words to matter.\n\nBeta paragraph that follows the first one."
	doc := document.Document{FullText: text}

	opts := smallOpts()
	opts.ContextRadius = 20
	chunks := CreateChunks(doc, opts)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if first.ContextBefore != "" {
		t.Errorf("expected empty ContextBefore at document start, got %q", first.ContextBefore)
	}
	if len(first.ContextAfter) != 20 {
		t.Errorf("expected 20 chars of ContextAfter, got %d", len(first.ContextAfter))
	}

	// The second chunk starts 9 chars in, so its before-context clips at
	// the document start.
	mid := chunks[1]
	if mid.ContextBefore != "# Intro\n\n" {
		t.Errorf("expected clipped ContextBefore %q, got %q", "# Intro\n\n", mid.ContextBefore)
	}

	last := chunks[2]
	wantBefore := text[last.StartChar-20 : last.StartChar]
	if last.ContextBefore != wantBefore {
		t.Errorf("expected ContextBefore %q, got %q", wantBefore, last.ContextBefore)
	}
	if last.ContextAfter != "" {
		t.Errorf("expected empty ContextAfter at document end, got %q", last.ContextAfter)
	}
}

func TestCreateChunks_PageNumbers(t *testing.T) {
	page1 := "# First\n\nAlpha content here.\n"
	page2 := "# Second\n\nBeta content here."
	doc := document.Document{
		FullText: page1 + "\n" + page2,
		Pages: []document.Page{
			{Number: 1, Text: page1},
			{Number: 2, Text: page2},
		},
	}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	wantPages := []int{1, 1, 2, 2}
	for i, w := range wantPages {
		if chunks[i].PageNumber != w {
			t.Errorf("chunk %d (%q): expected page %d, got %d", i, chunks[i].Text, w, chunks[i].PageNumber)
		}
	}
}

func TestCreateChunks_SectionTitles(t *testing.T) {
	text := "Preamble text before any heading appears.\n\n# Scope\n\nScope body text.\n\n## Details\n\nDetail body text."
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}

	wantTitles := []string{"", "Scope", "Scope", "Details", "Details"}
	for i, w := range wantTitles {
		if chunks[i].SectionTitle != w {
			t.Errorf("chunk %d (%q): expected section title %q, got %q", i, chunks[i].Text, w, chunks[i].SectionTitle)
		}
	}
}

func TestCreateChunks_SectionTypeClassification(t *testing.T) {
	text := "# Heading\n\n" +
		"| Name | Fee |\n| --- | --- |\n| License | $2000 |\n\n" +
		"- first item\n- second item\n- third item\n\n" +
		"A plain paragraph closes the document."
	doc := document.Document{FullText: text}

	chunks := CreateChunks(doc, smallOpts())
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	wantTypes := []document.ChunkType{
		document.TypeSectionHeader,
		document.TypeTable,
		document.TypeListItem,
		document.TypeParagraph,
	}
	for i, w := range wantTypes {
		if chunks[i].Type != w {
			t.Errorf("chunk %d (%q): expected type %q, got %q", i, chunks[i].Text, w, chunks[i].Type)
		}
	}
}

func TestCreateChunks_ZeroOptionsUseDefaults(t *testing.T) {
	text := "Some ordinary content that should produce a single chunk."
	chunks := CreateChunks(document.Document{FullText: text}, Options{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk with zero options, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("expected verbatim text, got %q", chunks[0].Text)
	}
	if chunks[0].PageNumber != 1 {
		t.Errorf("expected default page 1, got %d", chunks[0].PageNumber)
	}
}

func TestExtractHeaders_OffsetsAndLevels(t *testing.T) {
	text := "# Top\n\nbody\n\n### Deep Section\n\nmore body"
	headers := extractHeaders(text)
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(headers))
	}
	if headers[0].title != "Top" || headers[0].level != 1 || headers[0].start != 0 {
		t.Errorf("unexpected first header: %+v", headers[0])
	}
	if headers[1].title != "Deep Section" || headers[1].level != 3 {
		t.Errorf("unexpected second header: %+v", headers[1])
	}
	if text[headers[1].start:headers[1].end] != "### Deep Section" {
		t.Errorf("header offsets do not slice back to the header line")
	}
}

func TestClassifySection_Variants(t *testing.T) {
	tests := []struct {
		text string
		want document.ChunkType
	}{
		{"# Title", document.TypeSectionHeader},
		{"| a | b |\n| c | d |", document.TypeTable},
		{"- one\n- two", document.TypeListItem},
		{"1. one\n2. two", document.TypeListItem},
		{"Just words in a row.", document.TypeParagraph},
		{"text with | one pipe", document.TypeParagraph},
	}
	for _, tt := range tests {
		if got := classifySection(tt.text); got != tt.want {
			t.Errorf("classifySection(%q): expected %q, got %q", tt.text, tt.want, got)
		}
	}
}
