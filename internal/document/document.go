package document

// Page is one page of extracted document text.
type Page struct {
	Number int    `json:"page_number"`
	Text   string `json:"text"`
}

// Document is the full extracted content of one source file, already
// normalized to markdown conventions by a parser. FullText is immutable;
// all chunk and citation offsets index into it.
type Document struct {
	Title    string `json:"title"`
	FullText string `json:"full_text"`
	Pages    []Page `json:"pages,omitempty"`
}

// ChunkType is an informational classification tag; it plays no role in
// matching logic.
type ChunkType string

const (
	TypeParagraph     ChunkType = "paragraph"
	TypeSectionHeader ChunkType = "section_header"
	TypeListItem      ChunkType = "list_item"
	TypeTable         ChunkType = "table"
	TypeMixed         ChunkType = "mixed"
)

// Chunk is a bounded span of a document's text with position and context
// metadata, produced once at ingest time and never mutated afterwards.
type Chunk struct {
	Text          string    `json:"text"`
	StartChar     int       `json:"original_start_char"`
	EndChar       int       `json:"original_end_char"`
	ContextBefore string    `json:"context_before,omitempty"`
	ContextAfter  string    `json:"context_after,omitempty"`
	PageNumber    int       `json:"page_number,omitempty"`
	SectionTitle  string    `json:"section_title,omitempty"`
	Index         int       `json:"chunk_index"`
	Type          ChunkType `json:"chunk_type"`
}

// Fragment is a retrieved chunk plus the stored context that surrounded it
// in the original document, fed back in at query time for relocation.
type Fragment struct {
	ChunkText     string `json:"chunk_text"`
	ContextBefore string `json:"context_before,omitempty"`
	ContextAfter  string `json:"context_after,omitempty"`
}

// CitationPosition is a resolved [start,end) span in a document's full text.
// MatchedText is what the matcher actually found; HighlightText is the
// original fragment text the caller wants highlighted.
type CitationPosition struct {
	StartIndex    int     `json:"start_index"`
	EndIndex      int     `json:"end_index"`
	Confidence    float64 `json:"confidence"`
	MatchedText   string  `json:"matched_text"`
	HighlightText string  `json:"highlight_text"`
}
