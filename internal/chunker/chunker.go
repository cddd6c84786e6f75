package chunker

import (
	"strings"

	"github.com/docpin/docpin/internal/document"
)

// Options controls chunking behavior.
type Options struct {
	ChunkSize          int  // Target chunk length in characters.
	ContextRadius      int  // Characters of before/after context to capture.
	PreserveSentences  bool // Snap boundaries to sentence ends when possible.
	PreserveParagraphs bool // Prefer blank-line boundaries when possible.
	MinChunkSize       int  // Minimum chunk length to emit.
	MaxChunkSize       int  // Hard ceiling on chunk length.
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize:          800,
		ContextRadius:      300,
		PreserveSentences:  true,
		PreserveParagraphs: true,
		MinChunkSize:       100,
		MaxChunkSize:       1200,
	}
}

// How far around a target boundary to look for a better split point.
const (
	sentenceSearchRadius  = 200
	paragraphSearchRadius = 300
)

// CreateChunks splits a document's full text into ordered,
// semantically-bounded chunks annotated with page number, section title and
// surrounding context. Degenerate documents (empty text, no pages) produce
// fewer or default-valued chunks rather than errors.
func CreateChunks(doc document.Document, opts Options) []document.Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 800
	}
	if opts.ContextRadius <= 0 {
		opts.ContextRadius = 300
	}
	if opts.MinChunkSize <= 0 {
		opts.MinChunkSize = 100
	}
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = 1200
	}
	if opts.MaxChunkSize < opts.ChunkSize {
		opts.MaxChunkSize = opts.ChunkSize
	}

	text := doc.FullText
	if strings.TrimSpace(text) == "" {
		return nil
	}

	headers := extractHeaders(text)
	sections := splitSections(text)

	var chunks []document.Chunk
	index := 0

	for _, sec := range sections {
		for _, sp := range chunkSection(sec, opts) {
			c := document.Chunk{
				Text:      text[sp.start:sp.end],
				StartChar: sp.start,
				EndChar:   sp.end,
				Index:     index,
				Type:      sp.kind,
			}
			attachContext(&c, text, opts.ContextRadius)
			c.PageNumber = pageForOffset(doc.Pages, sp.start)
			c.SectionTitle = sectionTitleFor(headers, sp.start)
			chunks = append(chunks, c)
			index++
		}
	}

	return chunks
}

// span is a resolved chunk range in absolute document offsets.
type span struct {
	start, end int
	kind       document.ChunkType
}

// chunkSection splits one section into spans. Sections that fit within
// MaxChunkSize are emitted verbatim; larger sections are walked in
// ChunkSize-sized windows with boundaries snapped to sentence or paragraph
// breaks where the options allow.
func chunkSection(sec section, opts Options) []span {
	n := len(sec.text)

	if n <= opts.MaxChunkSize {
		start, end := trimRange(sec.text, 0, n)
		if end-start == 0 {
			return nil
		}
		return []span{{start: sec.start + start, end: sec.start + end, kind: sec.kind}}
	}

	var spans []span
	pos := 0
	for pos < n {
		target := pos + opts.ChunkSize
		end := target
		if end >= n {
			end = n
		} else {
			if opts.PreserveSentences {
				if b := nearestSentenceEnd(sec.text, target, pos+opts.MinChunkSize); b > 0 {
					end = b
				}
			}
			// Paragraph breaks win over sentence breaks when both exist.
			if opts.PreserveParagraphs {
				if b := nearestParagraphBreak(sec.text, target, pos+opts.MinChunkSize); b > 0 {
					end = b
				}
			}
			if end > pos+opts.MaxChunkSize {
				end = pos + opts.MaxChunkSize
			}
			if end > n {
				end = n
			}
		}
		// Guarantee forward progress on pathological boundaries.
		if end <= pos {
			end = pos + 1
		}

		ts, te := trimRange(sec.text, pos, end)
		if te-ts >= opts.MinChunkSize {
			spans = append(spans, span{start: sec.start + ts, end: sec.start + te, kind: document.TypeMixed})
		}
		pos = end
	}

	return spans
}

// nearestSentenceEnd looks within sentenceSearchRadius of target for a
// sentence-ending punctuation mark followed by whitespace and returns the
// boundary just past the punctuation, or 0 if no candidate keeps the chunk
// at least minEnd long.
func nearestSentenceEnd(text string, target, minEnd int) int {
	lo := target - sentenceSearchRadius
	if lo < 0 {
		lo = 0
	}
	hi := target + sentenceSearchRadius
	if hi > len(text)-1 {
		hi = len(text) - 1
	}

	best := 0
	bestDist := -1
	for i := lo; i <= hi; i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 >= len(text) || !isSpaceByte(text[i+1]) {
			continue
		}
		boundary := i + 1
		if boundary < minEnd {
			continue
		}
		dist := boundary - target
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = boundary
			bestDist = dist
		}
	}
	return best
}

// nearestParagraphBreak looks within paragraphSearchRadius of target for a
// blank-line boundary and returns its offset, or 0 if no candidate keeps
// the chunk at least minEnd long.
func nearestParagraphBreak(text string, target, minEnd int) int {
	lo := target - paragraphSearchRadius
	if lo < 0 {
		lo = 0
	}
	hi := target + paragraphSearchRadius
	if hi > len(text)-1 {
		hi = len(text) - 1
	}

	best := 0
	bestDist := -1
	for i := lo; i < hi; i++ {
		if text[i] != '\n' || text[i+1] != '\n' {
			continue
		}
		if i < minEnd {
			continue
		}
		dist := i - target
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// trimRange shrinks [start,end) to exclude surrounding whitespace.
func trimRange(text string, start, end int) (int, int) {
	for start < end && isSpaceByte(text[start]) {
		start++
	}
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	return start, end
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// attachContext fills ContextBefore/ContextAfter from the surrounding
// document text, clipped at the document bounds.
func attachContext(c *document.Chunk, text string, radius int) {
	before := c.StartChar - radius
	if before < 0 {
		before = 0
	}
	after := c.EndChar + radius
	if after > len(text) {
		after = len(text)
	}
	c.ContextBefore = text[before:c.StartChar]
	c.ContextAfter = text[c.EndChar:after]
}

// pageForOffset returns the page whose cumulative text range contains the
// offset, assuming pages are concatenated with a one-character separator.
// Defaults to page 1 when the breakdown is missing or the offset falls
// outside it.
func pageForOffset(pages []document.Page, offset int) int {
	if len(pages) == 0 {
		return 1
	}
	cum := 0
	for _, p := range pages {
		end := cum + len(p.Text)
		if offset >= cum && offset <= end {
			return p.Number
		}
		cum = end + 1
	}
	return 1
}

// sectionTitleFor returns the title of the nearest header at or before the
// offset, or "" if the chunk precedes every header.
func sectionTitleFor(headers []header, offset int) string {
	title := ""
	for _, h := range headers {
		if h.start > offset {
			break
		}
		title = h.title
	}
	return title
}
