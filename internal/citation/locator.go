package citation

import (
	"strings"

	"github.com/docpin/docpin/internal/document"
)

// Options controls the matching cascade. Threshold is a maximum allowed
// dissimilarity: a candidate is accepted only when its similarity score is
// at least 1-Threshold, so smaller values are stricter.
type Options struct {
	Threshold      float64 // Maximum dissimilarity, in [0,1].
	ContextRadius  int     // Sentence-window sizing hint.
	MinMatchLength int     // Normalized inputs shorter than this are rejected.
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:      0.3,
		ContextRadius:  200,
		MinMatchLength: 20,
	}
}

// Matching strategy names, in cascade order.
const (
	StrategyExact    = "exact"
	StrategyFuzzy    = "fuzzy"
	StrategyTable    = "table"
	StrategySentence = "sentence"
)

// Match is a located span of the document. Confidence is 1.0 only for exact
// matches; fuzzy strategies report their similarity score.
type Match struct {
	Text       string  `json:"text"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy,omitempty"`
}

// FindTextInDocument locates searchText inside documentText, trying
// progressively looser strategies: exact normalized substring, fuzzy
// sliding window, table-aware cell matching, and sentence-level edit
// distance. Returns nil when no strategy clears the threshold; a nil
// result is the normal not-found outcome, not an error.
func FindTextInDocument(searchText, documentText string, opts Options) *Match {
	opts = withDefaults(opts)

	if searchText == "" || documentText == "" {
		return nil
	}

	normDoc := normalize(documentText)
	normSearch := normalize(searchText)
	if len(normSearch.text) < opts.MinMatchLength {
		return nil
	}

	minScore := 1 - opts.Threshold

	if m := exactMatch(normSearch, normDoc, documentText); m != nil {
		return clamp(m, documentText)
	}
	if m := slidingWindowMatch(normSearch, normDoc, documentText, minScore); m != nil {
		return clamp(m, documentText)
	}
	if strings.Contains(searchText, "|") || strings.Contains(searchText, "--") {
		if m := tableMatch(searchText, documentText, minScore); m != nil {
			return clamp(m, documentText)
		}
	}
	if m := sentenceMatch(normSearch, documentText, opts.Threshold); m != nil {
		return clamp(m, documentText)
	}
	return nil
}

// FindMultipleCitations resolves a batch of retrieved fragments into
// non-overlapping citation positions. Fragments are processed in input
// order; a match whose range overlaps an already-accepted range is dropped.
// The result is sorted by start offset and carries each fragment's original
// chunk text as HighlightText.
func FindMultipleCitations(fragments []document.Fragment, documentText string, opts Options) []document.CitationPosition {
	r := Resolver{Opts: opts}
	return r.FindMultiple(fragments, documentText)
}

// combinedSearchText rebuilds the search string a fragment was stored with:
// surrounding context joined around the chunk text, absent parts omitted.
func combinedSearchText(f document.Fragment) string {
	parts := make([]string, 0, 3)
	if f.ContextBefore != "" {
		parts = append(parts, f.ContextBefore)
	}
	parts = append(parts, f.ChunkText)
	if f.ContextAfter != "" {
		parts = append(parts, f.ContextAfter)
	}
	return strings.Join(parts, " ")
}

// overlapsAny reports whether [start,end) intersects any accepted range,
// including full containment in either direction.
func overlapsAny(accepted []document.CitationPosition, start, end int) bool {
	for _, a := range accepted {
		if start < a.EndIndex && end > a.StartIndex {
			return true
		}
	}
	return false
}

// exactMatch finds the search text as a literal substring of the normalized
// document and maps the hit back to original offsets.
func exactMatch(search, doc normalized, documentText string) *Match {
	idx := strings.Index(doc.text, search.text)
	if idx < 0 {
		return nil
	}
	start, end := doc.sourceRange(idx, idx+len(search.text))
	return &Match{
		Text:       documentText[start:end],
		StartIndex: start,
		EndIndex:   end,
		Confidence: 1.0,
		Strategy:   StrategyExact,
	}
}

// slidingWindowMatch slides a window slightly larger than the search text
// across the normalized document and scores each position by the aligned
// character-match ratio. This is a cheap heuristic, not an edit distance;
// downstream thresholds are tuned against it.
func slidingWindowMatch(search, doc normalized, documentText string, minScore float64) *Match {
	searchLen := len(search.text)
	if searchLen == 0 || len(doc.text) < searchLen {
		return nil
	}

	window := searchLen * 12 / 10
	if window > len(doc.text) {
		window = len(doc.text)
	}
	step := window / 10
	if step < 1 {
		step = 1
	}

	score := func(pos int) float64 {
		matches := 0
		for i := 0; i < searchLen; i++ {
			if doc.text[pos+i] == search.text[i] {
				matches++
			}
		}
		return float64(matches) / float64(window)
	}

	best := -1.0
	bestPos := 0
	last := len(doc.text) - window
	for pos := 0; pos <= last; pos += step {
		if s := score(pos); s > best {
			best = s
			bestPos = pos
		}
	}
	// The stepped scan can miss the tail; always score the final position.
	if s := score(last); s > best {
		best = s
		bestPos = last
	}

	if best < minScore {
		return nil
	}

	start, end := doc.sourceRange(bestPos, bestPos+window)
	return &Match{
		Text:       documentText[start:end],
		StartIndex: start,
		EndIndex:   end,
		Confidence: best,
		Strategy:   StrategyFuzzy,
	}
}

func withDefaults(opts Options) Options {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.3
	}
	if opts.Threshold > 1 {
		opts.Threshold = 1
	}
	if opts.ContextRadius <= 0 {
		opts.ContextRadius = 200
	}
	if opts.MinMatchLength <= 0 {
		opts.MinMatchLength = 20
	}
	return opts
}

// clamp bounds a match's range to the document and refreshes its text.
func clamp(m *Match, documentText string) *Match {
	if m.StartIndex < 0 {
		m.StartIndex = 0
	}
	if m.EndIndex > len(documentText) {
		m.EndIndex = len(documentText)
	}
	if m.EndIndex < m.StartIndex {
		m.EndIndex = m.StartIndex
	}
	m.Text = documentText[m.StartIndex:m.EndIndex]
	if m.Confidence < 0 {
		m.Confidence = 0
	}
	if m.Confidence > 1 {
		m.Confidence = 1
	}
	return m
}
