package citation

import (
	"sort"
	"strings"
	"time"

	"github.com/docpin/docpin/internal/document"
)

// Resolver bundles matching options with optional rolling stats, recording
// one sample per locator call.
type Resolver struct {
	Opts  Options
	Stats *MatchStats
}

// Find locates searchText in documentText and records the outcome.
func (r *Resolver) Find(searchText, documentText string) *Match {
	start := time.Now()
	m := FindTextInDocument(searchText, documentText, r.Opts)
	if r.Stats != nil {
		strategy := ""
		if m != nil {
			strategy = m.Strategy
		}
		r.Stats.Record(strategy, time.Since(start).Milliseconds())
	}
	return m
}

// FindMultiple resolves a batch of fragments into non-overlapping citation
// positions, recording one stats sample per fragment.
func (r *Resolver) FindMultiple(fragments []document.Fragment, documentText string) []document.CitationPosition {
	var accepted []document.CitationPosition

	for _, f := range fragments {
		if strings.TrimSpace(f.ChunkText) == "" {
			continue
		}
		m := r.Find(combinedSearchText(f), documentText)
		if m == nil {
			continue
		}
		if overlapsAny(accepted, m.StartIndex, m.EndIndex) {
			continue
		}
		accepted = append(accepted, document.CitationPosition{
			StartIndex:    m.StartIndex,
			EndIndex:      m.EndIndex,
			Confidence:    m.Confidence,
			MatchedText:   m.Text,
			HighlightText: f.ChunkText,
		})
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].StartIndex < accepted[j].StartIndex
	})
	return accepted
}
