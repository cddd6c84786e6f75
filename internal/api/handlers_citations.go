package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/docpin/docpin/internal/citation"
	"github.com/docpin/docpin/internal/document"
)

// fragmentRequest is one retrieved chunk to resolve back into the source
// document.
type fragmentRequest struct {
	ChunkText     string `json:"chunk_text"`
	ContextBefore string `json:"context_before,omitempty"`
	ContextAfter  string `json:"context_after,omitempty"`
}

type citationsRequest struct {
	DocID          string            `json:"doc_id,omitempty"`
	DocumentText   string            `json:"document_text,omitempty"`
	Fragments      []fragmentRequest `json:"fragments"`
	Threshold      float64           `json:"threshold,omitempty"`
	MinMatchLength int               `json:"min_match_length,omitempty"`
}

// handleCitations resolves a batch of fragments into highlight positions
// within a document.
func (s *Server) handleCitations(w http.ResponseWriter, r *http.Request) {
	var req citationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Fragments) == 0 {
		jsonError(w, "fragments are required", http.StatusBadRequest)
		return
	}

	docText, ok := s.documentText(w, r, req.DocID, req.DocumentText)
	if !ok {
		return
	}

	resolver := s.resolverWith(req.Threshold, req.MinMatchLength)
	fragments := make([]document.Fragment, len(req.Fragments))
	for i, f := range req.Fragments {
		fragments[i] = document.Fragment{
			ChunkText:     f.ChunkText,
			ContextBefore: f.ContextBefore,
			ContextAfter:  f.ContextAfter,
		}
	}

	positions := resolver.FindMultiple(fragments, docText)
	if positions == nil {
		positions = []document.CitationPosition{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":    req.DocID,
		"requested": len(fragments),
		"resolved":  len(positions),
		"positions": positions,
	})
}

type locateRequest struct {
	DocID          string  `json:"doc_id,omitempty"`
	DocumentText   string  `json:"document_text,omitempty"`
	SearchText     string  `json:"search_text"`
	Threshold      float64 `json:"threshold,omitempty"`
	MinMatchLength int     `json:"min_match_length,omitempty"`
}

// handleLocate resolves a single piece of text into a document position.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SearchText) == "" {
		jsonError(w, "search_text is required", http.StatusBadRequest)
		return
	}

	docText, ok := s.documentText(w, r, req.DocID, req.DocumentText)
	if !ok {
		return
	}

	m := s.resolverWith(req.Threshold, req.MinMatchLength).Find(req.SearchText, docText)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": req.DocID,
		"found":  m != nil,
		"match":  m,
	})
}

// handleSearch runs a similarity query against the vector store and pins
// each hit back to its position in the source document.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("doc_id")
	query := r.URL.Query().Get("q")
	if docID == "" || query == "" {
		jsonError(w, "doc_id and q query parameters are required", http.StatusBadRequest)
		return
	}
	topK := 5
	if v := r.URL.Query().Get("top_k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topK = n
		}
	}

	hits, err := s.orchestrator.Store().Search(r.Context(), docID, query, topK)
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docText, ok := s.documentText(w, r, docID, "")
	if !ok {
		return
	}

	fragments := make([]document.Fragment, len(hits))
	for i, h := range hits {
		fragments[i] = document.Fragment{
			ChunkText:     h.Text,
			ContextBefore: h.ContextBefore,
			ContextAfter:  h.ContextAfter,
		}
	}
	positions := s.resolver.FindMultiple(fragments, docText)
	if positions == nil {
		positions = []document.CitationPosition{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":    docID,
		"hits":      hits,
		"positions": positions,
	})
}

// documentText resolves the text to match against, either inline from the
// request or fetched from the vector store by doc ID. Writes an error
// response and returns ok=false when neither yields text.
func (s *Server) documentText(w http.ResponseWriter, r *http.Request, docID, inline string) (string, bool) {
	if inline != "" {
		return inline, true
	}
	if docID == "" {
		jsonError(w, "doc_id or document_text is required", http.StatusBadRequest)
		return "", false
	}
	text, err := s.orchestrator.Store().DocumentText(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to fetch document text: "+err.Error(), http.StatusInternalServerError)
		return "", false
	}
	if text == "" {
		jsonError(w, "document not found: "+docID, http.StatusNotFound)
		return "", false
	}
	return text, true
}

// resolverWith returns the shared resolver, or a copy with per-request
// overrides applied.
func (s *Server) resolverWith(threshold float64, minMatchLength int) *citation.Resolver {
	opts := s.resolver.Opts
	changed := false
	if threshold > 0 && threshold < 1 {
		opts.Threshold = threshold
		changed = true
	}
	if minMatchLength > 0 {
		opts.MinMatchLength = minMatchLength
		changed = true
	}
	if !changed {
		return s.resolver
	}
	return &citation.Resolver{Opts: opts, Stats: s.resolver.Stats}
}
