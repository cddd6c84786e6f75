package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleCitationStats(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil || s.resolver.Stats == nil {
		jsonError(w, "citation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.resolver.Stats.Snapshot(),
	})
}
