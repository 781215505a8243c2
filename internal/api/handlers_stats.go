package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.log.Error("count chunks", "error", err)
		jsonError(w, "failed to count chunks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"total_chunks": n})
}
