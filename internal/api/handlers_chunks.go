package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/docchunk/internal/storage"
	"github.com/go-chi/chi/v5"
)

// handleGetChunk returns one stored record.
func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	chunkID := chi.URLParam(r, "chunkID")

	rec, err := s.store.GetChunk(r.Context(), chunkID)
	if errors.Is(err, storage.ErrNotFound) {
		jsonError(w, "chunk not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get chunk", "chunk_id", chunkID, "error", err)
		jsonError(w, "failed to load chunk", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleListChunks lists the records of one source document in order.
func (s *Server) handleListChunks(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		jsonError(w, "source query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := s.store.ListBySource(r.Context(), source)
	if err != nil {
		s.log.Error("list chunks", "source", source, "error", err)
		jsonError(w, "failed to list chunks", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"chunks": records,
	})
}
