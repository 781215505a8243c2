package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
)

type chunkRequest struct {
	Text string `json:"text"`
	// Format is an optional file extension ("md", ".html") selecting an
	// extractor. Empty means the text is already plain.
	Format    string `json:"format,omitempty"`
	MinTokens int    `json:"min_tokens,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type chunkResult struct {
	OrderIndex int    `json:"order_index"`
	Text       string `json:"text"`
	Tokens     int    `json:"tokens"`
}

// handleChunk chunks ad-hoc text with the configured bounds unless the
// request overrides them.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	cfg := chunker.Config{MinTokens: s.cfg.MinTokens, MaxTokens: s.cfg.MaxTokens}
	if req.MinTokens != 0 {
		cfg.MinTokens = req.MinTokens
	}
	if req.MaxTokens != 0 {
		cfg.MaxTokens = req.MaxTokens
	}
	if cfg.MinTokens < 0 || cfg.MaxTokens < 0 || cfg.MaxTokens < cfg.MinTokens {
		jsonError(w, "max_tokens must be at least min_tokens and both positive", http.StatusBadRequest)
		return
	}

	text := req.Text
	if req.Format != "" {
		ext := "." + strings.TrimPrefix(strings.ToLower(req.Format), ".")
		extractor, err := parser.ForFile("input" + ext)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if text, err = extractor.Extract(strings.NewReader(req.Text)); err != nil {
			jsonError(w, "extract: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	texts := chunker.New(cfg).Chunk(pipeline.Normalize(text))
	results := make([]chunkResult, 0, len(texts))
	for i, t := range texts {
		results = append(results, chunkResult{
			OrderIndex: i + 1,
			Text:       t,
			Tokens:     chunker.EstimateTokens(t),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"chunks": results})
}
