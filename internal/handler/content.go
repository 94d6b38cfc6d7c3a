package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atlasbus/backend/internal/domain"
)

// ListContent handles GET /api/v1/content.
func (s *Server) ListContent(w http.ResponseWriter, r *http.Request) {
	docs, err := s.content.List(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": docs})
}

// GetContent handles GET /api/v1/content/{key}.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	doc, err := s.content.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondServiceError(w, r, err, "content not found")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// UpsertContent handles PUT /api/v1/content/{key}.
// The body is the raw JSON document to store under the key.
func (s *Server) UpsertContent(w http.ResponseWriter, r *http.Request) {
	var value json.RawMessage
	if !decodeBody(w, r, &value) {
		return
	}

	doc, err := s.content.Upsert(r.Context(), domain.SiteContent{
		Key:   chi.URLParam(r, "key"),
		Value: value,
	})
	if err != nil {
		respondServiceError(w, r, err, "content not found")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}
