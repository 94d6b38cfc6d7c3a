package handler

import (
	"net/http"

	"github.com/atlasbus/backend/internal/domain"
)

// destinationRequest is the JSON body for create and update.
type destinationRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Country  string `json:"country"`
	IsActive *bool  `json:"is_active"` // defaults to true when omitted
}

func (req destinationRequest) toDomain() domain.Destination {
	return domain.Destination{
		Name:     req.Name,
		Code:     req.Code,
		Country:  req.Country,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
}

// CreateDestination handles POST /api/v1/destinations.
func (s *Server) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var req destinationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.destinations.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err, "destination not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListDestinations handles GET /api/v1/destinations.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListDestinations(w http.ResponseWriter, r *http.Request) {
	p := queryPagination(r)
	data, total, err := s.destinations.List(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// GetDestination handles GET /api/v1/destinations/{destinationID}.
func (s *Server) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "destinationID")
	if !ok {
		return
	}
	d, err := s.destinations.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "destination not found")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// UpdateDestination handles PUT /api/v1/destinations/{destinationID}.
func (s *Server) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "destinationID")
	if !ok {
		return
	}
	var req destinationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d := req.toDomain()
	d.ID = id

	updated, err := s.destinations.Update(r.Context(), d)
	if err != nil {
		respondServiceError(w, r, err, "destination not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteDestination handles DELETE /api/v1/destinations/{destinationID}.
func (s *Server) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "destinationID")
	if !ok {
		return
	}
	if err := s.destinations.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "destination not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
