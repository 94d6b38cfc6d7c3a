package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// routeRequest is the JSON body for create and update.
type routeRequest struct {
	Name            string    `json:"name"`
	OriginID        uuid.UUID `json:"origin_id"`
	DestinationID   uuid.UUID `json:"destination_id"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        *bool     `json:"is_active"` // defaults to true when omitted
}

func (req routeRequest) toDomain() domain.Route {
	return domain.Route{
		Name:            req.Name,
		OriginID:        req.OriginID,
		DestinationID:   req.DestinationID,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
}

// CreateRoute handles POST /api/v1/routes.
func (s *Server) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.routes.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err, "destination not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListRoutes handles GET /api/v1/routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	p := queryPagination(r)
	data, total, err := s.routes.List(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// GetRoute handles GET /api/v1/routes/{routeID}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "routeID")
	if !ok {
		return
	}
	rt, err := s.routes.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "route not found")
		return
	}
	respondJSON(w, http.StatusOK, rt)
}

// UpdateRoute handles PUT /api/v1/routes/{routeID}.
func (s *Server) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "routeID")
	if !ok {
		return
	}
	var req routeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rt := req.toDomain()
	rt.ID = id

	updated, err := s.routes.Update(r.Context(), rt)
	if err != nil {
		respondServiceError(w, r, err, "route not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteRoute handles DELETE /api/v1/routes/{routeID}.
func (s *Server) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "routeID")
	if !ok {
		return
	}
	if err := s.routes.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "route not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRouteStops handles GET /api/v1/routes/{routeID}/stops.
func (s *Server) ListRouteStops(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "routeID")
	if !ok {
		return
	}
	stops, err := s.routes.ListStops(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "route not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": stops})
}

// ReplaceRouteStops handles PUT /api/v1/routes/{routeID}/stops.
// The body is the full ordered stop chain; existing stops are replaced.
func (s *Server) ReplaceRouteStops(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "routeID")
	if !ok {
		return
	}
	var req struct {
		Stops []domain.RouteStopInput `json:"stops"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.routes.ReplaceStops(r.Context(), id, req.Stops); err != nil {
		respondServiceError(w, r, err, "route not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
