package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// tripRequest is the JSON body for create and update.
type tripRequest struct {
	RouteID        uuid.UUID `json:"route_id"`
	BusID          uuid.UUID `json:"bus_id"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
}

func (req tripRequest) toDomain() domain.Trip {
	return domain.Trip{
		RouteID:        req.RouteID,
		BusID:          req.BusID,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
		Status:         req.Status,
	}
}

// CreateTrip handles POST /api/v1/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.trips.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err, "route or bus not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /api/v1/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	p := queryPagination(r)
	data, total, err := s.trips.List(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// GetTrip handles GET /api/v1/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	t, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// UpdateTrip handles PUT /api/v1/trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req tripRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t := req.toDomain()
	t.ID = id

	updated, err := s.trips.Update(r.Context(), t)
	if err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/v1/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
