package handler

import (
	"net/http"

	"github.com/atlasbus/backend/internal/domain"
)

// busRequest is the JSON body for create and update.
type busRequest struct {
	Model       string   `json:"model"`
	Brand       string   `json:"brand"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities"`
	PlateNumber string   `json:"plate_number"`
	CompanyName string   `json:"company_name"`
}

func (req busRequest) toDomain() domain.Bus {
	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return domain.Bus{
		Model:       req.Model,
		Brand:       req.Brand,
		Capacity:    req.Capacity,
		Amenities:   amenities,
		PlateNumber: req.PlateNumber,
		CompanyName: req.CompanyName,
	}
}

// CreateBus handles POST /api/v1/buses.
func (s *Server) CreateBus(w http.ResponseWriter, r *http.Request) {
	var req busRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.buses.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, err, "bus not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListBuses handles GET /api/v1/buses.
func (s *Server) ListBuses(w http.ResponseWriter, r *http.Request) {
	p := queryPagination(r)
	data, total, err := s.buses.List(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	})
}

// GetBus handles GET /api/v1/buses/{busID}.
func (s *Server) GetBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "busID")
	if !ok {
		return
	}
	b, err := s.buses.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "bus not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// UpdateBus handles PUT /api/v1/buses/{busID}.
func (s *Server) UpdateBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "busID")
	if !ok {
		return
	}
	var req busRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b := req.toDomain()
	b.ID = id

	updated, err := s.buses.Update(r.Context(), b)
	if err != nil {
		respondServiceError(w, r, err, "bus not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteBus handles DELETE /api/v1/buses/{busID}.
func (s *Server) DeleteBus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "busID")
	if !ok {
		return
	}
	if err := s.buses.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "bus not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
