package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// bookingRequest is the JSON body for creating a booking.
// The total price and reference are computed server-side.
type bookingRequest struct {
	TripID        uuid.UUID `json:"trip_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	GiftCardCode  string    `json:"gift_card_code"`
}

// CreateBooking handles POST /api/v1/bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.bookings.Create(r.Context(), domain.Booking{
		TripID:        req.TripID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Adults:        req.Adults,
		Children:      req.Children,
		GiftCardCode:  req.GiftCardCode,
	})
	if err != nil {
		respondServiceError(w, r, err, "trip or gift card not found")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetBooking handles GET /api/v1/bookings/{reference}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.bookings.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		respondServiceError(w, r, err, "booking not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// ExportBookings handles GET /api/v1/admin/bookings/export.
// Streams all bookings as a CSV download, one flat row per booking.
func (s *Server) ExportBookings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.bookings.Export(r.Context())
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"reference", "customer_name", "customer_email", "route", "departure_time", "seats", "total_price", "status", "created_at"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.Reference,
			row.CustomerName,
			row.CustomerEmail,
			row.RouteName,
			row.DepartureTime,
			strconv.Itoa(row.Seats),
			strconv.FormatFloat(row.TotalPrice, 'f', 2, 64),
			row.Status,
			row.CreatedAt,
		})
	}
	cw.Flush()
}
