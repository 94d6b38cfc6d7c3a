package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse is the JSON envelope of paginated list endpoints.
type ListResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination echoes the effective page parameters plus the total row count.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a structured error body.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondServiceError maps a service-layer error onto an HTTP response.
// notFoundMsg names what was being looked up, because the handler is the
// layer that knows. Unexpected errors are logged and hidden behind a
// generic 500 so internals never leak to clients.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", notFoundMsg)
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", trimErrorPrefix(err))
	case errors.Is(err, domain.ErrInsufficientSeats):
		respondError(w, http.StatusConflict, "insufficient_seats", "not enough seats available")
	case errors.Is(err, domain.ErrGiftCardExhausted):
		respondError(w, http.StatusConflict, "gift_card_exhausted", "gift card cannot cover this amount")
	default:
		slog.ErrorContext(r.Context(), "handler error", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// trimErrorPrefix extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: price must not
// be negative" → "price must not be negative".
func trimErrorPrefix(err error) string {
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// decodeBody decodes a JSON request body into v, returning false (and writing
// a 400) when the body is missing or malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter, returning false (and writing a 400)
// when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", param+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryPagination reads optional ?page= and ?limit= parameters.
func queryPagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = &v
	}
	return domain.NewPaginationParams(page, limit)
}
