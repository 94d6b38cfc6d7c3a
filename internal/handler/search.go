package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/atlasbus/backend/internal/domain"
)

// Search handles GET /api/v1/search.
//
// Query parameters:
//
//	from, to   free-text cities, required (may include ", Country")
//	date       "2006-01-02" for a whole-day search, or RFC 3339 for a
//	           forward search from that instant; omitted = any future date
//	adults     default 1
//	children   default 0
//	trip_type  "one-way" (default) or "round-trip"
//
// The session id, when present in X-Session-ID, lets the resolver remember
// the parameters for GET /api/v1/search/last.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := domain.SearchParams{
		FromCity:  q.Get("from"),
		ToCity:    q.Get("to"),
		Adults:    1,
		TripType:  domain.TripTypeOneWay,
		SessionID: r.Header.Get("X-Session-ID"),
	}
	if params.FromCity == "" || params.ToCity == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "from and to are required")
		return
	}

	if raw := q.Get("date"); raw != "" {
		d, err := parseSearchDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD or RFC 3339")
			return
		}
		params.DepartureDate = &d
	}
	if v, err := strconv.Atoi(q.Get("adults")); err == nil {
		params.Adults = v
	}
	if v, err := strconv.Atoi(q.Get("children")); err == nil {
		params.Children = v
	}
	if t := q.Get("trip_type"); t != "" {
		params.TripType = t
	}

	result, err := s.search.Search(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, err, "search failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLastSearch handles GET /api/v1/search/last.
// Returns the parameters of the session's last successful search, or 404
// when the session has none (or it expired).
func (s *Server) GetLastSearch(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "X-Session-ID header is required")
		return
	}

	last, ok := s.lastSearch.Get(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no recent search for this session")
		return
	}

	respondJSON(w, http.StatusOK, last)
}

// parseSearchDate accepts a calendar date (midnight, meaning "whole day") or
// a full RFC 3339 instant (meaning "from this time onward").
func parseSearchDate(raw string) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}
