// Package domain contains the core data types for the AtlasBus booking API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Destination is a city served by the network (e.g. Paris, Casablanca).
// Name is the user-facing label that search input is fuzzy-matched against.
// Inactive destinations are invisible to search but kept for admin history.
type Destination struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"` // short station code, e.g. "CAS"
	Country   string    `json:"country"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
