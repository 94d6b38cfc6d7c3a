package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bus is a vehicle operated by a partner company. It is joined onto trips for
// display only; the search core never filters on bus attributes.
type Bus struct {
	ID          uuid.UUID `json:"id"`
	Model       string    `json:"model"`
	Brand       string    `json:"brand"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"` // e.g. "wifi", "usb", "wc"
	PlateNumber string    `json:"plate_number"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
