package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. origin city equals destination city, negative price).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInsufficientSeats is returned when a booking requests more seats than a
// trip has available. The conditional seat decrement in the repo layer detects
// this without a read-modify-write race. Handlers should map this to HTTP 409.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrGiftCardExhausted is returned when a redemption amount exceeds the
// remaining balance of a gift card, or the card is inactive or expired.
// Handlers should map this to HTTP 409.
var ErrGiftCardExhausted = errors.New("gift card balance exhausted")
