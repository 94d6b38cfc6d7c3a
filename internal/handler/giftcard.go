package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atlasbus/backend/internal/domain"
)

// giftCardRequest is the JSON body for purchasing a gift card.
type giftCardRequest struct {
	Amount        float64    `json:"amount"`
	RecipientName string     `json:"recipient_name"`
	Message       string     `json:"message"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// PurchaseGiftCard handles POST /api/v1/gift-cards.
func (s *Server) PurchaseGiftCard(w http.ResponseWriter, r *http.Request) {
	var req giftCardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.giftCards.Purchase(r.Context(), domain.GiftCard{
		InitialAmount: req.Amount,
		RecipientName: req.RecipientName,
		Message:       req.Message,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		respondServiceError(w, r, err, "")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetGiftCard handles GET /api/v1/gift-cards/{code}.
// Used by the checkout flow to show the remaining balance.
func (s *Server) GetGiftCard(w http.ResponseWriter, r *http.Request) {
	g, err := s.giftCards.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondServiceError(w, r, err, "gift card not found")
		return
	}
	respondJSON(w, http.StatusOK, g)
}

// RedeemGiftCard handles POST /api/v1/gift-cards/{code}/redeem.
func (s *Server) RedeemGiftCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	g, err := s.giftCards.Redeem(r.Context(), chi.URLParam(r, "code"), req.Amount)
	if err != nil {
		respondServiceError(w, r, err, "gift card not found")
		return
	}
	respondJSON(w, http.StatusOK, g)
}
