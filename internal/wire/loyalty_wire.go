package wire

import (
	"cinema-checkout/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireLoyalty(r chi.Router, loyaltyHandler *adaptor.LoyaltyHandler) {
	// GET /api/users/{id}/loyalty - Account balance and tier
	r.Get("/api/users/{id}/loyalty", loyaltyHandler.GetAccount)

	// GET /api/users/{id}/loyalty/history - Full ledger history
	r.Get("/api/users/{id}/loyalty/history", loyaltyHandler.GetHistory)
}
