package wire

import (
	"cinema-checkout/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, refundHandler *adaptor.RefundHandler) {
	r.Route("/api/payments", func(r chi.Router) {
		// POST /api/payments - Initiate a charge for a pending booking
		r.Post("/", paymentHandler.InitiatePayment)

		// POST /api/payments/callback - Provider outcome webhook
		r.Post("/callback", paymentHandler.ProviderCallback)

		// GET /api/payments/{id} - Payment detail
		r.Get("/{id}", paymentHandler.GetPayment)

		// GET /api/payments/{id}/refunds - Refunds issued against a payment
		r.Get("/{id}/refunds", refundHandler.GetRefundsByPayment)
	})

	// POST /api/refunds - Request a full or partial refund
	r.Post("/api/refunds", refundHandler.RequestRefund)
}
