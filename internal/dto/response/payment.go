package response

import (
	"time"

	"cinema-checkout/internal/data/entity"
)

type PaymentResponse struct {
	ID                    string               `json:"id"`
	BookingID             string               `json:"booking_id"`
	Amount                string               `json:"amount"`
	Method                string               `json:"method"`
	Status                entity.PaymentStatus `json:"status"`
	TransactionID         *string              `json:"transaction_id,omitempty"`
	ProviderTransactionID *string              `json:"provider_transaction_id,omitempty"`
	PaidAt                *time.Time           `json:"paid_at,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
}

// PaymentInitResponse is returned by InitiatePayment. PaymentURL is set for
// redirect-based methods.
type PaymentInitResponse struct {
	PaymentResponse
	PaymentURL string `json:"payment_url,omitempty"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                    p.ID.String(),
		BookingID:             p.BookingID.String(),
		Amount:                p.Amount.String(),
		Method:                p.Method,
		Status:                p.Status,
		TransactionID:         p.TransactionID,
		ProviderTransactionID: p.ProviderTransactionID,
		PaidAt:                p.PaidAt,
		CreatedAt:             p.CreatedAt,
	}
}
