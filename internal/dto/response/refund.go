package response

import (
	"time"

	"cinema-checkout/internal/data/entity"
)

type RefundResponse struct {
	ID         string              `json:"id"`
	PaymentID  string              `json:"payment_id"`
	Amount     string              `json:"amount"`
	Status     entity.RefundStatus `json:"status"`
	Reason     string              `json:"reason"`
	RefundedAt *time.Time          `json:"refunded_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func RefundToResponse(r *entity.Refund) RefundResponse {
	return RefundResponse{
		ID:         r.ID.String(),
		PaymentID:  r.PaymentID.String(),
		Amount:     r.Amount.String(),
		Status:     r.Status,
		Reason:     r.Reason,
		RefundedAt: r.RefundedAt,
		CreatedAt:  r.CreatedAt,
	}
}
