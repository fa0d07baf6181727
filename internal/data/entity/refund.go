package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
)

type Refund struct {
	Base
	PaymentID        uuid.UUID       `db:"payment_id"`
	Amount           decimal.Decimal `db:"amount"`
	Status           RefundStatus    `db:"status"`
	Reason           string          `db:"reason"`
	ProviderRefundID *string         `db:"provider_refund_id"`
	RefundedAt       *time.Time      `db:"refunded_at"`
}
