package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

type Payment struct {
	Base
	BookingID             uuid.UUID         `db:"booking_id"`
	Amount                decimal.Decimal   `db:"amount"`
	Method                string            `db:"payment_method"`
	Status                PaymentStatus     `db:"status"`
	RefundedAmount        decimal.Decimal   `db:"refunded_amount"`
	TransactionID         *string           `db:"transaction_id"`
	ProviderTransactionID *string           `db:"provider_transaction_id"`
	PaidAt                *time.Time        `db:"paid_at"`
	Metadata              map[string]string `db:"metadata"`
}
