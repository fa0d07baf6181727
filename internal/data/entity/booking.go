package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions is the authoritative edge table for Booking.Status.
// Cancelled, expired and completed are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
}

// CanTransition reports whether from -> to is a legal booking status edge.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	Base
	BookingCode        string          `db:"booking_code"`
	UserID             uuid.UUID       `db:"user_id"`
	ShowtimeID         uuid.UUID       `db:"showtime_id"`
	CustomerName       string          `db:"customer_name"`
	CustomerEmail      string          `db:"customer_email"`
	CustomerPhone      string          `db:"customer_phone"`
	Subtotal           decimal.Decimal `db:"subtotal"`
	Discount           decimal.Decimal `db:"discount"`
	PointsUsed         int64           `db:"points_used"`
	PointsDiscount     decimal.Decimal `db:"points_discount"`
	FinalAmount        decimal.Decimal `db:"final_amount"`
	PromotionCode      *string         `db:"promotion_code"`
	Status             BookingStatus   `db:"status"`
	PaymentStatus      PaymentStatus   `db:"payment_status"`
	PaymentID          *uuid.UUID      `db:"payment_id"`
	HoldToken          *string         `db:"hold_token"`
	ExpiresAt          time.Time       `db:"expires_at"`
	CancelledAt        *time.Time      `db:"cancelled_at"`
	CancellationReason *string         `db:"cancellation_reason"`
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusExpired, BookingStatusCompleted:
		return true
	}
	return false
}
