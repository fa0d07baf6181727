package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingSeat snapshots one seat of the cart with its price at booking time.
// Tickets are issued from these rows when the booking is confirmed; the seat
// itself lives in the external catalog.
type BookingSeat struct {
	BaseSimple
	BookingID uuid.UUID       `db:"booking_id"`
	SeatID    uuid.UUID       `db:"seat_id"`
	Price     decimal.Decimal `db:"price"`
}
