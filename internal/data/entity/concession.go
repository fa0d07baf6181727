package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Concession is a catalog item (popcorn, drinks, combos).
type Concession struct {
	Base
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Available   bool            `db:"available"`
}

// BookingConcession is a line-item snapshot attached to a booking. Prices
// are copied at cart time so later catalog changes do not affect the booking.
type BookingConcession struct {
	BaseSimple
	BookingID    uuid.UUID       `db:"booking_id"`
	ConcessionID uuid.UUID       `db:"concession_id"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	TotalPrice   decimal.Decimal `db:"total_price"`
}
