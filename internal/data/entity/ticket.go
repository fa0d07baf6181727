package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusValid     TicketStatus = "valid"
	TicketStatusUsed      TicketStatus = "used"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusExpired   TicketStatus = "expired"
)

// Ticket is issued at booking confirmation, one per held seat. SeatID
// references the external seat catalog.
type Ticket struct {
	Base
	BookingID  uuid.UUID       `db:"booking_id"`
	SeatID     uuid.UUID       `db:"seat_id"`
	TicketCode string          `db:"ticket_code"`
	QRCode     *string         `db:"qr_code"`
	Barcode    *string         `db:"barcode"`
	Price      decimal.Decimal `db:"price"`
	Status     TicketStatus    `db:"status"`
	UsedAt     *time.Time      `db:"used_at"`
}
