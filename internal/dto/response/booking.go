package response

import (
	"time"

	"cinema-checkout/internal/data/entity"
)

type BookingResponse struct {
	ID             string               `json:"id"`
	BookingCode    string               `json:"booking_code"`
	UserID         string               `json:"user_id"`
	ShowtimeID     string               `json:"showtime_id"`
	CustomerName   string               `json:"customer_name"`
	CustomerEmail  string               `json:"customer_email"`
	Subtotal       string               `json:"subtotal"`
	Discount       string               `json:"discount"`
	PointsUsed     int64                `json:"points_used"`
	PointsDiscount string               `json:"points_discount"`
	FinalAmount    string               `json:"final_amount"`
	PromotionCode  *string              `json:"promotion_code,omitempty"`
	Status         entity.BookingStatus `json:"status"`
	PaymentStatus  entity.PaymentStatus `json:"payment_status"`
	ExpiresAt      time.Time            `json:"expires_at"`
	CreatedAt      time.Time            `json:"created_at"`
}

type TicketResponse struct {
	ID         string              `json:"id"`
	SeatID     string              `json:"seat_id"`
	TicketCode string              `json:"ticket_code"`
	Price      string              `json:"price"`
	Status     entity.TicketStatus `json:"status"`
}

type BookingConcessionResponse struct {
	ConcessionID string `json:"concession_id"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
}

type ConcessionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}

type BookingDetailResponse struct {
	BookingResponse
	Tickets     []TicketResponse            `json:"tickets,omitempty"`
	Concessions []BookingConcessionResponse `json:"concessions,omitempty"`
	Payments    []PaymentResponse           `json:"payments,omitempty"`
}

// Helper converters

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID.String(),
		BookingCode:    b.BookingCode,
		UserID:         b.UserID.String(),
		ShowtimeID:     b.ShowtimeID.String(),
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		Subtotal:       b.Subtotal.String(),
		Discount:       b.Discount.String(),
		PointsUsed:     b.PointsUsed,
		PointsDiscount: b.PointsDiscount.String(),
		FinalAmount:    b.FinalAmount.String(),
		PromotionCode:  b.PromotionCode,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		ExpiresAt:      b.ExpiresAt,
		CreatedAt:      b.CreatedAt,
	}
}

func TicketToResponse(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID.String(),
		SeatID:     t.SeatID.String(),
		TicketCode: t.TicketCode,
		Price:      t.Price.String(),
		Status:     t.Status,
	}
}

func ConcessionToResponse(c *entity.Concession) ConcessionResponse {
	return ConcessionResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price.String(),
	}
}

func BookingConcessionToResponse(item *entity.BookingConcession) BookingConcessionResponse {
	return BookingConcessionResponse{
		ConcessionID: item.ConcessionID.String(),
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice.String(),
		TotalPrice:   item.TotalPrice.String(),
	}
}
