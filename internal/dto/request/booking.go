package request

type SeatSelection struct {
	SeatID string `json:"seat_id" validate:"required,uuid4"`
	Price  string `json:"price" validate:"required"`
}

type ConcessionSelection struct {
	ConcessionID string `json:"concession_id" validate:"required,uuid4"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
}

type CreateBookingRequest struct {
	UserID         string                `json:"user_id" validate:"required,uuid4"`
	ShowtimeID     string                `json:"showtime_id" validate:"required,uuid4"`
	CustomerName   string                `json:"customer_name" validate:"required"`
	CustomerEmail  string                `json:"customer_email" validate:"required,email"`
	CustomerPhone  string                `json:"customer_phone,omitempty"`
	Seats          []SeatSelection       `json:"seats" validate:"required,min=1,dive"`
	Concessions    []ConcessionSelection `json:"concessions,omitempty" validate:"omitempty,dive"`
	PromotionCode  *string               `json:"promotion_code,omitempty"`
	PointsToRedeem int64                 `json:"points_to_redeem,omitempty" validate:"omitempty,min=1"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor,omitempty"`
}
