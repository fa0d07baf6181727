package request

type RequestRefundRequest struct {
	PaymentID string `json:"payment_id" validate:"required,uuid4"`
	Amount    string `json:"amount" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}
