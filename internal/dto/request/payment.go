package request

type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Method    string `json:"method" validate:"required"`
}

// ProviderCallbackRequest is the normalized shape of the inbound provider
// webhook after the transport layer has verified it.
type ProviderCallbackRequest struct {
	ProviderTransactionID string `json:"provider_transaction_id" validate:"required"`
	Outcome               string `json:"outcome" validate:"required,oneof=success failure"`
}
