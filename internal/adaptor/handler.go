package adaptor

import (
	"errors"
	"net/http"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking    *BookingHandler
	Payment    *PaymentHandler
	Refund     *RefundHandler
	Loyalty    *LoyaltyHandler
	Concession *ConcessionHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:    NewBookingHandler(service.Booking, log),
		Payment:    NewPaymentHandler(service.Payment, log),
		Refund:     NewRefundHandler(service.Refund, log),
		Loyalty:    NewLoyaltyHandler(service.Loyalty, log),
		Concession: NewConcessionHandler(service.Concession, log),
	}
}

// handleServiceError maps domain sentinel errors onto HTTP responses. All
// handlers share this mapping so the API surfaces conflicts and domain rule
// violations consistently.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrValidation):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrStateConflict),
		errors.Is(err, entity.ErrInvalidTransition):
		log.Warn(operation+" failed - state conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, entity.ErrSeatUnavailable),
		errors.Is(err, entity.ErrInsufficientPoints),
		errors.Is(err, entity.ErrPromotionNotFound),
		errors.Is(err, entity.ErrPromotionExpired),
		errors.Is(err, entity.ErrPromotionInactive),
		errors.Is(err, entity.ErrUsageLimitExceeded),
		errors.Is(err, entity.ErrMinPurchaseNotMet),
		errors.Is(err, entity.ErrPaymentNotRefundable),
		errors.Is(err, entity.ErrRefundExceedsPayment),
		errors.Is(err, entity.ErrPaymentFailed):
		log.Warn(operation+" failed - domain rule", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
