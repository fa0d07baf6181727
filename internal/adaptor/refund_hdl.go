package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// RequestRefund handles POST /api/refunds
func (h *RefundHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	var req request.RequestRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	refund, err := h.service.RequestRefund(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "request refund")
		return
	}

	utils.ResponseCreated(w, "success", refund)
}

// GetRefundsByPayment handles GET /api/payments/{id}/refunds
func (h *RefundHandler) GetRefundsByPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid payment ID", nil)
		return
	}

	refunds, err := h.service.GetRefundsByPayment(r.Context(), paymentID)
	if err != nil {
		handleServiceError(w, h.log, err, "get refunds by payment")
		return
	}

	utils.ResponseSuccess(w, "success", refunds)
}
