package adaptor

import (
	"net/http"

	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LoyaltyHandler struct {
	service usecase.LoyaltyService
	log     *zap.Logger
}

func NewLoyaltyHandler(service usecase.LoyaltyService, log *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		service: service,
		log:     log.With(zap.String("handler", "loyalty")),
	}
}

// GetAccount handles GET /api/users/{id}/loyalty
func (h *LoyaltyHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	account, err := h.service.GetAccount(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get loyalty account")
		return
	}

	utils.ResponseSuccess(w, "success", account)
}

// GetHistory handles GET /api/users/{id}/loyalty/history
func (h *LoyaltyHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	history, err := h.service.GetHistory(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get loyalty history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}
