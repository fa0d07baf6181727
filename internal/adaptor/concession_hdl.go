package adaptor

import (
	"net/http"

	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type ConcessionHandler struct {
	service usecase.ConcessionService
	log     *zap.Logger
}

func NewConcessionHandler(service usecase.ConcessionService, log *zap.Logger) *ConcessionHandler {
	return &ConcessionHandler{
		service: service,
		log:     log.With(zap.String("handler", "concession")),
	}
}

// GetAvailable handles GET /api/concessions
func (h *ConcessionHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	concessions, err := h.service.GetAvailable(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get concessions")
		return
	}

	utils.ResponseSuccess(w, "success", concessions)
}
