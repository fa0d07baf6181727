package wire

import (
	"net/http"

	"cinema-checkout/internal/adaptor"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/internal/usecase"
	"cinema-checkout/pkg/middleware"
	"cinema-checkout/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
	catalog gateway.SeatCatalog,
	provider gateway.PaymentProvider,
	publisher gateway.EventPublisher,
) *App {
	service := usecase.NewService(repo, config, logger, catalog, provider, publisher)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireBooking(r, handler.Booking, handler.Concession)
	wirePayment(r, handler.Payment, handler.Refund)
	wireLoyalty(r, handler.Loyalty)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
