package usecase

import (
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking    BookingService
	Payment    PaymentService
	Refund     RefundService
	Loyalty    LoyaltyService
	Promotion  PromotionService
	Concession ConcessionService
	Sweeper    *SweeperService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
	catalog gateway.SeatCatalog,
	provider gateway.PaymentProvider,
	publisher gateway.EventPublisher,
) *Service {
	params := newLoyaltyParams(config.Loyalty, log)

	refund := NewRefundService(repo, provider, publisher, log)
	booking := NewBookingService(repo, catalog, publisher, refund, params, config.Booking, log)
	payment := NewPaymentService(repo, provider, booking, refund, log)

	return &Service{
		Booking:    booking,
		Payment:    payment,
		Refund:     refund,
		Loyalty:    NewLoyaltyService(repo, params, log),
		Promotion:  NewPromotionService(repo, log),
		Concession: NewConcessionService(repo, log),
		Sweeper:    NewSweeperService(repo, booking, config.Booking, log),
	}
}
