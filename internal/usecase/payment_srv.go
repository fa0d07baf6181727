package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, req *request.InitiatePaymentRequest) (*response.PaymentInitResponse, error)
	// HandleProviderCallback processes the provider's outcome webhook.
	// Duplicate deliveries for a settled payment are acknowledged without
	// side effects.
	HandleProviderCallback(ctx context.Context, req *request.ProviderCallbackRequest) error
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	provider gateway.PaymentProvider
	bookings BookingService
	refunds  RefundService
	log      *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	provider gateway.PaymentProvider,
	bookings BookingService,
	refunds RefundService,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:     repo,
		provider: provider,
		bookings: bookings,
		refunds:  refunds,
		log:      log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, req *request.InitiatePaymentRequest) (*response.PaymentInitResponse, error) {
	bookingID, err := utils.ParseUUID(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", entity.ErrValidation)
	}

	now := time.Now()

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, entity.ErrNotFound)
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is %s: %w", booking.BookingCode, booking.Status, entity.ErrStateConflict)
	}
	if now.After(booking.ExpiresAt) {
		return nil, fmt.Errorf("booking %s hold has lapsed: %w", booking.BookingCode, entity.ErrStateConflict)
	}

	// One live payment per booking. A failed attempt clears the way for a
	// retry; anything still in flight or already captured blocks a second
	// charge.
	existing, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, p := range existing {
		switch p.Status {
		case entity.PaymentStatusPending, entity.PaymentStatusProcessing, entity.PaymentStatusCompleted:
			return nil, fmt.Errorf("booking %s already has payment %s (%s): %w",
				booking.BookingCode, p.ID.String(), p.Status, entity.ErrStateConflict)
		}
	}

	payment := &entity.Payment{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: bookingID,
		Amount:    booking.FinalAmount,
		Method:    req.Method,
		Status:    entity.PaymentStatusPending,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, err
	}

	charge, err := s.provider.CreateCharge(ctx, payment.Amount, payment.Method, booking.BookingCode)
	if err != nil {
		payment.Status = entity.PaymentStatusFailed
		payment.UpdatedAt = time.Now()
		if updErr := s.repo.Payment.Update(ctx, payment); updErr != nil {
			s.log.Error("Failed to mark payment as failed", zap.Error(updErr))
		}
		if errors.Is(err, entity.ErrProvider) {
			return nil, fmt.Errorf("charge for booking %s: %w", booking.BookingCode, entity.ErrPaymentFailed)
		}
		return nil, err
	}

	payment.Status = entity.PaymentStatusProcessing
	payment.ProviderTransactionID = &charge.ProviderTxnID
	payment.UpdatedAt = time.Now()
	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.repo.Booking.UpdatePaymentStatus(ctx, bookingID, entity.PaymentStatusProcessing); err != nil {
		return nil, err
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("provider_txn_id", charge.ProviderTxnID),
		zap.String("amount", payment.Amount.String()),
	)

	return &response.PaymentInitResponse{
		PaymentResponse: response.PaymentToResponse(payment),
		PaymentURL:      charge.PaymentURL,
	}, nil
}

func (s *paymentService) HandleProviderCallback(ctx context.Context, req *request.ProviderCallbackRequest) error {
	payment, err := s.repo.Payment.FindByProviderTransactionID(ctx, req.ProviderTransactionID)
	if err != nil {
		return err
	}
	if payment == nil {
		return fmt.Errorf("payment for provider transaction %s: %w", req.ProviderTransactionID, entity.ErrNotFound)
	}

	switch payment.Status {
	case entity.PaymentStatusCompleted, entity.PaymentStatusFailed, entity.PaymentStatusRefunded:
		s.log.Info("Duplicate provider callback ignored",
			zap.String("payment_id", payment.ID.String()),
			zap.String("provider_txn_id", req.ProviderTransactionID),
		)
		return nil
	}

	now := time.Now()

	if req.Outcome != "success" {
		payment.Status = entity.PaymentStatusFailed
		payment.UpdatedAt = now
		if err := s.repo.Payment.Update(ctx, payment); err != nil {
			return err
		}
		if err := s.repo.Booking.UpdatePaymentStatus(ctx, payment.BookingID, entity.PaymentStatusFailed); err != nil {
			return err
		}

		// The booking stays pending; the customer can retry with a new
		// payment until the hold lapses.
		s.log.Info("Payment failed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("booking_id", payment.BookingID.String()),
		)
		return nil
	}

	payment.Status = entity.PaymentStatusCompleted
	payment.PaidAt = &now
	payment.UpdatedAt = now
	if err := s.repo.Payment.Update(ctx, payment); err != nil {
		return err
	}

	s.log.Info("Payment completed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", payment.BookingID.String()),
	)

	if err := s.bookings.ConfirmBooking(ctx, payment.BookingID, payment.ID); err != nil {
		if errors.Is(err, entity.ErrStateConflict) {
			// Money is captured but the booking cannot take it: it expired,
			// was cancelled, or another payment confirmed it first. Give the
			// money back and acknowledge the callback.
			s.log.Error("Payment completed but booking not confirmable, refunding",
				zap.Error(err),
				zap.String("payment_id", payment.ID.String()),
				zap.String("booking_id", payment.BookingID.String()),
			)
			if _, refErr := s.refunds.RefundPayment(ctx, payment.ID, payment.Amount, "booking not confirmable"); refErr != nil {
				s.log.Error("Compensating refund failed, needs manual follow-up",
					zap.Error(refErr),
					zap.String("payment_id", payment.ID.String()),
				)
			}
			return nil
		}
		return err
	}

	return nil
}

func (s *paymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*response.PaymentResponse, error) {
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID.String(), entity.ErrNotFound)
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}
