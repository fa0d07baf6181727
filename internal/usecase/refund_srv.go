package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/internal/gateway"
	"cinema-checkout/pkg/money"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RefundService interface {
	RequestRefund(ctx context.Context, req *request.RequestRefundRequest) (*response.RefundResponse, error)
	// RefundPayment issues a refund against a completed payment. Partial
	// refunds are allowed; the running total never exceeds the payment.
	RefundPayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal, reason string) (*response.RefundResponse, error)
	// RemainingRefundable is the payment amount minus refunds already
	// completed or reserved.
	RemainingRefundable(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error)
	GetRefundsByPayment(ctx context.Context, paymentID uuid.UUID) ([]response.RefundResponse, error)
}

type refundService struct {
	repo      *repository.Repository
	provider  gateway.PaymentProvider
	publisher gateway.EventPublisher
	log       *zap.Logger
}

func NewRefundService(
	repo *repository.Repository,
	provider gateway.PaymentProvider,
	publisher gateway.EventPublisher,
	log *zap.Logger,
) RefundService {
	return &refundService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log.With(zap.String("service", "refund")),
	}
}

func (s *refundService) RequestRefund(ctx context.Context, req *request.RequestRefundRequest) (*response.RefundResponse, error) {
	paymentID, err := utils.ParseUUID(req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID: %w", entity.ErrValidation)
	}

	amount, err := money.FromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("refund amount must be a positive decimal: %w", entity.ErrValidation)
	}

	return s.RefundPayment(ctx, paymentID, amount, req.Reason)
}

func (s *refundService) RefundPayment(ctx context.Context, paymentID uuid.UUID, amount decimal.Decimal, reason string) (*response.RefundResponse, error) {
	now := time.Now()

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID.String(), entity.ErrNotFound)
	}
	if payment.Status != entity.PaymentStatusCompleted {
		return nil, fmt.Errorf("payment %s is %s: %w", paymentID.String(), payment.Status, entity.ErrPaymentNotRefundable)
	}
	if payment.ProviderTransactionID == nil {
		return nil, fmt.Errorf("payment %s has no provider transaction: %w", paymentID.String(), entity.ErrPaymentNotRefundable)
	}

	// The reservation is a single guarded update, so two concurrent refund
	// requests can never both fit into the same remaining amount.
	refundedTotal, ok, err := s.repo.Payment.ReserveRefund(ctx, paymentID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.repo.Payment.FindByID(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		if current == nil || current.Status != entity.PaymentStatusCompleted {
			return nil, fmt.Errorf("payment %s is no longer refundable: %w", paymentID.String(), entity.ErrPaymentNotRefundable)
		}
		remaining := current.Amount.Sub(current.RefundedAmount)
		return nil, fmt.Errorf("refund %s exceeds remaining refundable %s: %w",
			amount.String(), remaining.String(), entity.ErrRefundExceedsPayment)
	}

	refund := &entity.Refund{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PaymentID: paymentID,
		Amount:    amount,
		Status:    entity.RefundStatusPending,
		Reason:    reason,
	}
	if err := s.repo.Refund.Create(ctx, refund); err != nil {
		return nil, err
	}

	providerRefundID, err := s.provider.CreateRefund(ctx, *payment.ProviderTransactionID, amount)
	if err != nil {
		refund.Status = entity.RefundStatusFailed
		refund.UpdatedAt = time.Now()
		if updErr := s.repo.Refund.Update(ctx, refund); updErr != nil {
			s.log.Error("Failed to mark refund as failed", zap.Error(updErr))
		}
		if relErr := s.repo.Payment.ReleaseRefund(ctx, paymentID, amount); relErr != nil {
			s.log.Error("Failed to release refund reservation", zap.Error(relErr))
		}
		return nil, err
	}

	completedAt := time.Now()
	refund.Status = entity.RefundStatusCompleted
	refund.ProviderRefundID = &providerRefundID
	refund.RefundedAt = &completedAt
	refund.UpdatedAt = completedAt
	if err := s.repo.Refund.Update(ctx, refund); err != nil {
		return nil, err
	}

	fullyRefunded := refundedTotal.Equal(payment.Amount)
	if fullyRefunded {
		err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
			payment.Status = entity.PaymentStatusRefunded
			payment.UpdatedAt = completedAt
			if err := r.Payment.Update(ctx, payment); err != nil {
				return err
			}

			booking, err := r.Booking.FindByID(ctx, payment.BookingID)
			if err != nil {
				return err
			}
			if booking == nil {
				return fmt.Errorf("booking %s: %w", payment.BookingID.String(), entity.ErrNotFound)
			}

			// A booking confirmed by a different payment keeps its money
			// state; only the duplicate capture itself is unwound.
			if booking.PaymentID != nil && *booking.PaymentID != payment.ID {
				return nil
			}

			if err := r.Booking.UpdatePaymentStatus(ctx, payment.BookingID, entity.PaymentStatusRefunded); err != nil {
				return err
			}
			return reverseEarn(ctx, r, booking.UserID, payment.BookingID, completedAt)
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Info("Refund completed",
		zap.String("refund_id", refund.ID.String()),
		zap.String("payment_id", paymentID.String()),
		zap.String("amount", amount.String()),
		zap.Bool("full_refund", fullyRefunded),
	)

	event := gateway.RefundCompletedEvent{
		RefundID:  refund.ID.String(),
		PaymentID: paymentID.String(),
		BookingID: payment.BookingID.String(),
		Amount:    amount.String(),
	}
	if err := s.publisher.Publish(ctx, gateway.QueueRefundCompleted, event); err != nil {
		s.log.Error("Failed to publish refund completed event", zap.Error(err))
	}

	resp := response.RefundToResponse(refund)
	return &resp, nil
}

func (s *refundService) RemainingRefundable(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error) {
	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	if payment == nil {
		return decimal.Zero, fmt.Errorf("payment %s: %w", paymentID.String(), entity.ErrNotFound)
	}

	// Reservations count against the remainder too, so an in-flight refund
	// is never double-spent.
	return payment.Amount.Sub(payment.RefundedAmount), nil
}

func (s *refundService) GetRefundsByPayment(ctx context.Context, paymentID uuid.UUID) ([]response.RefundResponse, error) {
	refunds, err := s.repo.Refund.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	data := make([]response.RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		data = append(data, response.RefundToResponse(r))
	}
	return data, nil
}
