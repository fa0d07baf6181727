package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/pkg/money"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PromotionResult is the priced outcome of applying a code to a cart.
// FreeItem and BonusPoints carry a zero discount; the flag tells the caller
// that the benefit is granted elsewhere.
type PromotionResult struct {
	Promotion   *entity.Promotion
	Discount    decimal.Decimal
	FreeItem    bool
	BonusPoints bool
}

type PromotionService interface {
	Evaluate(ctx context.Context, code string, subtotal decimal.Decimal, userID uuid.UUID, scopeTags []string) (*PromotionResult, error)
}

type promotionService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPromotionService(repo *repository.Repository, log *zap.Logger) PromotionService {
	return &promotionService{
		repo: repo,
		log:  log.With(zap.String("service", "promotion")),
	}
}

func (s *promotionService) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal, userID uuid.UUID, scopeTags []string) (*PromotionResult, error) {
	result, err := evaluatePromotion(ctx, s.repo, code, subtotal, userID, scopeTags, time.Now())
	if err != nil {
		s.log.Warn("Promotion evaluation failed",
			zap.Error(err),
			zap.String("code", code),
			zap.String("user_id", userID.String()),
		)
		return nil, err
	}

	s.log.Info("Promotion evaluated",
		zap.String("code", code),
		zap.String("discount", result.Discount.String()),
	)
	return result, nil
}

// evaluatePromotion is the stateless pricing function. It runs against
// whatever repository it is given so the booking aggregate can call it
// inside its own transaction.
func evaluatePromotion(ctx context.Context, r *repository.Repository, code string, subtotal decimal.Decimal, userID uuid.UUID, scopeTags []string, now time.Time) (*PromotionResult, error) {
	promo, err := r.Promotion.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, fmt.Errorf("promotion %s: %w", code, entity.ErrPromotionNotFound)
	}

	if !promo.Active {
		return nil, fmt.Errorf("promotion %s: %w", code, entity.ErrPromotionInactive)
	}

	if now.Before(promo.ValidFrom) || now.After(promo.ValidTo) {
		return nil, fmt.Errorf("promotion %s: %w", code, entity.ErrPromotionExpired)
	}

	if len(promo.ApplicableFor) > 0 && !tagsOverlap(promo.ApplicableFor, scopeTags) {
		return nil, fmt.Errorf("promotion %s not applicable for this cart: %w", code, entity.ErrPromotionInactive)
	}

	if promo.UsageLimit > 0 && promo.CurrentUsage >= promo.UsageLimit {
		return nil, fmt.Errorf("promotion %s: %w", code, entity.ErrUsageLimitExceeded)
	}

	if promo.UsagePerUser > 0 {
		used, err := r.Promotion.CountUsageByUser(ctx, promo.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= promo.UsagePerUser {
			return nil, fmt.Errorf("promotion %s per-user limit: %w", code, entity.ErrUsageLimitExceeded)
		}
	}

	if promo.MinPurchase != nil && subtotal.LessThan(*promo.MinPurchase) {
		return nil, fmt.Errorf("promotion %s requires %s: %w", code, promo.MinPurchase.String(), entity.ErrMinPurchaseNotMet)
	}

	result := &PromotionResult{Promotion: promo, Discount: decimal.Zero}

	switch promo.Type {
	case entity.PromotionTypePercentage:
		discount := money.Percentage(subtotal, promo.Value)
		if promo.MaxDiscount != nil {
			discount = money.Min(discount, *promo.MaxDiscount)
		}
		result.Discount = discount

	case entity.PromotionTypeFixedAmount:
		result.Discount = money.Min(promo.Value, subtotal)

	case entity.PromotionTypeFreeItem:
		result.FreeItem = true

	case entity.PromotionTypePoints:
		result.BonusPoints = true

	default:
		return nil, fmt.Errorf("promotion %s has unknown type %s: %w", code, promo.Type, entity.ErrValidation)
	}

	return result, nil
}

// recordPromotionUsage counts a redemption. It must run in the same
// transaction as booking confirmation so abandoned carts never consume the
// budget; the guarded increment keeps current_usage at or below usage_limit
// under concurrent confirmations.
func recordPromotionUsage(ctx context.Context, r *repository.Repository, promo *entity.Promotion, userID, bookingID uuid.UUID, now time.Time) error {
	ok, err := r.Promotion.IncrementUsage(ctx, promo.Code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("promotion %s: %w", promo.Code, entity.ErrUsageLimitExceeded)
	}

	usage := &entity.PromotionUsage{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		PromotionID: promo.ID,
		UserID:      userID,
		BookingID:   bookingID,
	}

	return r.Promotion.CreateUsage(ctx, usage)
}

func tagsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
