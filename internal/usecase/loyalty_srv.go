package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/internal/dto/response"
	"cinema-checkout/pkg/money"
	"cinema-checkout/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LoyaltyService interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*response.LoyaltyAccountResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]response.LoyaltyTransactionResponse, error)
	Redeem(ctx context.Context, userID uuid.UUID, points int64, bookingID uuid.UUID) error
	Earn(ctx context.Context, userID uuid.UUID, amountSpent decimal.Decimal, bookingID uuid.UUID) (int64, error)
	ReverseRedeem(ctx context.Context, userID uuid.UUID, points int64, bookingID uuid.UUID) error
	ExpirePoints(ctx context.Context, userID uuid.UUID, asOf time.Time) (int64, error)
}

// loyaltyParams holds the conversion rates and tier thresholds parsed once
// from configuration.
type loyaltyParams struct {
	earnRate          decimal.Decimal
	redeemRate        decimal.Decimal
	silverThreshold   decimal.Decimal
	goldThreshold     decimal.Decimal
	platinumThreshold decimal.Decimal
	expiryDays        int
}

func newLoyaltyParams(cfg utils.LoyaltyConfig, log *zap.Logger) loyaltyParams {
	parse := func(key, value, fallback string) decimal.Decimal {
		d, err := decimal.NewFromString(value)
		if err != nil {
			log.Warn("Invalid loyalty config value, using default",
				zap.String("key", key),
				zap.String("value", value),
				zap.String("default", fallback),
			)
			d, _ = decimal.NewFromString(fallback)
		}
		return d
	}

	return loyaltyParams{
		earnRate:          parse("LOYALTY_EARN_RATE", cfg.EarnRate, "0.01"),
		redeemRate:        parse("LOYALTY_REDEEM_RATE", cfg.RedeemRate, "10"),
		silverThreshold:   parse("LOYALTY_SILVER_THRESHOLD", cfg.SilverThreshold, "1000000"),
		goldThreshold:     parse("LOYALTY_GOLD_THRESHOLD", cfg.GoldThreshold, "5000000"),
		platinumThreshold: parse("LOYALTY_PLATINUM_THRESHOLD", cfg.PlatinumThreshold, "20000000"),
		expiryDays:        cfg.PointsExpiryDays,
	}
}

func tierFor(totalSpent decimal.Decimal, p loyaltyParams) entity.LoyaltyTier {
	switch {
	case totalSpent.GreaterThanOrEqual(p.platinumThreshold):
		return entity.LoyaltyTierPlatinum
	case totalSpent.GreaterThanOrEqual(p.goldThreshold):
		return entity.LoyaltyTierGold
	case totalSpent.GreaterThanOrEqual(p.silverThreshold):
		return entity.LoyaltyTierSilver
	default:
		return entity.LoyaltyTierBronze
	}
}

type loyaltyService struct {
	repo   *repository.Repository
	params loyaltyParams
	log    *zap.Logger
}

func NewLoyaltyService(repo *repository.Repository, params loyaltyParams, log *zap.Logger) LoyaltyService {
	return &loyaltyService{
		repo:   repo,
		params: params,
		log:    log.With(zap.String("service", "loyalty")),
	}
}

func (s *loyaltyService) GetAccount(ctx context.Context, userID uuid.UUID) (*response.LoyaltyAccountResponse, error) {
	account, err := s.repo.LoyaltyAccount.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("loyalty account for user %s: %w", userID.String(), entity.ErrNotFound)
	}

	resp := response.LoyaltyAccountToResponse(account)
	return &resp, nil
}

func (s *loyaltyService) GetHistory(ctx context.Context, userID uuid.UUID) ([]response.LoyaltyTransactionResponse, error) {
	account, err := s.repo.LoyaltyAccount.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("loyalty account for user %s: %w", userID.String(), entity.ErrNotFound)
	}

	txs, err := s.repo.LoyaltyTransaction.FindByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	history := make([]response.LoyaltyTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		history = append(history, response.LoyaltyTransactionToResponse(tx))
	}
	return history, nil
}

func (s *loyaltyService) Redeem(ctx context.Context, userID uuid.UUID, points int64, bookingID uuid.UUID) error {
	if points <= 0 {
		return fmt.Errorf("redeemed points must be positive: %w", entity.ErrValidation)
	}

	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		return redeemPoints(ctx, r, userID, points, bookingID, time.Now())
	})
	if err != nil {
		return err
	}

	s.log.Info("Points redeemed",
		zap.String("user_id", userID.String()),
		zap.Int64("points", points),
		zap.String("booking_id", bookingID.String()),
	)
	return nil
}

func (s *loyaltyService) Earn(ctx context.Context, userID uuid.UUID, amountSpent decimal.Decimal, bookingID uuid.UUID) (int64, error) {
	var earned int64
	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		var err error
		earned, err = earnPoints(ctx, r, s.params, userID, amountSpent, bookingID, time.Now())
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("Points earned",
		zap.String("user_id", userID.String()),
		zap.Int64("points", earned),
		zap.String("booking_id", bookingID.String()),
	)
	return earned, nil
}

func (s *loyaltyService) ReverseRedeem(ctx context.Context, userID uuid.UUID, points int64, bookingID uuid.UUID) error {
	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		return reverseRedeem(ctx, r, userID, points, bookingID, time.Now())
	})
	if err != nil {
		return err
	}

	s.log.Info("Redemption reversed",
		zap.String("user_id", userID.String()),
		zap.Int64("points", points),
		zap.String("booking_id", bookingID.String()),
	)
	return nil
}

func (s *loyaltyService) ExpirePoints(ctx context.Context, userID uuid.UUID, asOf time.Time) (int64, error) {
	var expired int64
	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		var err error
		expired, err = expirePoints(ctx, r, userID, asOf)
		return err
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		s.log.Info("Points expired",
			zap.String("user_id", userID.String()),
			zap.Int64("points", expired),
		)
	}
	return expired, nil
}

// loyaltyAccountFor finds the user's account, creating an empty bronze one
// on first contact.
func loyaltyAccountFor(ctx context.Context, r *repository.Repository, userID uuid.UUID, now time.Time) (*entity.LoyaltyAccount, error) {
	account, err := r.LoyaltyAccount.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	account = &entity.LoyaltyAccount{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		CurrentPoints: 0,
		Tier:          entity.LoyaltyTierBronze,
		TotalSpent:    decimal.Zero,
	}
	if err := r.LoyaltyAccount.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// redeemPoints deducts points and appends the redeem ledger row. The balance
// check and the deduction happen in the caller's transaction.
func redeemPoints(ctx context.Context, r *repository.Repository, userID uuid.UUID, points int64, bookingID uuid.UUID, now time.Time) error {
	account, err := loyaltyAccountFor(ctx, r, userID, now)
	if err != nil {
		return err
	}

	if account.CurrentPoints < points {
		return fmt.Errorf("balance %d, requested %d: %w", account.CurrentPoints, points, entity.ErrInsufficientPoints)
	}

	row := &entity.LoyaltyTransaction{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		AccountID:     account.ID,
		Points:        -points,
		Type:          entity.LoyaltyTxRedeem,
		Description:   "points redeemed",
		TransactionID: &bookingID,
	}
	if err := r.LoyaltyTransaction.Create(ctx, row); err != nil {
		return err
	}

	account.CurrentPoints -= points
	account.UpdatedAt = now
	return r.LoyaltyAccount.Update(ctx, account)
}

// earnPoints credits points for an amount spent, advances total_spent and
// recomputes the tier.
func earnPoints(ctx context.Context, r *repository.Repository, p loyaltyParams, userID uuid.UUID, amountSpent decimal.Decimal, bookingID uuid.UUID, now time.Time) (int64, error) {
	account, err := loyaltyAccountFor(ctx, r, userID, now)
	if err != nil {
		return 0, err
	}

	earned := money.EarnedPoints(amountSpent, p.earnRate)
	if earned > 0 {
		row := &entity.LoyaltyTransaction{
			BaseSimple: entity.BaseSimple{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
			},
			AccountID:     account.ID,
			Points:        earned,
			Type:          entity.LoyaltyTxEarn,
			Description:   "points earned",
			TransactionID: &bookingID,
		}
		if p.expiryDays > 0 {
			expiresAt := now.AddDate(0, 0, p.expiryDays)
			row.ExpiresAt = &expiresAt
		}
		if err := r.LoyaltyTransaction.Create(ctx, row); err != nil {
			return 0, err
		}
	}

	account.CurrentPoints += earned
	account.TotalSpent = account.TotalSpent.Add(amountSpent)
	account.Tier = tierFor(account.TotalSpent, p)
	account.UpdatedAt = now
	if err := r.LoyaltyAccount.Update(ctx, account); err != nil {
		return 0, err
	}
	return earned, nil
}

// reverseRedeem gives back points deducted for a booking that did not go
// through. The compensating row is redeem-typed with a positive amount so
// earn-row accounting stays untouched.
func reverseRedeem(ctx context.Context, r *repository.Repository, userID uuid.UUID, points int64, bookingID uuid.UUID, now time.Time) error {
	if points <= 0 {
		return nil
	}

	account, err := loyaltyAccountFor(ctx, r, userID, now)
	if err != nil {
		return err
	}

	row := &entity.LoyaltyTransaction{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		AccountID:     account.ID,
		Points:        points,
		Type:          entity.LoyaltyTxRedeem,
		Description:   "redemption reversed",
		TransactionID: &bookingID,
	}
	if err := r.LoyaltyTransaction.Create(ctx, row); err != nil {
		return err
	}

	account.CurrentPoints += points
	account.UpdatedAt = now
	return r.LoyaltyAccount.Update(ctx, account)
}

// reverseEarn claws back points earned on a booking that was later fully
// refunded. It nets out earlier earn rows for the booking and never drives
// the balance negative.
func reverseEarn(ctx context.Context, r *repository.Repository, userID uuid.UUID, bookingID uuid.UUID, now time.Time) error {
	account, err := r.LoyaltyAccount.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	rows, err := r.LoyaltyTransaction.FindByBookingID(ctx, account.ID, bookingID)
	if err != nil {
		return err
	}

	var net int64
	for _, row := range rows {
		if row.Type == entity.LoyaltyTxEarn {
			net += row.Points
		}
	}
	if net <= 0 {
		return nil
	}
	if net > account.CurrentPoints {
		net = account.CurrentPoints
	}
	if net == 0 {
		return nil
	}

	row := &entity.LoyaltyTransaction{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		AccountID:     account.ID,
		Points:        -net,
		Type:          entity.LoyaltyTxEarn,
		Description:   "earned points reversed after refund",
		TransactionID: &bookingID,
	}
	if err := r.LoyaltyTransaction.Create(ctx, row); err != nil {
		return err
	}

	account.CurrentPoints -= net
	account.UpdatedAt = now
	return r.LoyaltyAccount.Update(ctx, account)
}

// expirePoints appends an expire row per lapsed earn row. Expiry never takes
// more than the current balance.
func expirePoints(ctx context.Context, r *repository.Repository, userID uuid.UUID, asOf time.Time) (int64, error) {
	account, err := r.LoyaltyAccount.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, nil
	}

	expirable, err := r.LoyaltyTransaction.FindExpirable(ctx, account.ID, asOf)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, earn := range expirable {
		if account.CurrentPoints <= 0 {
			break
		}

		points := earn.Points
		if points > account.CurrentPoints {
			points = account.CurrentPoints
		}

		sourceID := earn.ID
		row := &entity.LoyaltyTransaction{
			BaseSimple: entity.BaseSimple{
				ID:        utils.GenerateUUID(),
				CreatedAt: asOf,
			},
			AccountID:     account.ID,
			Points:        -points,
			Type:          entity.LoyaltyTxExpire,
			Description:   "points expired",
			TransactionID: &sourceID,
		}
		if err := r.LoyaltyTransaction.Create(ctx, row); err != nil {
			return 0, err
		}

		account.CurrentPoints -= points
		total += points
	}

	if total > 0 {
		account.UpdatedAt = asOf
		if err := r.LoyaltyAccount.Update(ctx, account); err != nil {
			return 0, err
		}
	}
	return total, nil
}
