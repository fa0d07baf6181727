package repository

import (
	"context"
	"fmt"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PromotionRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Promotion, error)

	// IncrementUsage bumps current_usage only while it is below usage_limit
	// (a zero limit means unlimited). Returns false when the limit is hit,
	// which keeps the counter from ever exceeding the limit under
	// concurrent confirmations.
	IncrementUsage(ctx context.Context, code string) (bool, error)
	CreateUsage(ctx context.Context, usage *entity.PromotionUsage) error
	CountUsageByUser(ctx context.Context, promotionID, userID uuid.UUID) (int, error)
}

type promotionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPromotionRepository(db database.PgxIface, log *zap.Logger) PromotionRepository {
	return &promotionRepository{
		db:  db,
		log: log.With(zap.String("repository", "promotion")),
	}
}

func (r *promotionRepository) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	query := `
		SELECT id, code, type, value, min_purchase, max_discount, valid_from, valid_to,
		       usage_limit, usage_per_user, current_usage, applicable_for, active,
		       created_at, updated_at
		FROM promotions
		WHERE code = $1
	`

	var p entity.Promotion
	err := r.db.QueryRow(ctx, query, code).Scan(
		&p.ID,
		&p.Code,
		&p.Type,
		&p.Value,
		&p.MinPurchase,
		&p.MaxDiscount,
		&p.ValidFrom,
		&p.ValidTo,
		&p.UsageLimit,
		&p.UsagePerUser,
		&p.CurrentUsage,
		&p.ApplicableFor,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find promotion by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find promotion by code %s: %w", code, err)
	}

	return &p, nil
}

func (r *promotionRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	query := `
		UPDATE promotions
		SET current_usage = current_usage + 1, updated_at = NOW()
		WHERE code = $1 AND active = true AND (usage_limit = 0 OR current_usage < usage_limit)
	`

	result, err := r.db.Exec(ctx, query, code)
	if err != nil {
		r.log.Error("Failed to increment promotion usage",
			zap.Error(err),
			zap.String("code", code),
		)
		return false, fmt.Errorf("increment usage for promotion %s: %w", code, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *promotionRepository) CreateUsage(ctx context.Context, usage *entity.PromotionUsage) error {
	query := `
		INSERT INTO promotion_usages (id, promotion_id, user_id, booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		usage.ID,
		usage.PromotionID,
		usage.UserID,
		usage.BookingID,
		usage.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create promotion usage",
			zap.Error(err),
			zap.String("promotion_id", usage.PromotionID.String()),
			zap.String("user_id", usage.UserID.String()),
		)
		return fmt.Errorf("create promotion usage: %w", err)
	}

	return nil
}

func (r *promotionRepository) CountUsageByUser(ctx context.Context, promotionID, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM promotion_usages WHERE promotion_id = $1 AND user_id = $2`

	var count int
	err := r.db.QueryRow(ctx, query, promotionID, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count promotion usage by user",
			zap.Error(err),
			zap.String("promotion_id", promotionID.String()),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count promotion usage: %w", err)
	}

	return count, nil
}
