package repository

import (
	"context"
	"fmt"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error)
	// SumCompletedByPaymentID returns the amount already refunded for a payment.
	SumCompletedByPaymentID(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, refund *entity.Refund) error
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

const refundColumns = `id, payment_id, amount, status, reason, provider_refund_id, refunded_at, created_at, updated_at`

func scanRefund(row pgx.Row) (*entity.Refund, error) {
	var rf entity.Refund
	err := row.Scan(
		&rf.ID,
		&rf.PaymentID,
		&rf.Amount,
		&rf.Status,
		&rf.Reason,
		&rf.ProviderRefundID,
		&rf.RefundedAt,
		&rf.CreatedAt,
		&rf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, payment_id, amount, status, reason, provider_refund_id, refunded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.PaymentID,
		refund.Amount,
		refund.Status,
		refund.Reason,
		refund.ProviderRefundID,
		refund.RefundedAt,
		refund.CreatedAt,
		refund.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("payment_id", refund.PaymentID.String()),
		)
		return fmt.Errorf("create refund for payment %s: %w", refund.PaymentID.String(), err)
	}

	return nil
}

func (r *refundRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`

	refund, err := scanRefund(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find refund by ID",
			zap.Error(err),
			zap.String("refund_id", id.String()),
		)
		return nil, fmt.Errorf("find refund by ID %s: %w", id.String(), err)
	}

	return refund, nil
}

func (r *refundRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE payment_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		r.log.Error("Failed to find refunds by payment ID",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return nil, fmt.Errorf("find refunds by payment ID %s: %w", paymentID.String(), err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		refund, err := scanRefund(rows)
		if err != nil {
			r.log.Error("Failed to scan refund row", zap.Error(err))
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, refund)
	}

	return refunds, nil
}

func (r *refundRepository) SumCompletedByPaymentID(ctx context.Context, paymentID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE payment_id = $1 AND status = 'completed'`

	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, query, paymentID).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum completed refunds",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return decimal.Zero, fmt.Errorf("sum completed refunds for payment %s: %w", paymentID.String(), err)
	}

	return sum, nil
}

func (r *refundRepository) Update(ctx context.Context, refund *entity.Refund) error {
	query := `
		UPDATE refunds
		SET status = $2, provider_refund_id = $3, refunded_at = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.Status,
		refund.ProviderRefundID,
		refund.RefundedAt,
		refund.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update refund",
			zap.Error(err),
			zap.String("refund_id", refund.ID.String()),
		)
		return fmt.Errorf("update refund %s: %w", refund.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("refund %s not found", refund.ID.String())
	}

	return nil
}
