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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	FindByProviderTransactionID(ctx context.Context, providerTxnID string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error

	// ReserveRefund atomically adds amount to the running refunded total,
	// but only while the payment is completed and the new total stays
	// within the captured amount. Returns the new total and whether the
	// reservation took. Mirrors the guarded promotion usage increment.
	ReserveRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error)
	// ReleaseRefund gives a reservation back after the provider declined it.
	ReleaseRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, amount, payment_method, status, refunded_amount, transaction_id,
	provider_transaction_id, paid_at, metadata, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.RefundedAmount,
		&p.TransactionID,
		&p.ProviderTransactionID,
		&p.PaidAt,
		&p.Metadata,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, payment_method, status, refunded_amount, transaction_id,
			provider_transaction_id, paid_at, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.RefundedAmount,
		payment.TransactionID,
		payment.ProviderTransactionID,
		payment.PaidAt,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find payments by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payments by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) FindByProviderTransactionID(ctx context.Context, providerTxnID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider_transaction_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, providerTxnID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by provider transaction ID",
			zap.Error(err),
			zap.String("provider_transaction_id", providerTxnID),
		)
		return nil, fmt.Errorf("find payment by provider transaction ID %s: %w", providerTxnID, err)
	}

	return payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $3, provider_transaction_id = $4,
		    paid_at = $5, metadata = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.TransactionID,
		payment.ProviderTransactionID,
		payment.PaidAt,
		payment.Metadata,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("update payment %s: %w", payment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", payment.ID.String())
	}

	return nil
}

func (r *paymentRepository) ReserveRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	query := `
		UPDATE payments
		SET refunded_amount = refunded_amount + $2, updated_at = NOW()
		WHERE id = $1 AND status = 'completed' AND refunded_amount + $2 <= amount
		RETURNING refunded_amount
	`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, id, amount).Scan(&total)
	if err == pgx.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		r.log.Error("Failed to reserve refund",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("amount", amount.String()),
		)
		return decimal.Zero, false, fmt.Errorf("reserve refund of %s on payment %s: %w", amount.String(), id.String(), err)
	}

	return total, true, nil
}

func (r *paymentRepository) ReleaseRefund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE payments SET refunded_amount = refunded_amount - $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		r.log.Error("Failed to release refund reservation",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("amount", amount.String()),
		)
		return fmt.Errorf("release refund of %s on payment %s: %w", amount.String(), id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", id.String())
	}

	return nil
}
