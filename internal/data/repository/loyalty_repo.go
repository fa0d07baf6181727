package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LoyaltyAccountRepository interface {
	Create(ctx context.Context, account *entity.LoyaltyAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyAccount, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LoyaltyAccount, error)
	Update(ctx context.Context, account *entity.LoyaltyAccount) error
}

// LoyaltyTransactionRepository is append-only: ledger rows are created and
// queried, never updated or deleted.
type LoyaltyTransactionRepository interface {
	Create(ctx context.Context, tx *entity.LoyaltyTransaction) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.LoyaltyTransaction, error)
	FindByBookingID(ctx context.Context, accountID, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error)
	// FindExpirable returns positive earn rows whose expiry has passed and
	// which have not yet been compensated by an expire row.
	FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]*entity.LoyaltyTransaction, error)
}

type loyaltyAccountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLoyaltyAccountRepository(db database.PgxIface, log *zap.Logger) LoyaltyAccountRepository {
	return &loyaltyAccountRepository{
		db:  db,
		log: log.With(zap.String("repository", "loyalty_account")),
	}
}

func (r *loyaltyAccountRepository) Create(ctx context.Context, account *entity.LoyaltyAccount) error {
	query := `
		INSERT INTO loyalty_accounts (id, user_id, current_points, tier, total_spent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.UserID,
		account.CurrentPoints,
		account.Tier,
		account.TotalSpent,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create loyalty account",
			zap.Error(err),
			zap.String("user_id", account.UserID.String()),
		)
		return fmt.Errorf("create loyalty account for user %s: %w", account.UserID.String(), err)
	}

	return nil
}

func (r *loyaltyAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LoyaltyAccount, error) {
	query := `
		SELECT id, user_id, current_points, tier, total_spent, created_at, updated_at
		FROM loyalty_accounts
		WHERE id = $1
	`

	var a entity.LoyaltyAccount
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.CurrentPoints,
		&a.Tier,
		&a.TotalSpent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find loyalty account by ID",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find loyalty account by ID %s: %w", id.String(), err)
	}

	return &a, nil
}

func (r *loyaltyAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LoyaltyAccount, error) {
	query := `
		SELECT id, user_id, current_points, tier, total_spent, created_at, updated_at
		FROM loyalty_accounts
		WHERE user_id = $1
	`

	var a entity.LoyaltyAccount
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.CurrentPoints,
		&a.Tier,
		&a.TotalSpent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find loyalty account by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find loyalty account by user ID %s: %w", userID.String(), err)
	}

	return &a, nil
}

func (r *loyaltyAccountRepository) Update(ctx context.Context, account *entity.LoyaltyAccount) error {
	query := `
		UPDATE loyalty_accounts
		SET current_points = $2, tier = $3, total_spent = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		account.ID,
		account.CurrentPoints,
		account.Tier,
		account.TotalSpent,
		account.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update loyalty account",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return fmt.Errorf("update loyalty account %s: %w", account.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("loyalty account %s not found", account.ID.String())
	}

	return nil
}

type loyaltyTransactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewLoyaltyTransactionRepository(db database.PgxIface, log *zap.Logger) LoyaltyTransactionRepository {
	return &loyaltyTransactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "loyalty_transaction")),
	}
}

const loyaltyTxColumns = `id, account_id, points, type, description, transaction_id, expires_at, created_at`

func scanLoyaltyTx(row pgx.Row) (*entity.LoyaltyTransaction, error) {
	var t entity.LoyaltyTransaction
	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Points,
		&t.Type,
		&t.Description,
		&t.TransactionID,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *loyaltyTransactionRepository) Create(ctx context.Context, tx *entity.LoyaltyTransaction) error {
	query := `
		INSERT INTO loyalty_transactions (id, account_id, points, type, description, transaction_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Points,
		tx.Type,
		tx.Description,
		tx.TransactionID,
		tx.ExpiresAt,
		tx.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create loyalty transaction",
			zap.Error(err),
			zap.String("account_id", tx.AccountID.String()),
			zap.Int64("points", tx.Points),
		)
		return fmt.Errorf("create loyalty transaction: %w", err)
	}

	return nil
}

func (r *loyaltyTransactionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	query := `SELECT ` + loyaltyTxColumns + ` FROM loyalty_transactions WHERE account_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		r.log.Error("Failed to find loyalty transactions",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("find loyalty transactions for account %s: %w", accountID.String(), err)
	}
	defer rows.Close()

	var txs []*entity.LoyaltyTransaction
	for rows.Next() {
		tx, err := scanLoyaltyTx(rows)
		if err != nil {
			r.log.Error("Failed to scan loyalty transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan loyalty transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (r *loyaltyTransactionRepository) FindByBookingID(ctx context.Context, accountID, bookingID uuid.UUID) ([]*entity.LoyaltyTransaction, error) {
	query := `SELECT ` + loyaltyTxColumns + ` FROM loyalty_transactions WHERE account_id = $1 AND transaction_id = $2 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, accountID, bookingID)
	if err != nil {
		r.log.Error("Failed to find loyalty transactions by booking",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find loyalty transactions for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var txs []*entity.LoyaltyTransaction
	for rows.Next() {
		tx, err := scanLoyaltyTx(rows)
		if err != nil {
			r.log.Error("Failed to scan loyalty transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan loyalty transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (r *loyaltyTransactionRepository) FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]*entity.LoyaltyTransaction, error) {
	query := `
		SELECT ` + loyaltyTxColumns + `
		FROM loyalty_transactions t
		WHERE t.account_id = $1
		  AND t.type = 'earn'
		  AND t.points > 0
		  AND t.expires_at IS NOT NULL
		  AND t.expires_at <= $2
		  AND NOT EXISTS (
			SELECT 1 FROM loyalty_transactions e
			WHERE e.account_id = t.account_id
			  AND e.type = 'expire'
			  AND e.transaction_id = t.id
		  )
		ORDER BY t.expires_at
	`

	rows, err := r.db.Query(ctx, query, accountID, asOf)
	if err != nil {
		r.log.Error("Failed to find expirable loyalty transactions",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("find expirable loyalty transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entity.LoyaltyTransaction
	for rows.Next() {
		tx, err := scanLoyaltyTx(rows)
		if err != nil {
			r.log.Error("Failed to scan loyalty transaction row", zap.Error(err))
			return nil, fmt.Errorf("scan loyalty transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}
