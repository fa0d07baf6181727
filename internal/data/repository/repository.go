package repository

import (
	"context"
	"fmt"

	"cinema-checkout/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking            BookingRepository
	BookingSeat        BookingSeatRepository
	Ticket             TicketRepository
	Payment            PaymentRepository
	Refund             RefundRepository
	Concession         ConcessionRepository
	BookingConcession  BookingConcessionRepository
	Promotion          PromotionRepository
	LoyaltyAccount     LoyaltyAccountRepository
	LoyaltyTransaction LoyaltyTransactionRepository

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking:            NewBookingRepository(db, log),
		BookingSeat:        NewBookingSeatRepository(db, log),
		Ticket:             NewTicketRepository(db, log),
		Payment:            NewPaymentRepository(db, log),
		Refund:             NewRefundRepository(db, log),
		Concession:         NewConcessionRepository(db, log),
		BookingConcession:  NewBookingConcessionRepository(db, log),
		Promotion:          NewPromotionRepository(db, log),
		LoyaltyAccount:     NewLoyaltyAccountRepository(db, log),
		LoyaltyTransaction: NewLoyaltyTransactionRepository(db, log),
		db:                 db,
		log:                log,
	}
}

// WithTransaction runs fn against a Repository whose repositories are all
// bound to a single database transaction. The transaction commits when fn
// returns nil and rolls back otherwise. Repositories assembled without a
// pool (in-memory implementations in tests) run fn directly.
func (r *Repository) WithTransaction(ctx context.Context, fn func(*Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txRepo := NewRepository(&database.Tx{Inner: tx}, r.log)

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("Transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
