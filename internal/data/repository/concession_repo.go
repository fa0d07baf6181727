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

type ConcessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Concession, error)
	FindAllAvailable(ctx context.Context) ([]*entity.Concession, error)
}

type BookingConcessionRepository interface {
	CreateBatch(ctx context.Context, items []*entity.BookingConcession) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingConcession, error)
}

type concessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConcessionRepository(db database.PgxIface, log *zap.Logger) ConcessionRepository {
	return &concessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "concession")),
	}
}

func (r *concessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Concession, error) {
	query := `
		SELECT id, name, description, price, available, created_at, updated_at
		FROM concessions
		WHERE id = $1
	`

	var c entity.Concession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Price,
		&c.Available,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find concession by ID",
			zap.Error(err),
			zap.String("concession_id", id.String()),
		)
		return nil, fmt.Errorf("find concession by ID %s: %w", id.String(), err)
	}

	return &c, nil
}

func (r *concessionRepository) FindAllAvailable(ctx context.Context) ([]*entity.Concession, error) {
	query := `
		SELECT id, name, description, price, available, created_at, updated_at
		FROM concessions
		WHERE available = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find available concessions", zap.Error(err))
		return nil, fmt.Errorf("find available concessions: %w", err)
	}
	defer rows.Close()

	var concessions []*entity.Concession
	for rows.Next() {
		var c entity.Concession
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.Price,
			&c.Available,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan concession row", zap.Error(err))
			return nil, fmt.Errorf("scan concession row: %w", err)
		}
		concessions = append(concessions, &c)
	}

	return concessions, nil
}

type bookingConcessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingConcessionRepository(db database.PgxIface, log *zap.Logger) BookingConcessionRepository {
	return &bookingConcessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_concession")),
	}
}

func (r *bookingConcessionRepository) CreateBatch(ctx context.Context, items []*entity.BookingConcession) error {
	query := `
		INSERT INTO booking_concessions (id, booking_id, concession_id, quantity, unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range items {
		_, err := r.db.Exec(ctx, query,
			item.ID,
			item.BookingID,
			item.ConcessionID,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create booking concession",
				zap.Error(err),
				zap.String("booking_id", item.BookingID.String()),
				zap.String("concession_id", item.ConcessionID.String()),
			)
			return fmt.Errorf("create booking concession: %w", err)
		}
	}

	return nil
}

func (r *bookingConcessionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingConcession, error) {
	query := `
		SELECT id, booking_id, concession_id, quantity, unit_price, total_price, created_at
		FROM booking_concessions
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking concessions",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking concessions for %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingConcession
	for rows.Next() {
		var item entity.BookingConcession
		err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.ConcessionID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booking concession row", zap.Error(err))
			return nil, fmt.Errorf("scan booking concession row: %w", err)
		}
		items = append(items, &item)
	}

	return items, nil
}
