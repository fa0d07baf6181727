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

type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []*entity.Ticket) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error)
	FindByCode(ctx context.Context, code string) (*entity.Ticket, error)
	UpdateStatusByBookingID(ctx context.Context, bookingID uuid.UUID, status entity.TicketStatus) error
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `id, booking_id, seat_id, ticket_code, qr_code, barcode, price, status, used_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(
		&t.ID,
		&t.BookingID,
		&t.SeatID,
		&t.TicketCode,
		&t.QRCode,
		&t.Barcode,
		&t.Price,
		&t.Status,
		&t.UsedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tickets []*entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, booking_id, seat_id, ticket_code, qr_code, barcode, price, status, used_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, ticket := range tickets {
		_, err := r.db.Exec(ctx, query,
			ticket.ID,
			ticket.BookingID,
			ticket.SeatID,
			ticket.TicketCode,
			ticket.QRCode,
			ticket.Barcode,
			ticket.Price,
			ticket.Status,
			ticket.UsedAt,
			ticket.CreatedAt,
			ticket.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create ticket",
				zap.Error(err),
				zap.String("ticket_code", ticket.TicketCode),
				zap.String("booking_id", ticket.BookingID.String()),
			)
			return fmt.Errorf("create ticket %s: %w", ticket.TicketCode, err)
		}
	}

	return nil
}

func (r *ticketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE booking_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find tickets by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find tickets by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

func (r *ticketRepository) FindByCode(ctx context.Context, code string) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_code = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by code",
			zap.Error(err),
			zap.String("ticket_code", code),
		)
		return nil, fmt.Errorf("find ticket by code %s: %w", code, err)
	}

	return ticket, nil
}

func (r *ticketRepository) UpdateStatusByBookingID(ctx context.Context, bookingID uuid.UUID, status entity.TicketStatus) error {
	query := `UPDATE tickets SET status = $2, updated_at = NOW() WHERE booking_id = $1`

	_, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update ticket status by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update tickets for booking %s: %w", bookingID.String(), err)
	}

	return nil
}
