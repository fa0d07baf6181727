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

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	// ConfirmBooking transitions pending -> confirmed once the referenced
	// payment is completed, issues tickets and credits loyalty points.
	ConfirmBooking(ctx context.Context, bookingID, paymentID uuid.UUID) error
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason, actor string) error
	// ExpireBooking transitions pending -> expired after the hold window
	// lapses. Called by the sweeper; safe to race with confirmation.
	ExpireBooking(ctx context.Context, bookingID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) error
	GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo      *repository.Repository
	catalog   gateway.SeatCatalog
	publisher gateway.EventPublisher
	refunds   RefundService
	loyalty   loyaltyParams
	holdTTL   time.Duration
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	catalog gateway.SeatCatalog,
	publisher gateway.EventPublisher,
	refunds RefundService,
	loyalty loyaltyParams,
	cfg utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	holdMinutes := cfg.HoldMinutes
	if holdMinutes <= 0 {
		holdMinutes = 15
	}

	return &bookingService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		refunds:   refunds,
		loyalty:   loyalty,
		holdTTL:   time.Duration(holdMinutes) * time.Minute,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	userID, err := utils.ParseUUID(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", entity.ErrValidation)
	}
	showtimeID, err := utils.ParseUUID(req.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("invalid showtime ID: %w", entity.ErrValidation)
	}

	seatIDs, seatPrices, err := parseSeatSelections(req.Seats)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bookingID := utils.GenerateUUID()

	// Seats are held in the catalog before anything is written. If the
	// transaction below fails the hold is released; if the process dies the
	// hold TTL cleans up on its own.
	holdToken, err := s.catalog.HoldSeats(ctx, showtimeID, seatIDs, s.holdTTL)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking

	err = s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		subtotal := decimal.Zero
		seats := make([]*entity.BookingSeat, 0, len(seatIDs))
		for i, seatID := range seatIDs {
			subtotal = subtotal.Add(seatPrices[i])
			seats = append(seats, &entity.BookingSeat{
				BaseSimple: entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now},
				BookingID:  bookingID,
				SeatID:     seatID,
				Price:      seatPrices[i],
			})
		}

		items, itemsTotal, err := buildConcessionItems(ctx, r, bookingID, req.Concessions, now)
		if err != nil {
			return err
		}
		subtotal = subtotal.Add(itemsTotal)

		discount := decimal.Zero
		if req.PromotionCode != nil && *req.PromotionCode != "" {
			result, err := evaluatePromotion(ctx, r, *req.PromotionCode, subtotal, userID, promotionScopeTags(req), now)
			if err != nil {
				return err
			}
			discount = result.Discount
		}

		pointsDiscount := decimal.Zero
		if req.PointsToRedeem > 0 {
			pointsDiscount = money.PointsDiscount(req.PointsToRedeem, s.loyalty.redeemRate)
		}

		token := holdToken
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        bookingID,
				CreatedAt: now,
				UpdatedAt: now,
			},
			BookingCode:    utils.GenerateBookingCode(),
			UserID:         userID,
			ShowtimeID:     showtimeID,
			CustomerName:   req.CustomerName,
			CustomerEmail:  req.CustomerEmail,
			CustomerPhone:  req.CustomerPhone,
			Subtotal:       subtotal,
			Discount:       discount,
			PointsUsed:     req.PointsToRedeem,
			PointsDiscount: pointsDiscount,
			FinalAmount:    money.FinalAmount(subtotal, discount, pointsDiscount),
			PromotionCode:  req.PromotionCode,
			Status:         entity.BookingStatusPending,
			PaymentStatus:  entity.PaymentStatusPending,
			HoldToken:      &token,
			ExpiresAt:      now.Add(s.holdTTL),
		}

		if err := r.Booking.Create(ctx, booking); err != nil {
			return err
		}
		if err := r.BookingSeat.CreateBatch(ctx, seats); err != nil {
			return err
		}
		if len(items) > 0 {
			if err := r.BookingConcession.CreateBatch(ctx, items); err != nil {
				return err
			}
		}

		// Points come off the balance at cart time so two carts cannot spend
		// the same points. Cancellation and expiry give them back.
		if req.PointsToRedeem > 0 {
			if err := redeemPoints(ctx, r, userID, req.PointsToRedeem, bookingID, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if relErr := s.catalog.ReleaseSeats(ctx, holdToken); relErr != nil {
			s.log.Error("Failed to release seats after aborted booking",
				zap.Error(relErr),
				zap.String("hold_token", holdToken),
			)
		}
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("final_amount", booking.FinalAmount.String()),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID, paymentID uuid.UUID) error {
	now := time.Now()

	var (
		confirmed   *entity.Booking
		ticketCount int
		already     bool
	)

	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
		}

		if booking.Status == entity.BookingStatusConfirmed {
			// Idempotent only for the payment that confirmed it; a second
			// captured payment must surface as a conflict so its money can
			// be given back.
			if booking.PaymentID != nil && *booking.PaymentID != paymentID {
				return fmt.Errorf("booking %s was confirmed by payment %s: %w",
					booking.BookingCode, booking.PaymentID.String(), entity.ErrStateConflict)
			}
			already = true
			return nil
		}
		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", booking.BookingCode, booking.Status, entity.ErrStateConflict)
		}

		payment, err := r.Payment.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return fmt.Errorf("payment %s: %w", paymentID.String(), entity.ErrNotFound)
		}
		if payment.BookingID != bookingID {
			return fmt.Errorf("payment %s belongs to another booking: %w", paymentID.String(), entity.ErrValidation)
		}
		if payment.Status != entity.PaymentStatusCompleted {
			return fmt.Errorf("payment %s is %s: %w", paymentID.String(), payment.Status, entity.ErrStateConflict)
		}
		if !payment.Amount.Equal(booking.FinalAmount) {
			return fmt.Errorf("payment amount %s does not match booking total %s: %w",
				payment.Amount.String(), booking.FinalAmount.String(), entity.ErrValidation)
		}

		ok, err := r.Booking.UpdateStatusIf(ctx, bookingID, entity.BookingStatusPending, entity.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race. If the winner confirmed with the same payment,
			// this call is a no-op; anything else is a conflict for the
			// caller to handle.
			current, err := r.Booking.FindByID(ctx, bookingID)
			if err != nil {
				return err
			}
			if current != nil && current.Status == entity.BookingStatusConfirmed &&
				(current.PaymentID == nil || *current.PaymentID == paymentID) {
				already = true
				return nil
			}
			return fmt.Errorf("booking %s changed state during confirmation: %w", booking.BookingCode, entity.ErrStateConflict)
		}

		booking.Status = entity.BookingStatusConfirmed
		booking.PaymentStatus = entity.PaymentStatusCompleted
		booking.PaymentID = &paymentID
		booking.UpdatedAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return err
		}

		seats, err := r.BookingSeat.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		tickets := make([]*entity.Ticket, 0, len(seats))
		for _, seat := range seats {
			tickets = append(tickets, &entity.Ticket{
				Base: entity.Base{
					ID:        utils.GenerateUUID(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				BookingID:  bookingID,
				SeatID:     seat.SeatID,
				TicketCode: utils.GenerateTicketCode(),
				Price:      seat.Price,
				Status:     entity.TicketStatusValid,
			})
		}
		if err := r.Ticket.CreateBatch(ctx, tickets); err != nil {
			return err
		}

		if _, err := earnPoints(ctx, r, s.loyalty, booking.UserID, booking.FinalAmount, bookingID, now); err != nil {
			return err
		}

		// Promotion usage is counted here, not at cart time, so abandoned
		// carts never consume the budget.
		if booking.PromotionCode != nil && *booking.PromotionCode != "" {
			promo, err := r.Promotion.FindByCode(ctx, *booking.PromotionCode)
			if err != nil {
				return err
			}
			if promo == nil {
				return fmt.Errorf("promotion %s: %w", *booking.PromotionCode, entity.ErrPromotionNotFound)
			}
			if err := recordPromotionUsage(ctx, r, promo, booking.UserID, bookingID, now); err != nil {
				return err
			}
		}

		confirmed = booking
		ticketCount = len(tickets)
		return nil
	})
	if err != nil {
		return err
	}
	if already {
		s.log.Info("Booking already confirmed", zap.String("booking_id", bookingID.String()))
		return nil
	}

	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID.String()),
		zap.String("booking_code", confirmed.BookingCode),
		zap.Int("tickets", ticketCount),
	)

	event := gateway.BookingConfirmedEvent{
		BookingID:   confirmed.ID.String(),
		BookingCode: confirmed.BookingCode,
		UserID:      confirmed.UserID.String(),
		FinalAmount: confirmed.FinalAmount.String(),
		TicketCount: ticketCount,
	}
	if err := s.publisher.Publish(ctx, gateway.QueueBookingConfirmed, event); err != nil {
		s.log.Error("Failed to publish booking confirmed event", zap.Error(err))
	}

	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason, actor string) error {
	now := time.Now()

	var (
		cancelled     *entity.Booking
		refundPayment *entity.Payment
		already       bool
	)

	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
		}

		if booking.IsTerminal() {
			already = true
			return nil
		}

		from := booking.Status
		if !entity.CanTransition(from, entity.BookingStatusCancelled) {
			return fmt.Errorf("cannot cancel booking %s from %s: %w", booking.BookingCode, from, entity.ErrInvalidTransition)
		}

		ok, err := r.Booking.UpdateStatusIf(ctx, bookingID, from, entity.BookingStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("booking %s changed state during cancellation: %w", booking.BookingCode, entity.ErrStateConflict)
		}

		booking.Status = entity.BookingStatusCancelled
		booking.CancelledAt = &now
		fullReason := reason
		if actor != "" {
			fullReason = fmt.Sprintf("%s (by %s)", reason, actor)
		}
		booking.CancellationReason = &fullReason
		booking.UpdatedAt = now
		if err := r.Booking.Update(ctx, booking); err != nil {
			return err
		}

		if from == entity.BookingStatusConfirmed {
			if err := r.Ticket.UpdateStatusByBookingID(ctx, bookingID, entity.TicketStatusCancelled); err != nil {
				return err
			}
		}

		if booking.PointsUsed > 0 {
			if err := reverseRedeem(ctx, r, booking.UserID, booking.PointsUsed, bookingID, now); err != nil {
				return err
			}
		}

		// A completed payment means money changed hands; the refund runs
		// after commit so a provider outage cannot block the cancellation.
		payments, err := r.Payment.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.Status == entity.PaymentStatusCompleted {
				refundPayment = p
				break
			}
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}
	if already {
		s.log.Info("Booking already terminal, cancel is a no-op", zap.String("booking_id", bookingID.String()))
		return nil
	}

	if cancelled.HoldToken != nil {
		if err := s.catalog.ReleaseSeats(ctx, *cancelled.HoldToken); err != nil {
			s.log.Error("Failed to release seats on cancellation",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
			)
		}
	}

	if refundPayment != nil {
		remaining, err := s.refunds.RemainingRefundable(ctx, refundPayment.ID)
		if err != nil {
			s.log.Error("Failed to compute refundable amount",
				zap.Error(err),
				zap.String("payment_id", refundPayment.ID.String()),
			)
		} else if remaining.IsPositive() {
			if _, err := s.refunds.RefundPayment(ctx, refundPayment.ID, remaining, "booking cancelled: "+reason); err != nil {
				s.log.Error("Automatic refund failed, needs manual follow-up",
					zap.Error(err),
					zap.String("payment_id", refundPayment.ID.String()),
					zap.String("booking_id", bookingID.String()),
				)
			}
		}
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("booking_code", cancelled.BookingCode),
		zap.String("reason", reason),
	)

	event := gateway.BookingCancelledEvent{
		BookingID:   cancelled.ID.String(),
		BookingCode: cancelled.BookingCode,
		UserID:      cancelled.UserID.String(),
		Reason:      reason,
	}
	if err := s.publisher.Publish(ctx, gateway.QueueBookingCancelled, event); err != nil {
		s.log.Error("Failed to publish booking cancelled event", zap.Error(err))
	}

	return nil
}

func (s *bookingService) ExpireBooking(ctx context.Context, bookingID uuid.UUID) error {
	now := time.Now()

	var (
		expired *entity.Booking
		already bool
	)

	err := s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
		}

		if booking.Status == entity.BookingStatusExpired {
			already = true
			return nil
		}
		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %s is %s: %w", booking.BookingCode, booking.Status, entity.ErrStateConflict)
		}
		if now.Before(booking.ExpiresAt) {
			return fmt.Errorf("booking %s hold has not lapsed: %w", booking.BookingCode, entity.ErrStateConflict)
		}

		// A completed payment on a pending booking means the confirmation
		// callback is in flight; expiry must lose that race.
		payments, err := r.Payment.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.Status == entity.PaymentStatusCompleted {
				return fmt.Errorf("booking %s has a completed payment: %w", booking.BookingCode, entity.ErrStateConflict)
			}
		}

		ok, err := r.Booking.UpdateStatusIf(ctx, bookingID, entity.BookingStatusPending, entity.BookingStatusExpired)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("booking %s changed state during expiry: %w", booking.BookingCode, entity.ErrStateConflict)
		}

		if booking.PointsUsed > 0 {
			if err := reverseRedeem(ctx, r, booking.UserID, booking.PointsUsed, bookingID, now); err != nil {
				return err
			}
		}

		booking.Status = entity.BookingStatusExpired
		expired = booking
		return nil
	})
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	if expired.HoldToken != nil {
		if err := s.catalog.ReleaseSeats(ctx, *expired.HoldToken); err != nil {
			s.log.Error("Failed to release seats on expiry",
				zap.Error(err),
				zap.String("booking_id", bookingID.String()),
			)
		}
	}

	s.log.Info("Booking expired",
		zap.String("booking_id", bookingID.String()),
		zap.String("booking_code", expired.BookingCode),
	)

	event := gateway.BookingCancelledEvent{
		BookingID:   expired.ID.String(),
		BookingCode: expired.BookingCode,
		UserID:      expired.UserID.String(),
		Reason:      "hold expired",
	}
	if err := s.publisher.Publish(ctx, gateway.QueueBookingCancelled, event); err != nil {
		s.log.Error("Failed to publish booking expired event", zap.Error(err))
	}

	return nil
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.WithTransaction(ctx, func(r *repository.Repository) error {
		booking, err := r.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %s: %w", bookingID.String(), entity.ErrNotFound)
		}

		if booking.Status == entity.BookingStatusCompleted {
			return nil
		}
		if !entity.CanTransition(booking.Status, entity.BookingStatusCompleted) {
			return fmt.Errorf("cannot complete booking %s from %s: %w", booking.BookingCode, booking.Status, entity.ErrInvalidTransition)
		}

		ok, err := r.Booking.UpdateStatusIf(ctx, bookingID, entity.BookingStatusConfirmed, entity.BookingStatusCompleted)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("booking %s changed state during completion: %w", booking.BookingCode, entity.ErrStateConflict)
		}

		return r.Ticket.UpdateStatusByBookingID(ctx, bookingID, entity.TicketStatusUsed)
	})
}

func (s *bookingService) GetBookingByCode(ctx context.Context, code string) (*response.BookingDetailResponse, error) {
	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", code, entity.ErrNotFound)
	}

	tickets, err := s.repo.Ticket.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.BookingConcession.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	detail := &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
	}
	for _, t := range tickets {
		detail.Tickets = append(detail.Tickets, response.TicketToResponse(t))
	}
	for _, item := range items {
		detail.Concessions = append(detail.Concessions, response.BookingConcessionToResponse(item))
	}
	for _, p := range payments {
		detail.Payments = append(detail.Payments, response.PaymentToResponse(p))
	}
	return detail, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b))
	}
	return response.NewPaginatedResponse(data, page.Page, page.Limit(), total), nil
}

func parseSeatSelections(seats []request.SeatSelection) ([]uuid.UUID, []decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(seats))
	prices := make([]decimal.Decimal, 0, len(seats))
	seen := make(map[uuid.UUID]bool, len(seats))

	for _, seat := range seats {
		id, err := utils.ParseUUID(seat.SeatID)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid seat ID %s: %w", seat.SeatID, entity.ErrValidation)
		}
		if seen[id] {
			return nil, nil, fmt.Errorf("seat %s selected twice: %w", seat.SeatID, entity.ErrValidation)
		}
		seen[id] = true

		price, err := money.FromString(seat.Price)
		if err != nil || !price.IsPositive() {
			return nil, nil, fmt.Errorf("invalid price for seat %s: %w", seat.SeatID, entity.ErrValidation)
		}

		ids = append(ids, id)
		prices = append(prices, price)
	}
	return ids, prices, nil
}

func buildConcessionItems(ctx context.Context, r *repository.Repository, bookingID uuid.UUID, selections []request.ConcessionSelection, now time.Time) ([]*entity.BookingConcession, decimal.Decimal, error) {
	items := make([]*entity.BookingConcession, 0, len(selections))
	total := decimal.Zero

	for _, sel := range selections {
		id, err := utils.ParseUUID(sel.ConcessionID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid concession ID %s: %w", sel.ConcessionID, entity.ErrValidation)
		}

		concession, err := r.Concession.FindByID(ctx, id)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if concession == nil || !concession.Available {
			return nil, decimal.Zero, fmt.Errorf("concession %s is not available: %w", sel.ConcessionID, entity.ErrValidation)
		}

		lineTotal := concession.Price.Mul(decimal.NewFromInt(int64(sel.Quantity)))
		items = append(items, &entity.BookingConcession{
			BaseSimple:   entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now},
			BookingID:    bookingID,
			ConcessionID: id,
			Quantity:     sel.Quantity,
			UnitPrice:    concession.Price,
			TotalPrice:   lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return items, total, nil
}

// promotionScopeTags describes what the cart contains so scoped promotions
// (ticket-only, concession-only) can match against it.
func promotionScopeTags(req *request.CreateBookingRequest) []string {
	tags := []string{"booking"}
	if len(req.Seats) > 0 {
		tags = append(tags, "tickets")
	}
	if len(req.Concessions) > 0 {
		tags = append(tags, "concessions")
	}
	return tags
}
