package usecase

import (
	"context"
	"errors"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/data/repository"
	"cinema-checkout/pkg/utils"

	"go.uber.org/zap"
)

// SweeperService expires pending bookings whose hold window has lapsed. It
// is the only caller of ExpireBooking in normal operation; losing a race
// against a concurrent confirmation is expected and harmless.
type SweeperService struct {
	repo      *repository.Repository
	bookings  BookingService
	interval  time.Duration
	batchSize int
	log       *zap.Logger
}

func NewSweeperService(repo *repository.Repository, bookings BookingService, cfg utils.BookingConfig, log *zap.Logger) *SweeperService {
	interval := cfg.SweepIntervalSeconds
	if interval <= 0 {
		interval = 60
	}
	batchSize := cfg.SweepBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &SweeperService{
		repo:      repo,
		bookings:  bookings,
		interval:  time.Duration(interval) * time.Second,
		batchSize: batchSize,
		log:       log.With(zap.String("service", "sweeper")),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *SweeperService) Run(ctx context.Context) {
	s.log.Info("Expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce expires one batch of lapsed bookings. Individual failures are
// logged and skipped so one bad booking cannot stall the sweep.
func (s *SweeperService) SweepOnce(ctx context.Context) {
	now := time.Now()

	bookings, err := s.repo.Booking.FindExpiredPending(ctx, now, s.batchSize)
	if err != nil {
		s.log.Error("Failed to list expired pending bookings", zap.Error(err))
		return
	}
	if len(bookings) == 0 {
		return
	}

	var expired int
	for _, booking := range bookings {
		if err := s.bookings.ExpireBooking(ctx, booking.ID); err != nil {
			if errors.Is(err, entity.ErrStateConflict) {
				// Confirmed or cancelled between listing and expiry.
				s.log.Debug("Booking no longer expirable",
					zap.String("booking_id", booking.ID.String()),
				)
				continue
			}
			s.log.Error("Failed to expire booking",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.log.Info("Sweep cycle finished",
			zap.Int("listed", len(bookings)),
			zap.Int("expired", expired),
		)
	}
}
