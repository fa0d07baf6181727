package gateway

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatCatalog is the collaborator that owns seat availability. The booking
// core only references seats by ID; holding and releasing them happens here.
type SeatCatalog interface {
	// HoldSeats reserves the seats for the hold window and returns an opaque
	// hold token. Any seat already held fails the whole call with
	// entity.ErrSeatUnavailable.
	HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) (string, error)
	ReleaseSeats(ctx context.Context, holdToken string) error
}

// redisSeatCatalog implements seat holds as per-seat SETNX keys with a TTL,
// plus a token set so a hold can be released without knowing its seats.
// Expired holds disappear on their own; the release path is for explicit
// cancellation before the TTL elapses.
type redisSeatCatalog struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSeatCatalog(client *redis.Client, log *zap.Logger) SeatCatalog {
	return &redisSeatCatalog{
		client: client,
		log:    log.With(zap.String("gateway", "seat_catalog")),
	}
}

func seatKey(showtimeID, seatID uuid.UUID) string {
	return fmt.Sprintf("seat_hold:%s:%s", showtimeID.String(), seatID.String())
}

func holdKey(token string) string {
	return "hold:" + token
}

func (c *redisSeatCatalog) HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) (string, error) {
	token := uuid.New().String()

	var acquired []string
	for _, seatID := range seatIDs {
		key := seatKey(showtimeID, seatID)

		ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			c.rollback(ctx, token, acquired)
			c.log.Error("Failed to hold seat",
				zap.Error(err),
				zap.String("showtime_id", showtimeID.String()),
				zap.String("seat_id", seatID.String()),
			)
			return "", fmt.Errorf("hold seat %s: %w", seatID.String(), err)
		}
		if !ok {
			c.rollback(ctx, token, acquired)
			return "", fmt.Errorf("seat %s: %w", seatID.String(), entity.ErrSeatUnavailable)
		}

		acquired = append(acquired, key)
	}

	// Remember which keys belong to this hold so release works by token alone.
	if len(acquired) > 0 {
		if err := c.client.SAdd(ctx, holdKey(token), acquired).Err(); err != nil {
			c.rollback(ctx, token, acquired)
			return "", fmt.Errorf("record hold %s: %w", token, err)
		}
		if err := c.client.Expire(ctx, holdKey(token), ttl).Err(); err != nil {
			c.log.Warn("Failed to set hold TTL", zap.Error(err), zap.String("hold_token", token))
		}
	}

	c.log.Info("Seats held",
		zap.String("showtime_id", showtimeID.String()),
		zap.Int("seat_count", len(seatIDs)),
		zap.String("hold_token", token),
	)

	return token, nil
}

func (c *redisSeatCatalog) ReleaseSeats(ctx context.Context, holdToken string) error {
	keys, err := c.client.SMembers(ctx, holdKey(holdToken)).Result()
	if err != nil {
		c.log.Error("Failed to look up hold",
			zap.Error(err),
			zap.String("hold_token", holdToken),
		)
		return fmt.Errorf("look up hold %s: %w", holdToken, err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("release seats for hold %s: %w", holdToken, err)
		}
	}

	if err := c.client.Del(ctx, holdKey(holdToken)).Err(); err != nil {
		return fmt.Errorf("delete hold %s: %w", holdToken, err)
	}

	c.log.Info("Seats released",
		zap.String("hold_token", holdToken),
		zap.Int("seat_count", len(keys)),
	)

	return nil
}

func (c *redisSeatCatalog) rollback(ctx context.Context, token string, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Failed to roll back partial hold",
			zap.Error(err),
			zap.String("hold_token", token),
		)
	}
}
