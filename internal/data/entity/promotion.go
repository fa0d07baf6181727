package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionTypePercentage  PromotionType = "percentage"
	PromotionTypeFixedAmount PromotionType = "fixed_amount"
	PromotionTypeFreeItem    PromotionType = "free_item"
	PromotionTypePoints      PromotionType = "points"
)

type Promotion struct {
	Base
	Code          string           `db:"code"`
	Type          PromotionType    `db:"type"`
	Value         decimal.Decimal  `db:"value"`
	MinPurchase   *decimal.Decimal `db:"min_purchase"`
	MaxDiscount   *decimal.Decimal `db:"max_discount"`
	ValidFrom     time.Time        `db:"valid_from"`
	ValidTo       time.Time        `db:"valid_to"`
	UsageLimit    int              `db:"usage_limit"`
	UsagePerUser  int              `db:"usage_per_user"`
	CurrentUsage  int              `db:"current_usage"`
	ApplicableFor []string         `db:"applicable_for"`
	Active        bool             `db:"active"`
}

// PromotionUsage records one successful redemption of a promotion by a user.
// Rows back the usage_per_user check and are written only at booking
// confirmation so abandoned carts never count.
type PromotionUsage struct {
	BaseSimple
	PromotionID uuid.UUID `db:"promotion_id"`
	UserID      uuid.UUID `db:"user_id"`
	BookingID   uuid.UUID `db:"booking_id"`
}
