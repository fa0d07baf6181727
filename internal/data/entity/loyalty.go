package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoyaltyTier string

const (
	LoyaltyTierBronze   LoyaltyTier = "bronze"
	LoyaltyTierSilver   LoyaltyTier = "silver"
	LoyaltyTierGold     LoyaltyTier = "gold"
	LoyaltyTierPlatinum LoyaltyTier = "platinum"
)

// LoyaltyAccount holds the materialized point balance for one user. The
// balance always equals the sum of the account's non-expired ledger rows;
// only the loyalty service writes it.
type LoyaltyAccount struct {
	Base
	UserID        uuid.UUID       `db:"user_id"`
	CurrentPoints int64           `db:"current_points"`
	Tier          LoyaltyTier     `db:"tier"`
	TotalSpent    decimal.Decimal `db:"total_spent"`
}

type LoyaltyTransactionType string

const (
	LoyaltyTxEarn   LoyaltyTransactionType = "earn"
	LoyaltyTxRedeem LoyaltyTransactionType = "redeem"
	LoyaltyTxExpire LoyaltyTransactionType = "expire"
)

// LoyaltyTransaction is an append-only ledger row. Corrections are made by
// appending compensating rows, never by editing history.
type LoyaltyTransaction struct {
	BaseSimple
	AccountID     uuid.UUID              `db:"account_id"`
	Points        int64                  `db:"points"`
	Type          LoyaltyTransactionType `db:"type"`
	Description   string                 `db:"description"`
	TransactionID *uuid.UUID             `db:"transaction_id"`
	ExpiresAt     *time.Time             `db:"expires_at"`
}
