package response

import (
	"time"

	"cinema-checkout/internal/data/entity"
)

type LoyaltyAccountResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	CurrentPoints int64              `json:"current_points"`
	Tier          entity.LoyaltyTier `json:"tier"`
	TotalSpent    string             `json:"total_spent"`
}

type LoyaltyTransactionResponse struct {
	ID          string                        `json:"id"`
	Points      int64                         `json:"points"`
	Type        entity.LoyaltyTransactionType `json:"type"`
	Description string                        `json:"description,omitempty"`
	ExpiresAt   *time.Time                    `json:"expires_at,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
}

func LoyaltyAccountToResponse(a *entity.LoyaltyAccount) LoyaltyAccountResponse {
	return LoyaltyAccountResponse{
		ID:            a.ID.String(),
		UserID:        a.UserID.String(),
		CurrentPoints: a.CurrentPoints,
		Tier:          a.Tier,
		TotalSpent:    a.TotalSpent.String(),
	}
}

func LoyaltyTransactionToResponse(t *entity.LoyaltyTransaction) LoyaltyTransactionResponse {
	return LoyaltyTransactionResponse{
		ID:          t.ID.String(),
		Points:      t.Points,
		Type:        t.Type,
		Description: t.Description,
		ExpiresAt:   t.ExpiresAt,
		CreatedAt:   t.CreatedAt,
	}
}
