package usecase_test

import (
	"context"
	"testing"
	"time"

	"cinema-checkout/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPromotion(env *testEnv, code string, mutate func(*entity.Promotion)) *entity.Promotion {
	now := time.Now()
	promo := &entity.Promotion{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Code:      code,
		Type:      entity.PromotionTypePercentage,
		Value:     decimal.NewFromInt(20),
		ValidFrom: now.Add(-time.Hour),
		ValidTo:   now.Add(time.Hour),
		Active:    true,
	}
	if mutate != nil {
		mutate(promo)
	}
	env.promotions.promotions[code] = promo
	return promo
}

func TestEvaluatePercentagePromotion(t *testing.T) {
	env := newTestEnv()
	seedPromotion(env, "MOVIE20", nil)

	result, err := env.service.Promotion.Evaluate(context.Background(),
		"MOVIE20", decimal.NewFromInt(250000), uuid.New(), []string{"booking", "tickets"})

	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(50000)), "got %s", result.Discount)
	assert.False(t, result.FreeItem)
	assert.False(t, result.BonusPoints)
}

func TestEvaluatePercentageCappedByMaxDiscount(t *testing.T) {
	env := newTestEnv()
	seedPromotion(env, "MOVIE20", func(p *entity.Promotion) {
		maxDiscount := decimal.NewFromInt(30000)
		p.MaxDiscount = &maxDiscount
	})

	result, err := env.service.Promotion.Evaluate(context.Background(),
		"MOVIE20", decimal.NewFromInt(250000), uuid.New(), []string{"booking"})

	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(30000)), "got %s", result.Discount)
}

func TestEvaluateFixedAmountNeverExceedsSubtotal(t *testing.T) {
	env := newTestEnv()
	seedPromotion(env, "FLAT50K", func(p *entity.Promotion) {
		p.Type = entity.PromotionTypeFixedAmount
		p.Value = decimal.NewFromInt(50000)
	})

	result, err := env.service.Promotion.Evaluate(context.Background(),
		"FLAT50K", decimal.NewFromInt(30000), uuid.New(), []string{"booking"})

	require.NoError(t, err)
	assert.True(t, result.Discount.Equal(decimal.NewFromInt(30000)), "got %s", result.Discount)
}

func TestEvaluateFreeItemAndPointsCarryZeroDiscount(t *testing.T) {
	env := newTestEnv()
	seedPromotion(env, "FREEPOP", func(p *entity.Promotion) {
		p.Type = entity.PromotionTypeFreeItem
	})
	seedPromotion(env, "BONUS", func(p *entity.Promotion) {
		p.Type = entity.PromotionTypePoints
		p.Value = decimal.NewFromInt(500)
	})

	free, err := env.service.Promotion.Evaluate(context.Background(),
		"FREEPOP", decimal.NewFromInt(100000), uuid.New(), []string{"booking"})
	require.NoError(t, err)
	assert.True(t, free.Discount.IsZero())
	assert.True(t, free.FreeItem)

	bonus, err := env.service.Promotion.Evaluate(context.Background(),
		"BONUS", decimal.NewFromInt(100000), uuid.New(), []string{"booking"})
	require.NoError(t, err)
	assert.True(t, bonus.Discount.IsZero())
	assert.True(t, bonus.BonusPoints)
}

func TestEvaluateRejections(t *testing.T) {
	env := newTestEnv()
	now := time.Now()
	userID := uuid.New()

	seedPromotion(env, "INACTIVE", func(p *entity.Promotion) { p.Active = false })
	seedPromotion(env, "EXPIRED", func(p *entity.Promotion) {
		p.ValidFrom = now.Add(-48 * time.Hour)
		p.ValidTo = now.Add(-24 * time.Hour)
	})
	seedPromotion(env, "MINBUY", func(p *entity.Promotion) {
		min := decimal.NewFromInt(200000)
		p.MinPurchase = &min
	})
	seedPromotion(env, "SOLDOUT", func(p *entity.Promotion) {
		p.UsageLimit = 10
		p.CurrentUsage = 10
	})
	seedPromotion(env, "TICKETSONLY", func(p *entity.Promotion) {
		p.ApplicableFor = []string{"tickets"}
	})

	subtotal := decimal.NewFromInt(100000)
	cases := []struct {
		code string
		tags []string
		want error
	}{
		{"NOSUCHCODE", []string{"booking"}, entity.ErrPromotionNotFound},
		{"INACTIVE", []string{"booking"}, entity.ErrPromotionInactive},
		{"EXPIRED", []string{"booking"}, entity.ErrPromotionExpired},
		{"MINBUY", []string{"booking"}, entity.ErrMinPurchaseNotMet},
		{"SOLDOUT", []string{"booking"}, entity.ErrUsageLimitExceeded},
		{"TICKETSONLY", []string{"booking", "concessions"}, entity.ErrPromotionInactive},
	}

	for _, tc := range cases {
		_, err := env.service.Promotion.Evaluate(context.Background(), tc.code, subtotal, userID, tc.tags)
		assert.ErrorIs(t, err, tc.want, "code %s", tc.code)
	}
}

func TestEvaluatePerUserLimit(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	promo := seedPromotion(env, "ONCE", func(p *entity.Promotion) {
		p.UsagePerUser = 1
	})

	env.promotions.CreateUsage(context.Background(), &entity.PromotionUsage{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		PromotionID: promo.ID,
		UserID:      userID,
		BookingID:   uuid.New(),
	})

	_, err := env.service.Promotion.Evaluate(context.Background(),
		"ONCE", decimal.NewFromInt(100000), userID, []string{"booking"})
	assert.ErrorIs(t, err, entity.ErrUsageLimitExceeded)

	// A different user is unaffected.
	_, err = env.service.Promotion.Evaluate(context.Background(),
		"ONCE", decimal.NewFromInt(100000), uuid.New(), []string{"booking"})
	assert.NoError(t, err)
}
