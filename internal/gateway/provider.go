package gateway

import (
	"context"
	"fmt"
	"time"

	"cinema-checkout/internal/data/entity"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChargeResult is what the provider hands back when a charge is created.
// PaymentURL is empty for direct (non-redirect) methods.
type ChargeResult struct {
	PaymentURL    string
	ProviderTxnID string
}

// PaymentProvider abstracts the external payment gateway. The actual wire
// protocol (SDK, webhooks) lives behind this interface.
type PaymentProvider interface {
	CreateCharge(ctx context.Context, amount decimal.Decimal, method, reference string) (*ChargeResult, error)
	CreateRefund(ctx context.Context, providerTxnID string, amount decimal.Decimal) (string, error)
}

// sandboxProvider accepts every charge and refund. Used in development and
// tests; outcomes are still delivered through the callback path so the
// orchestrator flow matches production.
type sandboxProvider struct {
	log *zap.Logger
}

func NewSandboxProvider(log *zap.Logger) PaymentProvider {
	return &sandboxProvider{log: log.With(zap.String("gateway", "sandbox_provider"))}
}

func (p *sandboxProvider) CreateCharge(ctx context.Context, amount decimal.Decimal, method, reference string) (*ChargeResult, error) {
	txnID := "sbx-" + uuid.New().String()

	p.log.Info("Sandbox charge created",
		zap.String("provider_txn_id", txnID),
		zap.String("method", method),
		zap.String("reference", reference),
		zap.String("amount", amount.String()),
	)

	return &ChargeResult{
		PaymentURL:    "https://sandbox.pay.local/charge/" + txnID,
		ProviderTxnID: txnID,
	}, nil
}

func (p *sandboxProvider) CreateRefund(ctx context.Context, providerTxnID string, amount decimal.Decimal) (string, error) {
	refundID := "sbx-rf-" + uuid.New().String()

	p.log.Info("Sandbox refund created",
		zap.String("provider_txn_id", providerTxnID),
		zap.String("provider_refund_id", refundID),
		zap.String("amount", amount.String()),
	)

	return refundID, nil
}

// retryProvider wraps another provider with bounded exponential backoff.
// After the retry budget is exhausted the failure surfaces as
// entity.ErrProvider for the orchestrator to map.
type retryProvider struct {
	inner      PaymentProvider
	maxRetries uint64
	baseDelay  time.Duration
	log        *zap.Logger
}

func NewRetryProvider(inner PaymentProvider, maxRetries int, baseDelay time.Duration, log *zap.Logger) PaymentProvider {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &retryProvider{
		inner:      inner,
		maxRetries: uint64(maxRetries),
		baseDelay:  baseDelay,
		log:        log.With(zap.String("gateway", "retry_provider")),
	}
}

func (p *retryProvider) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.baseDelay
	return backoff.WithContext(backoff.WithMaxRetries(b, p.maxRetries), ctx)
}

func (p *retryProvider) CreateCharge(ctx context.Context, amount decimal.Decimal, method, reference string) (*ChargeResult, error) {
	var result *ChargeResult

	operation := func() error {
		var err error
		result, err = p.inner.CreateCharge(ctx, amount, method, reference)
		if err != nil {
			p.log.Warn("Provider charge attempt failed",
				zap.Error(err),
				zap.String("reference", reference),
			)
		}
		return err
	}

	if err := backoff.Retry(operation, p.policy(ctx)); err != nil {
		return nil, fmt.Errorf("create charge for %s: %w: %v", reference, entity.ErrProvider, err)
	}

	return result, nil
}

func (p *retryProvider) CreateRefund(ctx context.Context, providerTxnID string, amount decimal.Decimal) (string, error) {
	var refundID string

	operation := func() error {
		var err error
		refundID, err = p.inner.CreateRefund(ctx, providerTxnID, amount)
		if err != nil {
			p.log.Warn("Provider refund attempt failed",
				zap.Error(err),
				zap.String("provider_txn_id", providerTxnID),
			)
		}
		return err
	}

	if err := backoff.Retry(operation, p.policy(ctx)); err != nil {
		return "", fmt.Errorf("create refund for %s: %w: %v", providerTxnID, entity.ErrProvider, err)
	}

	return refundID, nil
}
