package usecase_test

import (
	"context"
	"sync"
	"testing"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"
	"cinema-checkout/internal/gateway"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialRefundLeavesPaymentCompleted(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000", "125000"))
	payment := payBooking(t, env, booking.ID)

	refund, err := env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "100000",
		Reason:    "one seat released",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusCompleted, refund.Status)

	paymentID, _ := uuid.Parse(payment.ID)
	stored, err := env.payments.FindByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, stored.Status)

	remaining, err := env.service.Refund.RemainingRefundable(context.Background(), paymentID)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromInt(150000)), "got %s", remaining)

	events := env.publisher.byQueue(gateway.QueueRefundCompleted)
	assert.Len(t, events, 1)
}

func TestRefundCannotExceedPayment(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000", "125000"))
	payment := payBooking(t, env, booking.ID)

	_, err := env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "100000",
		Reason:    "partial",
	})
	require.NoError(t, err)

	// 250000 paid, 100000 already refunded, 160000 would overdraw.
	_, err = env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "160000",
		Reason:    "too much",
	})
	assert.ErrorIs(t, err, entity.ErrRefundExceedsPayment)
}

func TestConcurrentRefundsNeverOverdrawPayment(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000", "125000"))
	payment := payBooking(t, env, booking.ID)
	paymentID, _ := uuid.Parse(payment.ID)

	const workers = 8
	chunk := decimal.NewFromInt(100000)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.Refund.RefundPayment(context.Background(), paymentID, chunk, "overlap")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entity.ErrRefundExceedsPayment)
	}
	// 250000 captured, 100000 a piece: only two fit.
	assert.Equal(t, 2, succeeded)

	refunded, err := env.refunds.SumCompletedByPaymentID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.True(t, refunded.Equal(decimal.NewFromInt(200000)), "got %s", refunded)

	stored, err := env.payments.FindByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, stored.Status)

	remaining, err := env.service.Refund.RemainingRefundable(context.Background(), paymentID)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(decimal.NewFromInt(50000)), "got %s", remaining)
}

func TestFullRefundFlipsPaymentAndClawsBackPoints(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	booking := createBooking(t, env, newBookingRequest(userID, uuid.New(), "125000", "125000"))
	payment := payBooking(t, env, booking.ID)

	// Confirmation earned 2500 points on 250000 spent.
	account, err := env.service.Loyalty.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, int64(2500), account.CurrentPoints)

	_, err = env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "250000",
		Reason:    "show cancelled",
	})
	require.NoError(t, err)

	paymentID, _ := uuid.Parse(payment.ID)
	stored, err := env.payments.FindByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, stored.Status)

	bookingID, _ := uuid.Parse(booking.ID)
	refundedBooking, err := env.bookings.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, refundedBooking.PaymentStatus)

	account, err = env.service.Loyalty.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.CurrentPoints)

	// A repeat refund on an already-refunded payment is rejected.
	_, err = env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "1",
		Reason:    "again",
	})
	assert.ErrorIs(t, err, entity.ErrPaymentNotRefundable)
}

func TestRefundRequiresCompletedPayment(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))

	payment, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	require.NoError(t, err)

	// Still processing; nothing settled to give back.
	_, err = env.service.Refund.RequestRefund(context.Background(), &request.RequestRefundRequest{
		PaymentID: payment.ID,
		Amount:    "125000",
		Reason:    "early",
	})
	assert.ErrorIs(t, err, entity.ErrPaymentNotRefundable)
}
