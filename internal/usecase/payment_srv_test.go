package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinema-checkout/internal/data/entity"
	"cinema-checkout/internal/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePaymentCreatesProcessingPayment(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))

	payment, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusProcessing, payment.Status)
	assert.Equal(t, booking.FinalAmount, payment.Amount)
	assert.NotNil(t, payment.ProviderTransactionID)
	assert.NotEmpty(t, payment.PaymentURL)

	bookingID, _ := uuid.Parse(booking.ID)
	stored, err := env.bookings.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusProcessing, stored.PaymentStatus)
}

func TestInitiatePaymentRejectsLapsedHold(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))
	backdateExpiry(t, env, booking.ID)

	_, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	assert.ErrorIs(t, err, entity.ErrStateConflict)
}

func TestInitiatePaymentProviderFailure(t *testing.T) {
	env := newTestEnv()
	env.provider.chargeErr = errors.New("gateway timeout")
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))

	_, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	assert.Error(t, err)

	// The booking stays pending so the customer can retry.
	bookingID, _ := uuid.Parse(booking.ID)
	stored, err := env.bookings.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)
}

func TestCallbackFailureLeavesBookingPending(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))

	payment, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	require.NoError(t, err)

	err = env.service.Payment.HandleProviderCallback(context.Background(), &request.ProviderCallbackRequest{
		ProviderTransactionID: *payment.ProviderTransactionID,
		Outcome:               "failure",
	})
	require.NoError(t, err)

	bookingID, _ := uuid.Parse(booking.ID)
	stored, err := env.bookings.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)
	assert.Equal(t, entity.PaymentStatusFailed, stored.PaymentStatus)

	paymentID, _ := uuid.Parse(payment.ID)
	failed, err := env.payments.FindByID(context.Background(), paymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, failed.Status)

	// A fresh payment attempt is still possible.
	_, err = env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	assert.NoError(t, err)
}

func TestDuplicateCallbackIsIgnored(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))
	payment := payBooking(t, env, booking.ID)

	// The provider redelivers; the settled payment absorbs it.
	err := env.service.Payment.HandleProviderCallback(context.Background(), &request.ProviderCallbackRequest{
		ProviderTransactionID: *payment.ProviderTransactionID,
		Outcome:               "success",
	})
	require.NoError(t, err)

	bookingID, _ := uuid.Parse(booking.ID)
	tickets, err := env.tickets.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestInitiatePaymentRejectsSecondAttemptInFlight(t *testing.T) {
	env := newTestEnv()
	booking := createBooking(t, env, newBookingRequest(uuid.New(), uuid.New(), "125000"))

	_, err := env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	require.NoError(t, err)

	// The first charge is still processing; a retry must not open a second
	// one against the same booking.
	_, err = env.service.Payment.InitiatePayment(context.Background(), &request.InitiatePaymentRequest{
		BookingID: booking.ID,
		Method:    "card",
	})
	assert.ErrorIs(t, err, entity.ErrStateConflict)

	bookingID, _ := uuid.Parse(booking.ID)
	payments, err := env.payments.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestDuplicateCapturedPaymentIsRefunded(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	booking := createBooking(t, env, newBookingRequest(userID, uuid.New(), "125000"))
	payBooking(t, env, booking.ID)

	// A second charge that raced past the in-flight gate on another node.
	// Its capture must come back as a refund, never a second confirmation.
	bookingID, _ := uuid.Parse(booking.ID)
	now := time.Now()
	dupTxn := "dup-" + uuid.New().String()
	dup := &entity.Payment{
		Base:                  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BookingID:             bookingID,
		Amount:                decimal.RequireFromString(booking.FinalAmount),
		Method:                "card",
		Status:                entity.PaymentStatusProcessing,
		ProviderTransactionID: &dupTxn,
	}
	require.NoError(t, env.payments.Create(context.Background(), dup))

	err := env.service.Payment.HandleProviderCallback(context.Background(), &request.ProviderCallbackRequest{
		ProviderTransactionID: dupTxn,
		Outcome:               "success",
	})
	require.NoError(t, err)

	refunded, err := env.payments.FindByID(context.Background(), dup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, refunded.Status)

	refunds, err := env.refunds.FindByPaymentID(context.Background(), dup.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, entity.RefundStatusCompleted, refunds[0].Status)
	assert.True(t, refunds[0].Amount.Equal(dup.Amount), "got %s", refunds[0].Amount)

	// The booking keeps the money state of the payment that confirmed it.
	stored, err := env.bookings.FindByID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, entity.PaymentStatusCompleted, stored.PaymentStatus)

	tickets, err := env.tickets.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	// Earned points survive; only the duplicate capture was unwound.
	account, err := env.service.Loyalty.GetAccount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), account.CurrentPoints)
}

func TestCallbackForUnknownTransaction(t *testing.T) {
	env := newTestEnv()

	err := env.service.Payment.HandleProviderCallback(context.Background(), &request.ProviderCallbackRequest{
		ProviderTransactionID: "no-such-txn",
		Outcome:               "success",
	})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
