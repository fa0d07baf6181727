package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusPending, BookingStatusExpired},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusExpired},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusExpired, BookingStatusConfirmed},
		{BookingStatusCompleted, BookingStatusCancelled},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []BookingStatus{BookingStatusCancelled, BookingStatusExpired, BookingStatusCompleted} {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal(), string(status))
	}
	for _, status := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed} {
		b := &Booking{Status: status}
		assert.False(t, b.IsTerminal(), string(status))
	}
}
