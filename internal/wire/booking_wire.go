package wire

import (
	"cinema-checkout/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, concessionHandler *adaptor.ConcessionHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Create a booking (holds seats, prices the cart)
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings/{code} - Booking detail with tickets and payments
		r.Get("/{code}", bookingHandler.GetBookingByCode)

		// PUT /api/bookings/{id}/cancel - Cancel a pending or confirmed booking
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/bookings/{id}/complete - Mark attendance after the show
		r.Put("/{id}/complete", bookingHandler.CompleteBooking)
	})

	// GET /api/users/{id}/bookings - Booking history
	r.Get("/api/users/{id}/bookings", bookingHandler.GetUserBookings)

	// GET /api/concessions - Concession catalog (public)
	r.Get("/api/concessions", concessionHandler.GetAvailable)
}
