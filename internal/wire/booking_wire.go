package wire

import (
	"net/http"

	"staynest/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", bookingHandler.Create)
		r.Get("/", bookingHandler.ListMine)
		r.Get("/host", bookingHandler.ListHost)
		r.Get("/{id}", bookingHandler.Get)
		r.Put("/{id}", bookingHandler.Update)
		r.Delete("/{id}/cancel", bookingHandler.Cancel)
		r.Put("/{id}/status", bookingHandler.SetStatus)
	})
}
