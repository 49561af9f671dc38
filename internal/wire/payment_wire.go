package wire

import (
	"net/http"

	"staynest/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/payments", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", paymentHandler.Create)
		r.Post("/capture", paymentHandler.Capture)
	})
}
