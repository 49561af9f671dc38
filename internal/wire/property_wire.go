package wire

import (
	"net/http"

	"staynest/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProperty(r chi.Router, propertyHandler *adaptor.PropertyHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/properties", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", propertyHandler.Create)
		r.Get("/", propertyHandler.List)
		r.Get("/host/me", propertyHandler.ListMine)
		r.Get("/{id}", propertyHandler.Get)
		r.Put("/{id}", propertyHandler.Update)
		r.Delete("/{id}", propertyHandler.Delete)
	})
}
