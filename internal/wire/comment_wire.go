package wire

import (
	"net/http"

	"staynest/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/comments", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", commentHandler.Add)
		r.Get("/{id}", commentHandler.ListByProperty) // id is the property id
		r.Delete("/{id}", commentHandler.Delete)
	})
}
