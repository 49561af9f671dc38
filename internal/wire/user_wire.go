package wire

import (
	"net/http"

	"staynest/internal/adaptor"
	"staynest/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth func(http.Handler) http.Handler, log *zap.Logger) {
	r.With(auth).Get("/api/users/profile", userHandler.GetProfile)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/", userHandler.GetAllUsers)       // GET /api/admin/users?page=1&limit=10
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{id}
	})
}
