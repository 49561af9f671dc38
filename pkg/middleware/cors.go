package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured client origin, or any origin when none is set.
func CORS(clientURL string) func(http.Handler) http.Handler {
	origins := []string{"*"}
	allowCredentials := false
	if clientURL != "" {
		origins = []string{clientURL}
		allowCredentials = true
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
