package wire

import (
	"net/http"

	"staynest/internal/adaptor"
	"staynest/internal/data/repository"
	"staynest/internal/usecase"
	"staynest/pkg/middleware"
	"staynest/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	gateway usecase.PaymentGateway,
	cache usecase.PropertyCache,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, gateway, cache, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, repo, config, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.ClientURL))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	auth := middleware.AuthSession(config.JWT.Secret, repo.Session, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth, logger)
	wireProperty(r, handler.Property, auth)
	wireBooking(r, handler.Booking, auth)
	wirePayment(r, handler.Payment, auth)
	wireComment(r, handler.Comment, auth)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
