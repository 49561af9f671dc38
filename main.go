package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"staynest/cmd"
	"staynest/internal/data/repository"
	"staynest/internal/dto/response"
	"staynest/internal/wire"
	"staynest/pkg/cache"
	"staynest/pkg/database"
	"staynest/pkg/payment"
	"staynest/pkg/utils"

	"go.uber.org/zap"
)

const sessionSweepInterval = time.Hour

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	repos := repository.NewRepository(db, logger)

	propertyCache := cache.New[response.PropertyDetailResponse](config.Cache.MaxSize, config.Cache.TTL, "property", logger)
	defer propertyCache.Stop()

	gateway, err := payment.NewPayPalGateway(config.PayPal, logger)
	if err != nil {
		logger.Fatal("Failed to init payment gateway", zap.Error(err))
	}

	go sweepSessions(ctx, repos.Session, logger)

	app := wire.Wiring(repos, config, gateway, propertyCache, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// sweepSessions purges long-expired sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
