package main

import (
	"context"
	"time"

	"github.com/trustex-app/trustex-core/config"
	"github.com/trustex-app/trustex-core/db"
	"github.com/trustex-app/trustex-core/internal/api"
	"github.com/trustex-app/trustex-core/internal/auth"
	"github.com/trustex-app/trustex-core/internal/filestore"
	"github.com/trustex-app/trustex-core/internal/notify"
	"github.com/trustex-app/trustex-core/internal/repository"
	"github.com/trustex-app/trustex-core/internal/service"
	"github.com/trustex-app/trustex-core/utils"
)

// Интервал фоновой расчетной горутины, добирающей просроченные сделки.
const settleInterval = 2 * time.Second

func main() {
	cfg, err := config.LoadConfig("./.env")
	if err != nil {
		panic(err)
	}

	logger := utils.InitLogger(cfg.LogLevel)

	var repo service.Repository
	switch cfg.Storage {
	case "file":
		store, err := filestore.NewStore(cfg.DataDir, logger)
		if err != nil {
			logger.Fatalf("✖ Failed to open file storage: %v", err)
		}
		defer store.Close()
		repo = store
		logger.Infof("📦 File storage: %s", cfg.DataDir)
	default:
		database, err := db.ConnectDb(cfg.DB_URL, logger)
		if err != nil {
			logger.Fatalf("✖ Failed to connect to database: %v", err)
		}
		if err := db.Migrate(database, true, logger); err != nil {
			logger.Fatalf("✖ Failed to migrate database: %v", err)
		}
		repo = repository.NewRepository(database, logger)
	}

	notifier := notify.NewNotifier(&cfg, logger)
	svc := service.NewService(repo, notifier, &cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartSettler(ctx, settleInterval)

	gateway := auth.NewGateway(cfg.TelegramBotToken, cfg.JWTSecret, cfg.AdminIDList())
	router := api.NewRouter(api.NewHandler(svc, gateway, logger))

	logger.Infof("✅ HTTP server listening on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatalf("✖ HTTP server stopped: %v", err)
	}
}
