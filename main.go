package main

import (
	"net/http"
	"os"

	"overcooked-menu/config"
	httpapi "overcooked-menu/internal/api/http"
	"overcooked-menu/internal/domain"
	"overcooked-menu/internal/service"
	"overcooked-menu/internal/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(envOr("CONFIG_FILE", config.DefaultConfigFile))
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	handler, closeAll, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to initialise application", "error", err)
	}
	defer closeAll()

	if err := httpapi.StartServer(cfg.Server.Addr, handler, logger); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}

// newApp wires storage, optional Redis and Kafka, services and the router.
// The returned func releases external connections.
func newApp(cfg *config.Config, logger *zap.SugaredLogger) (http.Handler, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warnw("failed to close resource", "error", err)
			}
		}
	}

	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "postgres":
		db := config.MustInitPostgres(cfg.Database, logger)
		closers = append(closers, db.Close)
		pg := storage.NewPostgresBackend(db)
		if err := pg.EnsureSchema(); err != nil {
			closeAll()
			return nil, nil, err
		}
		backend = pg
	default:
		backend = storage.NewFileBackend(cfg.Storage.DataDir)
	}

	store := storage.NewStore(backend, logger)
	if err := store.Init(storage.CollectionDishes, storage.CollectionOrders, storage.CollectionReviews); err != nil {
		closeAll()
		return nil, nil, err
	}
	logger.Infow("document store ready", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)

	dishes := storage.NewCollection[domain.Dish](store, storage.CollectionDishes)
	orders := storage.NewCollection[domain.Order](store, storage.CollectionOrders)
	reviews := storage.NewCollection[domain.Review](store, storage.CollectionReviews)
	images := storage.NewImageStore(cfg.Storage.StaticDir)

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := storage.NewKafkaPublisher(config.NewKafkaWriter(cfg.Kafka))
		closers = append(closers, kafkaPublisher.Close)
		publisher = kafkaPublisher
		logger.Infow("publishing domain events", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	}

	var stats service.OrderStats
	if cfg.Redis.Enabled() {
		client := config.MustInitRedis(cfg.Redis, logger)
		closers = append(closers, client.Close)
		stats = storage.NewRedisStats(client, cfg.Redis.PopularityTTL)
		logger.Infow("recording dish popularity", "redis", cfg.Redis.Addr())
	}

	reviewSvc := service.NewReviewService(reviews, images, publisher, logger)
	dishSvc := service.NewDishService(dishes, reviewSvc, images, logger)
	orderSvc := service.NewOrderService(orders, dishSvc, stats, publisher, service.DefaultQRGenerator{BaseURL: cfg.Server.PublicURL}, logger)

	handler := httpapi.NewHandler(dishSvc, reviewSvc, orderSvc, cfg.Storage.StaticDir)
	return httpapi.NewRouter(handler), closeAll, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
