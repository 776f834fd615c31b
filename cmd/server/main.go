package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sokomart/shop/internal/cache"
	"github.com/sokomart/shop/internal/config"
	"github.com/sokomart/shop/internal/es"
	"github.com/sokomart/shop/internal/handlers"
	"github.com/sokomart/shop/internal/handlers/cart"
	"github.com/sokomart/shop/internal/logging"
	"github.com/sokomart/shop/internal/mongodb"
	"github.com/sokomart/shop/internal/mykafka"
	"github.com/sokomart/shop/internal/repo"
	"github.com/sokomart/shop/internal/scheduler"
	"github.com/sokomart/shop/internal/service/token"
	httpserver "github.com/sokomart/shop/internal/transport/http"
	"github.com/sokomart/shop/internal/upload"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	if configuration.SECRET_KEY == "" {
		log.Fatal("SECRET_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	client, err := mongodb.Connect(ctx, configuration)
	if err != nil {
		cancel()
		log.Fatalf("mongo init error: %v", err)
	}
	db := client.Database(configuration.DB_NAME)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("index init error: %v", err)
	}
	cancel()

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	tokens := token.New([]byte(configuration.SECRET_KEY))

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	var indexer *es.ProductIndexer
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &es.ProductIndexer{ES: esClient, Index: "product"}
	}

	var viewCache *cache.Client
	if configuration.REDIS_ADDR != "" {
		viewCache = cache.New(configuration.REDIS_ADDR, configuration.REDIS_PASSWORD)
	}

	var uploader handlers.Uploader
	if configuration.CLOUDINARY_CLOUD_NAME != "" {
		cld, err := upload.NewCloudinary(
			configuration.CLOUDINARY_CLOUD_NAME,
			configuration.CLOUDINARY_API_KEY,
			configuration.CLOUDINARY_API_SECRET,
		)
		if err != nil {
			log.Fatalf("cloudinary init error: %v", err)
		}
		uploader = cld
	}

	sched := scheduler.New(logger)
	if indexer != nil {
		if err := sched.Add("@every 10m", "catalog_reindex", func(ctx context.Context) error {
			return indexer.ReindexAll(ctx, products)
		}); err != nil {
			log.Fatalf("scheduler init error: %v", err)
		}
		sched.Start()
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Users: users, Tokens: tokens, Producer: producer},
		ProductHandler: &handlers.ProductHandler{Products: products, Producer: producer, Indexer: indexer, Cache: viewCache},
		UploadHandler:  &handlers.UploadHandler{Uploader: uploader},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: "product"},
		CartHandler:    &cart.CartHandler{Users: users, Producer: producer},
		Tokens:         tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	sched.Stop()

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect error", "error", err)
	}

	logger.Info("shutdown complete")
}
