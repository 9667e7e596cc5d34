package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"family_album/internal/config"
	"family_album/internal/es"
	"family_album/internal/handlers"
	"family_album/internal/httpserver"
	"family_album/internal/logging"
	"family_album/internal/mykafka"
	"family_album/internal/queue"
	"family_album/internal/repo"
	"family_album/internal/service"
	"family_album/internal/service/search"
	"family_album/internal/storage"
	"family_album/internal/tokens"
	"family_album/internal/worker"
)

const mediaIndex = "media"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repository := repo.New(db)
	codec := tokens.NewCodec(
		[]byte(configuration.JWT_SECRET),
		configuration.ACCESS_TOKEN_TTL,
		configuration.REFRESH_TOKEN_TTL,
	)

	minioStorage, err := storage.NewMinioStorage(
		configuration.MINIO_ENDPOINT,
		configuration.MINIO_ACCESS_KEY,
		configuration.MINIO_SECRET_KEY,
		configuration.MINIO_BUCKET,
		configuration.MINIO_USE_SSL,
	)
	if err != nil {
		log.Fatalf("minio init failed: %v", err)
	}
	if err := minioStorage.EnsureBucket(ctx); err != nil {
		log.Fatalf("minio bucket init failed: %v", err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch init failed: %v", err)
	}
	index := &search.ESIndex{ES: esClient, Name: mediaIndex}

	rdb, err := queue.Connect(ctx, configuration.REDIS_ADDR, configuration.REDIS_PASSWORD, configuration.REDIS_DB)
	if err != nil {
		log.Fatalf("redis init failed: %v", err)
	}

	producer := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	authService := &service.AuthService{Repo: repository, Codec: codec}
	userService := &service.UserService{Repo: repository}
	notificationService := &service.NotificationService{Repo: repository}
	likeService := &service.LikeService{Repo: repository, Notifications: notificationService}
	commentService := &service.CommentService{Repo: repository}
	mediaService := &service.MediaService{
		Repo:     repository,
		Storage:  minioStorage,
		Producer: producer,
		Fanout:   &queue.RedisFanout{RDB: rdb},
		Index:    index,
	}

	fanoutWorker := worker.New(rdb, repository)
	go fanoutWorker.Start(ctx)

	// Periodic sweep of expired refresh-token rows.
	go func() {
		ticker := time.NewTicker(configuration.SWEEP_INTERVAL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := authService.CleanupExpiredTokens(ctx); err != nil {
					logger.Error("token sweep failed", "error", err)
				}
			}
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Codec: codec,
		Auth: &handlers.AuthHandler{
			Auth:       authService,
			Users:      userService,
			Producer:   producer,
			RefreshTTL: configuration.REFRESH_TOKEN_TTL,
		},
		Users:         &handlers.UserHandler{Users: userService},
		Media:         &handlers.MediaHandler{Media: mediaService},
		Likes:         &handlers.LikeHandler{Likes: likeService},
		Comments:      &handlers.CommentHandler{Comments: commentService},
		Notifications: &handlers.NotificationHandler{Notifications: notificationService},
		Search:        &handlers.SearchHandler{Index: index},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	logger.Info("server started", "addr", configuration.HTTP_ADDR)
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	logger.Info("shutdown complete")
}
