//	@title			Filedrop API
//	@version		1.0
//	@description	Issues upload targets for object storage and records uploaded file metadata.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/filedrop/service/internal/config"
	"github.com/filedrop/service/internal/db"
	"github.com/filedrop/service/internal/events"
	"github.com/filedrop/service/internal/files"
	"github.com/filedrop/service/internal/logging"
	appMiddleware "github.com/filedrop/service/internal/middleware"
	"github.com/filedrop/service/internal/storage"
	"github.com/filedrop/service/internal/upload"

	_ "github.com/filedrop/service/docs/swagger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	// Missing credentials leave store nil; the upload endpoint then answers
	// with a configuration error instead of the server refusing to start.
	var store storage.Storage
	if cfg.StorageConfigured() {
		store, err = storage.New(ctx, storage.Options{
			Driver:          cfg.StorageDriver,
			Endpoint:        cfg.StorageEndpoint,
			Region:          cfg.StorageRegion,
			AccessKey:       cfg.StorageAccessKey,
			SecretKey:       cfg.StorageSecretKey,
			Bucket:          cfg.StorageBucket,
			UseSSL:          cfg.StorageUseSSL,
			PublicBase:      cfg.StoragePublicBase,
			EnsureBucket:    cfg.StorageEnsureBucket,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
		if err != nil {
			return fmt.Errorf("object storage init failed: %w", err)
		}
	} else {
		logger.Warn("object storage credentials missing, upload targets disabled",
			zap.String("driver", cfg.StorageDriver))
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("event publisher init failed: %w", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	withStack := !cfg.IsProduction()

	// Wire dependencies: repository → service → handler
	uploadSvc := upload.NewService(store, upload.Options{
		Mode:           cfg.UploadMode,
		TTL:            cfg.UploadURLTTL,
		InlineMaxBytes: cfg.InlineMaxBytes,
	})
	uploadHandler := upload.NewHandler(uploadSvc, withStack)

	fileRepo := files.NewRepository(pool)
	fileSvc := files.NewService(fileRepo, publisher)
	fileHandler := files.NewHandler(fileSvc, withStack)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(appMiddleware.Recover(withStack))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/upload-url", uploadHandler.UploadURL)
		r.Route("/files", fileHandler.Routes)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("upload_mode", cfg.UploadMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
