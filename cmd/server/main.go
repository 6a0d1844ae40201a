package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/content_backend/internal/config"
	"github.com/Skotchmaster/content_backend/internal/db"
	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/httpserver"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/middleware/auth"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/search"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/storage"
	"github.com/Skotchmaster/content_backend/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	codec, err := tokens.NewCodec(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("image storage: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:   r,
		Hasher: hash.New(cfg.BcryptCost),
		Codec:  codec,
		Events: publisher,
	}
	blogSvc := &service.BlogService{Repo: r, Images: images, MaxImageBytes: cfg.MaxImageBytes}
	if cfg.ES.URL != "" {
		idx, err := search.NewElastic(search.Options{
			URL:      cfg.ES.URL,
			User:     cfg.ES.User,
			Password: cfg.ES.Password,
			Index:    cfg.ES.Index,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := idx.EnsureIndex(esCtx); err != nil {
			logger.Warn("search_index_unavailable", "error", err)
		}
		cancel()
		blogSvc.Index = idx
	}

	e := httpserver.New(&httpserver.Deps{
		DB:               gdb,
		Logger:           logger,
		Gate:             auth.NewGate(authSvc),
		UsersHandler:     &httpserver.UsersHTTP{Svc: authSvc},
		BlogsHandler:     &httpserver.BlogsHTTP{Svc: blogSvc},
		FAQsHandler:      &httpserver.FAQsHTTP{Svc: &service.FAQService{Repo: r}},
		ContactsHandler:  &httpserver.ContactsHTTP{Svc: &service.ContactService{Repo: r, Events: publisher}},
		DashboardHandler: &httpserver.DashboardHTTP{Svc: &service.DashboardService{Repo: r}},
		CORSOrigins:      cfg.CORSOrigins,
		StaticDir:        cfg.StaticDir,
		BodyLimit:        fmt.Sprintf("%dK", cfg.MaxImageBytes/1024+1024),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
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
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	if cfg.StorageBackend == config.StorageS3 {
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
	}
	if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		return nil, err
	}
	return storage.NewLocal(cfg.StaticDir, cfg.PublicBaseURL), nil
}
