// Package app assembles the datastore, services, and HTTP server and runs
// them until the context is canceled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	api "github.com/wangfeiwest163/toolshub/internal/api/http"
	"github.com/wangfeiwest163/toolshub/internal/config"
	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/database/memory"
	"github.com/wangfeiwest163/toolshub/internal/database/mongodb"
	"github.com/wangfeiwest163/toolshub/internal/inspector"
	"github.com/wangfeiwest163/toolshub/internal/service"
)

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel: slog.LevelDebug,
		Concise:  true,
	}

	switch env {
	case config.EnvStage:
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
	case config.EnvProd:
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
		opts.Concise = false
	}

	return httplog.NewLogger("toolshub", opts)
}

// newStore connects to MongoDB; if that fails it falls back to the seeded
// in-memory store so the server still comes up.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) *database.Store {
	store, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.DB,
		mongodb.WithConnectTimeout(cfg.Mongo.ConnectTimeout))
	if err != nil {
		logger.Warn("mongodb unavailable, using in-memory store",
			slog.String("uri", cfg.Mongo.URI),
			slog.Any("err", err),
		)
		return memory.NewStore()
	}

	logger.Info("connected to mongodb", slog.String("db", cfg.Mongo.DB))

	return store
}

// Run starts the application and blocks until ctx is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	store := newStore(ctx, cfg, logger.Logger)
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("failed to close datastore", slog.Any("err", err))
		}
	}()

	catalogSvc := service.NewCatalogService(store.Tools)
	shortenerSvc := service.NewShortenerService(store.URLs, logger.Logger, cfg.Shortener.BaseURL, cfg.Shortener.CodeLength)
	analyticsSvc := service.NewAnalyticsService(store.Events, store.Tools)
	userSvc := service.NewUserService(store.Users, store.Tools, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	pageInspector := inspector.New(
		inspector.WithTimeout(cfg.Inspector.Timeout),
		inspector.WithMaxRedirects(cfg.Inspector.MaxRedirects),
		inspector.WithUserAgent(cfg.Inspector.UserAgent),
	)

	router := api.NewRouter(api.RouterOptions{
		Logger:    logger,
		Catalog:   catalogSvc,
		Shortener: shortenerSvc,
		Analytics: analyticsSvc,
		Users:     userSvc,
		Inspector: pageInspector,
		Healthy:   func() bool { return !store.Fallback },
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr))

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
