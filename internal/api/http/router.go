// Package http wires the service layer to the HTTP surface: routing,
// middleware, request decoding, and response shaping.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wangfeiwest163/toolshub/internal/inspector"
	"github.com/wangfeiwest163/toolshub/internal/metrics"
	"github.com/wangfeiwest163/toolshub/internal/models"
	"github.com/wangfeiwest163/toolshub/internal/service"
)

// CatalogService lists and reads the tool catalog.
type CatalogService interface {
	ListTools(ctx context.Context, params service.ListToolsParams) (*service.ToolPage, error)
	GetToolByID(ctx context.Context, id string) (*models.Tool, error)
	GetToolsByCategory(ctx context.Context, category string) ([]models.Tool, error)
	PopularTools(ctx context.Context, limit int) ([]models.Tool, error)
	RecordUsage(ctx context.Context, id string) (*models.Tool, error)
}

// ShortenerService creates and resolves short URLs.
type ShortenerService interface {
	Shorten(ctx context.Context, longURL, customCode, createdBy string) (*models.ShortURL, error)
	Resolve(ctx context.Context, shortCode string) (*models.ShortURL, error)
	Stats(ctx context.Context, shortCode string) (*models.ShortURL, error)
	Deactivate(ctx context.Context, shortCode string) error
}

// AnalyticsService tracks events and builds usage reports.
type AnalyticsService interface {
	Track(ctx context.Context, params service.TrackParams) (*models.Event, int64, error)
	GetOverview(ctx context.Context) (*service.Overview, error)
	GetDailySummary(ctx context.Context) (*service.DailySummary, error)
	GetWeeklySummary(ctx context.Context) (*service.RangeSummary, error)
	GetMonthlySummary(ctx context.Context) (*service.RangeSummary, error)
	GetToolSummary(ctx context.Context, toolID string) (*service.ToolSummary, error)
	GetEngagement(ctx context.Context) (*service.Engagement, error)
}

// UserService manages accounts, favorites, and tokens.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, login, password string) (*models.User, string, error)
	Profile(ctx context.Context, id string) (*models.User, error)
	AddFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, toolID string) ([]models.Favorite, error)
	Favorites(ctx context.Context, userID string) ([]service.FavoriteTool, error)
	UpdatePreferences(ctx context.Context, userID, theme, language string) (*models.Preferences, error)
	VerifyToken(token string) (string, error)
}

// InspectorService analyzes remote pages.
type InspectorService interface {
	Inspect(ctx context.Context, target string) (*inspector.Report, error)
	QuickCheck(ctx context.Context, target string) (*inspector.QuickReport, error)
}

// RouterOptions bundles the dependencies of NewRouter.
type RouterOptions struct {
	Logger    *httplog.Logger
	Catalog   CatalogService
	Shortener ShortenerService
	Analytics AnalyticsService
	Users     UserService
	Inspector InspectorService

	// Healthy reports whether the primary datastore backs the server;
	// false means the in-memory fallback is active.
	Healthy func() bool

	// RateRPS and RateBurst tune the per-client rate limiter; zero RPS
	// disables it.
	RateRPS   float64
	RateBurst int
}

// getValidate initializes a validator that reports field names from JSON
// tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes the HTTP router with all routes and middleware
// configured.
func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "X-Auth-Token"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	if opts.RateRPS > 0 {
		r.Use(rateLimit(opts.RateRPS, opts.RateBurst))
	}

	r.Get("/healthz", handleHealthz(opts.Healthy))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/s/{shortCode}", handleRedirect(opts.Shortener))

	r.Route("/api", func(r chi.Router) {
		validate := getValidate()

		r.Route("/tools", func(r chi.Router) {
			r.Get("/", handleListTools(opts.Catalog))
			r.Get("/popular", handlePopularTools(opts.Catalog))
			r.Get("/popular/{limit}", handlePopularTools(opts.Catalog))
			r.Get("/category/{category}", handleToolsByCategory(opts.Catalog))
			r.Post("/record-usage/{toolID}", handleRecordUsage(opts.Catalog))
			r.Get("/{id}", handleGetTool(opts.Catalog))
		})

		r.Route("/urls", func(r chi.Router) {
			r.Post("/shorten", handleShortenURL(opts.Shortener, validate))
			r.Get("/stats/{shortCode}", handleURLStats(opts.Shortener))
			r.Delete("/{shortCode}", handleDeactivateURL(opts.Shortener))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", handleRegister(opts.Users, validate))
			r.Post("/login", handleLogin(opts.Users, validate))
			r.Get("/profile/{id}", handleProfile(opts.Users))
			r.Get("/favorites/{userID}", handleListFavorites(opts.Users))
			r.Post("/favorites/{userID}/{toolID}", handleAddFavorite(opts.Users))
			r.Delete("/favorites/{userID}/{toolID}", handleRemoveFavorite(opts.Users))

			r.With(requireAuth(opts.Users)).
				Put("/preferences/{userID}", handleUpdatePreferences(opts.Users, validate))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track", handleTrackEvent(opts.Analytics, validate))
			r.Get("/", handleOverview(opts.Analytics))
			r.Get("/daily", handleDailySummary(opts.Analytics))
			r.Get("/weekly", handleWeeklySummary(opts.Analytics))
			r.Get("/monthly", handleMonthlySummary(opts.Analytics))
			r.Get("/engagement", handleEngagement(opts.Analytics))
			r.Get("/tools/{toolID}", handleToolSummary(opts.Analytics))
		})

		r.Route("/url-analyzer", func(r chi.Router) {
			r.Post("/analyze", handleAnalyzeURL(opts.Inspector, validate))
			r.Post("/quick-check", handleQuickCheck(opts.Inspector, validate))
		})
	})

	return r
}
