package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/globaltire/storefront/internal/account"
	"github.com/globaltire/storefront/internal/health"
	"github.com/globaltire/storefront/internal/middleware"
	"github.com/globaltire/storefront/internal/session"
	"github.com/globaltire/storefront/internal/shop"
	"github.com/globaltire/storefront/internal/upstream"
)

// RouterConfig carries the pieces the router wires together.
type RouterConfig struct {
	Upstream       *upstream.Client
	AccountService *account.Service
	SessionStore   *session.Store
	ShopController *shop.Controller
	HealthHandler  *health.Handler
	AllowedOrigins []string
	RateLimitRPS   int
	RateLimitBurst int
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cfg.Upstream, cfg.Logger)
	accountHandler := NewAccountHandler(cfg.AccountService, cfg.Logger)
	sessionHandler := NewSessionHandler(cfg.SessionStore, cfg.Logger)
	shopHandler := NewShopHandler(cfg.ShopController, cfg.Logger)

	// Catalog proxy: read-only, preflight answered with 204.
	r.Route("/api/catalog", func(r chi.Router) {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:  cfg.AllowedOrigins,
			AllowedMethods:  []string{http.MethodGet, http.MethodOptions},
			PreflightStatus: http.StatusNoContent,
		}))
		r.Handle("/", catalogHandler)
		r.Handle("/*", catalogHandler)
	})

	// Account proxy: POST only, preflight answered with 200.
	r.Route("/api/account", func(r chi.Router) {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:  cfg.AllowedOrigins,
			AllowedMethods:  []string{http.MethodPost, http.MethodOptions},
			PreflightStatus: http.StatusOK,
		}))
		r.Post("/", accountHandler.ServeHTTP)
	})

	// Session state: cart and login record per client.
	r.Route("/api/session", func(r chi.Router) {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:  cfg.AllowedOrigins,
			PreflightStatus: http.StatusNoContent,
		}))
		r.Use(ClientIDFromHeader)

		r.Get("/cart", sessionHandler.GetCart)
		r.Delete("/cart", sessionHandler.ClearCart)
		r.Post("/cart/items", sessionHandler.AddItem)
		r.Put("/cart/items/{productID}", sessionHandler.SetQuantity)
		r.Delete("/cart/items/{productID}", sessionHandler.RemoveItem)

		r.Get("/user", sessionHandler.GetUser)
		r.Put("/user", sessionHandler.SetUser)
		r.Delete("/user", sessionHandler.ClearUser)
	})

	// Shop listing views.
	r.Route("/api/shop", func(r chi.Router) {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:  cfg.AllowedOrigins,
			PreflightStatus: http.StatusNoContent,
		}))
		r.Get("/", shopHandler.GetListing)
		r.Post("/reload", shopHandler.Reload)
	})

	return r
}
