package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Bidon15/piedpiper/internal/middleware"
	"github.com/Bidon15/piedpiper/internal/service"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	TrustProxy     bool
	AllowedOrigins []string
	Gate           service.Gate
	Auth           *AuthHandler
	Restricted     *RestrictedHandler
	// Health is mounted at /health and /ready when set.
	Health *HealthHandler
}

// NewRouter builds the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
		r.Get("/ready", cfg.Health.Ready)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/register", cfg.Auth.Register)
	r.Post("/login", cfg.Auth.Login)
	r.Post("/logout", cfg.Auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.Gate, cfg.Logger))

		r.Get("/authcheck", cfg.Restricted.AuthCheck)
		r.Post("/getstats", cfg.Restricted.GetStats)
		r.Post("/getprofile", cfg.Restricted.GetProfile)
		r.Post("/saveprofile", cfg.Restricted.SaveProfile)
		r.Post("/uploadimage", cfg.Restricted.UploadImage)
		r.Post("/getclients", cfg.Restricted.GetClients)
		r.Post("/addclient", cfg.Restricted.AddClient)
		r.Post("/createticket", cfg.Restricted.CreateTicket)
	})

	return r
}
