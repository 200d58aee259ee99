package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/http/handlers"
	authmw "github.com/casuse/website-backend/internal/http/middleware"
	mw "github.com/casuse/website-backend/pkg/middleware"
)

const ServiceName = "website-backend"

type Options struct {
	CORSOrigins []string
	Log         *zap.Logger
	// Metrics serves the Prometheus registry on /metrics when set.
	Metrics bool
}

func New(h *handlers.Handlers, authn authmw.Authenticator, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.ServiceName(ServiceName))
	r.Use(mw.Logging(log))
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	if opts.Metrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/public", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Get("/password-setup/{token}", h.ValidatePasswordSetup)
			r.Post("/password-setup/{token}", h.CompletePasswordSetup)
			r.Post("/login", h.Login)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireCustomer(authn, log))
			r.Use(authmw.RequireAdmin(log))
			r.Get("/customers", h.ListCustomers)
			r.Get("/customers/{id}", h.GetCustomer)
		})
	})

	return r
}
