package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/samyukta/registration-service/internal/config"
	"github.com/samyukta/registration-service/internal/metrics"
	"github.com/samyukta/registration-service/internal/transport/http/handlers"
	authmw "github.com/samyukta/registration-service/internal/transport/http/middleware"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Slots         *handlers.SlotsHandler
	Pricing       *handlers.PricingHandler
	Registrations *handlers.RegistrationsHandler
	Notifications *handlers.NotificationsHandler
	Export        *handlers.ExportHandler
}

// New builds the HTTP surface. limiter may be nil, in which case rate
// limiting falls back to an in-process window per replica.
func New(
	h Handlers,
	auth *authmw.AuthMiddleware,
	limiter authmw.RateLimiter,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)

	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RLEnabled {
			if limiter == nil {
				r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
			} else {
				r.Use(authmw.RateLimitByIP(limiter, cfg.RLLimit, cfg.RLWindow))
			}
		}

		r.Get("/slots", h.Slots.Get)
		r.Post("/pricing/quote", h.Pricing.Quote)
		r.Get("/push/vapid-public-key", h.Notifications.VAPIDKey)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Post("/registrations", h.Registrations.Create)
			r.Post("/registrations/{id}/pitch-deck", h.Registrations.PitchDeck)
			r.Get("/me/registration", h.Registrations.Mine)

			r.Get("/me/notifications", h.Notifications.Inbox)
			r.Post("/me/notifications/{id}/read", h.Notifications.MarkRead)
			r.Post("/me/push-subscriptions", h.Notifications.Subscribe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Require)
			r.Use(authmw.RequireRole("admin"))

			r.Get("/stats", h.Registrations.Stats)
			r.Get("/registrations", h.Registrations.List)
			r.Get("/registrations/{id}", h.Registrations.Get)
			r.Patch("/registrations/{id}/status", h.Registrations.UpdateStatus)

			r.Get("/notifications", h.Notifications.List)
			r.Post("/notifications", h.Notifications.Create)
			r.Post("/notifications/{id}/send", h.Notifications.Send)

			r.Get("/export/registrations.csv", h.Export.CSV)
			r.Post("/export/sheets", h.Export.Sheets)
		})
	})

	return r
}
