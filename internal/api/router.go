package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/prohair-dev/trichoscan/internal/api/middleware"
	"github.com/prohair-dev/trichoscan/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit
	AdminAuth *mw.AdminAuth

	HealthHandler       http.HandlerFunc
	AnalyzeHandler      http.HandlerFunc
	UpdateConfigHandler http.HandlerFunc
	ResetQuotaHandler   http.HandlerFunc

	// AdminPanel is mounted under /admin behind AdminAuth; nil leaves the
	// panel unmounted.
	AdminPanel http.Handler
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/healthz", orNotImplemented(deps.HealthHandler))

	// Widget and configuration endpoints
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Post("/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Post("/update-config", orNotImplemented(deps.UpdateConfigHandler))
		r.Post("/reset_quota", orNotImplemented(deps.ResetQuotaHandler))
	})

	if deps.AdminPanel != nil && deps.AdminAuth != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AdminAuth.Require)
			r.Mount("/", deps.AdminPanel)
		})
	}

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Detail(w, http.StatusNotImplemented, "Endpoint not yet implemented")
	}
}
