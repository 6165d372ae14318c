// Package httpapi exposes the bonus engine as a JSON REST API under
// /discount/{customerId}. Handlers delegate to the Connect BonusService so both
// transports share one set of rules and one error mapping.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/bonuswiser/internal/metrics"
	"github.com/mmynk/bonuswiser/pkg/api/apiconnect"
)

// Config tunes the REST router.
type Config struct {
	// RequestsPerMinute limits each client on the /discount routes. Zero
	// disables the limit.
	RequestsPerMinute float64
	Burst             int

	// Auth, when set, guards the /discount routes.
	Auth func(http.Handler) http.Handler
}

// Handler holds all REST handler state.
type Handler struct {
	svc     apiconnect.BonusServiceHandler
	metrics *metrics.BonusMetrics
}

// NewHandler creates a new REST handler.
func NewHandler(svc apiconnect.BonusServiceHandler, m *metrics.BonusMetrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// NewRouter builds a chi router with the common middleware stack and the REST
// routes mounted. Callers may mount further handlers on the result.
func NewRouter(h *Handler, cfg Config) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(h.metrics))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if cfg.RequestsPerMinute > 0 {
			r.Use(NewRateLimiter(cfg.RequestsPerMinute, cfg.Burst).Middleware)
		}
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		h.Routes(r)
	})

	return r
}

// Routes mounts the bonus routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/discount/{customerId}", func(r chi.Router) {
		r.Get("/", h.GetOverview)
		r.Get("/queue", h.GetQueueStatus)
		r.Post("/auto", h.AutoCreateGroup)

		// Groups
		r.Post("/groups", h.CreateGroup)
		r.Put("/groups/{groupId}", h.UpdateGroup)
		r.Put("/groups/{groupId}/redeem", h.RedeemGroup)
		r.Delete("/groups/{groupId}", h.DeleteGroup)

		// Draft
		r.Put("/draft", h.SaveDraft)
		r.Post("/draft/bundles", h.AddBundle)
		r.Delete("/draft/bundles/{index}", h.RemoveBundle)
		r.Delete("/draft/bundles/{index}/purchases/{orderId}", h.RemovePurchaseFromBundle)
		r.Post("/draft/selection/{orderId}", h.ToggleSelection)
		r.Post("/draft/edit/{groupId}", h.StartEditGroup)
		r.Delete("/draft/edit", h.CancelEdit)
		r.Post("/draft/commit", h.CommitDraft)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
