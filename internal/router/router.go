package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyhub-backend/internal/handlers"
	"studyhub-backend/internal/middleware"
	"studyhub-backend/internal/websocket"
)

type Options struct {
	FrontendURL        string
	RateLimitPerMinute int
}

func New(
	jwtAuth *middleware.JWTAuth,
	statsHandler *handlers.StatsHandler,
	activityHandler *handlers.ActivityHandler,
	groupHandler *handlers.GroupHandler,
	studyLogHandler *handlers.StudyLogHandler,
	wsHub *websocket.Hub,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(opts.FrontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Authenticated Routes ────
		r.Group(func(r chi.Router) {
			if opts.RateLimitPerMinute > 0 {
				r.Use(middleware.RateLimit(opts.RateLimitPerMinute))
			}
			r.Use(jwtAuth.Middleware)

			r.Get("/stats", statsHandler.Get)
			r.Get("/activity", activityHandler.List)
			r.Post("/study-logs", studyLogHandler.Create)

			r.Route("/groups/{id}", func(r chi.Router) {
				r.Get("/rank", groupHandler.Rank)
				r.Get("/leaderboard", groupHandler.Leaderboard)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
