package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gamechat/internal/handlers"
	"gamechat/internal/metrics"
	"gamechat/internal/middleware"
)

// Options carries the optional pieces of the HTTP surface.
type Options struct {
	FrontendURL string
	// TrustProxy rewrites RemoteAddr from forwarding headers. Leave it off
	// unless a proxy in front sets them, or clients can dodge the limiter.
	TrustProxy bool
	// ChatLimiter throttles /api/chat per client IP. Nil disables it.
	ChatLimiter middleware.Limiter
	// Metrics records chat request metrics. Nil disables /metrics.
	Metrics metrics.ChatMetrics
	Logger  *slog.Logger
}

func New(
	indexHandler *handlers.IndexHandler,
	chatHandler *handlers.ChatHandler,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.FrontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Get("/", indexHandler.Index)

	r.Route("/api", func(r chi.Router) {
		if opts.Metrics != nil {
			r.Use(middleware.Metrics(opts.Metrics))
		}
		if opts.ChatLimiter != nil {
			r.Use(middleware.RateLimit(opts.ChatLimiter, opts.Logger))
		}
		r.Post("/chat", chatHandler.Chat)
	})

	return r
}
