package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"gamechat/internal/config"
	"gamechat/internal/database"
	"gamechat/internal/handlers"
	"gamechat/internal/metrics"
	"gamechat/internal/middleware"
	"gamechat/internal/router"
	"gamechat/internal/services"
)

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	fail = color.New(color.FgRed, color.Bold).SprintFunc()
)

func step(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", ok("✓"), fmt.Sprintf(format, args...))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", fail("✗"), fmt.Sprintf(format, args...))
	os.Exit(1)
}

func main() {
	fmt.Fprintln(color.Error, "🎮 Starting GameChat...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fatal("Configuration invalid: %v", err)
	}
	step("Environment variables loaded")

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// ──── Step 2: Metrics ────
	var chatMetrics metrics.ChatMetrics = metrics.Noop{}
	if cfg.MetricsEnabled {
		chatMetrics = metrics.NewProm("gamechat")
		step("Prometheus metrics enabled on /metrics")
	}

	// ──── Step 3: Rate Limiter ────
	var limiter middleware.Limiter
	if cfg.RateLimitPerMin > 0 {
		if cfg.RedisURL != "" {
			redisClient, err := database.NewRedisClient(cfg.RedisURL)
			if err != nil {
				fatal("Redis connection failed: %v", err)
			}
			defer redisClient.Close()
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.RateLimitPerMin, time.Minute)
			step("Redis rate limiter ready (%d req/min)", cfg.RateLimitPerMin)
		} else {
			memLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
			defer memLimiter.Close()
			limiter = memLimiter
			step("In-memory rate limiter ready (%d req/min)", cfg.RateLimitPerMin)
		}
	}

	// ──── Step 4: Response Generator ────
	generator := services.NewGenerator(cfg, services.NewGeminiProvider(), logger, chatMetrics)
	step("Gemini generator configured (model %s, multi-turn %t)", cfg.GeminiModel, cfg.GeminiMultiTurn)

	// ──── Step 5: Handlers ────
	indexHandler, err := handlers.NewIndexHandler(logger)
	if err != nil {
		fatal("Landing page template failed: %v", err)
	}
	chatHandler := handlers.NewChatHandler(generator, logger)

	opts := router.Options{
		FrontendURL: cfg.FrontendURL,
		TrustProxy:  cfg.TrustProxy,
		ChatLimiter: limiter,
		Logger:      logger,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = chatMetrics
	}
	r := router.New(indexHandler, chatHandler, opts)

	// ──── Step 6: Start HTTP Server ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		fatal("Listen on %s failed: %v", server.Addr, err)
	}

	step("GameChat ready on http://localhost:%s", cfg.Port)
	fmt.Fprintf(color.Error, "  API: POST http://localhost:%s/api/chat\n", cfg.Port)

	if err := serve(ctx, server, ln, server.WriteTimeout, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// serve runs srv on ln until ctx is cancelled, then drains in-flight requests
// for up to drain before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, drain time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h).With("env", cfg.Env)
}
