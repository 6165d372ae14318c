package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/bonuswiser/internal/auth"
	"github.com/mmynk/bonuswiser/internal/config"
	"github.com/mmynk/bonuswiser/internal/draft"
	"github.com/mmynk/bonuswiser/internal/engine"
	"github.com/mmynk/bonuswiser/internal/httpapi"
	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/metrics"
	"github.com/mmynk/bonuswiser/internal/middleware"
	"github.com/mmynk/bonuswiser/internal/service"
	"github.com/mmynk/bonuswiser/internal/storage/sqlstore"
	"github.com/mmynk/bonuswiser/pkg/api/apiconnect"
	"github.com/mmynk/bonuswiser/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	issueToken := flag.String("issue-token", "", "print a staff token for this staff ID and exit")
	staffName := flag.String("staff-name", "", "display name for -issue-token")
	flag.Parse()

	logCloser := logging.Setup()
	defer logCloser.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration.Duration)
	}

	if *issueToken != "" {
		if jwtManager == nil {
			slog.Error("JWT_SECRET is required to issue tokens")
			os.Exit(1)
		}
		token, err := jwtManager.Generate(*issueToken, *staffName)
		if err != nil {
			slog.Error("Failed to issue token", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := run(cfg, jwtManager); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, jwtManager *auth.JWTManager) error {
	store, err := sqlstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Database.Driver)

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		locker = lock.NewRedis(client, cfg.Redis.LockTTL.Duration)
		slog.Info("Using redis customer lock", "addr", cfg.Redis.Addr)
	}

	m := metrics.Bonus()
	autosaver := draft.NewAutosaver(store, locker,
		draft.WithDelay(cfg.Draft.Debounce.Duration),
		draft.WithMetrics(m),
	)
	e := engine.New(store,
		engine.WithLocker(locker),
		engine.WithAutosaver(autosaver),
		engine.WithMetrics(m),
		engine.WithDefaultSettings(cfg.Bonus.Settings()),
	)
	svc := service.NewBonusService(e)

	// Auth runs outermost so the logging interceptor sees the staff ID.
	var interceptors []connect.Interceptor
	restCfg := httpapi.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	}
	switch {
	case cfg.Auth.Required:
		interceptors = append(interceptors, middleware.RequireAuth(jwtManager))
		restCfg.Auth = middleware.RequireAuthHTTP(jwtManager)
	case jwtManager != nil:
		interceptors = append(interceptors, middleware.OptionalAuth(jwtManager))
		restCfg.Auth = middleware.OptionalAuthHTTP(jwtManager)
	default:
		slog.Warn("Staff authentication disabled; redemptions will not record staff IDs")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(m))

	router := httpapi.NewRouter(httpapi.NewHandler(svc, m), restCfg)
	router.Handle("/metrics", metrics.Handler())

	rpcPath, rpcHandler := apiconnect.NewBonusServiceHandler(svc, connect.WithInterceptors(interceptors...))
	router.Mount(rpcPath, rpcHandler)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(corsMiddleware(router), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	if err := autosaver.Close(shutdownCtx); err != nil {
		return fmt.Errorf("failed to flush drafts: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
