package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wkmetrics/internal/auth"
	"wkmetrics/internal/database"
	"wkmetrics/internal/logger"
	"wkmetrics/internal/server/api"
	"wkmetrics/internal/server/config"
	"wkmetrics/internal/server/service"
	"wkmetrics/internal/version"

	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version if requested
	if *showVersion {
		info := version.GetInfo()
		fmt.Println(info.String())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	// Initialize database
	db, err := database.New(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Initialize service
	svc, err := service.NewService(cfg, db, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize service", zap.Error(err))
	}
	defer func() {
		_ = svc.Stop()
	}()

	// Initialize auth provider
	provider, closeCache, err := buildAuthProvider(cfg, db, svc, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize auth provider", zap.Error(err))
	}
	if closeCache != nil {
		defer closeCache()
	}

	// Initialize router
	router := api.NewRouter(cfg, svc, provider, zlog)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in background
	go func() {
		zlog.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.Bool("tls", cfg.Server.TLS.Enabled))

		var err error
		if cfg.Server.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			zlog.Fatal("Server error", zap.Error(err))
		}
	}()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for signal
	sig := <-sigChan
	zlog.Info("Received signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	zlog.Info("Starting graceful shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
	}

	zlog.Info("Shutdown complete")
}

// buildAuthProvider wires the database identity provider behind the
// configured role cache and registers cache invalidation on role
// changes. Returns a nil provider when authentication is disabled.
func buildAuthProvider(cfg *config.Config, db database.Interface, svc *service.Service, zlog *zap.Logger) (auth.Provider, func(), error) {
	if !cfg.API.Auth.Enabled {
		return nil, nil, nil
	}

	base := auth.NewDatabaseProvider(db, zlog)

	var cache auth.RoleCache
	var closeCache func()

	switch cfg.API.Auth.Cache {
	case "redis":
		rc, err := auth.NewRedisRoleCache(auth.RedisOptions{
			Addr:     cfg.API.Auth.RedisAddr,
			Password: cfg.API.Auth.RedisPassword,
			DB:       cfg.API.Auth.RedisDB,
			TTL:      cfg.API.Auth.CacheTTL,
		}, zlog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect role cache: %w", err)
		}
		cache = rc
		closeCache = func() {
			_ = rc.Close()
		}
	default:
		cache = auth.NewMemoryRoleCache(cfg.API.Auth.CacheTTL)
	}

	cached := auth.NewCachedProvider(base, cache)
	svc.SetRoleInvalidator(cached.Invalidate)

	return cached, closeCache, nil
}
