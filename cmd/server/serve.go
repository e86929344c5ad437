package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lunarbase-server/internal/analysis"
	"lunarbase-server/internal/auth"
	"lunarbase-server/internal/auth/providers"
	"lunarbase-server/internal/crew"
	"lunarbase-server/internal/layout"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/route"
	"lunarbase-server/internal/server"
	"lunarbase-server/internal/shared/config"
	"lunarbase-server/internal/shared/database"
	"lunarbase-server/internal/shared/logger"
	sharedredis "lunarbase-server/internal/shared/redis"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func serve(ctx context.Context, skipMigrations bool) error {
	if err := config.Init(); err != nil {
		return err
	}
	logger.Init()
	cfg := config.GlobalConfig

	log := slog.With("component", "main")
	log.Info("Starting lunarbase server", "environment", cfg.Server.Environment, "port", cfg.Server.Port)

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if !skipMigrations {
		if err := db.RunMigrations(ctx, os.DirFS(cfg.Database.MigrationsPath)); err != nil {
			return err
		}
	}

	redisClient, err := sharedredis.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}()

	var sessions layout.SessionStore = layout.NewMemoryStore()
	if redisClient != nil {
		sessions = layout.NewRedisSessionStore(redisClient.Client, cfg.Redis.SessionTTL, layout.BreakerSettings{
			MaxFailures: cfg.Redis.BreakerMaxFailures,
			Timeout:     cfg.Redis.BreakerTimeout,
		})
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return err
	}

	crewService := crew.NewService(crew.NewRepository(db, slog.Default()), cfg.Admin.Email, slog.Default())
	authService := auth.NewService(crewService, auth.NewRepository(db), tokens, slog.Default())
	states := auth.NewStateManager()
	go states.Run(ctx)

	layoutService := layout.NewService(
		layout.NewRepository(db, slog.Default()),
		sessions,
		layout.NewIDGenerator(cfg.Layout.IDJitter),
		slog.Default(),
	)
	routeRepo := route.NewRepository(db, slog.Default())
	routeService := route.NewService(routeRepo, layoutService, cfg.Layout.RouteSegments, slog.Default())
	analysisService := analysis.NewService(analysis.NewRepository(db, slog.Default()), slog.Default())

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfigFrom(cfg.RateLimit))
	go limiter.Run(ctx)

	routes := server.NewRoutes(cfg, server.Dependencies{
		DB:          db,
		Redis:       redisClient,
		Sessions:    sessions,
		Tokens:      tokens,
		AuthService: authService,
		States:      states,
		GitHub:      providers.NewGitHubProvider(cfg.OAuth.GitHub),
		Crew:        crewService,
		Layouts:     layoutService,
		Routes:      routeService,
		RouteOwners: routeRepo,
		Analysis:    analysisService,
		RateLimiter: limiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      routes.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
