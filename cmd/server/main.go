package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/daap14/teamcap/api"
	"github.com/daap14/teamcap/internal/activity"
	"github.com/daap14/teamcap/internal/api"
	"github.com/daap14/teamcap/internal/auth"
	"github.com/daap14/teamcap/internal/backupcode"
	"github.com/daap14/teamcap/internal/capability"
	"github.com/daap14/teamcap/internal/config"
	"github.com/daap14/teamcap/internal/database"
	"github.com/daap14/teamcap/internal/skill"
	"github.com/daap14/teamcap/internal/store"
	"github.com/daap14/teamcap/internal/sweeper"
	"github.com/daap14/teamcap/internal/team"
	"github.com/daap14/teamcap/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		cancel()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx); err != nil {
			cancel()
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}
	cancel()

	deps, sweep := buildDeps(cfg, db, logger)
	router := api.NewRouter(deps)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()
	if sweep != nil {
		go sweep.Start(bgCtx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting teamcap server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		db.Close()
		os.Exit(1)
	}

	bgCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server stopped gracefully")
}

// buildDeps wires repositories and services. The sweeper is nil when
// disabled.
func buildDeps(cfg *config.Config, db *database.DB, logger *slog.Logger) (api.RouterDeps, *sweeper.Sweeper) {
	st := store.New(db.Pool())

	users := user.NewRepository(st)
	sessions := auth.NewRepository(st)
	codes := backupcode.NewRepository(st)
	skills := skill.NewRepository(st)
	teams := team.NewRepository(st)
	invitations := team.NewInvitationRepository(st)
	activities := activity.NewRepository(st)

	codeService := backupcode.NewService(codes, st)
	authService := auth.NewService(users, sessions, codeService, st, cfg.BcryptCost)

	var sweep *sweeper.Sweeper
	if cfg.SweepInterval > 0 {
		sweep = sweeper.New(codes, cfg.SweepInterval, cfg.BackupCodeRetention)
	}

	deps := api.RouterDeps{
		Logger:        logger,
		DB:            db,
		Version:       cfg.Version,
		OpenAPISpec:   specpkg.OpenAPISpec,
		AuthRateLimit: cfg.AuthRateLimit,

		Auth:         authService,
		BackupCodes:  codeService,
		Users:        users,
		Skills:       skills,
		Teams:        teams,
		Invitations:  invitations,
		Activities:   activities,
		Lifecycle:    activity.NewService(activities),
		Membership:   team.NewMembership(teams, invitations),
		Capabilities: capability.NewService(users, invitations, skills, activities),
	}
	return deps, sweep
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
