package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/staffhubhq/staffhub-backend/api/routes"
	"github.com/staffhubhq/staffhub-backend/internal/auth"
	"github.com/staffhubhq/staffhub-backend/internal/authz"
	"github.com/staffhubhq/staffhub-backend/internal/menu"
	"github.com/staffhubhq/staffhub-backend/internal/permissions"
	"github.com/staffhubhq/staffhub-backend/internal/roles"
	"github.com/staffhubhq/staffhub-backend/internal/scheduler"
	"github.com/staffhubhq/staffhub-backend/internal/shifts"
	"github.com/staffhubhq/staffhub-backend/internal/teams"
	"github.com/staffhubhq/staffhub-backend/internal/timeoff"
	"github.com/staffhubhq/staffhub-backend/internal/users"
	"github.com/staffhubhq/staffhub-backend/pkg/auth/session"
	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
	"github.com/staffhubhq/staffhub-backend/pkg/metrics"
	"github.com/staffhubhq/staffhub-backend/pkg/migrate"
	"github.com/staffhubhq/staffhub-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mailSender, err := mailer.New(cfg.SMTP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	rolesRepo := roles.NewRepository(gormDB)
	shiftsRepo := shifts.NewRepository(gormDB)
	schedulerRepo := scheduler.NewRepository(gormDB)

	gate, err := authz.NewService(authz.ServiceParams{Repo: authz.NewRepository(gormDB)})
	if err != nil {
		logg.Error(context.Background(), "failed to create authorization gate", err)
		os.Exit(1)
	}

	menuService, err := menu.NewService(menu.ServiceParams{Repo: menu.NewRepository(gormDB)})
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:       usersRepo,
		Roles:       rolesRepo,
		Sessions:    sessionManager,
		Menu:        menuService,
		Mailer:      mailSender,
		Logger:      logg,
		JWTCfg:      cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:        usersRepo,
		Roles:       rolesRepo,
		Mailer:      mailSender,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	rolesService, err := roles.NewService(roles.ServiceParams{Repo: rolesRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create role service", err)
		os.Exit(1)
	}

	permissionsService, err := permissions.NewService(permissions.ServiceParams{Repo: permissions.NewRepository(gormDB)})
	if err != nil {
		logg.Error(context.Background(), "failed to create permission service", err)
		os.Exit(1)
	}

	teamsService, err := teams.NewService(teams.ServiceParams{Repo: teams.NewRepository(gormDB)})
	if err != nil {
		logg.Error(context.Background(), "failed to create team service", err)
		os.Exit(1)
	}

	shiftsService, err := shifts.NewService(shifts.ServiceParams{Repo: shiftsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create shift service", err)
		os.Exit(1)
	}

	schedulerService, err := scheduler.NewService(scheduler.ServiceParams{
		Repo: schedulerRepo,
		Tx:   dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler service", err)
		os.Exit(1)
	}

	timeOffService, err := timeoff.NewService(timeoff.ServiceParams{
		Repo:     timeoff.NewRepository(gormDB),
		Shifts:   shiftsRepo,
		Schedule: schedulerRepo,
		Users:    usersRepo,
		Tx:       dbClient,
		Mailer:   mailSender,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create time off service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Sessions:       redisClient,
		SessionChecker: sessionManager,
		Gate:           gate,
		Auth:           authService,
		Users:          usersService,
		Roles:          rolesService,
		Permissions:    permissionsService,
		Teams:          teamsService,
		Shifts:         shiftsService,
		TimeOff:        timeOffService,
		Scheduler:      schedulerService,
		HTTPMetrics:    httpMetrics,
		Gatherer:       registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
