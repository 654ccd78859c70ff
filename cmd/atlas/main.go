package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/atlas-console/atlas-console/internal/app"
	"github.com/atlas-console/atlas-console/internal/auth"
	"github.com/atlas-console/atlas-console/internal/dict"
	"github.com/atlas-console/atlas-console/internal/invites"
	"github.com/atlas-console/atlas-console/internal/menu"
	"github.com/atlas-console/atlas-console/internal/observability"
	"github.com/atlas-console/atlas-console/internal/platform/cache"
	"github.com/atlas-console/atlas-console/internal/platform/db"
	"github.com/atlas-console/atlas-console/internal/rbac"
	"github.com/atlas-console/atlas-console/internal/roles"
	"github.com/atlas-console/atlas-console/internal/settings"
	"github.com/atlas-console/atlas-console/internal/shared"
	"github.com/atlas-console/atlas-console/internal/users"
	"github.com/atlas-console/atlas-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The dict cache degrades to pass-through when redis is unreachable.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	auditLogger := shared.NewAuditLogger(dbpool)

	usersRepo := users.NewRepository(dbpool)
	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo)
	usersService := users.NewService(usersRepo, rolesService)

	menuRepo := menu.NewRepository(dbpool)
	menuService := menu.NewService(menuRepo, rolesService, auditLogger)

	resolver := rbac.NewResolver(dbpool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	engine := rbac.NewEngine(users.NewIdentityAdapter(usersRepo), tokens, resolver, logger)
	guard := rbac.Guard{Engine: engine, Logger: logger}

	invitesRepo := invites.NewRepository(dbpool)
	invitesService := invites.NewService(invitesRepo)

	dictRepo := dict.NewRepository(dbpool)
	dictCache := dict.NewCache(redisClient, cfg.DictCacheTTL)
	dictService := dict.NewService(dictRepo, dictCache)

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo)

	authService := auth.NewService(auth.Config{
		AllowSignup:          cfg.AllowSignup,
		AllowSignupRole:      cfg.AllowSignupRole,
		AllowSignupAdmin:     cfg.AllowSignupAdmin,
		SignupWithInviteCode: cfg.SignupWithInviteCode,
	}, tokens, usersService, rolesService, menuService, invitesService, auditLogger)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Guard:           guard,
		AuthHandler:     auth.NewHandler(logger, authService),
		UsersHandler:    users.NewHandler(logger, usersService),
		RolesHandler:    roles.NewHandler(logger, rolesService),
		MenuHandler:     menu.NewHandler(logger, menuService, resolver),
		InvitesHandler:  invites.NewHandler(logger, invitesService),
		DictHandler:     dict.NewHandler(logger, dictService),
		SettingsHandler: settings.NewHandler(logger, settingsService),
		JobHandler:      jobHandler,
		Pool:            dbpool,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
