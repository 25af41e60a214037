package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/trainingdesk-backend/api/routes"
	"github.com/angelmondragon/trainingdesk-backend/internal/assistant"
	"github.com/angelmondragon/trainingdesk-backend/internal/auth"
	"github.com/angelmondragon/trainingdesk-backend/internal/dashboard"
	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/internal/preferences"
	"github.com/angelmondragon/trainingdesk-backend/internal/products"
	"github.com/angelmondragon/trainingdesk-backend/internal/sessions"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/internal/users"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/metrics"
	"github.com/angelmondragon/trainingdesk-backend/pkg/redis"
	"github.com/angelmondragon/trainingdesk-backend/pkg/security"
)

const shutdownTimeout = 5 * time.Second

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

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisClient = client
	} else {
		logg.Warn(ctx, "redis not configured; idempotency and login rate limiting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	storeOpts := []store.Option{store.WithObserver(metrics.NewStoreMetrics(reg))}
	if cfg.Seed.MockData {
		demoHash, err := security.HashPassword(cfg.Seed.DemoPassword, cfg.Password)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, store.WithInitialState(store.MockState(demoHash)))
		logg.Info(ctx, "store.seeded")
	}
	root := store.New(storeOpts...)

	adminHash, err := adminPasswordHash(ctx, cfg, logg)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Store:  root,
		Logger: logg,
		Admin: auth.AdminAccount{
			Name:         cfg.Admin.Name,
			Email:        cfg.Admin.Email,
			PasswordHash: adminHash,
		},
		JWTConfig:   cfg.JWT,
		Passwords:   cfg.Password,
		ChangeDelay: cfg.Simulation.PasswordChangeDelay,
	})
	if err != nil {
		return err
	}

	dashboardService, err := dashboard.NewService(root)
	if err != nil {
		return err
	}

	preferencesService, err := preferences.NewService(preferences.ServiceParams{Store: root, Logger: logg})
	if err != nil {
		return err
	}

	capLock := &sync.Mutex{}
	productService, err := products.NewService(products.ServiceParams{
		Store:         root,
		Logger:        logg,
		MaxPerPurpose: cfg.Documents.MaxPerPurpose,
		CapLock:       capLock,
	})
	if err != nil {
		return err
	}

	documentService, err := documents.NewService(documents.ServiceParams{
		Store:         root,
		Logger:        logg,
		MaxPerPurpose: cfg.Documents.MaxPerPurpose,
		CapLock:       capLock,
	})
	if err != nil {
		return err
	}

	sessionService, err := sessions.NewService(sessions.ServiceParams{
		Store:     root,
		Responder: assistant.NewCannedResponder(cfg.Simulation.AssistantReplyDelay),
		Replies:   metrics.NewAssistantMetrics(reg),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	userService, err := users.NewService(users.ServiceParams{
		Store:     root,
		Logger:    logg,
		Passwords: cfg.Password,
		SaveDelay: cfg.Simulation.UserSaveDelay,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			metrics.NewHTTPMetrics(reg),
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			authService,
			dashboardService,
			preferencesService,
			productService,
			documentService,
			sessionService,
			userService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	}), "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// adminPasswordHash hashes the configured operator password, generating a one-off
// password for this process when none is set.
func adminPasswordHash(ctx context.Context, cfg *config.Config, logg *logger.Logger) (string, error) {
	password := cfg.Admin.Password
	if password == "" {
		generated, err := security.GenerateTempPassword(16)
		if err != nil {
			return "", err
		}
		password = generated
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"admin_email":    cfg.Admin.Email,
			"admin_password": generated,
		}), "admin password not configured; generated one for this process")
	}
	return security.HashPassword(password, cfg.Password)
}
