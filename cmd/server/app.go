package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/seed"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	storage *storage

	jwtService auth.JWTService
	hasher     auth.PasswordHasher

	accounts service.AccountService
	tasks    service.TaskService
	identity service.IdentityResolver
}

// newApplication wires services onto an opened storage backend.
func newApplication(cfg *config.Config, logger *slog.Logger, st *storage) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		storage: st,
		hasher:  auth.NewBcryptHasher(cfg.Auth.BCryptCost),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.accounts, err = service.NewAccountService(
		st.stores.Users,
		app.hasher,
		auth.NewBcryptVerifier(),
		app.jwtService,
		time.Duration(cfg.Auth.TokenLifetimeMinutes)*time.Minute,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.tasks, err = service.NewTaskService(st.stores, st.tx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.identity = service.NewIdentityResolver(st.stores.Users, logger)

	logger.Info("application initialized")
	return app, nil
}

// Run seeds demo data when configured, then serves HTTP until ctx is done.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.config.Seed.DemoData {
		seeder := seed.New(app.storage.stores.Users, app.storage.tx, app.hasher, app.logger)
		if _, err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.storage != nil && app.storage.close != nil {
		if err := app.storage.close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
