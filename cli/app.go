package cli

import (
	"context"
	"fmt"

	"attendify/config"
	"attendify/database"
	"attendify/services/attendance"
	"attendify/services/members"
	"attendify/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// App holds the wired services for one process.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Stores  *database.Stores
	Redis   *redis.Client
	Members *members.DefaultMemberService
	Ledger  *attendance.Ledger
}

// NewApp opens the configured stores and builds the services on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	stores, err := database.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s stores: %w", cfg.StoreBackend, err)
	}
	app := &App{Config: cfg, Logger: logger, Stores: stores}

	policy, err := attendance.ParsePolicy(cfg.AttendancePolicy)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	opts := []attendance.Option{attendance.WithPolicy(policy)}

	if cfg.RedisAddr != "" {
		client, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisLockDB)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		app.Redis = client
		opts = append(opts, attendance.WithLocker(attendance.NewRedisLocker(client, cfg.LockTTL, logger), cfg.LockWait))
	} else {
		opts = append(opts, attendance.WithLocker(attendance.NewLocalLocker(), cfg.LockWait))
	}

	app.Members = members.NewMemberService(stores.Members, logger)
	app.Ledger = attendance.NewLedger(stores.Records, app.Members, logger, opts...)
	return app, nil
}

// HealthChecks lists the checks the health monitor runs.
func (a *App) HealthChecks() map[string]utils.HealthCheck {
	checks := map[string]utils.HealthCheck{}
	if a.Stores.Ping != nil {
		checks[a.Stores.Backend] = a.Stores.Ping
	} else {
		checks[a.Stores.Backend] = func(ctx context.Context) error {
			_, err := a.Stores.Records.LoadAll(ctx)
			return err
		}
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases every connection.
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if err := a.Stores.Close(ctx); err != nil {
		a.Logger.Warn("Failed to close store", zap.Error(err))
	}
}
