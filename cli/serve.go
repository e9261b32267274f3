package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendify/config"
	"attendify/handlers"
	"attendify/middleware"
	"attendify/routes"
	"attendify/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// NewServeCommand creates the serve command, which runs the HTTP API.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			if port != "" {
				cfg.AppPort = port
			}
			return runServer(cmd.Context(), cfg, rootOpts.Logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides APP_PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	router, monitor, err := NewRouter(app)
	if err != nil {
		return err
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitor.Start(monitorCtx, utils.HealthCheckInterval)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	logger.Sugar().Info("serve: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Sugar().Info("serve: server stopped gracefully")
	return nil
}

// NewRouter builds the gin engine for app.
func NewRouter(app *App) (*gin.Engine, *utils.HealthMonitor, error) {
	cfg := app.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	passwordHash, err := adminPasswordHash(cfg)
	if err != nil {
		return nil, nil, err
	}
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		secret = uuid.NewString()
		app.Logger.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}
	tokens := utils.NewTokenManager(secret, cfg.JWTTTL)
	monitor := utils.NewHealthMonitor(app.HealthChecks(), 5*time.Second)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(app.Logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	bundle := handlers.NewHandlerBundle(
		handlers.NewAuthHandler(cfg.AdminUsername, passwordHash, tokens),
		handlers.NewMemberHandler(app.Members),
		handlers.NewAttendanceHandler(app.Ledger),
		monitor,
	)
	routes.RegisterRoutes(router, bundle)
	return router, monitor, nil
}

// adminPasswordHash prefers a configured bcrypt hash and otherwise hashes ADMIN_PASSWORD.
func adminPasswordHash(cfg *config.Config) ([]byte, error) {
	if cfg.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		return []byte(cfg.AdminPasswordHash), nil
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	return bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
}
