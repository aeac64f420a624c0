package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dispatch-console/internal/console/consumer"
	"dispatch-console/internal/console/handler"
	"dispatch-console/internal/console/repository"
	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/auth"
	"dispatch-console/pkg/config"
	"dispatch-console/pkg/db"
	"dispatch-console/pkg/rabbitmq"
	"dispatch-console/pkg/websocket"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the console HTTP and websocket server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(parent context.Context, opts *RootOptions) error {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg)
	log.Info("startup", "Starting admin console")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewConnection(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	mq, err := rabbitmq.NewConnection(ctx, cfg, rabbitmq.ConsoleTopology(), log)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer mq.Close()

	registry := service.NewConsoleRegistry(newStores(pool), cfg.Console, service.Deps{Log: log, Publisher: mq})
	hub := websocket.NewHub(log)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	h := handler.New(log, jwtManager, registry, repository.NewOverviewStore(pool), hub)

	consumer.New(mq, hub, log).Start(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Services.AdminConsole),
		Handler:      h.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("startup", fmt.Sprintf("admin console listening on port %d", cfg.Services.AdminConsole))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("shutdown", fmt.Errorf("server error: %w", err))
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown", "Shutdown signal received. Starting graceful shutdown...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", fmt.Errorf("failed to gracefully shutdown: %w", err))
	}

	log.Info("shutdown", "Admin console shutdown complete")
	return nil
}
