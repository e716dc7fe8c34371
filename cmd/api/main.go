// @title           Social API
// @version         1.0
// @description     Accounts and messages over HTTP.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Social/internal/app"
	"Social/internal/config"
	"Social/internal/logger"
	"Social/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "Social/docs"
)

var envFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "social",
		Short:        "Social API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.AddCommand(newMigrateCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and print status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			db, pool, err := store.Open(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
				if pool != nil {
					pool.Close()
				}
			}()

			res, err := store.Migrate(ctx, db, cfg.DB.Driver)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Int("count", len(res)))

			status, err := store.Status(ctx, db, cfg.DB.Driver)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range status {
				fmt.Fprintf(out, "%-40s %s\n", s.Source.Path, s.State)
			}
			return nil
		},
	}
}

// setup loads the dotenv file (if present), the config and the logger.
func setup() (config.Config, *zap.Logger, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config.Config{}, nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.App.Env)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	log.Info("config loaded, connecting to store", zap.String("driver", cfg.DB.Driver))

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("HTTP server error", zap.Error(err))
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = application.Close(closeCtx)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return application.Close(shutdownCtx)
}
