package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/casuse/website-backend/pkg/config"
	"github.com/casuse/website-backend/pkg/database"
	"github.com/casuse/website-backend/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "website",
		Short:         "Casuse website backend: customer registration and admin directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	return root
}

// bootstrap loads config, builds the logger and opens the pool.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env, cfg.EffectiveLogLevel())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL(), database.Options{
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		MaxLifetime: cfg.Database.MaxLifetime,
	})
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
	}

	log.Info("connected to postgres",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)
	return cfg, log, pool, nil
}
