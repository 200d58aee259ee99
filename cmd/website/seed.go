package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casuse/website-backend/internal/platform/auth"
	"github.com/casuse/website-backend/internal/repo/postgres"
	"github.com/casuse/website-backend/internal/seed"
	"github.com/casuse/website-backend/pkg/database"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the example customers into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, pool, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			defer func() { _ = log.Sync() }()

			if err := database.EnsureSchema(ctx, pool); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHashScheme, cfg.Auth.BcryptCost)
			if err != nil {
				return err
			}
			if _, err := seed.Run(ctx, postgres.NewCustomersRepo(pool), hasher, log); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			return nil
		},
	}
}
