package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/casuse/website-backend/internal/http/handlers"
	"github.com/casuse/website-backend/internal/http/router"
	"github.com/casuse/website-backend/internal/platform/auth"
	"github.com/casuse/website-backend/internal/platform/mailer"
	"github.com/casuse/website-backend/internal/repo/postgres"
	"github.com/casuse/website-backend/internal/seed"
	"github.com/casuse/website-backend/internal/service"
	"github.com/casuse/website-backend/pkg/database"
	"github.com/casuse/website-backend/pkg/events"
	"github.com/casuse/website-backend/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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
			issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTAlgorithm, cfg.AccessTokenTTL())
			if err != nil {
				return err
			}

			customers := postgres.NewCustomersRepo(pool)
			tokens := postgres.NewRegistrationTokensRepo(pool)

			if _, err := seed.Run(ctx, customers, hasher, log); err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			var eventBus events.Publisher = events.NoopPublisher{}
			if cfg.NATS.URL != "" {
				bus, err := events.NewNATSEventBus(cfg.NATS.URL, log)
				if err != nil {
					return err
				}
				eventBus = bus
				log.Info("publishing events to NATS", zap.String("url", cfg.NATS.URL))
			}
			defer eventBus.Close()

			metrics.MustRegister(prometheus.DefaultRegisterer)

			registration := service.NewRegistrationService(customers, tokens, hasher, mailer.NewLogMailer(log), eventBus, cfg, log)
			authSvc := service.NewAuthService(customers, hasher, issuer, cfg, log)
			h := handlers.New(registration, authSvc, service.NewCustomerService(customers), log)

			srv := &http.Server{
				Addr: cfg.Addr(),
				Handler: router.New(h, authSvc, router.Options{
					CORSOrigins: cfg.CORSOrigins(),
					Log:         log,
					Metrics:     true,
				}),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("starting http server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down http server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}
