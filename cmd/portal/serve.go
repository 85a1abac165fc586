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

	"github.com/spf13/cobra"

	"employee-portal/internal/mail"
	"employee-portal/internal/observability/metrics"
	impl "employee-portal/internal/service/impl"
	"employee-portal/internal/store"
	httpx "employee-portal/internal/transport/http"
	"employee-portal/pkg/db"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the portal API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()
	cfg, logger := rt.cfg, rt.logger

	metrics.MustRegister(serviceName)

	// The server never starts against a partially migrated schema.
	if err := rt.migrateUp(ctx); err != nil {
		return err
	}

	st := store.New(rt.db)

	pw, err := impl.NewPasswordService(cfg.PasswordScheme)
	if err != nil {
		return err
	}
	sessions := impl.NewSessionServiceImpl(st, logger)
	users := impl.NewUserServiceImpl(st, pw, logger)

	if cfg.SeedDefaultUsers {
		n, err := users.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("seed default users: %w", err)
		}
		if n > 0 {
			logger.Warn("seeded default accounts; change their passwords", "created", n)
		}
	}

	sender, err := mail.New(cfg.SMTP, logger)
	if err != nil {
		return fmt.Errorf("mail transport: %w", err)
	}
	if mail.IsPreview(sender) {
		logger.Warn("SMTP_HOST not set; confirmation codes are returned in API responses")
	}

	registration := impl.NewRegistrationServiceImpl(st, pw, sessions, impl.NewEmailServiceImpl(sender),
		impl.RegistrationConfig{
			AppBaseURL:        cfg.AppBaseURL,
			TokenTTL:          cfg.RegTokenTTL,
			PasswordMinLength: cfg.PasswordMinLength,
			MailTimeout:       cfg.MailTimeout,
		}, logger)

	dbName := db.Name(cfg.DatabaseURL)
	health := func(ctx context.Context) (string, error) {
		sqlDB, err := rt.db.DB()
		if err != nil {
			return dbName, err
		}
		return dbName, sqlDB.PingContext(ctx)
	}

	router := httpx.NewRouter(httpx.Deps{
		Auth:           impl.NewAuthServiceImpl(st, pw, sessions, logger),
		Registration:   registration,
		Users:          users,
		Sessions:       sessions,
		Health:         health,
		Logger:         logger,
		ExposeErrors:   cfg.ExposeErrors,
		TrustProxy:     cfg.TrustProxy,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("portal listening", "addr", srv.Addr, "database", dbName, "password_scheme", cfg.PasswordScheme)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
