// Command server runs the newsletter HTTP API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/idempotency"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.RedactPII != nil {
		logger.SetRedactPII(*cfg.Log.RedactPII)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	templates := email.NewTemplateService()
	composer := email.NewConfirmationComposer(templates, cfg.Server.BaseURL)

	subscribers := postgres.NewSubscriberRepository(db)
	operators := postgres.NewOperatorRepository(db)

	server := api.NewServer(cfg.Server.Addr(),
		subscription.NewService(subscribers, sender, composer),
		newsletter.NewService(subscribers, sender, templates),
		idempotency.NewPostgresGuard(db),
		auth.NewValidator(operators),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newSender(cfg *config.Config) (email.Sender, error) {
	switch cfg.Email.Provider {
	case "ses":
		return email.NewSESSender(context.Background(), cfg.Email.SES, cfg.Email.FromEmail, cfg.Email.FromName)
	case "smtp":
		return email.NewSMTPSender(cfg.Email.SMTP, cfg.Email.FromEmail, cfg.Email.FromName), nil
	case "http":
		return email.NewHTTPSender(cfg.Email.HTTP, cfg.Email.FromEmail, cfg.Email.FromName), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
