// Command create-operator provisions a publishing operator:
//
//	create-operator -username editor
//
// The password is read from the OPERATOR_PASSWORD environment variable so
// it never shows up in shell history or process listings.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		logger.Error("create-operator failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	username := flag.String("username", "", "operator username")
	flag.Parse()

	if *username == "" {
		return fmt.Errorf("-username is required")
	}
	password := os.Getenv("OPERATOR_PASSWORD")
	if password == "" {
		return fmt.Errorf("OPERATOR_PASSWORD is not set")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := postgres.NewOperatorRepository(db).CreateOperator(ctx, *username, hash)
	if err != nil {
		return fmt.Errorf("creating operator: %w", err)
	}

	logger.Info("operator created", "username", *username, "id", id.String())
	return nil
}
