package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/webapps/internal/config"
	"github.com/vncsmyrnk/webapps/internal/logger"
)

const usage = `usage: migrations [up|reset]

  up     apply pending migrations (default)
  reset  drop every table and recreate the schema (init-db)`

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if command != "up" && command != "reset" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	switch command {
	case "reset":
		err = postgres.Reset(ctx, db)
	default:
		err = postgres.Migrate(ctx, db)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}

	log.Info().Str("command", command).Msg("migrations executed successfully")
}
