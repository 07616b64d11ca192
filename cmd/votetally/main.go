package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/webapps/internal/config"
	"github.com/vncsmyrnk/webapps/internal/core/services"
	"github.com/vncsmyrnk/webapps/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("vote tally recount failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	var timeout time.Duration
	flags := flag.NewFlagSet("votetally", flag.ContinueOnError)
	flags.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flags.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flags.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flags.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flags.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	flags.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum duration of the recount")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Bound the whole job so a stuck query cannot hang it forever.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tallyService := services.NewTallyService(postgres.NewQuestionRepository(db), postgres.NewTallyRepository(db))

	log.Info().Msg("starting vote tally recount")
	start := time.Now()
	if err := tallyService.RecountAll(ctx); err != nil {
		return err
	}
	log.Info().Dur("duration", time.Since(start)).Msg("vote tally recount completed")
	return nil
}
