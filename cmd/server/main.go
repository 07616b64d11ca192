package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/adapters/handler/http"
	"github.com/vncsmyrnk/webapps/internal/adapters/live"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/webapps/internal/adapters/scheduler"
	"github.com/vncsmyrnk/webapps/internal/config"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
	"github.com/vncsmyrnk/webapps/internal/core/services"
	"github.com/vncsmyrnk/webapps/internal/logger"
)

type repositories struct {
	users     ports.UserRepository
	sessions  ports.SessionRepository
	posts     ports.PostRepository
	questions ports.QuestionRepository
	votes     ports.VoteRepository
	tally     ports.TallyRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer closeRepos()

	hub := live.NewHub()
	go hub.Run(ctx)

	authService := services.NewAuthService(repos.users, repos.sessions, cfg.Server.SecretKey, cfg.Server.SessionTTL)
	pollService := services.NewPollService(repos.questions)
	voteService := services.NewVoteService(repos.questions, repos.votes, hub)
	tallyService := services.NewTallyService(repos.questions, repos.tally)

	if cfg.VoteTallySchedule != "" {
		tallyJob, err := scheduler.New(cfg.VoteTallySchedule, tallyService)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure vote tally")
		}
		tallyJob.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			tallyJob.Stop(stopCtx)
		}()
	}

	render, err := http.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	handler := http.NewHandler(authService, http.Handlers{
		Auth:       http.NewAuthHandler(authService, render, cfg.Server.SessionTTL, !cfg.IsDevelopment()),
		Blog:       http.NewBlogHandler(services.NewPostService(repos.posts), render),
		Poll:       http.NewPollHandler(pollService, render),
		Vote:       http.NewVoteHandler(voteService, pollService, render),
		Calculator: http.NewCalculatorHandler(services.NewCalculatorService(cfg.Calculator.MaxExpressionLength), render),
		User:       http.NewUserHandler(services.NewUserService(repos.users)),
		Live:       http.NewLiveHandler(pollService, hub),
	}, cfg.Server.AllowedOrigins)

	server := &stdhttp.Server{Addr: cfg.Server.Addr, Handler: handler}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("storage", cfg.Storage).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:     store.Users(),
			sessions:  store.Sessions(),
			posts:     store.Posts(),
			questions: store.Questions(),
			votes:     store.Votes(),
			tally:     store.Tally(),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return postgresRepositories(db), func() { db.Close() }, nil
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		users:     postgres.NewUserRepository(db),
		sessions:  postgres.NewSessionRepository(db),
		posts:     postgres.NewPostRepository(db),
		questions: postgres.NewQuestionRepository(db),
		votes:     postgres.NewVoteRepository(db),
		tally:     postgres.NewTallyRepository(db),
	}
}
