package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/vncsmyrnk/pollbot/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollbot/internal/adapters/metrics"
	"github.com/vncsmyrnk/pollbot/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollbot/internal/config"
	"github.com/vncsmyrnk/pollbot/internal/core/services"
	"github.com/vncsmyrnk/pollbot/internal/logging"
)

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	cfg, err := config.Load(pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}

	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	draftRepo := postgres.NewDraftRepository(db)

	m := metrics.NewMetricService()
	userService := services.NewUserService(userRepo)
	pollService := m.InstrumentPolls(services.NewPollService(tx, pollRepo, userRepo))
	voteService := m.InstrumentVotes(services.NewVoteService(tx, pollRepo, voteRepo, userRepo))
	draftService := m.InstrumentDrafts(services.NewDraftService(tx, draftRepo, pollRepo, userRepo, cfg.MaxAnswers))

	handler := http.NewHandler(http.Handlers{
		Polls:   http.NewPollHandler(pollService, cfg.MaxPollsPerUser),
		Votes:   http.NewVoteHandler(voteService),
		Drafts:  http.NewDraftHandler(draftService),
		Users:   http.NewUserHandler(userService),
		Metrics: m.Handler(),
	}, []byte(cfg.JWTSecret))
	server := &stdhttp.Server{Addr: cfg.Listen, Handler: handler}

	go func() {
		slog.Info("server listening", slog.String("addr", cfg.Listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
