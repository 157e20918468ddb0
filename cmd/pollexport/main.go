package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/vncsmyrnk/pollbot/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollbot/internal/config"
	"github.com/vncsmyrnk/pollbot/internal/core/services"
	"github.com/vncsmyrnk/pollbot/internal/logging"
)

// pollexport writes the voter statistics of one poll as JSON to stdout.
func main() {
	pollID := pflag.Int64("poll", 0, "poll id")
	ownerID := pflag.Int64("owner", 0, "id of the poll owner requesting the export")
	pflag.Parse()

	if *pollID == 0 || *ownerID == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	pollService := services.NewPollService(postgres.NewTransactor(db), postgres.NewPollRepository(db), userRepo)

	stats, err := pollService.Statistics(ctx, *pollID, *ownerID)
	if err != nil {
		log.Fatalf("Error exporting poll: %v", err)
	}
	if stats == nil {
		log.Fatalf("poll %d not found for owner %d", *pollID, *ownerID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		log.Fatal(err)
	}
}
