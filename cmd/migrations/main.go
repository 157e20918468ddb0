package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/vncsmyrnk/pollbot/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollbot/internal/config"
	"github.com/vncsmyrnk/pollbot/internal/logging"
)

func main() {
	list := pflag.Bool("list", false, "print the migrations in apply order and exit")
	pflag.Parse()

	if *list {
		migrations, err := postgres.LoadMigrations()
		if err != nil {
			log.Fatal(err)
		}
		for _, m := range migrations {
			fmt.Println(m.Name)
		}
		return
	}

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	fmt.Printf("%d migration(s) applied.\n", len(applied))
}
