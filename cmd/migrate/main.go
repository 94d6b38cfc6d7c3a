// Package main is a small goose wrapper for running migrations out of band:
//
//	migrate up      apply all pending migrations
//	migrate down    roll back the most recent migration
//	migrate status  print the status of every known migration
//
// The database is taken from DATABASE_URL (a .env file is honoured).
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/atlasbus/backend/migrations"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
		os.Exit(2)
	}
	command := os.Args[1]

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		slog.Error("failed to create goose provider", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		exitOnError(err)
		for _, r := range results {
			slog.Info("applied", "migration", r.Source.Path)
		}
	case "down":
		result, err := provider.Down(ctx)
		exitOnError(err)
		slog.Info("rolled back", "migration", result.Source.Path)
	case "status":
		statuses, err := provider.Status(ctx)
		exitOnError(err)
		for _, s := range statuses {
			fmt.Printf("%-40s %s\n", s.Source.Path, s.State)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: migrate <up|down|status>\n", command)
		os.Exit(2)
	}
}

func exitOnError(err error) {
	if err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
