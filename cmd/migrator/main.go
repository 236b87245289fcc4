package main

import (
	"log"

	"github.com/UnknownOlympus/ems/internal/config"
	"github.com/UnknownOlympus/ems/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	cfg := config.MustLoad()

	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Migrations are applied to postgres only, storage driver is %q", cfg.Storage.Driver)
	}

	dbpool, dbErr := repository.NewDatabase(
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if migrationErr := goose.Up(dtb, cfg.Migrations); migrationErr != nil {
		log.Fatalf("Failed to apply migrations from %s: %v", cfg.Migrations, migrationErr) //nolint:gocritic // exits
	}

	log.Println("✅ Migrations applied successfully")
}
