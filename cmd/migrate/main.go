package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/orders_sync/config"
	pgstore "github.com/Gunvolt24/orders_sync/internal/store/postgres"
)

// CLI миграций схемы хранилища заказов: up | down | status | reset.
func main() {
	dir := flag.String("dir", "migrations", "path to goose migrations")
	dsn := flag.String("dsn", "", "postgres DSN (default: ORDERS_POSTGRES_DSN)")
	flag.Parse()

	command := pgstore.MigrateUp
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if *dsn == "" {
		_ = godotenv.Load(".env.local")
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		*dsn = cfg.Postgres.DSN
	}

	if err := pgstore.Migrate(*dsn, *dir, command, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
