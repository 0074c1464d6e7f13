package postgres

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"
)

// Команды goose, которые поддерживает Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
	MigrateReset  = "reset"
)

// Migrate выполняет команду goose над схемой заказов из dir.
// out получает лог goose; nil глушит его.
func Migrate(dsn, dir, command string, out io.Writer) error {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("migrations dir not found: %q", dir)
	}
	if out == nil {
		out = io.Discard
	}

	goose.SetLogger(log.New(out, "", 0))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	switch command {
	case MigrateUp:
		err = goose.Up(db, dir)
	case MigrateDown:
		err = goose.Down(db, dir)
	case MigrateStatus:
		err = goose.Status(db, dir)
	case MigrateReset:
		err = goose.Reset(db, dir)
	default:
		return fmt.Errorf("unknown migrate command %q (up|down|status|reset)", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
