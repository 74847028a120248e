package database

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
)

// Connect opens the configured database without pinging it; the service
// starts even when the database is down and requests fail until it comes
// back.
func Connect() (*sqlx.DB, error) {
	driver := viper.GetString("DB_DRIVER")
	dsn := viper.GetString("DB_DSN")
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// Single writer connection avoids SQLITE_BUSY under load.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS panel_readings (
    id                BIGSERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    power             DOUBLE PRECISION NOT NULL,
    efficiency        INTEGER NOT NULL,
    status            TEXT NOT NULL,
    temperature       INTEGER NOT NULL,
    dirt_level        INTEGER NOT NULL,
    dust_accumulation TEXT NOT NULL,
    recorded_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_panel_readings_name_recorded
    ON panel_readings (name, recorded_at DESC);
CREATE TABLE IF NOT EXISTS daily_stats (
    date              TEXT PRIMARY KEY,
    total_power       DOUBLE PRECISION NOT NULL,
    avg_efficiency    DOUBLE PRECISION NOT NULL,
    clean_panel_count INTEGER NOT NULL,
    dirty_panel_count INTEGER NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL
);`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS panel_readings (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    name              TEXT NOT NULL,
    power             REAL NOT NULL,
    efficiency        INTEGER NOT NULL,
    status            TEXT NOT NULL,
    temperature       INTEGER NOT NULL,
    dirt_level        INTEGER NOT NULL,
    dust_accumulation TEXT NOT NULL,
    recorded_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_panel_readings_name_recorded
    ON panel_readings (name, recorded_at DESC);
CREATE TABLE IF NOT EXISTS daily_stats (
    date              TEXT PRIMARY KEY,
    total_power       REAL NOT NULL,
    avg_efficiency    REAL NOT NULL,
    clean_panel_count INTEGER NOT NULL,
    dirty_panel_count INTEGER NOT NULL,
    updated_at        TIMESTAMP NOT NULL
);`

// Migrate creates the two tables if they do not exist. Both dialects keep
// identical column names so the repository queries are shared.
func Migrate(db *sqlx.DB) error {
	schema := schemaPostgres
	if db.DriverName() == "sqlite3" {
		schema = schemaSQLite
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
