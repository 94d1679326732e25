package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

// Migrate applies the goose migrations in dir to the Postgres database.
// Already applied versions are skipped.
func Migrate(ctx context.Context, cfg DBConfig, dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.New("migrations dir " + dir + " not found")
	}
	connCfg, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return errors.New("parsing connection string for migrations: " + err.Error())
	}
	db := stdlib.OpenDB(*connCfg)
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return errors.New("error while pinging connection for migrations: " + err.Error())
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.New("setting migrations dialect: " + err.Error())
	}
	if err := goose.Up(db, dir); err != nil {
		return errors.New("applying migrations from " + dir + ": " + err.Error())
	}
	slog.Info("kv store migrations applied", slog.String("dir", dir))
	return nil
}
