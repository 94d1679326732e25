package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -destination=mocks/kvstore_mock.go -package=mocks github.com/limbo/hydrobuddy/internal/repository KVStore

// Keys under which the application state is persisted
const (
	KeyProfile          = "hydrobuddy_user"
	KeyHistory          = "hydrobuddy_history"
	KeyReminderSettings = "hydrobuddy_reminder_settings"
	KeyWeather          = "hydrobuddy_weather"
	KeyWeatherFetchedAt = "hydrobuddy_weather_fetch"
	KeyRemoteToken      = "token"
)

// AppKeys are removed by a full data reset.
var AppKeys = []string{
	KeyProfile,
	KeyHistory,
	KeyReminderSettings,
	KeyWeather,
	KeyWeatherFetchedAt,
}

type KVStore interface {
	// Returns value stored under key. ok is false when key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Creates or overwrites value under key
	Set(ctx context.Context, key, value string) error
	// Removes keys. Absent keys are ignored
	Delete(ctx context.Context, keys ...string) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
