package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/hydrobuddy/pkg/cleanup"
)

// PgStore keeps key/value pairs in the kv_store table.
type PgStore struct {
	conn PgConnection
}

func NewPgStore(ctx context.Context, cfg DBConfig) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, errors.New("creating connection for kv store error: " + err.Error())
	}
	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, errors.New("error while pinging connection for kv store: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &PgStore{
		conn: pool,
	}, nil
}

func NewPgStoreWithConn(conn PgConnection) (*PgStore, error) {
	err := conn.Ping(context.Background())
	if err != nil {
		return nil, errors.New("error while pinging connection for kv store: " + err.Error())
	}
	return &PgStore{
		conn: conn,
	}, nil
}

func (ps *PgStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	row := ps.conn.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.New("getting value by key error: " + err.Error())
	}
	return value, true, nil
}

func (ps *PgStore) Set(ctx context.Context, key, value string) error {
	_, err := ps.conn.Exec(ctx,
		`INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW();`,
		key, value,
	)
	if err != nil {
		return errors.New("setting value error: " + err.Error())
	}
	return nil
}

func (ps *PgStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ct, err := ps.conn.Exec(ctx, `DELETE FROM kv_store WHERE key = ANY($1);`, keys)
	if err != nil {
		return errors.New("deleting keys error: " + err.Error())
	}
	slog.Debug("kv keys deleted", slog.Int64("rows", ct.RowsAffected()))
	return nil
}
