package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("hydro"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err = goose.Up(conn, "../../migrations"); err != nil {
		t.Fatal(err)
	}
	return &testPGConfig{
		connStr: connStr,
	}
}

func TestPgStoreIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	cfg := setupTestDB(t)
	store, err := repository.NewPgStore(ctx, cfg)
	require.NoError(t, err)

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, repository.Migrate(ctx, cfg, "../../migrations"))
		require.NoError(t, repository.Migrate(ctx, cfg, "../../migrations"))
	})
	t.Run("migrations dir missing", func(t *testing.T) {
		assert.Error(t, repository.Migrate(ctx, cfg, "./no-such-dir"))
	})
	t.Run("upsert", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, repository.KeyProfile, `{"name":"a"}`))
		require.NoError(t, store.Set(ctx, repository.KeyProfile, `{"name":"b"}`))
		value, ok, err := store.Get(ctx, repository.KeyProfile)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"name":"b"}`, value)
	})
	t.Run("delete app keys", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, repository.KeyHistory, `{}`))
		require.NoError(t, store.Delete(ctx, repository.AppKeys...))
		for _, key := range repository.AppKeys {
			_, ok, err := store.Get(ctx, key)
			assert.NoError(t, err)
			assert.False(t, ok, key)
		}
	})
}
