package root

import (
	"context"
	"errors"
	"log/slog"

	"github.com/limbo/hydrobuddy/internal/notify"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/internal/weather"
)

// openStore picks the key/value backend from the store config.
func openStore(ctx context.Context) (repository.KVStore, error) {
	switch cfg.Store.Driver {
	case "", "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			var err error
			if path, err = repository.DefaultSQLitePath(); err != nil {
				return nil, err
			}
		}
		return repository.OpenSQLiteStore(ctx, path)
	case "postgres":
		pgCfg := pgConfig()
		if cfg.Store.PGMigrations != "" {
			if err := repository.Migrate(ctx, pgCfg, cfg.Store.PGMigrations); err != nil {
				return nil, err
			}
		}
		return repository.NewPgStore(ctx, pgCfg)
	case "memory":
		return repository.NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown store driver: " + cfg.Store.Driver)
	}
}

func openApp(ctx context.Context) (*service.App, repository.KVStore, error) {
	kv, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	var provider service.WeatherProvider
	if cfg.Weather.APIKey != "" {
		provider = weather.NewOpenWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	} else {
		slog.Debug("no weather api key, weather adjustments disabled")
	}
	notifier := notify.NewLogNotifier(slog.Default(), service.Permission(cfg.Notifications.Permission), cfg.Notifications.AutoGrant)
	app := service.NewApp(ctx, service.AppDeps{
		KV:       kv,
		Weather:  provider,
		Notifier: notifier,
		Location: cfg.Weather.City,
	}, service.WithCacheTTL(cfg.Weather.CacheTTL), service.WithRefreshInterval(cfg.Weather.Refresh))
	return app, kv, nil
}

func pgConfig() *repository.PGCfg {
	return &repository.PGCfg{
		Address:  cfg.Store.PGAddress,
		Username: cfg.Store.PGUser,
		Password: cfg.Store.PGPassword,
		DB:       cfg.Store.PGDB,
	}
}
