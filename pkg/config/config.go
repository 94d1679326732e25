package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultEnvFile = "./configs/.env"

type Config struct {
	API           APIConfig           `yaml:"api"`
	Store         StoreConfig         `yaml:"store"`
	Weather       WeatherConfig       `yaml:"weather"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Remote        RemoteConfig        `yaml:"remote"`
	Log           LogConfig           `yaml:"log"`
}

type APIConfig struct {
	Address string `yaml:"address"`
}

type StoreConfig struct {
	// sqlite, postgres or memory
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	PGAddress  string `yaml:"pg_address"`
	PGUser     string `yaml:"pg_user"`
	PGPassword string `yaml:"pg_password"`
	PGDB       string `yaml:"pg_db"`

	// goose migrations applied when the postgres store opens; empty skips them
	PGMigrations string `yaml:"pg_migrations"`
}

type WeatherConfig struct {
	APIKey   string        `yaml:"api_key"`
	City     string        `yaml:"city"`
	BaseURL  string        `yaml:"base_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Refresh  time.Duration `yaml:"refresh"`
}

type NotificationsConfig struct {
	// default, granted or denied
	Permission string `yaml:"permission"`
	AutoGrant  bool   `yaml:"auto_grant"`
}

type RemoteConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func Default() *Config {
	return &Config{
		API:   APIConfig{Address: "127.0.0.1:8080"},
		Store: StoreConfig{Driver: "sqlite", PGMigrations: "migrations"},
		Weather: WeatherConfig{
			City:     "Chennai",
			BaseURL:  "https://api.openweathermap.org",
			CacheTTL: time.Hour,
			Refresh:  time.Hour,
		},
		Notifications: NotificationsConfig{Permission: "default", AutoGrant: true},
		Remote:        RemoteConfig{BaseURL: "http://localhost:5000/api"},
		Log:           LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
	}
}

// Load builds the config from defaults, the .env file, an optional YAML
// file and finally the process environment. Missing files are not errors.
func Load(yamlFile string) *Config {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("loading envs error", slog.String("error", err.Error()))
	}
	c := Default()
	if yamlFile == "" {
		yamlFile = os.Getenv("HYDRO_CONFIG")
	}
	if yamlFile != "" {
		data, err := os.ReadFile(yamlFile)
		switch {
		case err != nil:
			slog.Warn("reading config file error", slog.String("file", yamlFile), slog.String("error", err.Error()))
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				slog.Warn("parsing config file error", slog.String("file", yamlFile), slog.String("error", err.Error()))
			}
		}
	}

	envOverride(&c.API.Address, "API_ADDRESS")
	envOverride(&c.Store.Driver, "STORE_DRIVER")
	envOverride(&c.Store.SQLitePath, "SQLITE_PATH")
	envOverride(&c.Store.PGAddress, "POSTGRES_DB_ADDRESS")
	envOverride(&c.Store.PGUser, "POSTGRES_USER")
	envOverride(&c.Store.PGPassword, "POSTGRES_PASSWORD")
	envOverride(&c.Store.PGDB, "POSTGRES_DB")
	envOverride(&c.Store.PGMigrations, "POSTGRES_MIGRATIONS")
	envOverride(&c.Weather.APIKey, "WEATHER_API_KEY")
	envOverride(&c.Weather.City, "WEATHER_CITY")
	envOverride(&c.Weather.BaseURL, "WEATHER_BASE_URL")
	envOverride(&c.Notifications.Permission, "NOTIFICATIONS_PERMISSION")
	envOverrideBool(&c.Notifications.AutoGrant, "NOTIFICATIONS_AUTO_GRANT")
	envOverride(&c.Remote.BaseURL, "REMOTE_API_URL")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	return c
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
