package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/games"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers/sheets"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	envPrefix         = "DASH"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// SheetsConfig holds Google Sheets access configuration
type SheetsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// Mode is demo when APIKey is empty or the sample placeholder
	Mode sheets.Mode
}

// RetryConfig controls retries of failed fetches
type RetryConfig struct {
	Attempts     int
	InitialDelay time.Duration
}

// RedisConfig holds Redis connection configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL      string
	Password string
	TTL      time.Duration
}

// Config holds all application configuration
type Config struct {
	Server          ServerConfig
	Sheets          SheetsConfig
	Retry           RetryConfig
	RefreshInterval time.Duration
	Redis           RedisConfig

	// RefreshPerMinute caps manual refreshes when Redis is enabled
	RefreshPerMinute int

	// PostgresDSN enables the postgres row source when set
	PostgresDSN string

	// LoadLog records every load attempt in postgres when a DSN is set
	LoadLog bool

	// Sources overrides the built-in source of a game, by game id
	Sources map[string]models.SourceLocator

	// Slots lists the games the page has room for
	Slots []string

	LogLevel slog.Level
}

// Load reads config.yaml from . or config/ (optional) and DASH_* environment variables
func Load() (Config, error) {
	v := newViper()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	// Config file is optional; env-only is fine
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return build(v)
}

// LoadFile reads configuration from an explicit file plus the environment
func LoadFile(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com")
	v.SetDefault("sheets.timeout", 15*time.Second)

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.initial_delay", 500*time.Millisecond)

	v.SetDefault("refresh.interval", 5*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("ratelimit.refresh_per_minute", 30)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.load_log", true)
	v.SetDefault("dashboard.slots", games.IDs())
	v.SetDefault("log.level", "info")

	return v
}

func build(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:            strings.TrimSpace(v.GetString("server.addr")),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Sheets: SheetsConfig{
			APIKey:  strings.TrimSpace(v.GetString("sheets.api_key")),
			BaseURL: strings.TrimRight(v.GetString("sheets.base_url"), "/"),
			Timeout: v.GetDuration("sheets.timeout"),
		},
		Retry: RetryConfig{
			Attempts:     v.GetInt("retry.attempts"),
			InitialDelay: v.GetDuration("retry.initial_delay"),
		},
		RefreshInterval: v.GetDuration("refresh.interval"),
		Redis: RedisConfig{
			URL:      strings.TrimSpace(v.GetString("redis.url")),
			Password: v.GetString("redis.password"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		RefreshPerMinute: v.GetInt("ratelimit.refresh_per_minute"),
		PostgresDSN:      strings.TrimSpace(v.GetString("postgres.dsn")),
		LoadLog:          v.GetBool("postgres.load_log"),
		Slots:            v.GetStringSlice("dashboard.slots"),
	}

	cfg.Sheets.Mode = sheets.ResolveMode(cfg.Sheets.APIKey)

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("invalid log.level %q", v.GetString("log.level"))
	}

	sources, err := loadSources(v)
	if err != nil {
		return Config{}, err
	}
	cfg.Sources = sources

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadSources reads games.<id>.source overrides
func loadSources(v *viper.Viper) (map[string]models.SourceLocator, error) {
	sources := make(map[string]models.SourceLocator)
	for id := range v.GetStringMap("games") {
		var loc models.SourceLocator
		if err := v.UnmarshalKey("games."+id+".source", &loc); err != nil {
			return nil, fmt.Errorf("games.%s.source: %w", id, err)
		}
		if loc.Kind == "" {
			loc.Kind = models.SourceSheets
		}
		if loc.Kind == models.SourceSheets && loc.Range == "" {
			loc.Range = "Sheet1"
		}
		sources[id] = loc
	}
	return sources, nil
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Sheets.Timeout <= 0 {
		return fmt.Errorf("invalid sheets.timeout %v", c.Sheets.Timeout)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("invalid retry.attempts %d", c.Retry.Attempts)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("invalid refresh.interval %v", c.RefreshInterval)
	}
	if c.RefreshPerMinute < 1 {
		return fmt.Errorf("invalid ratelimit.refresh_per_minute %d", c.RefreshPerMinute)
	}

	known := make(map[string]bool)
	for _, id := range games.IDs() {
		known[id] = true
	}

	for id, loc := range c.Sources {
		if !known[id] {
			return fmt.Errorf("games.%s: unknown game", id)
		}
		switch loc.Kind {
		case models.SourceSheets:
		case models.SourcePostgres:
			if c.PostgresDSN == "" {
				return fmt.Errorf("games.%s: postgres source requires postgres.dsn", id)
			}
		default:
			return fmt.Errorf("games.%s: unknown source kind %q", id, loc.Kind)
		}
		if loc.TableID == "" {
			return fmt.Errorf("games.%s.source.table_id must not be empty", id)
		}
	}

	for _, id := range c.Slots {
		if !known[id] {
			return fmt.Errorf("dashboard.slots: unknown game %s", id)
		}
	}
	return nil
}

// LoadLogEnabled reports whether load attempts are written to postgres
func (c Config) LoadLogEnabled() bool {
	return c.PostgresDSN != "" && c.LoadLog
}

// RedisEnabled reports whether a Redis URL is configured
func (c Config) RedisEnabled() bool {
	return c.Redis.URL != ""
}

// RedisOptions accepts either a redis:// URL or a host:port address
func (c Config) RedisOptions() (*redis.Options, error) {
	if strings.Contains(c.Redis.URL, "://") {
		opts, err := redis.ParseURL(c.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis.url: %w", err)
		}
		if c.Redis.Password != "" {
			opts.Password = c.Redis.Password
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     c.Redis.URL,
		Password: c.Redis.Password,
	}, nil
}
