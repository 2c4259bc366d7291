package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

type Log struct {
	Level      string
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

type Config struct {
	Addr         string
	BasePath     string
	Development  bool
	Store        string
	SQLitePath   string
	Migrate      bool
	CorsOrigins  []string
	TurnRetries  int
	StoreTimeout time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Log          Log
	Database     *Database
}

// env lists the environment variable bound to each key.
var env = map[string]string{
	"addr":              "APP_ADDR",
	"base_path":         "APP_BASE_PATH",
	"development":       "DEVELOPMENT",
	"store":             "STORE",
	"sqlite_path":       "SQLITE_PATH",
	"migrate":           "MIGRATE_ON_START",
	"cors_origins":      "CORS_ORIGINS",
	"turn_retries":      "TURN_RETRIES",
	"store_timeout":     "STORE_TIMEOUT",
	"read_timeout":      "HTTP_READ_TIMEOUT",
	"write_timeout":     "HTTP_WRITE_TIMEOUT",
	"idle_timeout":      "HTTP_IDLE_TIMEOUT",
	"log_level":         "LOG_LEVEL",
	"log_file":          "LOG_FILE",
	"log_max_size":      "LOG_MAX_SIZE",
	"log_max_backups":   "LOG_MAX_BACKUPS",
	"log_max_age":       "LOG_MAX_AGE",
	"database_url":      "DATABASE_URL",
	"postgres_user":     "POSTGRES_USER",
	"postgres_password": "POSTGRES_PASSWORD",
	"postgres_pw_file":  "POSTGRES_PASSWORD_FILE",
	"postgres_host":     "POSTGRES_HOST",
	"postgres_port":     "POSTGRES_PORT",
	"postgres_db":       "POSTGRES_DB",
	"postgres_sslmode":  "POSTGRES_SSLMODE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")
	v.SetDefault("development", false)
	v.SetDefault("store", StoreMemory)
	v.SetDefault("sqlite_path", "minesweeper.db")
	v.SetDefault("migrate", false)
	v.SetDefault("turn_retries", 5)
	v.SetDefault("store_timeout", 5*time.Second)
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 15*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("log_max_size", 50)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age", 28)
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_sslmode", "disable")
}

// Flags registers the command line overrides understood by [Load].
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "config file path (json, yaml or toml)")
	fs.String("addr", "", "address to listen on")
	fs.String("store", "", "game store: postgres, sqlite or memory")
	fs.Bool("migrate", false, "apply database migrations on start")
	fs.Bool("development", false, "development mode (verbose, colored logs)")
}

// Load reads configuration from, in order of precedence, flags, environment,
// the config file named by the "config" flag, and defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		for _, name := range []string{"addr", "store", "migrate", "development"} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, err
				}
			}
		}
		if path, err := fs.GetString("config"); err == nil && path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("unable to read config %s: %w", path, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	c := &Config{
		Addr:         v.GetString("addr"),
		BasePath:     strings.TrimSuffix(v.GetString("base_path"), "/"),
		Development:  v.GetBool("development"),
		Store:        strings.ToLower(v.GetString("store")),
		SQLitePath:   v.GetString("sqlite_path"),
		Migrate:      v.GetBool("migrate"),
		CorsOrigins:  splitList(v.GetString("cors_origins")),
		TurnRetries:  v.GetInt("turn_retries"),
		StoreTimeout: v.GetDuration("store_timeout"),
		ReadTimeout:  v.GetDuration("read_timeout"),
		WriteTimeout: v.GetDuration("write_timeout"),
		IdleTimeout:  v.GetDuration("idle_timeout"),
		Log: Log{
			Level:      v.GetString("log_level"),
			File:       v.GetString("log_file"),
			MaxSize:    v.GetInt("log_max_size"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAge:     v.GetInt("log_max_age"),
		},
	}

	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		db, err := newDatabase(v)
		if err != nil {
			return nil, err
		}
		c.Database = db
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}

	if c.TurnRetries < 0 {
		return nil, fmt.Errorf("turn_retries must not be negative")
	}

	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Fields returns the settings worth logging at startup. Secrets are left out.
func (c Config) Fields() map[string]any {
	fields := map[string]any{
		"addr":          c.Addr,
		"base_path":     c.BasePath,
		"development":   c.Development,
		"store":         c.Store,
		"migrate":       c.Migrate,
		"turn_retries":  c.TurnRetries,
		"store_timeout": c.StoreTimeout.String(),
		"log_level":     c.Log.Level,
		"log_file":      c.Log.File,
	}
	if c.Store == StoreSQLite {
		fields["sqlite_path"] = c.SQLitePath
	}
	if c.Database != nil {
		fields["pg_host"] = c.Database.Host
		fields["pg_port"] = c.Database.Port
		fields["pg_db_name"] = c.Database.DBName
	}
	return fields
}
