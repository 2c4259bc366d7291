package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

type Database struct {
	Username string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string

	url string // DATABASE_URL, takes precedence over the fields above
}

func loadPassword(v *viper.Viper) (string, error) {
	if v.IsSet("postgres_password") {
		return v.GetString("postgres_password"), nil
	}

	passwordFile := v.GetString("postgres_pw_file")
	if passwordFile == "" {
		return "", fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

func newDatabase(v *viper.Viper) (*Database, error) {
	if dbURL := v.GetString("database_url"); dbURL != "" {
		return &Database{url: dbURL}, nil
	}

	username := v.GetString("postgres_user")
	if username == "" {
		return nil, fmt.Errorf("no DATABASE_URL set; no POSTGRES_USER env variable set")
	}

	password, err := loadPassword(v)
	if err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}

	host := v.GetString("postgres_host")
	if host == "" {
		return nil, fmt.Errorf("no POSTGRES_HOST env variable set")
	}

	port := v.GetUint16("postgres_port")
	if port == 0 {
		return nil, fmt.Errorf("POSTGRES_PORT must be a port number")
	}

	dbName := v.GetString("postgres_db")
	if dbName == "" {
		return nil, fmt.Errorf("no POSTGRES_DB env variable set")
	}

	config := &Database{
		Username: username,
		Password: password,
		Host:     host,
		Port:     port,
		DBName:   dbName,
		SSLMode:  v.GetString("postgres_sslmode"),
	}

	return config, nil
}

func (c Database) URL() string {
	if c.url != "" {
		return c.url
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c Database) PgxpoolConfig() (*pgxpool.Config, error) {
	return pgxpool.ParseConfig(c.URL())
}
