package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type DatabaseType string

const (
	DatabaseTypeSQLite     DatabaseType = "sqlite"
	DatabaseTypePostgreSQL DatabaseType = "postgres"
)

// sqlite connection options appended to the file path
const sqliteParams = "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"

// DatabaseConfig selects the store; only the section matching Type is read.
type DatabaseConfig struct {
	Type     DatabaseType   `json:"type"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Postgres PostgresConfig `json:"postgres"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
	TimeZone string `json:"timeZone"`
}

// URL renders the settings as a postgres:// connection URL with escaped credentials.
func (p PostgresConfig) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.Database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	} else {
		u.User = url.User(p.Username)
	}
	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	if p.TimeZone != "" {
		q.Set("TimeZone", p.TimeZone)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (p PostgresConfig) validate() error {
	var errs []error
	for field, value := range map[string]string{
		"host":     p.Host,
		"database": p.Database,
		"username": p.Username,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("postgres %s is required", field))
		}
	}
	if p.Port < 1 || p.Port > 65535 {
		errs = append(errs, fmt.Errorf("postgres port %d out of range", p.Port))
	}
	return errors.Join(errs...)
}

// GetDSN returns the connection string handed to the gorm dialector.
func (c *DatabaseConfig) GetDSN() string {
	if c.IsPostgreSQL() {
		return c.Postgres.URL()
	}
	return c.SQLite.Path + sqliteParams
}

// GetDatabaseConfig overlays the EDU_DB_* variables on the defaults.
func GetDatabaseConfig() *DatabaseConfig {
	c := GetDefaultDatabaseConfig()
	c.Type = DatabaseType(strings.ToLower(getEnv("EDU_DB_TYPE", string(c.Type))))

	pg := &c.Postgres
	pg.Host = getEnv("EDU_DB_HOST", pg.Host)
	pg.Port = getEnvAsInt("EDU_DB_PORT", pg.Port)
	pg.Database = getEnv("EDU_DB_NAME", pg.Database)
	pg.Username = getEnv("EDU_DB_USER", pg.Username)
	pg.Password = os.Getenv("EDU_DB_PASSWORD")
	pg.SSLMode = getEnv("EDU_DB_SSLMODE", pg.SSLMode)
	return c
}

// GetDefaultDatabaseConfig is a sqlite file under the db folder; the postgres
// section points at a local server with database and user named after the app.
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: GetDBPath()},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: GetName(),
			Username: GetName(),
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
	}
}

func (c *DatabaseConfig) ValidateConfig() error {
	if c == nil {
		return errors.New("database configuration is missing")
	}
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite path is required")
		}
		return nil
	case DatabaseTypePostgreSQL:
		return c.Postgres.validate()
	}
	return fmt.Errorf("unsupported database type: %q", c.Type)
}

func (c *DatabaseConfig) IsPostgreSQL() bool { return c.Type == DatabaseTypePostgreSQL }

func (c *DatabaseConfig) IsSQLite() bool { return c.Type == DatabaseTypeSQLite }

// EnsureDirectoryExists creates the parent folder of the sqlite file.
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	if !c.IsSQLite() {
		return nil
	}
	return os.MkdirAll(filepath.Dir(c.SQLite.Path), 0o750)
}
