// Package config reads the edusite runtime settings from the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// SessionStoreType selects where session payloads live.
type SessionStoreType string

const (
	SessionStoreCookie SessionStoreType = "cookie"
	SessionStoreRedis  SessionStoreType = "redis"
)

// Config is a snapshot of every setting the web server needs.
type Config struct {
	Listen string
	Port   int

	Database *DatabaseConfig

	SessionSecret string
	// SessionMaxAge is in minutes; 0 keeps the cookie for the browser session.
	SessionMaxAge int
	SessionStore  SessionStoreType

	// RedisAddr empty means an embedded redis is started.
	RedisAddr      string
	LoginRateLimit int

	// TrustedProxies may set X-Forwarded-For/X-Real-IP; empty trusts nobody.
	TrustedProxies []string

	MetricsEnable bool
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{
		Listen:         getEnv("EDU_LISTEN", ""),
		Port:           getEnvAsInt("EDU_PORT", 8080),
		Database:       GetDatabaseConfig(),
		SessionSecret:  os.Getenv("EDU_SESSION_SECRET"),
		SessionMaxAge:  getEnvAsInt("EDU_SESSION_MAX_AGE", 0),
		SessionStore:   SessionStoreType(strings.ToLower(getEnv("EDU_SESSION_STORE", string(SessionStoreCookie)))),
		RedisAddr:      os.Getenv("EDU_REDIS_ADDR"),
		LoginRateLimit: getEnvAsInt("EDU_LOGIN_RATE_LIMIT", 10),
		MetricsEnable:  os.Getenv("EDU_METRICS_ENABLE") == "true",
		TrustedProxies: getEnvAsList("EDU_TRUSTED_PROXIES"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.SessionStore {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store: %s", c.SessionStore)
	}
	if c.SessionMaxAge < 0 {
		return fmt.Errorf("session max age can not be negative")
	}
	return c.Database.ValidateConfig()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("EDU_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("EDU_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("EDU_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/edusite"
	}
	return dbFolderPath
}

func GetDBPath() string {
	if p := os.Getenv("EDU_DB_PATH"); p != "" {
		return p
	}
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("EDU_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
