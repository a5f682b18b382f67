package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Evolution EvolutionConfig
	Inbox     InboxConfig
	Pool      PoolConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	CorsAllowedOrigins []string
	Timezone           string
}

type PathsConfig struct {
	Storages string
	Media    string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // file path for SQLite, database name for Postgres
}

// EvolutionConfig points at the external WhatsApp gateway instance.
type EvolutionConfig struct {
	BaseURL   string
	APIKey    string
	Instance  string
	SocketURL string // derived from BaseURL when empty
}

// InboxConfig carries the reconciliation tunables. The windows are heuristic
// clock-skew compensations, kept configurable on purpose.
type InboxConfig struct {
	PollInterval      time.Duration
	FetchThrottle     time.Duration
	ReorderWindow     time.Duration
	AgentDedupWindow  time.Duration
	UserDedupWindow   time.Duration
	MessageFetchLimit int
	BackoffBase       time.Duration
	BackoffCeiling    time.Duration
	MaxReconnects     int
}

type PoolConfig struct {
	Size      int
	QueueSize int
}

// Global provides access to the loaded configuration (wiring helper; the
// services themselves receive it by injection).
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	debug := false
	if v := getEnv("APP_DEBUG", ""); v == "true" || v == "1" || v == "on" {
		debug = true
	}

	var basicAuth []string
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := getEnv("APP_CORS_ALLOWED_ORIGINS", ""); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.4.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		CorsAllowedOrigins: corsOrigins,
		Timezone:           getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		Storages: getEnv("PATH_STORAGES", "storages"),
		Media:    getEnv("PATH_MEDIA", filepath.Join("statics", "media")),
	}

	dbCfg := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "sqlite"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "console.db")),
	}

	evoCfg := EvolutionConfig{
		BaseURL:   getEnv("EVOLUTION_BASE_URL", "http://localhost:8080"),
		APIKey:    getEnv("EVOLUTION_API_KEY", ""),
		Instance:  getEnv("EVOLUTION_INSTANCE", "default"),
		SocketURL: getEnv("EVOLUTION_SOCKET_URL", ""),
	}

	inboxCfg := InboxConfig{
		PollInterval:      getEnvDuration("INBOX_POLL_INTERVAL", 5*time.Second),
		FetchThrottle:     getEnvDuration("INBOX_FETCH_THROTTLE", 5*time.Second),
		ReorderWindow:     getEnvDuration("INBOX_REORDER_WINDOW", 10*time.Second),
		AgentDedupWindow:  getEnvDuration("INBOX_AGENT_DEDUP_WINDOW", 30*time.Second),
		UserDedupWindow:   getEnvDuration("INBOX_USER_DEDUP_WINDOW", 10*time.Second),
		MessageFetchLimit: getEnvInt("INBOX_MESSAGE_FETCH_LIMIT", 50),
		BackoffBase:       getEnvDuration("SOCKET_BACKOFF_BASE", 2*time.Second),
		BackoffCeiling:    getEnvDuration("SOCKET_BACKOFF_CEILING", 30*time.Second),
		MaxReconnects:     getEnvInt("SOCKET_MAX_RECONNECTS", 10),
	}

	cfg := &Config{
		App:       appCfg,
		Paths:     pathsCfg,
		Database:  dbCfg,
		Evolution: evoCfg,
		Inbox:     inboxCfg,
		Pool: PoolConfig{
			Size:      getEnvInt("EVENT_WORKER_POOL_SIZE", 8),
			QueueSize: getEnvInt("EVENT_WORKER_QUEUE_SIZE", 256),
		},
	}

	Global = cfg
	return cfg, nil
}
