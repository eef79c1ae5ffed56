// Package config loads server settings from an optional rollart.yaml, a
// .env file and ROLLART_* environment variables. Environment variables win
// over the file; command line flags are applied on top by the caller.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abrezinsky/rollart/internal/logger"
)

// EnvPrefix namespaces every environment variable
const EnvPrefix = "ROLLART"

// Setting keys. Nested keys map to ROLLART_AMQP_URL and the like.
const (
	KeyPort          = "port"
	KeyDBPath        = "db"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyPassword      = "password"
	KeyCatalog       = "catalog"
	KeyBaseURL       = "base_url"
	KeyLiveScoreURL  = "livescore_url"
	KeyAMQPURL       = "amqp.url"
	KeyAMQPQueue     = "amqp.queue"
	KeyRedisAddr     = "redis.addr"
	KeyRedisPassword = "redis.password"
	KeyRedisDB       = "redis.db"
	KeyRedisChannel  = "redis.channel"
	KeyRedisKey      = "redis.key"
	KeyEventBuffer   = "events.buffer"
	KeyEventTimeout  = "events.timeout"
)

// Config holds the server configuration
type Config struct {
	Port      int
	DBPath    string
	LogLevel  string
	LogFormat string
	// Password is the operator password. Empty means one is generated at startup.
	Password string
	// CatalogPath points at a YAML element catalog. Empty uses the built-in one.
	CatalogPath  string
	BaseURL      string
	LiveScoreURL string

	AMQPURL   string
	AMQPQueue string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	RedisKey      string

	EventBuffer  int
	EventTimeout time.Duration

	// File is the config file that was read, empty when none was found
	File string
}

// Options controls where configuration is read from
type Options struct {
	// ConfigFile is an explicit config file. Empty searches for rollart.yaml
	// in the working directory.
	ConfigFile string
	// EnvFiles are loaded into the environment before reading it. Missing
	// files are skipped.
	EnvFiles []string
}

// DefaultOptions reads ./rollart.yaml and ./.env when present
func DefaultOptions() Options {
	return Options{EnvFiles: []string{".env"}}
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyDBPath, "rollart.db")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logger.FormatText)
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyCatalog, "")
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyLiveScoreURL, "")
	v.SetDefault(KeyAMQPURL, "")
	v.SetDefault(KeyAMQPQueue, "rollart.scores")
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyRedisChannel, "rollart:scores")
	v.SetDefault(KeyRedisKey, "rollart:latest")
	v.SetDefault(KeyEventBuffer, 64)
	v.SetDefault(KeyEventTimeout, "5s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration
func Load(opts Options) (*Config, error) {
	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	v := New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("rollart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:          v.GetInt(KeyPort),
		DBPath:        v.GetString(KeyDBPath),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		Password:      v.GetString(KeyPassword),
		CatalogPath:   v.GetString(KeyCatalog),
		BaseURL:       strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		LiveScoreURL:  v.GetString(KeyLiveScoreURL),
		AMQPURL:       v.GetString(KeyAMQPURL),
		AMQPQueue:     v.GetString(KeyAMQPQueue),
		RedisAddr:     v.GetString(KeyRedisAddr),
		RedisPassword: v.GetString(KeyRedisPassword),
		RedisDB:       v.GetInt(KeyRedisDB),
		RedisChannel:  v.GetString(KeyRedisChannel),
		RedisKey:      v.GetString(KeyRedisKey),
		EventBuffer:   v.GetInt(KeyEventBuffer),
		EventTimeout:  v.GetDuration(KeyEventTimeout),
		File:          v.ConfigFileUsed(),
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: database path is required")
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("config: event buffer must be positive, got %d", c.EventBuffer)
	}
	if c.EventTimeout <= 0 {
		return fmt.Errorf("config: event timeout must be positive, got %s", c.EventTimeout)
	}
	if c.AMQPURL != "" && c.AMQPQueue == "" {
		return fmt.Errorf("config: amqp queue is required when amqp url is set")
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
