package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
// Values are layered: compiled defaults, then an optional TOML file,
// then environment variables.
type Config struct {
	AppName     string `toml:"app_name"`
	Environment string `toml:"environment"`

	Mongo    MongoConfig    `toml:"mongo"`
	Logger   LoggerConfig   `toml:"logger"`
	Reminder ReminderConfig `toml:"reminder"`
	Context  ContextConfig  `toml:"-"`
}

type MongoConfig struct {
	URI            string        `toml:"uri"`
	Host           string        `toml:"host"`
	Port           string        `toml:"port"`
	Database       string        `toml:"database"`
	Collection     string        `toml:"collection"`
	ConnectTimeout time.Duration `toml:"-"`
	MaxPoolSize    int           `toml:"max_pool_size"`
	MinPoolSize    int           `toml:"min_pool_size"`
}

type LoggerConfig struct {
	Level    string `toml:"level"`
	Encoding string `toml:"encoding"`
}

type ReminderConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

type ContextConfig struct {
	OpTimeout       time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the config file and environment
// variables (optionally .env) and applies sane defaults so the tool
// can run with no configuration at all.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := defaults()

	if path := configFilePath(); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = buildMongoURI(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		AppName:     "taskdeck",
		Environment: "development",
		Mongo: MongoConfig{
			Host:           "localhost",
			Port:           "27017",
			Database:       "task_management",
			Collection:     "tasks",
			ConnectTimeout: 5 * time.Second,
			MaxPoolSize:    10,
			MinPoolSize:    1,
		},
		Logger: LoggerConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Reminder: ReminderConfig{
			Enabled:         true,
			IntervalSeconds: 300,
		},
		Context: ContextConfig{
			OpTimeout:       10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
	}
}

// configFilePath returns the first config file that exists:
// $TASKDECK_CONFIG, ./taskdeck.toml, ~/.config/taskdeck/config.toml.
func configFilePath() string {
	if path := os.Getenv("TASKDECK_CONFIG"); path != "" {
		return path
	}
	candidates := []string{"taskdeck.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "taskdeck", "config.toml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	cfg.AppName = getString("APP_NAME", cfg.AppName)
	cfg.Environment = getString("APP_ENV", cfg.Environment)

	cfg.Mongo.URI = getString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.Host = getString("MONGO_HOST", cfg.Mongo.Host)
	cfg.Mongo.Port = getString("MONGO_PORT", cfg.Mongo.Port)
	cfg.Mongo.Database = getString("MONGO_DATABASE", cfg.Mongo.Database)
	cfg.Mongo.Collection = getString("MONGO_COLLECTION", cfg.Mongo.Collection)
	cfg.Mongo.ConnectTimeout = getDuration("MONGO_CONNECT_TIMEOUT", cfg.Mongo.ConnectTimeout)
	cfg.Mongo.MaxPoolSize = getInt("MONGO_MAX_POOL", cfg.Mongo.MaxPoolSize)
	cfg.Mongo.MinPoolSize = getInt("MONGO_MIN_POOL", cfg.Mongo.MinPoolSize)

	cfg.Logger.Level = getString("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Encoding = getString("LOG_ENCODING", cfg.Logger.Encoding)

	cfg.Reminder.Enabled = getBool("REMINDER_ENABLED", cfg.Reminder.Enabled)
	cfg.Reminder.IntervalSeconds = getInt("REMINDER_INTERVAL_SECONDS", cfg.Reminder.IntervalSeconds)

	cfg.Context.OpTimeout = getDuration("OP_TIMEOUT_SECONDS", cfg.Context.OpTimeout)
	cfg.Context.ShutdownTimeout = getDuration("SHUTDOWN_TIMEOUT_SECONDS", cfg.Context.ShutdownTimeout)
}

func buildMongoURI(cfg *Config) string {
	return fmt.Sprintf("mongodb://%s:%s", cfg.Mongo.Host, cfg.Mongo.Port)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
