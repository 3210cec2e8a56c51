package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_NAME", "APP_ENV",
	"MONGO_URI", "MONGO_HOST", "MONGO_PORT", "MONGO_DATABASE", "MONGO_COLLECTION",
	"MONGO_CONNECT_TIMEOUT", "MONGO_MAX_POOL", "MONGO_MIN_POOL",
	"LOG_LEVEL", "LOG_ENCODING",
	"REMINDER_ENABLED", "REMINDER_INTERVAL_SECONDS",
	"OP_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS",
}

// isolate pins the config file to a throwaway TOML body and blanks every
// environment variable Load consults, so results do not depend on the host.
func isolate(t *testing.T, body string) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "taskdeck.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("TASKDECK_CONFIG", path)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "taskdeck" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "taskdeck")
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "development")
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Mongo.URI = %q, want %q", cfg.Mongo.URI, "mongodb://localhost:27017")
	}
	if cfg.Mongo.Database != "task_management" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "task_management")
	}
	if cfg.Mongo.Collection != "tasks" {
		t.Errorf("Mongo.Collection = %q, want %q", cfg.Mongo.Collection, "tasks")
	}
	if cfg.Logger.Level != "warn" || cfg.Logger.Encoding != "console" {
		t.Errorf("Logger = %+v, want level warn, encoding console", cfg.Logger)
	}
	if !cfg.Reminder.Enabled || cfg.Reminder.IntervalSeconds != 300 {
		t.Errorf("Reminder = %+v, want enabled with a 300s interval", cfg.Reminder)
	}
	if cfg.Context.OpTimeout != 10*time.Second {
		t.Errorf("Context.OpTimeout = %v, want %v", cfg.Context.OpTimeout, 10*time.Second)
	}
	if cfg.Context.ShutdownTimeout != 15*time.Second {
		t.Errorf("Context.ShutdownTimeout = %v, want %v", cfg.Context.ShutdownTimeout, 15*time.Second)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	isolate(t, `
app_name = "deskcheck"
environment = "production"

[mongo]
host = "db.internal"
port = "27018"
database = "tasks_prod"
max_pool_size = 25

[logger]
level = "debug"

[reminder]
enabled = false
interval_seconds = 60
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "deskcheck" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "deskcheck")
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "production")
	}
	if cfg.Mongo.URI != "mongodb://db.internal:27018" {
		t.Errorf("Mongo.URI = %q, want %q", cfg.Mongo.URI, "mongodb://db.internal:27018")
	}
	if cfg.Mongo.Database != "tasks_prod" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "tasks_prod")
	}
	if cfg.Mongo.MaxPoolSize != 25 {
		t.Errorf("Mongo.MaxPoolSize = %d, want 25", cfg.Mongo.MaxPoolSize)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.Mongo.Collection != "tasks" {
		t.Errorf("Mongo.Collection = %q, want %q", cfg.Mongo.Collection, "tasks")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "debug")
	}
	if cfg.Logger.Encoding != "console" {
		t.Errorf("Logger.Encoding = %q, want %q", cfg.Logger.Encoding, "console")
	}
	if cfg.Reminder.Enabled {
		t.Error("Reminder.Enabled = true, want false")
	}
	if cfg.Reminder.IntervalSeconds != 60 {
		t.Errorf("Reminder.IntervalSeconds = %d, want 60", cfg.Reminder.IntervalSeconds)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	isolate(t, `
environment = "production"

[mongo]
host = "from-file"

[logger]
level = "debug"
`)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("MONGO_HOST", "from-env")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "staging")
	}
	if cfg.Mongo.Host != "from-env" {
		t.Errorf("Mongo.Host = %q, want %q", cfg.Mongo.Host, "from-env")
	}
	if cfg.Mongo.URI != "mongodb://from-env:27017" {
		t.Errorf("Mongo.URI = %q, want %q", cfg.Mongo.URI, "mongodb://from-env:27017")
	}
	if cfg.Logger.Level != "error" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "error")
	}
}

func TestExplicitMongoURIWins(t *testing.T) {
	isolate(t, `
[mongo]
uri = "mongodb://file-host:40000"
host = "ignored"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mongo.URI != "mongodb://file-host:40000" {
		t.Errorf("Mongo.URI = %q, want the file value", cfg.Mongo.URI)
	}

	t.Setenv("MONGO_URI", "mongodb://env-host:50000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mongo.URI != "mongodb://env-host:50000" {
		t.Errorf("Mongo.URI = %q, want the env value", cfg.Mongo.URI)
	}
}

func TestDurationEnvAcceptsSecondsAndDurations(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"bare seconds", "45", 45 * time.Second},
		{"duration string", "2m30s", 150 * time.Second},
		{"unparsable keeps default", "soon", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, "")
			t.Setenv("OP_TIMEOUT_SECONDS", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Context.OpTimeout != tt.want {
				t.Errorf("Context.OpTimeout = %v, want %v", cfg.Context.OpTimeout, tt.want)
			}
		})
	}
}

func TestMalformedEnvValuesKeepDefaults(t *testing.T) {
	isolate(t, "")
	t.Setenv("REMINDER_INTERVAL_SECONDS", "soon")
	t.Setenv("REMINDER_ENABLED", "sometimes")
	t.Setenv("MONGO_MAX_POOL", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Reminder.IntervalSeconds != 300 {
		t.Errorf("Reminder.IntervalSeconds = %d, want 300", cfg.Reminder.IntervalSeconds)
	}
	if !cfg.Reminder.Enabled {
		t.Error("Reminder.Enabled = false, want true")
	}
	if cfg.Mongo.MaxPoolSize != 10 {
		t.Errorf("Mongo.MaxPoolSize = %d, want 10", cfg.Mongo.MaxPoolSize)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	isolate(t, "app_name = [not toml")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded with a malformed config file")
	}
}

func TestConfigFilePathPrefersExplicitEnv(t *testing.T) {
	t.Setenv("TASKDECK_CONFIG", "/tmp/per-env.toml")

	if got := configFilePath(); got != "/tmp/per-env.toml" {
		t.Errorf("configFilePath() = %q, want %q", got, "/tmp/per-env.toml")
	}
}
