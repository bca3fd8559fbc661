package config

import (
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Paths
		Watch
		Audit
		Global
		Database
		Tasks
		Logging
	}

	HTTP struct {
		Port int32
		Host string
	}
	Paths struct {
		DataDir   string // Input archives
		OutputDir string // Transcripts and bundles
	}
	Watch struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
		Sources  string // Comma-separated: chat,sms,bundle
	}
	Audit struct {
		Dir           string // JSON run reports, disabled when empty
		RetentionDays int    // Days to keep ledger rows (default: 30)
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled         bool
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Logging struct {
		Level  string // logrus level name
		Format string // text or json
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func NewConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}
	return newConfig(viper.New())
}

// NewConfigFromFile is like NewConfig but loads the given env files.
func NewConfigFromFile(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		return nil, err
	}
	return newConfig(viper.New()), nil
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Watch defaults
	v.SetDefault("watch_enabled", false)
	v.SetDefault("watch_schedule", DefaultWatchSchedule)
	v.SetDefault("watch_sources", DefaultWatchSources)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Paths: Paths{
			DataDir:   v.GetString("DATA_DIR"),
			OutputDir: v.GetString("OUTPUT_DIR"),
		},
		Watch: Watch{
			Enabled:  v.GetBool("WATCH_ENABLED"),
			Schedule: v.GetString("WATCH_SCHEDULE"),
			Sources:  v.GetString("WATCH_SOURCES"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
