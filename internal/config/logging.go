package config

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the level and format to the standard logrus logger.
func ConfigureLogging(cfg Logging) error {
	return configureLogger(log.StandardLogger(), cfg)
}

func configureLogger(logger *log.Logger, cfg Logging) error {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", cfg.Format)
	}
	return nil
}
