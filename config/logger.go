package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger. LOG_LEVEL wins; otherwise
// the level follows the environment.
func SetupLogger(cfg *Config) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	if cfg.LogLevel != "" {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
			return
		}
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, falling back to environment default")
	}

	switch cfg.Environment {
	case Development:
		log.SetLevel(log.DebugLevel)
	case Production:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
