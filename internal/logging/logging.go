package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"tikagate/internal/config"
)

// Setup builds the process logger from config. Unknown levels fall back to
// info rather than failing startup.
func Setup(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
