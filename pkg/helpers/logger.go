package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development gets coloured
// text with full timestamps; every other environment logs JSON.
// An unparsable level falls back to debug in development and info elsewhere.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(level)
	if env == "development" {
		if err != nil {
			lvl = logrus.DebugLevel
		}
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		if err != nil {
			lvl = logrus.InfoLevel
		}
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetLevel(lvl)
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()}).Info("logger initialized")
	return logger
}

// NewDiscardLogger returns a logger that drops everything, for tests and tools.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
