package config

import (
	"os" // Log output

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// ConfigureLogger sets up the standard logrus logger: JSON in production,
// full-timestamp text otherwise. Unknown levels fall back to info.
func (c *Config) ConfigureLogger() {
	logrus.SetOutput(os.Stdout)
	if c.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
