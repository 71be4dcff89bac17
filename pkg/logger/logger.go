// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init configures the global logger from LOG_LEVEL and LOG_FORMAT.
// Call it once from main before anything logs.
func Init() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	Configure(level, os.Getenv("LOG_FORMAT"))
	Log.SetOutput(os.Stderr)
}

// Configure sets the level and format. An unknown level falls back to info;
// format is "json" or anything else for text.
func Configure(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Silence discards all output. Tests use it to keep logs out of the way.
func Silence() {
	Log.SetOutput(io.Discard)
}
