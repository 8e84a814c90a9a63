package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// NewJSON builds the service logger: one JSON object per line.
func NewJSON(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = out
	log.Level = parseLevel(level, logrus.InfoLevel)
	return log
}

// NewText builds the CLI logger. It writes plain text without timestamps.
func NewText(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	log.Out = out
	log.Level = parseLevel(level, logrus.WarnLevel)
	return log
}

func parseLevel(s string, def logrus.Level) logrus.Level {
	if s == "" {
		return def
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return def
	}
	return lvl
}
