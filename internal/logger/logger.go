package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a JSON logger tagged with the service name.
// level falls back to LOG_LEVEL and then to info.
func New(service, level string) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	entry := log.WithField("service", service)
	parsed := logrus.InfoLevel
	if level != "" {
		l, err := logrus.ParseLevel(level)
		if err != nil {
			entry.WithField("level", level).Warn("unknown log level, using info")
		} else {
			parsed = l
		}
	}
	log.SetLevel(parsed)

	return entry
}

// Discard returns a logger that drops everything (tests, tooling).
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
