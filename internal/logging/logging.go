package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the logger of a component
func NewLogger(group string) *logrus.Entry {
	return logrus.WithField("group", group)
}

// Level computes the effective level: each verbose flag raises base by one,
// up to trace.
func Level(base string, verbose int) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(base)
	if err != nil {
		return logrus.WarnLevel, err
	}
	lvl += logrus.Level(verbose)
	if lvl > logrus.TraceLevel {
		lvl = logrus.TraceLevel
	}
	return lvl, nil
}

// Setup configures the standard logrus logger. An empty file logs to stderr.
// The returned closer releases the log file.
func Setup(lvl logrus.Level, file string) (io.Closer, error) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	if len(file) == 0 {
		logrus.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	logrus.SetOutput(f)
	return f, nil
}
