package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger returns a logger writing human-readable output to stderr.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// FileLogger returns a logger that duplicates output to stderr and the given
// log file. The caller owns the returned file handle.
func FileLogger(level logrus.Level, logPath string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	logger.SetFormatter(&logrus.JSONFormatter{})
	return f, logger, nil
}
