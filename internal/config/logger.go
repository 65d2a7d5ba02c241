package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLogLevel is used when neither flag nor config set a level.
const DefaultLogLevel = "warn"

// NewLogger builds a text logger writing to file, or to fallback when file is empty.
// The returned close func releases the log file and is always safe to call.
func NewLogger(level, file string, fallback io.Writer) (*logrus.Logger, func() error, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	closeFn := func() error { return nil }
	if file == "" {
		if fallback == nil {
			fallback = io.Discard
		}
		log.SetOutput(fallback)
		return log, closeFn, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return log, f.Close, nil
}
