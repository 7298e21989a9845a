// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers need not import logrus for field maps.
type Fields = logrus.Fields

// Config selects the level and an optional rotating log file.
type Config struct {
	Level string
	// Dir enables a rotating vision-games.log in that directory.
	Dir     string
	NoColor bool
	// Output replaces stderr, mostly for tests.
	Output io.Writer
}

// New creates a logger writing to stderr and, when Dir is set, to a
// rotating file.
func New(cfg Config) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:              cfg.NoColor,
		TimestampFormat:       "02 Jan 06 - 15:04:05",
		CallerFirst:           true,
		CustomCallerFormatter: callerFormat,
	})
	logger.SetReportCaller(true)

	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}
	writers := []io.Writer{out}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "vision-games.log"),
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func callerFormat(f *runtime.Frame) string {
	s := strings.Split(f.Function, ".")
	funcName := s[len(s)-1]
	return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
}
