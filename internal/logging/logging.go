package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"launchkeep/internal/config"
)

// Leveled is the small structured surface components log through
type Leveled interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NewWithOutput creates a logger writing to out, and also to a rotating file
// when cfg.Logging.File is set. A nil cfg logs to out only.
func NewWithOutput(out io.Writer, cfg *config.Config) *log.Logger {
	flags := log.LstdFlags | log.Lmicroseconds
	if cfg == nil || cfg.Logging.File == "" {
		return log.New(out, "", flags)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
		log.Printf("failed to ensure log directory for %s: %v", cfg.Logging.File, err)
		return log.New(out, "", flags)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.RotationDays,
	}

	mw := io.MultiWriter(out, rotator)
	return log.New(mw, "", flags)
}

// Wrap adapts a *log.Logger to the Leveled interface. A nil logger falls back
// to log.Default().
func Wrap(logger *log.Logger) Leveled {
	if logger == nil {
		logger = log.Default()
	}
	return &stdLogger{Logger: logger}
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stdLogger struct {
	*log.Logger
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *stdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *stdLogger) logWithLevel(level, msg string, args ...interface{}) {
	parts := []interface{}{fmt.Sprintf("[%s]", level), msg}
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			parts = append(parts, fmt.Sprintf("%v=%v", args[i], args[i+1]))
		} else {
			parts = append(parts, args[i])
		}
	}
	l.Logger.Println(parts...)
}
